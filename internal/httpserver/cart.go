package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"farmpos/internal/domain"
	"farmpos/internal/pricing"
	"github.com/gin-gonic/gin"
)

type cartLineResponse struct {
	ProductID            string  `json:"productId"`
	VariantID            *string `json:"variantId,omitempty"`
	ProductName          string  `json:"productName"`
	Quantity             int     `json:"quantity"`
	UnitPriceCents       int64   `json:"unitPriceCents"`
	DiscountedPriceCents int64   `json:"discountedPriceCents"`
	LineTotalCents       int64   `json:"lineTotalCents"`
}

type cartResponse struct {
	Lines  []cartLineResponse `json:"lines"`
	Totals pricing.Totals     `json:"totals"`
}

func toCartResponse(lines []domain.LineItem, totals pricing.Totals) cartResponse {
	out := cartResponse{Lines: make([]cartLineResponse, 0, len(lines)), Totals: totals}
	for _, line := range lines {
		discounted := pricing.DiscountedUnitPrice(line.Product.PriceCents, line.Discount)
		out.Lines = append(out.Lines, cartLineResponse{
			ProductID:            line.ProductID,
			VariantID:            line.VariantID,
			ProductName:          line.Product.Name,
			Quantity:             line.Quantity,
			UnitPriceCents:       line.Product.PriceCents,
			DiscountedPriceCents: discounted,
			LineTotalCents:       discounted * int64(line.Quantity),
		})
	}
	return out
}

func getCartHandler(cartSvc cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		lines, err := cartSvc.Lines(c.Request.Context(), terminalID(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, errorBody("cart_unavailable", "could not load cart"))
			return
		}
		c.JSON(http.StatusOK, toCartResponse(lines, pricing.ComputeTotals(lines)))
	}
}

type addItemRequest struct {
	ProductID string  `json:"productId" binding:"required"`
	VariantID *string `json:"variantId"`
	Quantity  int     `json:"quantity" binding:"required,min=1"`
}

func addCartItemHandler(cartSvc cartService, catalogSvc catalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errorBody("invalid_request", err.Error()))
			return
		}

		// The snapshot stored on the line is taken here: product and
		// active discount as of the moment the item entered the cart.
		p, err := catalogSvc.Get(c.Request.Context(), req.ProductID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, errorBody("product_not_found", "no such product"))
				return
			}
			c.JSON(http.StatusInternalServerError, errorBody("catalog_unavailable", "could not load product"))
			return
		}

		err = cartSvc.Add(c.Request.Context(), terminalID(c), p.Product, req.VariantID, req.Quantity, p.Discount)
		if err != nil {
			if errors.Is(err, domain.ErrInsufficientStock) {
				c.JSON(http.StatusConflict, errorBody("insufficient_stock", "not enough stock for requested quantity"))
				return
			}
			c.JSON(http.StatusBadRequest, errorBody("invalid_request", err.Error()))
			return
		}

		respondWithCart(c, cartSvc)
	}
}

type updateItemRequest struct {
	ProductID string  `json:"productId" binding:"required"`
	VariantID *string `json:"variantId"`
	// Exactly one of Delta and Quantity must be set: Delta shifts the
	// current quantity, Quantity sets it outright.
	Delta    *int `json:"delta"`
	Quantity *int `json:"quantity"`
}

func updateCartItemHandler(cartSvc cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errorBody("invalid_request", err.Error()))
			return
		}
		if (req.Delta == nil) == (req.Quantity == nil) {
			c.JSON(http.StatusBadRequest, errorBody("invalid_request", "provide exactly one of delta or quantity"))
			return
		}

		var err error
		if req.Delta != nil {
			err = cartSvc.UpdateQuantity(c.Request.Context(), terminalID(c), req.ProductID, req.VariantID, *req.Delta)
		} else {
			err = cartSvc.SetQuantity(c.Request.Context(), terminalID(c), req.ProductID, req.VariantID, *req.Quantity)
		}
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, errorBody("line_not_found", "no such cart line"))
				return
			}
			c.JSON(http.StatusBadRequest, errorBody("invalid_request", err.Error()))
			return
		}

		respondWithCart(c, cartSvc)
	}
}

func removeCartItemHandler(cartSvc cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID := strings.TrimSpace(c.Query("productId"))
		if productID == "" {
			c.JSON(http.StatusBadRequest, errorBody("invalid_request", "productId query parameter required"))
			return
		}
		var variantID *string
		if v := strings.TrimSpace(c.Query("variantId")); v != "" {
			variantID = &v
		}

		if err := cartSvc.Remove(c.Request.Context(), terminalID(c), productID, variantID); err != nil {
			c.JSON(http.StatusInternalServerError, errorBody("cart_unavailable", "could not update cart"))
			return
		}
		respondWithCart(c, cartSvc)
	}
}

func clearCartHandler(cartSvc cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := cartSvc.Clear(c.Request.Context(), terminalID(c)); err != nil {
			c.JSON(http.StatusInternalServerError, errorBody("cart_unavailable", "could not clear cart"))
			return
		}
		respondWithCart(c, cartSvc)
	}
}

func respondWithCart(c *gin.Context, cartSvc cartService) {
	lines, err := cartSvc.Lines(c.Request.Context(), terminalID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorBody("cart_unavailable", "could not load cart"))
		return
	}
	c.JSON(http.StatusOK, toCartResponse(lines, pricing.ComputeTotals(lines)))
}
