package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"farmpos/internal/domain"
	"farmpos/internal/pricing"
	"farmpos/internal/service/catalog"
	"github.com/gin-gonic/gin"
)

type productResponse struct {
	ID                   string           `json:"id"`
	Name                 string           `json:"name"`
	PriceCents           int64            `json:"priceCents"`
	DiscountedPriceCents int64            `json:"discountedPriceCents"`
	SavingsPerUnitCents  int64            `json:"savingsPerUnitCents"`
	Stock                int              `json:"stock"`
	Variants             []domain.Variant `json:"variants,omitempty"`
	Discount             *domain.Discount `json:"discount,omitempty"`
}

func toProductResponse(p catalog.ProductWithDiscount) productResponse {
	return productResponse{
		ID:                   p.Product.ID,
		Name:                 p.Product.Name,
		PriceCents:           p.Product.PriceCents,
		DiscountedPriceCents: pricing.DiscountedUnitPrice(p.Product.PriceCents, p.Discount),
		SavingsPerUnitCents:  pricing.SavingsPerUnit(p.Product.PriceCents, p.Discount),
		Stock:                p.Product.Stock,
		Variants:             p.Product.Variants,
		Discount:             p.Discount,
	}
}

func listProductsHandler(catalogSvc catalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := catalogSvc.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, errorBody("catalog_unavailable", "could not list products"))
			return
		}
		out := make([]productResponse, 0, len(products))
		for _, p := range products {
			out = append(out, toProductResponse(p))
		}
		c.JSON(http.StatusOK, gin.H{"products": out, "count": len(out)})
	}
}

func getProductHandler(catalogSvc catalogService, viewedSvc viewedService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := catalogSvc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, errorBody("product_not_found", "no such product"))
				return
			}
			c.JSON(http.StatusInternalServerError, errorBody("catalog_unavailable", "could not load product"))
			return
		}

		// Viewing from a terminal feeds its recently-viewed list; a
		// failure there never blocks the product read.
		if tid := strings.TrimSpace(c.GetHeader(headerTerminalID)); tid != "" {
			_ = viewedSvc.Mark(c.Request.Context(), tid, p.Product)
		}

		c.JSON(http.StatusOK, toProductResponse(*p))
	}
}

func recentlyViewedHandler(viewedSvc viewedService) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := viewedSvc.Recent(c.Request.Context(), terminalID(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, errorBody("viewed_unavailable", "could not load recently viewed"))
			return
		}
		if products == nil {
			products = []domain.Product{}
		}
		c.JSON(http.StatusOK, gin.H{"products": products})
	}
}
