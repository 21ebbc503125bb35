package httpserver

import (
	"errors"
	"net/http"

	"farmpos/internal/domain"
	"farmpos/internal/service/checkout"
	"github.com/gin-gonic/gin"
)

type checkoutRequest struct {
	Method         string  `json:"method" binding:"required"`
	TenderedCents  int64   `json:"tenderedCents"`
	TxnRef         *string `json:"txnRef"`
	IdempotencyKey string  `json:"idempotencyKey"`
}

func checkoutHandler(checkoutSvc checkoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req checkoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errorBody("invalid_request", err.Error()))
			return
		}

		profile := currentProfile(c)
		if profile == nil {
			c.JSON(http.StatusUnauthorized, errorBody("missing_staff_id", "staff profile required"))
			return
		}

		receipt, err := checkoutSvc.Settle(c.Request.Context(), checkout.Input{
			TerminalID:     terminalID(c),
			UserID:         profile.UserID,
			Method:         domain.PaymentMethod(req.Method),
			TenderedCents:  req.TenderedCents,
			TxnRef:         req.TxnRef,
			IdempotencyKey: req.IdempotencyKey,
		})
		if err != nil {
			status, code, message := settlementFailure(err)
			body := errorBody(code, message)
			body["state"] = checkout.StateAfterFailure(err)
			c.JSON(status, body)
			return
		}

		c.JSON(http.StatusCreated, receipt)
	}
}

// settlementFailure maps the settlement error taxonomy onto status codes
// with stable machine-readable error codes. Store error shapes never leak
// past the opaque settlement_failed code.
func settlementFailure(err error) (int, string, string) {
	switch {
	case errors.Is(err, domain.ErrEmptyCart):
		return http.StatusUnprocessableEntity, "empty_cart", "cart has no items"
	case errors.Is(err, domain.ErrInsufficientPayment):
		return http.StatusUnprocessableEntity, "insufficient_payment", "tendered amount is below the total"
	case errors.Is(err, domain.ErrStockConflict):
		return http.StatusConflict, "stock_conflict", "stock changed during settlement; refresh the cart"
	default:
		var settleErr *domain.SettlementError
		if errors.As(err, &settleErr) {
			return http.StatusBadGateway, "settlement_failed", "settlement failed; the sale was not completed"
		}
		return http.StatusBadRequest, "invalid_request", err.Error()
	}
}
