package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"farmpos/internal/domain"
	"farmpos/internal/service/checkout"
	"github.com/gin-gonic/gin"
)

type stubCheckout struct {
	receipt   *checkout.Receipt
	err       error
	lastInput checkout.Input
}

func (s *stubCheckout) Settle(_ context.Context, in checkout.Input) (*checkout.Receipt, error) {
	s.lastInput = in
	return s.receipt, s.err
}

func checkoutRouter(svc checkoutService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/checkout",
		staffMiddleware(&stubProfileRepo{profile: &domain.Profile{UserID: "u1", Role: domain.RoleWorker}}),
		requireTerminal(),
		checkoutHandler(svc),
	)
	return router
}

func postCheckout(t *testing.T, router *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(headerStaffID, "u1")
	req.Header.Set(headerTerminalID, "t1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCheckoutHandler_Success(t *testing.T) {
	svc := &stubCheckout{
		receipt: &checkout.Receipt{
			Order:       domain.Order{ID: "o1", TotalCents: 5850, Status: domain.OrderProcessing},
			Payment:     domain.Payment{Method: domain.PaymentCash, Status: domain.PaymentCompleted},
			ChangeCents: 150,
			State:       checkout.StateSucceeded,
		},
	}
	router := checkoutRouter(svc)

	rec := postCheckout(t, router, `{"method":"cash","tenderedCents":6000}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	if svc.lastInput.TerminalID != "t1" || svc.lastInput.UserID != "u1" {
		t.Fatalf("input not wired from headers: %+v", svc.lastInput)
	}

	var got checkout.Receipt
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode receipt: %v", err)
	}
	if got.ChangeCents != 150 || got.Order.ID != "o1" {
		t.Fatalf("unexpected receipt %+v", got)
	}
}

func TestCheckoutHandler_ErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"empty cart", domain.ErrEmptyCart, http.StatusUnprocessableEntity, "empty_cart"},
		{"insufficient payment", domain.ErrInsufficientPayment, http.StatusUnprocessableEntity, "insufficient_payment"},
		{"stock conflict", domain.ErrStockConflict, http.StatusConflict, "stock_conflict"},
		{"store failure", &domain.SettlementError{Step: "persist order", Err: errors.New("pq: connection reset")}, http.StatusBadGateway, "settlement_failed"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := checkoutRouter(&stubCheckout{err: tc.err})
			rec := postCheckout(t, router, `{"method":"cash","tenderedCents":6000}`)
			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
			var body struct {
				Error struct {
					Code    string `json:"code"`
					Message string `json:"message"`
				} `json:"error"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Error.Code != tc.wantCode {
				t.Fatalf("code = %q, want %q", body.Error.Code, tc.wantCode)
			}
			if strings.Contains(body.Error.Message, "pq:") {
				t.Fatalf("store error leaked to client: %q", body.Error.Message)
			}
		})
	}
}

func TestCheckoutHandler_InvalidBody(t *testing.T) {
	router := checkoutRouter(&stubCheckout{})
	rec := postCheckout(t, router, `{"tenderedCents":6000}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing method, got %d", rec.Code)
	}
}
