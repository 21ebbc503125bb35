package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"farmpos/internal/domain"
	"farmpos/internal/pricing"
	cartsvc "farmpos/internal/service/cart"
	"farmpos/internal/service/catalog"
	"github.com/gin-gonic/gin"
)

type stubCatalog struct {
	product *catalog.ProductWithDiscount
	err     error
}

func (s *stubCatalog) List(_ context.Context) ([]catalog.ProductWithDiscount, error) {
	if s.product == nil {
		return nil, s.err
	}
	return []catalog.ProductWithDiscount{*s.product}, s.err
}

func (s *stubCatalog) Get(_ context.Context, _ string) (*catalog.ProductWithDiscount, error) {
	return s.product, s.err
}

type memStore struct {
	lines map[string][]domain.LineItem
}

func (m *memStore) LoadCart(_ context.Context, terminalID string) ([]domain.LineItem, error) {
	return m.lines[terminalID], nil
}

func (m *memStore) SaveCart(_ context.Context, terminalID string, lines []domain.LineItem) error {
	m.lines[terminalID] = lines
	return nil
}

func (m *memStore) LoadViewed(_ context.Context, _ string) ([]domain.Product, error) {
	return nil, nil
}

func (m *memStore) SaveViewed(_ context.Context, _ string, _ []domain.Product) error {
	return nil
}

func cartTestRouter(catalogSvc catalogService) (*gin.Engine, *cartsvc.Service) {
	gin.SetMode(gin.TestMode)
	ledger := cartsvc.New(&memStore{lines: make(map[string][]domain.LineItem)})
	router := gin.New()
	group := router.Group("/",
		staffMiddleware(&stubProfileRepo{profile: &domain.Profile{UserID: "u1", Role: domain.RoleAdmin}}),
		requireTerminal(),
	)
	group.GET("/cart", getCartHandler(ledger))
	group.POST("/cart/items", addCartItemHandler(ledger, catalogSvc))
	group.PATCH("/cart/items", updateCartItemHandler(ledger))
	group.DELETE("/cart/items", removeCartItemHandler(ledger))
	group.DELETE("/cart", clearCartHandler(ledger))
	return router, ledger
}

func doCart(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(headerStaffID, "u1")
	req.Header.Set(headerTerminalID, "t1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func feedCatalog() *stubCatalog {
	return &stubCatalog{product: &catalog.ProductWithDiscount{
		Product:  domain.Product{ID: "feed", Name: "Layer Feed 50kg", PriceCents: 3000, Stock: 5},
		Discount: &domain.Discount{ID: "d1", ProductID: "feed", Percentage: 10},
	}}
}

func TestAddCartItem_SnapshotsDiscount(t *testing.T) {
	router, _ := cartTestRouter(feedCatalog())

	rec := doCart(router, http.MethodPost, "/cart/items", `{"productId":"feed","quantity":2}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Lines  []cartLineResponse `json:"lines"`
		Totals pricing.Totals     `json:"totals"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Lines) != 1 || resp.Lines[0].DiscountedPriceCents != 2700 {
		t.Fatalf("discount not snapshotted: %+v", resp.Lines)
	}
	if resp.Totals.SubtotalDiscounted != 5400 {
		t.Fatalf("totals = %+v", resp.Totals)
	}
}

func TestAddCartItem_InsufficientStock(t *testing.T) {
	router, _ := cartTestRouter(feedCatalog())

	if rec := doCart(router, http.MethodPost, "/cart/items", `{"productId":"feed","quantity":5}`); rec.Code != http.StatusOK {
		t.Fatalf("fill to stock: %d", rec.Code)
	}
	rec := doCart(router, http.MethodPost, "/cart/items", `{"productId":"feed","quantity":1}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d body=%s", rec.Code, rec.Body.String())
	}

	rec = doCart(router, http.MethodGet, "/cart", "")
	var resp cartResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Lines) != 1 || resp.Lines[0].Quantity != 5 {
		t.Fatalf("cart changed by rejected add: %+v", resp.Lines)
	}
}

func TestUpdateCartItem_DeltaAndAbsolute(t *testing.T) {
	router, _ := cartTestRouter(feedCatalog())
	doCart(router, http.MethodPost, "/cart/items", `{"productId":"feed","quantity":2}`)

	rec := doCart(router, http.MethodPatch, "/cart/items", `{"productId":"feed","delta":10}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("patch delta: %d", rec.Code)
	}
	var resp cartResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Lines[0].Quantity != 5 {
		t.Fatalf("delta clamp: quantity = %d, want 5", resp.Lines[0].Quantity)
	}

	rec = doCart(router, http.MethodPatch, "/cart/items", `{"productId":"feed","quantity":1}`)
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Lines[0].Quantity != 1 {
		t.Fatalf("absolute set: quantity = %d, want 1", resp.Lines[0].Quantity)
	}

	rec = doCart(router, http.MethodPatch, "/cart/items", `{"productId":"feed","delta":1,"quantity":2}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for both delta and quantity, got %d", rec.Code)
	}
}

func TestRemoveAndClearCart(t *testing.T) {
	router, _ := cartTestRouter(feedCatalog())
	doCart(router, http.MethodPost, "/cart/items", `{"productId":"feed","quantity":2}`)

	rec := doCart(router, http.MethodDelete, "/cart/items?productId=feed", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("remove: %d", rec.Code)
	}
	var resp cartResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if len(resp.Lines) != 0 {
		t.Fatalf("line not removed: %+v", resp.Lines)
	}

	// Clearing the now-empty cart still succeeds.
	rec = doCart(router, http.MethodDelete, "/cart", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("clear empty cart: %d", rec.Code)
	}
}

func TestAddCartItem_UnknownProduct(t *testing.T) {
	router, _ := cartTestRouter(&stubCatalog{err: domain.ErrNotFound})
	rec := doCart(router, http.MethodPost, "/cart/items", `{"productId":"ghost","quantity":1}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
