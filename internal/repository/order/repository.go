package order

import (
	"context"

	"farmpos/internal/domain"
)

// SettleLine carries the economic terms of one cart line into the order
// book. UnitPriceCents is the discounted unit price captured by the
// checkout workflow before any I/O starts.
type SettleLine struct {
	ProductID      string
	VariantID      *string
	ProductName    string
	Quantity       int
	UnitPriceCents int64
}

type SettleInput struct {
	UserID         string
	IdempotencyKey string
	TotalCents     int64
	Status         domain.OrderStatus
	Lines          []SettleLine
	AmountCents    int64
	Method         domain.PaymentMethod
	PaymentStatus  domain.PaymentStatus
	TxnRef         *string
}

type Repository interface {
	// Settle persists order, items, payment and stock decrements in one
	// transaction. A repeated idempotency key returns the order already
	// settled under it instead of writing anything.
	Settle(ctx context.Context, in SettleInput) (*domain.Order, *domain.Payment, error)
	GetByID(ctx context.Context, id string) (*domain.Order, *domain.Payment, error)
}
