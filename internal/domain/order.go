package domain

import "time"

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderCompleted  OrderStatus = "completed"
	OrderCancelled  OrderStatus = "cancelled"
)

type PaymentMethod string

const (
	PaymentCash  PaymentMethod = "cash"
	PaymentMpesa PaymentMethod = "mpesa"
	PaymentCard  PaymentMethod = "card"
)

// ValidMethod reports whether m is a payment method the settlement flow
// accepts.
func ValidMethod(m PaymentMethod) bool {
	switch m {
	case PaymentCash, PaymentMpesa, PaymentCard:
		return true
	}
	return false
}

type Order struct {
	ID             string      `json:"id"`
	UserID         string      `json:"userId"`
	TotalCents     int64       `json:"totalCents"`
	Status         OrderStatus `json:"status"`
	IdempotencyKey string      `json:"-"`
	CreatedAt      time.Time   `json:"createdAt"`
	Items          []OrderItem `json:"items,omitempty"`
}

// OrderItem records the economic terms of one sold line. UnitPriceCents is
// the discounted unit price captured at settlement time, never the catalog
// price: the terms of a sale must not move if the catalog later changes.
type OrderItem struct {
	ID             string  `json:"id"`
	OrderID        string  `json:"orderId"`
	ProductID      string  `json:"productId"`
	VariantID      *string `json:"variantId,omitempty"`
	ProductName    string  `json:"productName"`
	Quantity       int     `json:"quantity"`
	UnitPriceCents int64   `json:"unitPriceCents"`
}

type PaymentStatus string

const (
	PaymentPendingStatus PaymentStatus = "pending"
	PaymentCompleted     PaymentStatus = "completed"
)

type Payment struct {
	ID          string        `json:"id"`
	OrderID     string        `json:"orderId"`
	AmountCents int64         `json:"amountCents"`
	Method      PaymentMethod `json:"method"`
	Status      PaymentStatus `json:"status"`
	TxnRef      *string       `json:"txnRef,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
}
