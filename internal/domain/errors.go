package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")

	// ErrEmptyCart is returned when settlement is attempted on a cart
	// with no lines. Checked locally before any I/O.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrInsufficientStock rejects an add that would push a line past
	// its stock ceiling. The cart is left unchanged.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInsufficientPayment rejects a cash settlement whose tendered
	// amount is below the grand total. Checked locally before any I/O.
	ErrInsufficientPayment = errors.New("insufficient payment")

	// ErrStockConflict means the authoritative conditional stock
	// decrement found too little stock at commit time. The settlement
	// transaction aborts before any payment is recorded.
	ErrStockConflict = errors.New("stock conflict")
)

// SettlementError wraps a store failure during order settlement. The
// underlying cause stays opaque to callers outside error inspection;
// UI layers see one generic failure shape.
type SettlementError struct {
	Step string
	Err  error
}

func (e *SettlementError) Error() string {
	return fmt.Sprintf("settlement failed at %s: %v", e.Step, e.Err)
}

func (e *SettlementError) Unwrap() error { return e.Err }
