// Package checkout runs the order settlement workflow: it turns the
// current cart into a persisted order, payment and stock decrement, then
// clears the ledger and hands back receipt data.
package checkout

import (
	"context"
	"errors"
	"io"
	"log"

	"farmpos/internal/domain"
	"farmpos/internal/pricing"
	orderrepo "farmpos/internal/repository/order"
	"github.com/google/uuid"
)

// State tracks a single settlement attempt.
type State string

const (
	StateAwaitingPayment State = "awaiting_payment_details"
	StateSucceeded       State = "succeeded"
	StateFailed          State = "failed"
)

// StateAfterFailure maps a settlement error to the state the attempt
// lands in: insufficient payment goes back to awaiting payment details so
// the operator can re-tender; everything else is terminal.
func StateAfterFailure(err error) State {
	if errors.Is(err, domain.ErrInsufficientPayment) {
		return StateAwaitingPayment
	}
	return StateFailed
}

type cartLedger interface {
	Lines(ctx context.Context, terminalID string) ([]domain.LineItem, error)
	Clear(ctx context.Context, terminalID string) error
}

type orderRepo interface {
	Settle(ctx context.Context, in orderrepo.SettleInput) (*domain.Order, *domain.Payment, error)
}

type Service struct {
	ledger cartLedger
	orders orderRepo
	logger *log.Logger
}

func New(ledger cartLedger, orders orderRepo, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{ledger: ledger, orders: orders, logger: logger}
}

type Input struct {
	TerminalID string
	UserID     string
	Method     domain.PaymentMethod
	// TenderedCents is the cash handed over; ignored for other methods.
	TenderedCents int64
	TxnRef        *string
	// IdempotencyKey lets a retry of a failed settlement reuse the same
	// key so it can never double-charge. Generated when empty.
	IdempotencyKey string
}

// Receipt is the settled snapshot handed to the UI for display: the lines
// as they were charged, not as the catalog looks afterwards.
type Receipt struct {
	Order       domain.Order      `json:"order"`
	Payment     domain.Payment    `json:"payment"`
	Lines       []domain.LineItem `json:"lines"`
	Totals      pricing.Totals    `json:"totals"`
	ChangeCents int64             `json:"changeCents"`
	State       State             `json:"state"`
}

// Settle validates locally, then persists order, items, payment and stock
// decrements in one transaction. Validation failures never reach the
// store; store failures surface as a single SettlementError.
func (s *Service) Settle(ctx context.Context, in Input) (*Receipt, error) {
	if !domain.ValidMethod(in.Method) {
		return nil, errors.New("unsupported payment method")
	}

	lines, err := s.ledger.Lines(ctx, in.TerminalID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, domain.ErrEmptyCart
	}

	// Price capture point: unit prices are fixed from the cart snapshots
	// here, before any I/O. Catalog changes after this instant cannot
	// move the recorded terms of the sale.
	totals := pricing.ComputeTotals(lines)
	settleLines := make([]orderrepo.SettleLine, 0, len(lines))
	for _, line := range lines {
		settleLines = append(settleLines, orderrepo.SettleLine{
			ProductID:      line.ProductID,
			VariantID:      line.VariantID,
			ProductName:    line.Product.Name,
			Quantity:       line.Quantity,
			UnitPriceCents: pricing.DiscountedUnitPrice(line.Product.PriceCents, line.Discount),
		})
	}

	amount := totals.SubtotalDiscounted
	if in.Method == domain.PaymentCash {
		if in.TenderedCents < totals.SubtotalDiscounted {
			return nil, domain.ErrInsufficientPayment
		}
		amount = in.TenderedCents
	}

	key := in.IdempotencyKey
	if key == "" {
		key = uuid.NewString()
	}

	// One status table for every method: payment completes and the order
	// moves pending -> processing regardless of cash or M-Pesa.
	ord, pay, err := s.orders.Settle(ctx, orderrepo.SettleInput{
		UserID:         in.UserID,
		IdempotencyKey: key,
		TotalCents:     totals.SubtotalDiscounted,
		Status:         domain.OrderProcessing,
		Lines:          settleLines,
		AmountCents:    amount,
		Method:         in.Method,
		PaymentStatus:  domain.PaymentCompleted,
		TxnRef:         in.TxnRef,
	})
	if err != nil {
		if errors.Is(err, domain.ErrStockConflict) {
			return nil, err
		}
		return nil, &domain.SettlementError{Step: "persist order", Err: err}
	}

	receipt := &Receipt{
		Order:   *ord,
		Payment: *pay,
		Lines:   lines,
		Totals:  totals,
		State:   StateSucceeded,
	}
	if in.Method == domain.PaymentCash {
		receipt.ChangeCents = in.TenderedCents - totals.SubtotalDiscounted
	}

	if err := s.ledger.Clear(ctx, in.TerminalID); err != nil {
		// The order is already settled; a failed clear must not undo
		// that from the caller's point of view.
		s.logger.Printf("checkout: clear cart terminal=%s order_id=%s error=%v", in.TerminalID, ord.ID, err)
	}

	return receipt, nil
}
