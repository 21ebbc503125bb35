// Package cart implements the per-terminal cart ledger: a keyed collection
// of line items with stock-ceiling enforcement, backed by a durable
// snapshot store so state survives terminal restarts.
package cart

import (
	"context"
	"errors"
	"sync"
	"time"

	"farmpos/internal/domain"
	"farmpos/internal/pricing"
	"farmpos/internal/repository/cartstore"
)

// Service serializes all ledger access behind one mutex. The original
// flow ran on a single-threaded event loop; an HTTP server has real
// parallelism, so the serialization is explicit here — in particular a
// settlement clearing the cart must not interleave with a concurrent read
// of the snapshot.
type Service struct {
	mu    sync.Mutex
	store cartstore.Store
	carts map[string][]domain.LineItem
	now   func() time.Time
}

func New(store cartstore.Store) *Service {
	return &Service{
		store: store,
		carts: make(map[string][]domain.LineItem),
		now:   time.Now,
	}
}

// Add appends quantity of a product (optionally a variant) to the ledger.
// An existing line with the same (product, variant) key is merged by
// summing quantities. When the merged quantity would exceed the stock
// ceiling the whole add is rejected with ErrInsufficientStock and the
// ledger is left untouched — no partial merge.
func (s *Service) Add(ctx context.Context, terminalID string, product domain.Product, variantID *string, quantity int, discount *domain.Discount) error {
	if quantity < 1 {
		return errors.New("quantity must be at least 1")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lines, err := s.load(ctx, terminalID)
	if err != nil {
		return err
	}

	added := domain.LineItem{
		ProductID: product.ID,
		VariantID: variantID,
		Quantity:  quantity,
		Product:   product,
		Discount:  discount,
		AddedAt:   s.now(),
	}

	idx := findLine(lines, added.Key())
	if idx >= 0 {
		merged := lines[idx].Quantity + quantity
		if merged > lines[idx].StockCeiling() {
			return domain.ErrInsufficientStock
		}
		updated := lines[idx]
		updated.Quantity = merged
		next := append(append([]domain.LineItem{}, lines[:idx]...), updated)
		next = append(next, lines[idx+1:]...)
		return s.persist(ctx, terminalID, next)
	}

	if quantity > added.StockCeiling() {
		return domain.ErrInsufficientStock
	}
	return s.persist(ctx, terminalID, append(append([]domain.LineItem{}, lines...), added))
}

// UpdateQuantity adds delta (possibly negative) to an existing line,
// clamping silently to [1, stock ceiling]. Out-of-range requests clamp
// rather than error, matching UI that disables +/- at the boundary.
func (s *Service) UpdateQuantity(ctx context.Context, terminalID, productID string, variantID *string, delta int) error {
	return s.applyQuantity(ctx, terminalID, productID, variantID, func(current int) int {
		return current + delta
	})
}

// SetQuantity sets an absolute quantity with the same clamping policy.
// A value below 1 is rejected outright: removal is an explicit Remove,
// never a disguised set-to-zero.
func (s *Service) SetQuantity(ctx context.Context, terminalID, productID string, variantID *string, value int) error {
	if value < 1 {
		return errors.New("quantity must be at least 1")
	}
	return s.applyQuantity(ctx, terminalID, productID, variantID, func(int) int {
		return value
	})
}

func (s *Service) applyQuantity(ctx context.Context, terminalID, productID string, variantID *string, next func(int) int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines, err := s.load(ctx, terminalID)
	if err != nil {
		return err
	}

	idx := findLine(lines, lineKey(productID, variantID))
	if idx < 0 {
		return domain.ErrNotFound
	}

	updated := lines[idx]
	updated.Quantity = clamp(next(updated.Quantity), 1, updated.StockCeiling())
	if updated.Quantity == lines[idx].Quantity {
		return nil
	}

	out := append([]domain.LineItem{}, lines...)
	out[idx] = updated
	return s.persist(ctx, terminalID, out)
}

// Remove deletes the line if present. Absent lines are a no-op, not an
// error.
func (s *Service) Remove(ctx context.Context, terminalID, productID string, variantID *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines, err := s.load(ctx, terminalID)
	if err != nil {
		return err
	}

	idx := findLine(lines, lineKey(productID, variantID))
	if idx < 0 {
		return nil
	}
	out := append(append([]domain.LineItem{}, lines[:idx]...), lines[idx+1:]...)
	return s.persist(ctx, terminalID, out)
}

// Clear empties the ledger. Idempotent: clearing an empty cart is a no-op.
func (s *Service) Clear(ctx context.Context, terminalID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines, err := s.load(ctx, terminalID)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		return nil
	}
	return s.persist(ctx, terminalID, nil)
}

// Lines returns a copy of the ledger's current lines.
func (s *Service) Lines(ctx context.Context, terminalID string) ([]domain.LineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines, err := s.load(ctx, terminalID)
	if err != nil {
		return nil, err
	}
	return append([]domain.LineItem{}, lines...), nil
}

// Totals recomputes cart totals from the current line snapshots on every
// call; nothing is cached.
func (s *Service) Totals(ctx context.Context, terminalID string) (pricing.Totals, error) {
	lines, err := s.Lines(ctx, terminalID)
	if err != nil {
		return pricing.Totals{}, err
	}
	return pricing.ComputeTotals(lines), nil
}

// load returns the in-memory lines for a terminal, reading the persisted
// snapshot on first touch. Callers must hold s.mu.
func (s *Service) load(ctx context.Context, terminalID string) ([]domain.LineItem, error) {
	if lines, ok := s.carts[terminalID]; ok {
		return lines, nil
	}
	lines, err := s.store.LoadCart(ctx, terminalID)
	if err != nil {
		return nil, err
	}
	s.carts[terminalID] = lines
	return lines, nil
}

// persist writes through to the snapshot store before updating memory, so
// a failed save never leaves memory ahead of durable state. Callers must
// hold s.mu.
func (s *Service) persist(ctx context.Context, terminalID string, lines []domain.LineItem) error {
	if err := s.store.SaveCart(ctx, terminalID, lines); err != nil {
		return err
	}
	s.carts[terminalID] = lines
	return nil
}

func findLine(lines []domain.LineItem, key domain.LineKey) int {
	for i := range lines {
		if lines[i].Key() == key {
			return i
		}
	}
	return -1
}

func lineKey(productID string, variantID *string) domain.LineKey {
	k := domain.LineKey{ProductID: productID}
	if variantID != nil {
		k.VariantID = *variantID
	}
	return k
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
