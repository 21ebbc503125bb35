// Package cartstore persists terminal-local state: the cart ledger and the
// viewed-products list. Each ledger lives under a namespaced key holding a
// JSON snapshot, read back verbatim on the next load, so a terminal restart
// does not lose an in-progress sale.
package cartstore

import (
	"context"

	"farmpos/internal/domain"
)

type Store interface {
	LoadCart(ctx context.Context, terminalID string) ([]domain.LineItem, error)
	SaveCart(ctx context.Context, terminalID string, lines []domain.LineItem) error
	LoadViewed(ctx context.Context, terminalID string) ([]domain.Product, error)
	SaveViewed(ctx context.Context, terminalID string, products []domain.Product) error
}
