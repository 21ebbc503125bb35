// Package viewed keeps the bounded recently-viewed product list for each
// terminal.
package viewed

import (
	"context"
	"sync"

	"farmpos/internal/domain"
	"farmpos/internal/repository/cartstore"
)

// Limit is how many products the ledger remembers per terminal.
const Limit = 8

type Service struct {
	mu    sync.Mutex
	store cartstore.Store
}

func New(store cartstore.Store) *Service {
	return &Service{store: store}
}

// Mark moves the product to the front of the terminal's list, dropping any
// earlier entry for the same product and truncating to Limit.
func (s *Service) Mark(ctx context.Context, terminalID string, product domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.store.LoadViewed(ctx, terminalID)
	if err != nil {
		return err
	}

	next := make([]domain.Product, 0, len(current)+1)
	next = append(next, product)
	for _, p := range current {
		if p.ID == product.ID {
			continue
		}
		next = append(next, p)
	}
	if len(next) > Limit {
		next = next[:Limit]
	}
	return s.store.SaveViewed(ctx, terminalID, next)
}

// Recent returns the terminal's list, most recently viewed first.
func (s *Service) Recent(ctx context.Context, terminalID string) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.LoadViewed(ctx, terminalID)
}
