// Package catalog reads products, variants and active discounts for the
// storefront and the cart flow.
package catalog

import (
	"context"
	"time"

	"farmpos/internal/domain"
	catalogrepo "farmpos/internal/repository/catalog"
)

type Service struct {
	repo catalogrepo.Repository
	now  func() time.Time
}

func New(repo catalogrepo.Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// ProductWithDiscount pairs a product with its currently active discount,
// if any.
type ProductWithDiscount struct {
	Product  domain.Product   `json:"product"`
	Discount *domain.Discount `json:"discount,omitempty"`
}

func (s *Service) List(ctx context.Context) ([]ProductWithDiscount, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	at := s.now()
	out := make([]ProductWithDiscount, 0, len(products))
	for _, p := range products {
		discount, err := s.activeDiscount(ctx, p.ID, at)
		if err != nil {
			return nil, err
		}
		out = append(out, ProductWithDiscount{Product: p, Discount: discount})
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id string) (*ProductWithDiscount, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	discount, err := s.activeDiscount(ctx, p.ID, s.now())
	if err != nil {
		return nil, err
	}
	return &ProductWithDiscount{Product: *p, Discount: discount}, nil
}

// activeDiscount fetches all windows containing at and resolves overlaps
// with the deterministic tie-break in domain.PickActive.
func (s *Service) activeDiscount(ctx context.Context, productID string, at time.Time) (*domain.Discount, error) {
	discounts, err := s.repo.ActiveDiscounts(ctx, productID, at)
	if err != nil {
		return nil, err
	}
	return domain.PickActive(discounts, at), nil
}
