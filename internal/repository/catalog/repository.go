package catalog

import (
	"context"
	"time"

	"farmpos/internal/domain"
)

type Repository interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	// ActiveDiscounts returns every discount whose window contains at;
	// picking a winner among overlapping windows is the caller's job.
	ActiveDiscounts(ctx context.Context, productID string, at time.Time) ([]domain.Discount, error)
}
