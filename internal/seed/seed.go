package seed

import (
	"context"
	"fmt"
	"time"

	"farmpos/internal/domain"
	"farmpos/internal/repository/profile"
	"github.com/jackc/pgx/v5/pgxpool"
)

type variantSeed struct {
	Attribute string
	Stock     int
}

type productSeed struct {
	Name       string
	PriceCents int64
	Stock      int
	Variants   []variantSeed
	// DiscountPct > 0 seeds a discount active for the next 30 days.
	DiscountPct int
}

// Apply inserts basic seed data for manual testing. It is idempotent via
// ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool, profiles profile.Repository) error {
	products := []productSeed{
		{
			Name:        "Layer Feed 50kg",
			PriceCents:  3000,
			Stock:       40,
			DiscountPct: 10,
			Variants: []variantSeed{
				{Attribute: "10kg", Stock: 25},
				{Attribute: "25kg", Stock: 12},
			},
		},
		{Name: "Eggs Tray", PriceCents: 450, Stock: 120},
		{Name: "Broiler Starter 20kg", PriceCents: 2200, Stock: 18},
		{Name: "Day-Old Chicks (box of 10)", PriceCents: 1500, Stock: 9, DiscountPct: 5},
		{Name: "Kienyeji Mash 10kg", PriceCents: 800, Stock: 30},
	}

	for _, p := range products {
		if err := upsertProduct(ctx, pool, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Name, err)
		}
	}

	// Roles stick from the first insert; Upsert refreshes email only, so
	// re-seeding never rewrites a role an admin has since changed.
	staff := []domain.Profile{
		{UserID: "staff-ann", Email: "ann@farmpos.local", Role: domain.RoleWorker},
		{UserID: "staff-joseph", Email: "joseph@farmpos.local", Role: domain.RoleAdmin},
		{UserID: "cust-wanjiku", Email: "wanjiku@example.com", Role: domain.RoleCustomer},
	}
	for _, pr := range staff {
		if _, err := profiles.Upsert(ctx, pr); err != nil {
			return fmt.Errorf("upsert profile %s: %w", pr.UserID, err)
		}
	}

	return nil
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, p productSeed) error {
	const q = `
INSERT INTO products (name, price_cents, stock)
VALUES ($1, $2, $3)
ON CONFLICT (name) DO UPDATE
SET price_cents = EXCLUDED.price_cents,
    stock = EXCLUDED.stock
RETURNING id::text
`
	var productID string
	if err := pool.QueryRow(ctx, q, p.Name, p.PriceCents, p.Stock).Scan(&productID); err != nil {
		return err
	}

	for _, v := range p.Variants {
		const vq = `
INSERT INTO product_variants (product_id, attribute, stock)
VALUES ($1, $2, $3)
ON CONFLICT (product_id, attribute) DO UPDATE SET stock = EXCLUDED.stock
`
		if _, err := pool.Exec(ctx, vq, productID, v.Attribute, v.Stock); err != nil {
			return err
		}
	}

	if p.DiscountPct > 0 {
		now := time.Now()
		const dq = `
INSERT INTO discounts (product_id, percentage, starts_at, ends_at)
SELECT $1, $2, $3, $4
WHERE NOT EXISTS (
	SELECT 1 FROM discounts WHERE product_id = $1 AND ends_at >= $3
)
`
		if _, err := pool.Exec(ctx, dq, productID, p.DiscountPct, now, now.Add(30*24*time.Hour)); err != nil {
			return err
		}
	}

	return nil
}
