// Package pricing computes discounted prices and cart totals. Everything
// here is pure: the same functions serve cart previews and settlement, so
// the two can never disagree on rounding.
package pricing

import "farmpos/internal/domain"

// DiscountedUnitPrice applies a percentage discount to a unit price in
// cents, rounding half up. A nil discount or a percentage of zero or less
// leaves the price unchanged.
func DiscountedUnitPrice(priceCents int64, discount *domain.Discount) int64 {
	if discount == nil || discount.Percentage <= 0 {
		return priceCents
	}
	pct := discount.Percentage
	if pct >= 100 {
		return 0
	}
	return (priceCents*int64(100-pct) + 50) / 100
}

// SavingsPerUnit is the per-unit difference between catalog and
// discounted price. Zero when no discount applies.
func SavingsPerUnit(priceCents int64, discount *domain.Discount) int64 {
	return priceCents - DiscountedUnitPrice(priceCents, discount)
}

// Totals aggregates a cart. All amounts are minor currency units.
type Totals struct {
	SubtotalOriginal   int64 `json:"subtotalOriginal"`
	SubtotalDiscounted int64 `json:"subtotalDiscounted"`
	TotalSavings       int64 `json:"totalSavings"`
	ItemCount          int   `json:"itemCount"`
}

// ComputeTotals derives totals from line snapshots. Deterministic for the
// same lines; callers recompute on every read rather than caching, since
// line data can change underneath them.
func ComputeTotals(lines []domain.LineItem) Totals {
	var t Totals
	for _, line := range lines {
		qty := int64(line.Quantity)
		t.SubtotalOriginal += line.Product.PriceCents * qty
		t.SubtotalDiscounted += DiscountedUnitPrice(line.Product.PriceCents, line.Discount) * qty
		t.ItemCount += line.Quantity
	}
	t.TotalSavings = t.SubtotalOriginal - t.SubtotalDiscounted
	return t
}
