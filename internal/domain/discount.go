package domain

import "time"

// Discount is a percentage price reduction on one product, valid inside
// its [StartsAt, EndsAt] window. Discount rows are owned by the backing
// store; this core only reads them.
type Discount struct {
	ID         string    `json:"id"`
	ProductID  string    `json:"productId"`
	Percentage int       `json:"percentage"`
	StartsAt   time.Time `json:"startsAt"`
	EndsAt     time.Time `json:"endsAt"`
}

// ActiveAt reports whether the discount window contains t.
func (d Discount) ActiveAt(t time.Time) bool {
	return !t.Before(d.StartsAt) && !t.After(d.EndsAt)
}

// PickActive selects the discount that applies to a product at time t when
// the store returns more than one active row. Tie-break is deterministic:
// largest percentage, then earliest start, then id.
func PickActive(discounts []Discount, t time.Time) *Discount {
	var best *Discount
	for i := range discounts {
		d := &discounts[i]
		if !d.ActiveAt(t) {
			continue
		}
		if best == nil {
			best = d
			continue
		}
		switch {
		case d.Percentage > best.Percentage:
			best = d
		case d.Percentage == best.Percentage && d.StartsAt.Before(best.StartsAt):
			best = d
		case d.Percentage == best.Percentage && d.StartsAt.Equal(best.StartsAt) && d.ID < best.ID:
			best = d
		}
	}
	return best
}
