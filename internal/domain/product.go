package domain

import "time"

type Product struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	PriceCents int64     `json:"priceCents"`
	Stock      int       `json:"stock"`
	Variants   []Variant `json:"variants,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Variant is a sellable variation of a product (e.g. a bag size) with its
// own stock count that may limit quantity independently of the parent.
type Variant struct {
	ID        string `json:"id"`
	ProductID string `json:"productId"`
	Attribute string `json:"attribute"`
	Stock     int    `json:"stock"`
}

// StockCeiling returns the maximum purchasable quantity for the product,
// or for one of its variants when variantID is non-nil. An unknown variant
// has ceiling 0.
func (p Product) StockCeiling(variantID *string) int {
	if variantID == nil {
		return p.Stock
	}
	for _, v := range p.Variants {
		if v.ID == *variantID {
			return v.Stock
		}
	}
	return 0
}
