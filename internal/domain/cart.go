package domain

import "time"

// LineItem is one cart entry, keyed by (ProductID, VariantID). Product and
// Discount are snapshots taken when the item was added, so cart totals stay
// stable without a network round trip even if the catalog changes underneath.
type LineItem struct {
	ProductID string    `json:"productId"`
	VariantID *string   `json:"variantId,omitempty"`
	Quantity  int       `json:"quantity"`
	Product   Product   `json:"product"`
	Discount  *Discount `json:"discount,omitempty"`
	AddedAt   time.Time `json:"addedAt"`
}

// Key identifies the line inside a cart. Two lines never share a key;
// adds for an existing key merge quantities instead.
func (l LineItem) Key() LineKey {
	k := LineKey{ProductID: l.ProductID}
	if l.VariantID != nil {
		k.VariantID = *l.VariantID
	}
	return k
}

type LineKey struct {
	ProductID string
	VariantID string
}

// StockCeiling is the advisory maximum quantity for this line, from the
// product snapshot. The authoritative check is the conditional stock
// decrement at settlement time.
func (l LineItem) StockCeiling() int {
	return l.Product.StockCeiling(l.VariantID)
}
