package pricing

import (
	"testing"

	"farmpos/internal/domain"
)

func TestDiscountedUnitPrice(t *testing.T) {
	cases := []struct {
		name     string
		price    int64
		discount *domain.Discount
		want     int64
	}{
		{"no discount", 1000, nil, 1000},
		{"zero percent", 1000, &domain.Discount{Percentage: 0}, 1000},
		{"negative percent", 1000, &domain.Discount{Percentage: -5}, 1000},
		{"twenty percent", 1000, &domain.Discount{Percentage: 20}, 800},
		{"ten percent", 3000, &domain.Discount{Percentage: 10}, 2700},
		{"rounds half up", 999, &domain.Discount{Percentage: 15}, 849},
		{"full discount", 1000, &domain.Discount{Percentage: 100}, 0},
		{"over full clamps to zero", 1000, &domain.Discount{Percentage: 120}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DiscountedUnitPrice(tc.price, tc.discount)
			if got != tc.want {
				t.Fatalf("DiscountedUnitPrice(%d, %+v) = %d, want %d", tc.price, tc.discount, got, tc.want)
			}
			if got > tc.price {
				t.Fatalf("discounted price %d exceeds catalog price %d", got, tc.price)
			}
		})
	}
}

func TestSavingsPerUnit(t *testing.T) {
	d := &domain.Discount{Percentage: 10}
	if got := SavingsPerUnit(3000, d); got != 300 {
		t.Fatalf("SavingsPerUnit = %d, want 300", got)
	}
	if got := SavingsPerUnit(3000, nil); got != 0 {
		t.Fatalf("SavingsPerUnit without discount = %d, want 0", got)
	}
}

func TestComputeTotals(t *testing.T) {
	lines := []domain.LineItem{
		{
			ProductID: "feed",
			Quantity:  2,
			Product:   domain.Product{ID: "feed", Name: "Layer Feed 50kg", PriceCents: 3000},
			Discount:  &domain.Discount{ProductID: "feed", Percentage: 10},
		},
		{
			ProductID: "eggs",
			Quantity:  1,
			Product:   domain.Product{ID: "eggs", Name: "Eggs Tray", PriceCents: 450},
		},
	}

	got := ComputeTotals(lines)
	if got.SubtotalOriginal != 6450 {
		t.Fatalf("SubtotalOriginal = %d, want 6450", got.SubtotalOriginal)
	}
	if got.SubtotalDiscounted != 5850 {
		t.Fatalf("SubtotalDiscounted = %d, want 5850", got.SubtotalDiscounted)
	}
	if got.TotalSavings != 600 {
		t.Fatalf("TotalSavings = %d, want 600", got.TotalSavings)
	}
	if got.ItemCount != 3 {
		t.Fatalf("ItemCount = %d, want 3", got.ItemCount)
	}
}

func TestComputeTotalsEmpty(t *testing.T) {
	got := ComputeTotals(nil)
	if got != (Totals{}) {
		t.Fatalf("expected zero totals, got %+v", got)
	}
}

func TestComputeTotalsSavingsNeverNegative(t *testing.T) {
	lines := []domain.LineItem{
		{Quantity: 3, Product: domain.Product{PriceCents: 799}, Discount: &domain.Discount{Percentage: 33}},
		{Quantity: 1, Product: domain.Product{PriceCents: 125}, Discount: &domain.Discount{Percentage: 1}},
	}
	got := ComputeTotals(lines)
	if got.TotalSavings < 0 {
		t.Fatalf("TotalSavings = %d, want >= 0", got.TotalSavings)
	}
	if got.SubtotalDiscounted > got.SubtotalOriginal {
		t.Fatalf("discounted subtotal %d exceeds original %d", got.SubtotalDiscounted, got.SubtotalOriginal)
	}
}
