package viewed

import (
	"context"
	"fmt"
	"testing"

	"farmpos/internal/domain"
)

type stubStore struct {
	viewed map[string][]domain.Product
}

func (s *stubStore) LoadCart(_ context.Context, _ string) ([]domain.LineItem, error) {
	return nil, nil
}

func (s *stubStore) SaveCart(_ context.Context, _ string, _ []domain.LineItem) error {
	return nil
}

func (s *stubStore) LoadViewed(_ context.Context, terminalID string) ([]domain.Product, error) {
	return s.viewed[terminalID], nil
}

func (s *stubStore) SaveViewed(_ context.Context, terminalID string, products []domain.Product) error {
	s.viewed[terminalID] = products
	return nil
}

func TestMarkMovesToFrontAndDedupes(t *testing.T) {
	svc := New(&stubStore{viewed: make(map[string][]domain.Product)})
	ctx := context.Background()

	a := domain.Product{ID: "a", Name: "Eggs Tray"}
	b := domain.Product{ID: "b", Name: "Layer Feed"}

	for _, p := range []domain.Product{a, b, a} {
		if err := svc.Mark(ctx, "t1", p); err != nil {
			t.Fatalf("Mark: %v", err)
		}
	}

	got, err := svc.Recent(ctx, "t1")
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "b" {
		t.Fatalf("unexpected order %+v", got)
	}
}

func TestMarkBounded(t *testing.T) {
	svc := New(&stubStore{viewed: make(map[string][]domain.Product)})
	ctx := context.Background()

	for i := 0; i < Limit+3; i++ {
		p := domain.Product{ID: fmt.Sprintf("p%d", i)}
		if err := svc.Mark(ctx, "t1", p); err != nil {
			t.Fatalf("Mark: %v", err)
		}
	}

	got, _ := svc.Recent(ctx, "t1")
	if len(got) != Limit {
		t.Fatalf("expected %d entries, got %d", Limit, len(got))
	}
	if got[0].ID != fmt.Sprintf("p%d", Limit+2) {
		t.Fatalf("most recent first, got %+v", got[0])
	}
}
