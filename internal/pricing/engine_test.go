package pricing

import (
	"testing"

	"github.com/google/uuid"
)

func TestComputeTotals(t *testing.T) {
	lines := []Line{
		{UnitPrice: 4_500, Qty: 2},
		{UnitPrice: 12_000, Qty: 1},
		{UnitPrice: 990, Qty: 0}, // zero quantity lines contribute nothing
	}
	s := Compute(lines, nil)
	if s.TotalItems != 3 {
		t.Fatalf("expected 3 items, got %d", s.TotalItems)
	}
	if s.PreTotal != 21_000 {
		t.Fatalf("expected pre-total 21000, got %d", s.PreTotal)
	}
	if s.PostTotal != s.PreTotal {
		t.Fatalf("post total must equal pre total without a discount, got %d", s.PostTotal)
	}
}

func TestComputeNoDriftAfterMutations(t *testing.T) {
	lines := []Line{{UnitPrice: 1_000, Qty: 1}}
	for i := 0; i < 50; i++ {
		lines[0].Qty++
		lines[0].Qty--
	}
	s := Compute(lines, nil)
	if s.PreTotal != 1_000 || s.TotalItems != 1 {
		t.Fatalf("totals drifted: %+v", s)
	}
}

func TestPercentDiscountRederived(t *testing.T) {
	d := Percent(1000) // 10%
	lines := []Line{{UnitPrice: 10_000, Qty: 1}}
	s := Compute(lines, &d)
	if s.PostTotal != 9_000 {
		t.Fatalf("expected 9000 post total, got %d", s.PostTotal)
	}

	// Adding an item with the same code active must re-derive the discount
	// against the new pre-total, not freeze the earlier dollar amount.
	lines = append(lines, Line{UnitPrice: 5_000, Qty: 1})
	s = Compute(lines, &d)
	if s.PreTotal != 15_000 {
		t.Fatalf("expected pre-total 15000, got %d", s.PreTotal)
	}
	if s.PostTotal != 13_500 {
		t.Fatalf("expected 13500 post total, got %d", s.PostTotal)
	}
}

func TestFlatDiscountClampedToZero(t *testing.T) {
	d := Flat(2_000)
	s := Compute([]Line{{UnitPrice: 1_500, Qty: 1}}, &d)
	if s.Applied != 1_500 {
		t.Fatalf("expected applied discount clamped to 1500, got %d", s.Applied)
	}
	if s.PostTotal < 0 {
		t.Fatalf("post total must never be negative, got %d", s.PostTotal)
	}
	if s.PostTotal != 0 {
		t.Fatalf("expected 0 post total, got %d", s.PostTotal)
	}
}

func TestNegativeFlatDiscountIgnored(t *testing.T) {
	d := Flat(-500)
	s := Compute([]Line{{UnitPrice: 1_000, Qty: 1}}, &d)
	if s.Applied != 0 || s.PostTotal != 1_000 {
		t.Fatalf("negative discount must not inflate totals: %+v", s)
	}
}

func TestProvidersDistinct(t *testing.T) {
	p1 := uuid.New()
	p2 := uuid.New()
	lines := []Line{
		{ProviderID: p1, UnitPrice: 100, Qty: 1},
		{ProviderID: p2, UnitPrice: 100, Qty: 1},
		{ProviderID: p1, UnitPrice: 100, Qty: 2},
	}
	got := Providers(lines)
	if len(got) != 2 {
		t.Fatalf("expected 2 distinct providers, got %d", len(got))
	}
	if got[0] != p1 || got[1] != p2 {
		t.Fatalf("provider order not preserved: %v", got)
	}
}
