package pricing

import "github.com/google/uuid"

// Money represents a monetary value stored in minor units (NZD cents).
type Money = int64

// Kind discriminates the discount variants.
type Kind int

const (
	// KindFlat subtracts a fixed amount from the pre-discount total.
	KindFlat Kind = iota
	// KindPercent subtracts a fraction of the pre-discount total expressed in basis points.
	KindPercent
)

// Discount is the rule shape applied to a cart. It carries the rule, never a
// frozen dollar amount: the applied value is re-derived from the current
// pre-discount total on every computation.
type Discount struct {
	Kind       Kind
	Value      Money // flat amount, minor units
	PercentBps int32 // percentage in basis points (1000 = 10%)
}

// Flat builds a fixed-amount discount.
func Flat(value Money) Discount {
	return Discount{Kind: KindFlat, Value: value}
}

// Percent builds a percentage discount from basis points.
func Percent(bps int32) Discount {
	return Discount{Kind: KindPercent, PercentBps: bps}
}

// Line is a cart line item. Subtotal is always derived, never stored.
type Line struct {
	ItemID     uuid.UUID
	ProviderID uuid.UUID
	Name       string
	UnitPrice  Money
	Qty        int
}

// Subtotal returns the line subtotal recomputed from unit price and quantity.
func (l Line) Subtotal() Money {
	if l.Qty <= 0 || l.UnitPrice <= 0 {
		return 0
	}
	return Money(l.Qty) * l.UnitPrice
}

// Summary aggregates computed cart totals.
type Summary struct {
	TotalItems int
	PreTotal   Money
	Applied    Money
	PostTotal  Money
}

// Apply derives the monetary value of the discount against the given
// pre-discount total. The result is clamped to [0, preTotal] so a flat
// discount larger than the cart can never drive the total negative.
func (d Discount) Apply(preTotal Money) Money {
	if preTotal <= 0 {
		return 0
	}
	var applied Money
	switch d.Kind {
	case KindPercent:
		if d.PercentBps <= 0 {
			return 0
		}
		applied = (preTotal * Money(d.PercentBps)) / 10000
	default:
		applied = d.Value
	}
	if applied > preTotal {
		applied = preTotal
	}
	if applied < 0 {
		return 0
	}
	return applied
}

// Compute recalculates cart totals from scratch. It runs in full on every
// cart mutation rather than patching previous results, so the totals cannot
// drift from the lines.
func Compute(lines []Line, d *Discount) Summary {
	var s Summary
	for _, line := range lines {
		if line.Qty <= 0 {
			continue
		}
		s.TotalItems += line.Qty
		s.PreTotal += line.Subtotal()
	}
	if d != nil {
		s.Applied = d.Apply(s.PreTotal)
	}
	s.PostTotal = s.PreTotal - s.Applied
	return s
}

// Providers returns the distinct provider ids present in the lines,
// preserving first-seen order.
func Providers(lines []Line) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(lines))
	out := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		if line.Qty <= 0 || line.ProviderID == uuid.Nil {
			continue
		}
		if _, ok := seen[line.ProviderID]; ok {
			continue
		}
		seen[line.ProviderID] = struct{}{}
		out = append(out, line.ProviderID)
	}
	return out
}
