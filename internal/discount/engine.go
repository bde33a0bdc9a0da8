package discount

import (
	"errors"
	"time"

	"github.com/haisenberg98/brewgear-api/internal/pricing"
)

var (
	// ErrInvalidCode is returned when the code does not exist or is unpublished.
	ErrInvalidCode = errors.New("invalid discount code")
	// ErrExpired is returned when the code is past its expiration date.
	ErrExpired = errors.New("discount code expired")
	// ErrUsageLimitReached is returned when the code's usage cap is exhausted.
	ErrUsageLimitReached = errors.New("discount code usage limit reached")
)

// Rule captures the server-authoritative constraints of a discount code.
type Rule struct {
	Code       string
	Kind       pricing.Kind
	Value      pricing.Money
	PercentBps int32
	MaxUsage   int32
	UsedCount  int32
	Published  bool
	Message    string
	ExpiresAt  *time.Time
}

// Validate checks the rule in the storefront's fail-fast order: publish
// state, then expiry, then usage cap. The first failing check wins.
func (r Rule) Validate(now time.Time) error {
	if !r.Published {
		return ErrInvalidCode
	}
	if r.ExpiresAt != nil && now.After(*r.ExpiresAt) {
		return ErrExpired
	}
	if r.UsedCount >= r.MaxUsage {
		return ErrUsageLimitReached
	}
	return nil
}

// Discount converts the rule into its pricing-engine variant.
func (r Rule) Discount() pricing.Discount {
	if r.Kind == pricing.KindPercent {
		return pricing.Percent(r.PercentBps)
	}
	return pricing.Flat(r.Value)
}

// Info is the client-held discount descriptor. It deliberately excludes any
// persisted applied amount: Applied is informational for the response that
// confirmed the code and is always re-derived from the current pre-total.
type Info struct {
	Code       string        `json:"code"`
	Kind       string        `json:"kind"`
	Value      pricing.Money `json:"value,omitempty"`
	PercentBps int32         `json:"percentBps,omitempty"`
	Message    string        `json:"message,omitempty"`
	Applied    pricing.Money `json:"applied"`
}

// InfoFromRule builds the descriptor, deriving the informational applied
// amount against the supplied pre-discount total.
func InfoFromRule(r Rule, preTotal pricing.Money) Info {
	kind := "flat"
	if r.Kind == pricing.KindPercent {
		kind = "percent"
	}
	return Info{
		Code:       r.Code,
		Kind:       kind,
		Value:      r.Value,
		PercentBps: r.PercentBps,
		Message:    r.Message,
		Applied:    r.Discount().Apply(preTotal),
	}
}
