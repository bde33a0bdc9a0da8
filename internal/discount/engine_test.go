package discount

import (
	"errors"
	"testing"
	"time"

	"github.com/haisenberg98/brewgear-api/internal/pricing"
)

func TestValidateUnpublished(t *testing.T) {
	r := Rule{Code: "WELCOME10", Published: false, MaxUsage: 10}
	if err := r.Validate(time.Now()); !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("expected ErrInvalidCode, got %v", err)
	}
}

func TestValidateExpired(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	r := Rule{Code: "WELCOME10", Published: true, MaxUsage: 10, ExpiresAt: &past}
	if err := r.Validate(time.Now()); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
}

func TestValidateExhausted(t *testing.T) {
	r := Rule{Code: "WELCOME10", Published: true, MaxUsage: 5, UsedCount: 5}
	if err := r.Validate(time.Now()); !errors.Is(err, ErrUsageLimitReached) {
		t.Fatalf("expected ErrUsageLimitReached, got %v", err)
	}
}

func TestValidateOrderPublishBeforeExpiry(t *testing.T) {
	// An unpublished expired code must report invalid, not expired.
	past := time.Now().Add(-time.Hour)
	r := Rule{Code: "OLD", Published: false, MaxUsage: 1, UsedCount: 1, ExpiresAt: &past}
	if err := r.Validate(time.Now()); !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("expected ErrInvalidCode, got %v", err)
	}
}

func TestValidateOK(t *testing.T) {
	future := time.Now().Add(time.Hour)
	r := Rule{Code: "WELCOME10", Published: true, MaxUsage: 5, UsedCount: 4, ExpiresAt: &future}
	if err := r.Validate(time.Now()); err != nil {
		t.Fatalf("expected valid rule, got %v", err)
	}
}

func TestInfoFromRulePercent(t *testing.T) {
	r := Rule{Code: "TEN", Kind: pricing.KindPercent, PercentBps: 1000, Published: true, MaxUsage: 1}
	info := InfoFromRule(r, 10_000)
	if info.Kind != "percent" || info.Applied != 1_000 {
		t.Fatalf("unexpected info: %+v", info)
	}
}

func TestInfoFromRuleFlatClamped(t *testing.T) {
	r := Rule{Code: "20OFF", Kind: pricing.KindFlat, Value: 2_000, Published: true, MaxUsage: 1}
	info := InfoFromRule(r, 1_500)
	if info.Applied != 1_500 {
		t.Fatalf("expected informational applied clamped to 1500, got %d", info.Applied)
	}
}
