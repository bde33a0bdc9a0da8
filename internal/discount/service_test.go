package discount

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/haisenberg98/brewgear-api/internal/store"
)

type fakeStore struct {
	rules   map[string]store.DiscountRule
	redeems int
}

func (f *fakeStore) GetByCode(_ context.Context, code string) (store.DiscountRule, error) {
	rule, ok := f.rules[code]
	if !ok {
		return store.DiscountRule{}, pgx.ErrNoRows
	}
	return rule, nil
}

func (f *fakeStore) List(_ context.Context) ([]store.DiscountRule, error) {
	out := make([]store.DiscountRule, 0, len(f.rules))
	for _, r := range f.rules {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeStore) Create(_ context.Context, p store.CreateDiscountParams) (store.DiscountRule, error) {
	rule := store.DiscountRule{
		Code: p.Code, Kind: p.Kind, Value: p.Value, PercentBps: p.PercentBps,
		MaxUsage: p.MaxUsage, Published: p.Published, Message: p.Message, ExpiresAt: p.ExpiresAt,
	}
	f.rules[p.Code] = rule
	return rule, nil
}

func (f *fakeStore) Update(_ context.Context, code string, p store.CreateDiscountParams) (store.DiscountRule, error) {
	if _, ok := f.rules[code]; !ok {
		return store.DiscountRule{}, pgx.ErrNoRows
	}
	rule := f.rules[code]
	rule.Kind = p.Kind
	rule.Value = p.Value
	rule.PercentBps = p.PercentBps
	rule.MaxUsage = p.MaxUsage
	rule.Published = p.Published
	rule.Message = p.Message
	rule.ExpiresAt = p.ExpiresAt
	f.rules[code] = rule
	return rule, nil
}

func (f *fakeStore) Redeem(_ context.Context, code string) (bool, error) {
	rule, ok := f.rules[code]
	if !ok || !rule.Published || rule.UsedCount >= rule.MaxUsage {
		return false, nil
	}
	if rule.ExpiresAt.Valid && rule.ExpiresAt.Time.Before(time.Now()) {
		return false, nil
	}
	rule.UsedCount++
	f.rules[code] = rule
	f.redeems++
	return true, nil
}

func newFakeStore() *fakeStore {
	return &fakeStore{rules: map[string]store.DiscountRule{
		"WELCOME10": {
			Code: "WELCOME10", Kind: store.DiscountKindPercent,
			PercentBps: pgtype.Int4{Int32: 1000, Valid: true},
			MaxUsage:   10, Published: true, Message: "10% off your first order",
		},
		"HIDDEN": {
			Code: "HIDDEN", Kind: store.DiscountKindFlat, Value: 500,
			MaxUsage: 10, Published: false,
		},
		"SPENT": {
			Code: "SPENT", Kind: store.DiscountKindFlat, Value: 500,
			MaxUsage: 3, UsedCount: 3, Published: true,
		},
	}}
}

func TestResolveSuccess(t *testing.T) {
	svc := &Service{S: newFakeStore()}
	info, err := svc.Resolve(context.Background(), "WELCOME10", 10_000)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if info.Applied != 1_000 {
		t.Fatalf("expected informational applied 1000, got %d", info.Applied)
	}
	if info.Message != "10% off your first order" {
		t.Fatalf("unexpected message %q", info.Message)
	}
}

func TestResolveUnknownCode(t *testing.T) {
	svc := &Service{S: newFakeStore()}
	if _, err := svc.Resolve(context.Background(), "NOPE", 10_000); !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("expected ErrInvalidCode, got %v", err)
	}
}

func TestResolveUnpublishedCode(t *testing.T) {
	svc := &Service{S: newFakeStore()}
	if _, err := svc.Resolve(context.Background(), "HIDDEN", 10_000); !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("expected ErrInvalidCode, got %v", err)
	}
}

func TestResolveExhaustedCode(t *testing.T) {
	svc := &Service{S: newFakeStore()}
	if _, err := svc.Resolve(context.Background(), "SPENT", 10_000); !errors.Is(err, ErrUsageLimitReached) {
		t.Fatalf("expected ErrUsageLimitReached, got %v", err)
	}
}

func TestResolveExpiredCode(t *testing.T) {
	s := newFakeStore()
	rule := s.rules["WELCOME10"]
	rule.ExpiresAt = pgtype.Timestamptz{Time: time.Now().Add(-time.Minute), Valid: true}
	s.rules["WELCOME10"] = rule

	svc := &Service{S: s}
	if _, err := svc.Resolve(context.Background(), "WELCOME10", 10_000); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
}

func TestRedeemConsumesUse(t *testing.T) {
	s := newFakeStore()
	svc := &Service{S: s}
	if err := svc.Redeem(context.Background(), "WELCOME10"); err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if s.redeems != 1 {
		t.Fatalf("expected one consumed use, got %d", s.redeems)
	}
}

func TestRedeemExhaustedReportsLimit(t *testing.T) {
	svc := &Service{S: newFakeStore()}
	if err := svc.Redeem(context.Background(), "SPENT"); !errors.Is(err, ErrUsageLimitReached) {
		t.Fatalf("expected ErrUsageLimitReached, got %v", err)
	}
}
