package delivery

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/haisenberg98/brewgear-api/internal/store"
)

type fakeProviders struct {
	providers map[uuid.UUID]store.Provider
}

func (f fakeProviders) ListProviders(_ context.Context, ids []pgtype.UUID) ([]store.Provider, error) {
	var out []store.Provider
	for _, id := range ids {
		if p, ok := f.providers[store.UUIDValue(id)]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeDeliveryStore struct {
	zone    store.DeliveryZone
	methods []store.ShippingMethod
}

func (f fakeDeliveryStore) GetZoneByCountry(_ context.Context, countryCode string) (store.DeliveryZone, error) {
	if f.zone.CountryCode != countryCode {
		return store.DeliveryZone{}, pgx.ErrNoRows
	}
	return f.zone, nil
}

func (f fakeDeliveryStore) ListZones(_ context.Context) ([]store.DeliveryZone, error) {
	return []store.DeliveryZone{f.zone}, nil
}

func (f fakeDeliveryStore) CreateZone(_ context.Context, _ store.CreateZoneParams) (store.DeliveryZone, error) {
	return f.zone, nil
}

func (f fakeDeliveryStore) UpdateZone(_ context.Context, _ pgtype.UUID, _ store.CreateZoneParams) (store.DeliveryZone, error) {
	return f.zone, nil
}

func (f fakeDeliveryStore) ListMethods(_ context.Context, _ pgtype.UUID) ([]store.ShippingMethod, error) {
	return f.methods, nil
}

func (f fakeDeliveryStore) CreateMethod(_ context.Context, _ store.CreateMethodParams) (store.ShippingMethod, error) {
	return store.ShippingMethod{}, nil
}

func (f fakeDeliveryStore) DeleteMethod(_ context.Context, _ pgtype.UUID) error { return nil }

func TestEstimatesMultiProvider(t *testing.T) {
	p1 := uuid.New()
	p2 := uuid.New()
	svc := &Service{P: fakeProviders{providers: map[uuid.UUID]store.Provider{
		p1: {
			ID:              pgtype.UUID{Bytes: p1, Valid: true},
			Name:            "Comandante",
			MinDeliveryDays: pgtype.Int4{Int32: 2, Valid: true},
			MaxDeliveryDays: pgtype.Int4{Int32: 4, Valid: true},
		},
		p2: {
			ID:              pgtype.UUID{Bytes: p2, Valid: true},
			Name:            "Fellow",
			MinDeliveryDays: pgtype.Int4{Int32: 7, Valid: true},
			MaxDeliveryDays: pgtype.Int4{Int32: 7, Valid: true},
		},
	}}}

	estimates, separately, err := svc.Estimates(context.Background(), []uuid.UUID{p1, p2})
	if err != nil {
		t.Fatalf("estimates: %v", err)
	}
	if len(estimates) != 2 {
		t.Fatalf("expected one row per provider, got %d", len(estimates))
	}
	if !separately {
		t.Fatal("expected the may-arrive-separately notice for two providers")
	}
	if estimates[0].Label != "2-4 days" {
		t.Fatalf("expected range label, got %q", estimates[0].Label)
	}
	if estimates[1].Label != "7 days" {
		t.Fatalf("expected single-value label when min equals max, got %q", estimates[1].Label)
	}
}

func TestEstimatesSingleProviderNoNotice(t *testing.T) {
	p1 := uuid.New()
	svc := &Service{P: fakeProviders{providers: map[uuid.UUID]store.Provider{}}}
	estimates, separately, err := svc.Estimates(context.Background(), []uuid.UUID{p1})
	if err != nil {
		t.Fatalf("estimates: %v", err)
	}
	if len(estimates) != 1 || separately {
		t.Fatalf("expected one row and no notice, got %d rows, notice=%v", len(estimates), separately)
	}
	// Unknown provider falls back to the default window.
	if estimates[0].Label != "3-5 days" {
		t.Fatalf("expected default 3-5 days fallback, got %q", estimates[0].Label)
	}
}

func TestQuoteAppliesFreeThreshold(t *testing.T) {
	zoneID := pgtype.UUID{Bytes: uuid.New(), Valid: true}
	svc := &Service{S: fakeDeliveryStore{
		zone: store.DeliveryZone{ID: zoneID, CountryCode: "NZ", Currency: "NZD", FreeThreshold: 10_000, Active: true},
		methods: []store.ShippingMethod{
			{ID: pgtype.UUID{Bytes: uuid.New(), Valid: true}, Name: "Standard", Price: 800, FreeEligible: true, EstimatedDays: "3-5"},
			{ID: pgtype.UUID{Bytes: uuid.New(), Valid: true}, Name: "Express", Price: 1_500, FreeEligible: false, EstimatedDays: "1-2"},
		},
	}}

	options, err := svc.Quote(context.Background(), "NZ", 12_000)
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if !options[0].Free || options[0].Price != 0 {
		t.Fatalf("standard shipping should be free above the threshold: %+v", options[0])
	}
	if options[1].Free || options[1].Price != 1_500 {
		t.Fatalf("express is not free-eligible: %+v", options[1])
	}

	options, err = svc.Quote(context.Background(), "NZ", 9_999)
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if options[0].Free {
		t.Fatal("free shipping must not apply below the threshold")
	}
}

func TestQuoteUnknownCountry(t *testing.T) {
	svc := &Service{S: fakeDeliveryStore{zone: store.DeliveryZone{CountryCode: "NZ"}}}
	if _, err := svc.Quote(context.Background(), "US", 1_000); !errors.Is(err, ErrZoneNotFound) {
		t.Fatalf("expected ErrZoneNotFound, got %v", err)
	}
}
