package delivery

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/haisenberg98/brewgear-api/internal/pricing"
	"github.com/haisenberg98/brewgear-api/internal/store"
)

// ErrZoneNotFound indicates no active zone serves the destination country.
var ErrZoneNotFound = errors.New("delivery zone not found")

// Default delivery window shown when a provider record carries no estimate.
const (
	DefaultMinDays = 3
	DefaultMaxDays = 5
)

// Store captures the repository methods required by the delivery service.
type Store interface {
	GetZoneByCountry(ctx context.Context, countryCode string) (store.DeliveryZone, error)
	ListZones(ctx context.Context) ([]store.DeliveryZone, error)
	CreateZone(ctx context.Context, p store.CreateZoneParams) (store.DeliveryZone, error)
	UpdateZone(ctx context.Context, id pgtype.UUID, p store.CreateZoneParams) (store.DeliveryZone, error)
	ListMethods(ctx context.Context, zoneID pgtype.UUID) ([]store.ShippingMethod, error)
	CreateMethod(ctx context.Context, p store.CreateMethodParams) (store.ShippingMethod, error)
	DeleteMethod(ctx context.Context, id pgtype.UUID) error
}

// Providers captures the provider lookup for delivery-window estimates.
type Providers interface {
	ListProviders(ctx context.Context, ids []pgtype.UUID) ([]store.Provider, error)
}

// Service resolves delivery options and per-provider delivery estimates.
type Service struct {
	S Store
	P Providers
}

// Estimate is a per-provider delivery window shown in the cart.
type Estimate struct {
	ProviderID   uuid.UUID `json:"providerId"`
	ProviderName string    `json:"providerName,omitempty"`
	MinDays      int       `json:"minDays"`
	MaxDays      int       `json:"maxDays"`
	Label        string    `json:"label"`
}

// Estimates returns one delivery-window row per distinct provider. Providers
// without a record, or with incomplete day fields, fall back to the default
// window rather than blocking checkout. The second return reports whether the
// order may arrive in separate shipments.
func (s *Service) Estimates(ctx context.Context, providerIDs []uuid.UUID) ([]Estimate, bool, error) {
	if len(providerIDs) == 0 {
		return nil, false, nil
	}
	known := map[uuid.UUID]store.Provider{}
	if s != nil && s.P != nil {
		ids := make([]pgtype.UUID, 0, len(providerIDs))
		for _, id := range providerIDs {
			ids = append(ids, pgtype.UUID{Bytes: id, Valid: true})
		}
		providers, err := s.P.ListProviders(ctx, ids)
		if err != nil {
			return nil, false, err
		}
		for _, p := range providers {
			known[store.UUIDValue(p.ID)] = p
		}
	}
	out := make([]Estimate, 0, len(providerIDs))
	for _, id := range providerIDs {
		est := Estimate{ProviderID: id, MinDays: DefaultMinDays, MaxDays: DefaultMaxDays}
		if p, ok := known[id]; ok {
			est.ProviderName = p.Name
			if p.MinDeliveryDays.Valid && p.MaxDeliveryDays.Valid && p.MinDeliveryDays.Int32 > 0 && p.MaxDeliveryDays.Int32 > 0 {
				est.MinDays = int(p.MinDeliveryDays.Int32)
				est.MaxDays = int(p.MaxDeliveryDays.Int32)
			}
		}
		est.Label = windowLabel(est.MinDays, est.MaxDays)
		out = append(out, est)
	}
	return out, len(out) > 1, nil
}

// Option is a shipping method quoted for a destination.
type Option struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Price         pricing.Money `json:"price"`
	EstimatedDays string        `json:"estimatedDays"`
	Free          bool          `json:"free"`
}

// Quote returns the active shipping methods for a country, applying the
// zone's free-shipping threshold against the cart pre-total.
func (s *Service) Quote(ctx context.Context, countryCode string, preTotal pricing.Money) ([]Option, error) {
	if s == nil || s.S == nil {
		return nil, errors.New("delivery service not configured")
	}
	zone, err := s.S.GetZoneByCountry(ctx, countryCode)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrZoneNotFound
		}
		return nil, err
	}
	methods, err := s.S.ListMethods(ctx, zone.ID)
	if err != nil {
		return nil, err
	}
	out := make([]Option, 0, len(methods))
	for _, m := range methods {
		opt := Option{
			ID:            store.UUIDString(m.ID),
			Name:          m.Name,
			Price:         m.Price,
			EstimatedDays: m.EstimatedDays,
		}
		if m.FreeEligible && zone.FreeThreshold > 0 && preTotal >= zone.FreeThreshold {
			opt.Price = 0
			opt.Free = true
		}
		out = append(out, opt)
	}
	return out, nil
}

func windowLabel(minDays, maxDays int) string {
	if minDays == maxDays {
		if minDays == 1 {
			return "1 day"
		}
		return fmt.Sprintf("%d days", minDays)
	}
	return fmt.Sprintf("%d-%d days", minDays, maxDays)
}
