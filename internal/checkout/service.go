package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/haisenberg98/brewgear-api/internal/cart"
	"github.com/haisenberg98/brewgear-api/internal/currency"
	"github.com/haisenberg98/brewgear-api/internal/delivery"
	"github.com/haisenberg98/brewgear-api/internal/pricing"
)

// Settings exposes the global minimum order amount.
type Settings interface {
	MinimumOrder(ctx context.Context) (int64, error)
}

var countryLabels = map[string]string{
	"NZ": "New Zealand",
	"AU": "Australia",
}

// Service decides whether a cart may proceed to checkout and assembles the
// pre-checkout summary shown before payment.
type Service struct {
	Carts    *cart.Service
	Delivery *delivery.Service
	Settings Settings
}

// Gate is the admission decision for a cart.
type Gate struct {
	Allowed      bool          `json:"allowed"`
	MinimumOrder pricing.Money `json:"minimumOrder"`
	PreTotal     pricing.Money `json:"preTotal"`
	Shortfall    pricing.Money `json:"shortfall,omitempty"`
	Message      string        `json:"message,omitempty"`
}

// Evaluate admits a cart when its pre-discount total meets the global minimum
// order amount. Totals exactly at the minimum are allowed.
func (s *Service) Evaluate(ctx context.Context, preTotal pricing.Money, country string) (Gate, error) {
	if s == nil || s.Settings == nil {
		return Gate{}, errors.New("checkout service not configured")
	}
	minimum, err := s.Settings.MinimumOrder(ctx)
	if err != nil {
		return Gate{}, err
	}
	gate := Gate{MinimumOrder: minimum, PreTotal: preTotal}
	if preTotal >= minimum {
		gate.Allowed = true
		return gate, nil
	}
	gate.Shortfall = minimum - preTotal
	label := countryLabels[country]
	if label == "" {
		label = country
	}
	gate.Message = fmt.Sprintf("Orders to %s require a minimum of %s. Add %s more to continue.",
		label, currency.Display(minimum, currency.Base), currency.Display(gate.Shortfall, currency.Base))
	return gate, nil
}

// Summary is the full pre-checkout view: the gate decision, the recomputed
// cart totals, and the per-provider delivery windows.
type Summary struct {
	Gate             Gate                `json:"gate"`
	Totals           pricing.Summary     `json:"totals"`
	Estimates        []delivery.Estimate `json:"estimates"`
	ArriveSeparately bool                `json:"arriveSeparately"`
}

// Review recomputes the cart and evaluates checkout readiness in one pass.
// The gate runs against the pre-discount total so a discount can never buy a
// cart past the minimum.
func (s *Service) Review(ctx context.Context, cartID, country string) (Summary, error) {
	if s == nil || s.Carts == nil {
		return Summary{}, errors.New("checkout service not configured")
	}
	view, err := s.Carts.Summary(ctx, cartID)
	if err != nil {
		return Summary{}, err
	}
	gate, err := s.Evaluate(ctx, view.Summary.PreTotal, country)
	if err != nil {
		return Summary{}, err
	}
	out := Summary{Gate: gate, Totals: view.Summary}
	if s.Delivery != nil {
		estimates, separately, err := s.Delivery.Estimates(ctx, pricing.Providers(view.Lines))
		if err != nil {
			return Summary{}, err
		}
		out.Estimates = estimates
		out.ArriveSeparately = separately
	}
	return out, nil
}
