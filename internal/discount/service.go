package discount

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/haisenberg98/brewgear-api/internal/pricing"
	"github.com/haisenberg98/brewgear-api/internal/store"
)

// Store captures the repository methods required by the discount service.
type Store interface {
	GetByCode(ctx context.Context, code string) (store.DiscountRule, error)
	List(ctx context.Context) ([]store.DiscountRule, error)
	Create(ctx context.Context, p store.CreateDiscountParams) (store.DiscountRule, error)
	Update(ctx context.Context, code string, p store.CreateDiscountParams) (store.DiscountRule, error)
	Redeem(ctx context.Context, code string) (bool, error)
}

// Service evaluates and administers discount codes.
type Service struct {
	S   Store
	Now func() time.Time
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// ResolveRule validates the code server-side and returns the rule on success.
// Lookups that find nothing behave exactly like unpublished codes.
func (s *Service) ResolveRule(ctx context.Context, code string) (Rule, error) {
	if s == nil || s.S == nil {
		return Rule{}, errors.New("discount service not configured")
	}
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return Rule{}, ErrInvalidCode
	}
	model, err := s.S.GetByCode(ctx, trimmed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Rule{}, ErrInvalidCode
		}
		return Rule{}, err
	}
	rule := RuleFromModel(model)
	if err := rule.Validate(s.now()); err != nil {
		return Rule{}, err
	}
	return rule, nil
}

// Resolve validates the code and returns the client-held descriptor with the
// informational applied amount derived against the given pre-total.
func (s *Service) Resolve(ctx context.Context, code string, preTotal pricing.Money) (Info, error) {
	rule, err := s.ResolveRule(ctx, code)
	if err != nil {
		return Info{}, err
	}
	return InfoFromRule(rule, preTotal), nil
}

// Redeem consumes one use of the code at order finalization. The increment is
// a single conditional update in the repository, so concurrent redemptions
// cannot exceed the cap.
func (s *Service) Redeem(ctx context.Context, code string) error {
	if s == nil || s.S == nil {
		return errors.New("discount service not configured")
	}
	consumed, err := s.S.Redeem(ctx, strings.TrimSpace(code))
	if err != nil {
		return err
	}
	if !consumed {
		// Either unknown/unpublished/expired or exhausted; re-resolve to
		// report the precise reason.
		if _, err := s.ResolveRule(ctx, code); err != nil {
			return err
		}
		return ErrUsageLimitReached
	}
	return nil
}

// RuleParams carries admin-supplied rule fields.
type RuleParams struct {
	Code       string
	Kind       string
	Value      pricing.Money
	PercentBps int32
	MaxUsage   int32
	Published  bool
	Message    string
	ExpiresAt  *time.Time
}

// CreateRule inserts a new rule from admin input.
func (s *Service) CreateRule(ctx context.Context, p RuleParams) (Rule, error) {
	if s == nil || s.S == nil {
		return Rule{}, errors.New("discount service not configured")
	}
	model, err := s.S.Create(ctx, storeParams(p))
	if err != nil {
		return Rule{}, err
	}
	return RuleFromModel(model), nil
}

// UpdateRule rewrites an existing rule.
func (s *Service) UpdateRule(ctx context.Context, code string, p RuleParams) (Rule, error) {
	if s == nil || s.S == nil {
		return Rule{}, errors.New("discount service not configured")
	}
	model, err := s.S.Update(ctx, strings.TrimSpace(code), storeParams(p))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Rule{}, ErrInvalidCode
		}
		return Rule{}, err
	}
	return RuleFromModel(model), nil
}

// ListRules returns every rule for the admin console.
func (s *Service) ListRules(ctx context.Context) ([]Rule, error) {
	if s == nil || s.S == nil {
		return nil, errors.New("discount service not configured")
	}
	models, err := s.S.List(ctx)
	if err != nil {
		return nil, err
	}
	rules := make([]Rule, 0, len(models))
	for _, m := range models {
		rules = append(rules, RuleFromModel(m))
	}
	return rules, nil
}

// RuleFromModel converts a stored row into an evaluation rule.
func RuleFromModel(m store.DiscountRule) Rule {
	rule := Rule{
		Code:      m.Code,
		Value:     m.Value,
		MaxUsage:  m.MaxUsage,
		UsedCount: m.UsedCount,
		Published: m.Published,
		Message:   m.Message,
	}
	if m.Kind == store.DiscountKindPercent {
		rule.Kind = pricing.KindPercent
	}
	if m.PercentBps.Valid {
		rule.PercentBps = m.PercentBps.Int32
	}
	if m.ExpiresAt.Valid {
		expires := m.ExpiresAt.Time
		rule.ExpiresAt = &expires
	}
	return rule
}

func storeParams(p RuleParams) store.CreateDiscountParams {
	out := store.CreateDiscountParams{
		Code:      strings.ToUpper(strings.TrimSpace(p.Code)),
		Kind:      store.DiscountKindFlat,
		Value:     p.Value,
		MaxUsage:  p.MaxUsage,
		Published: p.Published,
		Message:   strings.TrimSpace(p.Message),
	}
	if strings.EqualFold(p.Kind, "percent") {
		out.Kind = store.DiscountKindPercent
		out.PercentBps = pgtype.Int4{Int32: p.PercentBps, Valid: true}
		out.Value = 0
	}
	if p.ExpiresAt != nil {
		out.ExpiresAt = pgtype.Timestamptz{Time: *p.ExpiresAt, Valid: true}
	}
	return out
}
