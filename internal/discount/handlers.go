package discount

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/haisenberg98/brewgear-api/internal/common"
	"github.com/haisenberg98/brewgear-api/internal/obs"
	"github.com/haisenberg98/brewgear-api/internal/pricing"
)

// Handler exposes discount validation and admin management endpoints.
type Handler struct {
	Svc      *Service
	Validate *validator.Validate
}

type rulePayload struct {
	Code       string     `json:"code" validate:"required,min=3,max=32"`
	Kind       string     `json:"kind" validate:"required,oneof=flat percent"`
	Value      int64      `json:"value" validate:"gte=0"`
	PercentBps int32      `json:"percentBps" validate:"gte=0,lte=10000"`
	MaxUsage   int32      `json:"maxUsage" validate:"required,gt=0"`
	Published  bool       `json:"published"`
	Message    string     `json:"message" validate:"max=200"`
	ExpiresAt  *time.Time `json:"expiresAt"`
}

type validateRequest struct {
	Code     string        `json:"code"`
	PreTotal pricing.Money `json:"preTotal"`
}

// ValidateCode checks a code against the current cart pre-total and returns
// the discount descriptor. The response never contains a persisted applied
// amount; clients re-derive it on every cart mutation.
func (h *Handler) ValidateCode(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "discount service not configured", nil)
		return
	}
	var payload validateRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	info, err := h.Svc.Resolve(r.Context(), payload.Code, payload.PreTotal)
	if err != nil {
		obs.IncDiscountResolved("rejected")
		h.writeError(w, err)
		return
	}
	obs.IncDiscountResolved("accepted")
	common.JSON(w, http.StatusOK, map[string]any{"data": info})
}

// Create inserts a new discount rule.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	params, ok := h.decodeRule(w, r)
	if !ok {
		return
	}
	rule, err := h.Svc.CreateRule(r.Context(), params)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			common.JSONError(w, http.StatusConflict, "CONFLICT", "discount code already exists", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to create discount", nil)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": ruleView(rule)})
}

// Update mutates an existing discount rule identified by code.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimSpace(chi.URLParam(r, "code"))
	if code == "" {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "code is required", nil)
		return
	}
	params, ok := h.decodeRule(w, r)
	if !ok {
		return
	}
	rule, err := h.Svc.UpdateRule(r.Context(), code, params)
	if err != nil {
		if errors.Is(err, ErrInvalidCode) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "discount not found", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to update discount", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": ruleView(rule)})
}

// List returns all discount rules for the admin console.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	rules, err := h.Svc.ListRules(r.Context())
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to list discounts", nil)
		return
	}
	views := make([]map[string]any, 0, len(rules))
	for _, rule := range rules {
		views = append(views, ruleView(rule))
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": views})
}

func (h *Handler) decodeRule(w http.ResponseWriter, r *http.Request) (RuleParams, bool) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "discount service not configured", nil)
		return RuleParams{}, false
	}
	var payload rulePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return RuleParams{}, false
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(payload); err != nil {
			common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid discount rule", validationDetails(err))
			return RuleParams{}, false
		}
	}
	if strings.EqualFold(payload.Kind, "percent") && payload.PercentBps <= 0 {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "percentBps must be positive for percent discounts", nil)
		return RuleParams{}, false
	}
	if strings.EqualFold(payload.Kind, "flat") && payload.Value <= 0 {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "value must be positive for flat discounts", nil)
		return RuleParams{}, false
	}
	return RuleParams{
		Code:       payload.Code,
		Kind:       payload.Kind,
		Value:      payload.Value,
		PercentBps: payload.PercentBps,
		MaxUsage:   payload.MaxUsage,
		Published:  payload.Published,
		Message:    payload.Message,
		ExpiresAt:  payload.ExpiresAt,
	}, true
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidCode):
		common.JSONError(w, http.StatusUnprocessableEntity, "DISCOUNT_INVALID", ErrInvalidCode.Error(), nil)
	case errors.Is(err, ErrExpired):
		common.JSONError(w, http.StatusUnprocessableEntity, "DISCOUNT_EXPIRED", ErrExpired.Error(), nil)
	case errors.Is(err, ErrUsageLimitReached):
		common.JSONError(w, http.StatusUnprocessableEntity, "DISCOUNT_EXHAUSTED", ErrUsageLimitReached.Error(), nil)
	default:
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to validate discount", nil)
	}
}

func ruleView(r Rule) map[string]any {
	kind := "flat"
	if r.Kind == pricing.KindPercent {
		kind = "percent"
	}
	view := map[string]any{
		"code":      r.Code,
		"kind":      kind,
		"value":     r.Value,
		"maxUsage":  r.MaxUsage,
		"usedCount": r.UsedCount,
		"published": r.Published,
		"message":   r.Message,
	}
	if r.Kind == pricing.KindPercent {
		view["percentBps"] = r.PercentBps
	}
	if r.ExpiresAt != nil {
		view["expiresAt"] = r.ExpiresAt
	}
	return view
}

func validationDetails(err error) any {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	return fields
}
