package delivery

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"

	"github.com/haisenberg98/brewgear-api/internal/common"
	"github.com/haisenberg98/brewgear-api/internal/pricing"
	"github.com/haisenberg98/brewgear-api/internal/store"
)

// Handler exposes delivery quoting and admin zone/method management.
type Handler struct {
	Svc      *Service
	Validate *validator.Validate
}

// Quote returns shipping options for a destination country and cart pre-total.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "delivery service not configured", nil)
		return
	}
	var payload struct {
		Country  string        `json:"country"`
		PreTotal pricing.Money `json:"preTotal"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	country := strings.ToUpper(strings.TrimSpace(payload.Country))
	if country == "" {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "country is required", nil)
		return
	}
	options, err := h.Svc.Quote(r.Context(), country, payload.PreTotal)
	if err != nil {
		if errors.Is(err, ErrZoneNotFound) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "no delivery zone serves this country", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to quote delivery", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": options})
}

type zonePayload struct {
	CountryCode   string `json:"countryCode" validate:"required,len=2"`
	Currency      string `json:"currency" validate:"required,len=3"`
	FreeThreshold int64  `json:"freeThreshold" validate:"gte=0"`
	Active        bool   `json:"active"`
}

// ListZones returns all zones for the admin console.
func (h *Handler) ListZones(w http.ResponseWriter, r *http.Request) {
	zones, err := h.Svc.S.ListZones(r.Context())
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to list zones", nil)
		return
	}
	views := make([]map[string]any, 0, len(zones))
	for _, z := range zones {
		views = append(views, zoneView(z))
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": views})
}

// CreateZone inserts a delivery zone.
func (h *Handler) CreateZone(w http.ResponseWriter, r *http.Request) {
	payload, ok := h.decodeZone(w, r)
	if !ok {
		return
	}
	zone, err := h.Svc.S.CreateZone(r.Context(), store.CreateZoneParams{
		CountryCode:   strings.ToUpper(payload.CountryCode),
		Currency:      strings.ToUpper(payload.Currency),
		FreeThreshold: payload.FreeThreshold,
		Active:        payload.Active,
	})
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to create zone", nil)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": zoneView(zone)})
}

// UpdateZone rewrites a zone's fields.
func (h *Handler) UpdateZone(w http.ResponseWriter, r *http.Request) {
	id, err := store.ToUUID(chi.URLParam(r, "zoneId"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid zone id", nil)
		return
	}
	payload, ok := h.decodeZone(w, r)
	if !ok {
		return
	}
	zone, err := h.Svc.S.UpdateZone(r.Context(), id, store.CreateZoneParams{
		CountryCode:   strings.ToUpper(payload.CountryCode),
		Currency:      strings.ToUpper(payload.Currency),
		FreeThreshold: payload.FreeThreshold,
		Active:        payload.Active,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "zone not found", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to update zone", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": zoneView(zone)})
}

type methodPayload struct {
	Name          string `json:"name" validate:"required,max=80"`
	Price         int64  `json:"price" validate:"gte=0"`
	FreeEligible  bool   `json:"freeEligible"`
	EstimatedDays string `json:"estimatedDays" validate:"required,max=20"`
	Active        bool   `json:"active"`
	SortOrder     int32  `json:"sortOrder"`
}

// CreateMethod inserts a shipping method into a zone.
func (h *Handler) CreateMethod(w http.ResponseWriter, r *http.Request) {
	zoneID, err := store.ToUUID(chi.URLParam(r, "zoneId"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid zone id", nil)
		return
	}
	var payload methodPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(payload); err != nil {
			common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid shipping method", nil)
			return
		}
	}
	method, err := h.Svc.S.CreateMethod(r.Context(), store.CreateMethodParams{
		ZoneID:        zoneID,
		Name:          strings.TrimSpace(payload.Name),
		Price:         payload.Price,
		FreeEligible:  payload.FreeEligible,
		EstimatedDays: strings.TrimSpace(payload.EstimatedDays),
		Active:        payload.Active,
		SortOrder:     payload.SortOrder,
	})
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to create method", nil)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": map[string]any{
		"id":     store.UUIDString(method.ID),
		"zoneId": store.UUIDString(method.ZoneID),
		"name":   method.Name,
	}})
}

// DeleteMethod removes a shipping method.
func (h *Handler) DeleteMethod(w http.ResponseWriter, r *http.Request) {
	id, err := store.ToUUID(chi.URLParam(r, "methodId"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid method id", nil)
		return
	}
	if err := h.Svc.S.DeleteMethod(r.Context(), id); err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to delete method", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": nil})
}

func (h *Handler) decodeZone(w http.ResponseWriter, r *http.Request) (zonePayload, bool) {
	if h.Svc == nil || h.Svc.S == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "delivery service not configured", nil)
		return zonePayload{}, false
	}
	var payload zonePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return zonePayload{}, false
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(payload); err != nil {
			common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid zone", nil)
			return zonePayload{}, false
		}
	}
	return payload, true
}

func zoneView(z store.DeliveryZone) map[string]any {
	return map[string]any{
		"id":            store.UUIDString(z.ID),
		"countryCode":   z.CountryCode,
		"currency":      z.Currency,
		"freeThreshold": z.FreeThreshold,
		"active":        z.Active,
	}
}
