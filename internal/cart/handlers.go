package cart

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/haisenberg98/brewgear-api/internal/common"
	"github.com/haisenberg98/brewgear-api/internal/currency"
	"github.com/haisenberg98/brewgear-api/internal/obs"
	"github.com/haisenberg98/brewgear-api/internal/store"
)

// Handler wires the cart service to HTTP.
type Handler struct {
	Svc             *Service
	DefaultCountry  string
	DefaultCurrency string
}

// Create creates or returns the cart for an anonymous session id.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	var payload struct {
		AnonID  string `json:"anonId"`
		Country string `json:"country"`
	}
	_ = json.NewDecoder(r.Body).Decode(&payload)
	anonID := strings.TrimSpace(payload.AnonID)
	if anonID == "" {
		anonID = uuid.NewString()
	}
	country := strings.ToUpper(strings.TrimSpace(payload.Country))
	if country == "" {
		country = h.DefaultCountry
	}
	cart, err := h.Svc.EnsureCart(r.Context(), anonID, country)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{
		"data": map[string]any{
			"cartId":  store.UUIDString(cart.ID),
			"anonId":  anonID,
			"country": cart.Country,
		},
	})
}

// Get returns cart contents with freshly recomputed totals.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	start := time.Now()
	view, err := h.Svc.Summary(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	obs.ObserveCartSummary(obs.DurationMillis(time.Since(start)))
	display := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("currency")))
	if display == "" || !currency.Supported(display) {
		display = h.DefaultCurrency
	}

	lines := make([]map[string]any, 0, len(view.Lines))
	for i, line := range view.Lines {
		lines = append(lines, map[string]any{
			"id":           view.LineIDs[i],
			"itemId":       line.ItemID,
			"providerId":   line.ProviderID,
			"name":         line.Name,
			"qty":          line.Qty,
			"unitPrice":    line.UnitPrice,
			"subtotal":     line.Subtotal(),
			"displayPrice": currency.Display(line.UnitPrice, display),
		})
	}
	data := map[string]any{
		"id":      store.UUIDString(view.Cart.ID),
		"country": view.Cart.Country,
		"items":   lines,
		"pricing": map[string]any{
			"totalItems":      view.Summary.TotalItems,
			"preTotal":        view.Summary.PreTotal,
			"postTotal":       view.Summary.PostTotal,
			"displayPreTotal": currency.Display(view.Summary.PreTotal, display),
			"displayTotal":    currency.Display(view.Summary.PostTotal, display),
		},
		"currency": display,
	}
	if view.Info != nil {
		data["discount"] = view.Info
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": data})
}

// AddItem adds or increments a cart line.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	var payload struct {
		ItemID string `json:"itemId"`
		Qty    int    `json:"qty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if payload.ItemID == "" {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "itemId is required", nil)
		return
	}
	if payload.Qty <= 0 {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "qty must be positive", nil)
		return
	}
	if err := h.Svc.AddItem(r.Context(), chi.URLParam(r, "id"), payload.ItemID, payload.Qty); err != nil {
		h.writeError(w, err)
		return
	}
	h.Get(w, r)
}

// UpdateItem sets a line quantity; zero removes the line.
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	var payload struct {
		Qty *int `json:"qty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Qty == nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if err := h.Svc.UpdateQty(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "lineId"), *payload.Qty); err != nil {
		h.writeError(w, err)
		return
	}
	h.Get(w, r)
}

// RemoveItem deletes a cart line.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	if err := h.Svc.RemoveItem(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "lineId")); err != nil {
		h.writeError(w, err)
		return
	}
	h.Get(w, r)
}

// ApplyDiscount validates and attaches a discount code to the cart.
func (h *Handler) ApplyDiscount(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	var payload struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	info, err := h.Svc.ApplyDiscount(r.Context(), chi.URLParam(r, "id"), payload.Code)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": info})
}

// RemoveDiscount clears the applied discount code.
func (h *Handler) RemoveDiscount(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	if err := h.Svc.RemoveDiscount(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{"discount": nil}})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	case errors.Is(err, ErrDiscountActive):
		common.JSONError(w, http.StatusConflict, "DISCOUNT_ACTIVE", err.Error(), nil)
	default:
		var appErr *common.AppError
		if errors.As(err, &appErr) {
			status := appErr.HTTPStatus
			if status == 0 {
				status = http.StatusBadRequest
			}
			common.JSONError(w, status, appErr.Code, appErr.Message, appErr.Details)
			return
		}
		h.writeDiscountError(w, err)
	}
}

func (h *Handler) writeDiscountError(w http.ResponseWriter, err error) {
	switch {
	case isDiscountError(err):
		common.JSONError(w, http.StatusUnprocessableEntity, "DISCOUNT_REJECTED", err.Error(), nil)
	default:
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", err.Error(), nil)
	}
}
