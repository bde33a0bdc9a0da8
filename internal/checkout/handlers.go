package checkout

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/haisenberg98/brewgear-api/internal/cart"
	"github.com/haisenberg98/brewgear-api/internal/common"
	"github.com/haisenberg98/brewgear-api/internal/obs"
)

// Handler exposes the checkout gate and pre-checkout review.
type Handler struct {
	Svc            *Service
	DefaultCountry string
}

// Review evaluates checkout readiness for a cart.
func (h *Handler) Review(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "checkout service not configured", nil)
		return
	}
	var payload struct {
		CartID  string `json:"cartId"`
		Country string `json:"country"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if payload.CartID == "" {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "cartId is required", nil)
		return
	}
	country := strings.ToUpper(strings.TrimSpace(payload.Country))
	if country == "" {
		country = h.DefaultCountry
	}
	summary, err := h.Svc.Review(r.Context(), payload.CartID, country)
	if err != nil {
		switch {
		case errors.Is(err, cart.ErrNotFound):
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "cart not found", nil)
		case errors.Is(err, cart.ErrInvalidInput):
			common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid cart id", nil)
		default:
			common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to review checkout", nil)
		}
		return
	}
	if !summary.Gate.Allowed {
		obs.IncCheckoutGateBlocked()
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": summary})
}
