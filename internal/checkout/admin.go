package checkout

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/haisenberg98/brewgear-api/internal/common"
	"github.com/haisenberg98/brewgear-api/internal/pricing"
)

// SettingsWriter updates the global minimum order amount.
type SettingsWriter interface {
	Settings
	SetMinimumOrder(ctx context.Context, amount int64) error
}

// AdminHandler manages the checkout gate configuration.
type AdminHandler struct {
	Settings SettingsWriter
}

// GetMinimumOrder handles GET /admin/settings/minimum-order.
func (h *AdminHandler) GetMinimumOrder(w http.ResponseWriter, r *http.Request) {
	if h.Settings == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "settings not configured", nil)
		return
	}
	minimum, err := h.Settings.MinimumOrder(r.Context())
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to read settings", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{"minimumOrder": minimum}})
}

// SetMinimumOrder handles PUT /admin/settings/minimum-order.
func (h *AdminHandler) SetMinimumOrder(w http.ResponseWriter, r *http.Request) {
	if h.Settings == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "settings not configured", nil)
		return
	}
	var payload struct {
		MinimumOrder pricing.Money `json:"minimumOrder"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if payload.MinimumOrder < 0 {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "minimumOrder must not be negative", nil)
		return
	}
	if err := h.Settings.SetMinimumOrder(r.Context(), int64(payload.MinimumOrder)); err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to update settings", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{"minimumOrder": payload.MinimumOrder}})
}
