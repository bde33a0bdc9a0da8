package newsletter

import (
	"encoding/json"
	"errors"
	"net/http"

	validator "github.com/go-playground/validator/v10"

	"github.com/haisenberg98/brewgear-api/internal/common"
	"github.com/haisenberg98/brewgear-api/internal/obs"
)

// Handler exposes the newsletter signup endpoint.
type Handler struct {
	Svc      *Service
	Validate *validator.Validate
}

// Subscribe handles POST /newsletter. Duplicate signups are reported as a
// conflict so the storefront can show "already subscribed".
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "newsletter service not configured", nil)
		return
	}
	var payload struct {
		Email string `json:"email" validate:"required,email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(payload); err != nil {
			common.JSONError(w, http.StatusUnprocessableEntity, "INVALID_EMAIL", "a valid email address is required", nil)
			return
		}
	}
	sub, err := h.Svc.Subscribe(r.Context(), payload.Email)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidEmail):
			obs.IncNewsletterSignup("invalid")
			common.JSONError(w, http.StatusUnprocessableEntity, "INVALID_EMAIL", "a valid email address is required", nil)
		case errors.Is(err, ErrAlreadySubscribed):
			obs.IncNewsletterSignup("duplicate")
			common.JSONError(w, http.StatusConflict, "ALREADY_SUBSCRIBED", "this email is already subscribed", nil)
		default:
			common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to subscribe", nil)
		}
		return
	}
	obs.IncNewsletterSignup("subscribed")
	common.JSON(w, http.StatusCreated, map[string]any{"data": map[string]any{
		"email": sub.Email,
	}})
}
