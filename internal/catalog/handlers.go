package catalog

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/haisenberg98/brewgear-api/internal/common"
	"github.com/haisenberg98/brewgear-api/internal/currency"
)

// Handler exposes the public catalog endpoints.
type Handler struct {
	Svc             *Service
	DefaultCurrency string
}

// ListItems handles GET /items with optional category, limit, offset and
// currency query parameters.
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog service not configured", nil)
		return
	}
	params := ListParams{Category: r.URL.Query().Get("category")}
	if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil || n < 1 {
			common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "limit must be a positive integer", nil)
			return
		}
		params.Limit = int32(n)
	}
	if v := strings.TrimSpace(r.URL.Query().Get("offset")); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil || n < 0 {
			common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "offset must not be negative", nil)
			return
		}
		params.Offset = int32(n)
	}
	items, err := h.Svc.ListItems(r.Context(), params)
	if err != nil {
		h.writeError(w, err)
		return
	}
	code := h.displayCurrency(r)
	for i := range items {
		items[i].Display = currency.Display(items[i].Price, code)
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": items})
}

// GetItem handles GET /items/{slug}.
func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog service not configured", nil)
		return
	}
	detail, err := h.Svc.GetItem(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	detail.Display = currency.Display(detail.Price, h.displayCurrency(r))
	common.JSON(w, http.StatusOK, map[string]any{"data": detail})
}

// ListCategories handles GET /categories.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog service not configured", nil)
		return
	}
	categories, err := h.Svc.ListCategories(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": categories})
}

func (h *Handler) displayCurrency(r *http.Request) string {
	if code := strings.TrimSpace(r.URL.Query().Get("currency")); code != "" && currency.Supported(code) {
		return code
	}
	if h.DefaultCurrency != "" {
		return h.DefaultCurrency
	}
	return currency.Base
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		common.JSONError(w, appErr.HTTPStatus, appErr.Code, appErr.Message, appErr.Details)
		return
	}
	common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog lookup failed", nil)
}
