package handler

import (
	"log/slog"
	"net/http"

	"beanthere/internal/domain/services"
	"beanthere/internal/httputil"
)

// CafeHandler serves the curated cafe catalog
type CafeHandler struct {
	catalog services.CatalogService
	logger  *slog.Logger
}

// NewCafeHandler creates a new cafe handler
func NewCafeHandler(catalog services.CatalogService, logger *slog.Logger) *CafeHandler {
	return &CafeHandler{
		catalog: catalog,
		logger:  logger,
	}
}

// ListCafes returns catalog cafes carrying every requested tag
// GET /api/cafes?tags=a,b
func (h *CafeHandler) ListCafes(w http.ResponseWriter, r *http.Request) {
	cafes, err := h.catalog.List(r.Context(), httputil.ParseList(r, "tags"))
	if err != nil {
		handleError(w, h.logger, "cafes", err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"cafes":    cafes,
		"vibeTags": h.catalog.VibeTags(),
	})
}

// NearbyCafes returns catalog cafes near the device plus the closest one
// GET /api/cafes/nearby?lat&lng
func (h *CafeHandler) NearbyCafes(w http.ResponseWriter, r *http.Request) {
	center, err := httputil.ParseLatLng(r)
	if err != nil {
		respondBadLocation(w, err)
		return
	}
	if center == nil {
		httputil.RespondError(w, http.StatusBadRequest, "lat and lng are required")
		return
	}

	nearby, err := h.catalog.Nearby(r.Context(), *center)
	if err != nil {
		handleError(w, h.logger, "cafes", err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, nearby)
}
