package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"beanthere/internal/domain/models"
	"beanthere/internal/domain/services"
	"beanthere/internal/httputil"
	"beanthere/internal/mapview"
)

// ExploreHandler handles location, places and explore requests
type ExploreHandler struct {
	explore  services.ExploreService
	prefs    services.PreferencesProvider
	renderer *mapview.Renderer
	logger   *slog.Logger
}

// NewExploreHandler creates a new explore handler
func NewExploreHandler(
	explore services.ExploreService,
	prefs services.PreferencesProvider,
	renderer *mapview.Renderer,
	logger *slog.Logger,
) *ExploreHandler {
	return &ExploreHandler{
		explore:  explore,
		prefs:    prefs,
		renderer: renderer,
		logger:   logger,
	}
}

// locateRequest reads what the browser reported about its position
func locateRequest(r *http.Request) (services.LocateRequest, error) {
	pos, err := httputil.ParseLatLng(r)
	if err != nil {
		return services.LocateRequest{}, err
	}
	accuracy, _ := strconv.ParseFloat(r.URL.Query().Get("accuracy"), 64)
	return services.LocateRequest{
		Position: pos,
		Accuracy: accuracy,
		Denied:   httputil.ParseBool(r, "denied"),
		ClientIP: httputil.ClientIP(r),
	}, nil
}

// Locate resolves the device location, falling back to the default
// GET /api/location?lat&lng&denied
func (h *ExploreHandler) Locate(w http.ResponseWriter, r *http.Request) {
	req, err := locateRequest(r)
	if err != nil {
		respondBadLocation(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, h.explore.Locate(r.Context(), req))
}

// Explore ranks nearby cafes against the device's onboarding answers
// GET /api/explore?lat&lng
func (h *ExploreHandler) Explore(w http.ResponseWriter, r *http.Request) {
	result, ok := h.runExplore(w, r)
	if !ok {
		return
	}
	httputil.RespondJSON(w, http.StatusOK, result)
}

// ExploreMap returns the explore results as GeoJSON markers
// GET /api/explore/map?lat&lng
func (h *ExploreHandler) ExploreMap(w http.ResponseWriter, r *http.Request) {
	result, ok := h.runExplore(w, r)
	if !ok {
		return
	}

	cafes := make([]models.ScoredCafe, 0, len(result.Recommended)+len(result.Other))
	cafes = append(cafes, result.Recommended...)
	cafes = append(cafes, result.Other...)

	m := mapview.NewGeoJSONMap()
	h.renderer.Render(m, result.Location.Location, cafes)

	payload, err := json.Marshal(m)
	if err != nil {
		handleError(w, h.logger, "places", err)
		return
	}
	httputil.RespondGeoJSON(w, payload)
}

func (h *ExploreHandler) runExplore(w http.ResponseWriter, r *http.Request) (*services.ExploreResult, bool) {
	req, err := locateRequest(r)
	if err != nil {
		respondBadLocation(w, err)
		return nil, false
	}

	prefs, err := h.prefs.For(httputil.GetDeviceID(r)).Onboarding(r.Context())
	if err != nil {
		handleError(w, h.logger, "preferences", err)
		return nil, false
	}

	result, err := h.explore.Explore(r.Context(), prefs, req)
	if err != nil {
		handleError(w, h.logger, "places", err)
		return nil, false
	}
	return result, true
}

// SearchPlaces runs a text search for coffee shops
// GET /api/places/search?q&lat&lng
func (h *ExploreHandler) SearchPlaces(w http.ResponseWriter, r *http.Request) {
	loc, err := httputil.ParseLatLng(r)
	if err != nil {
		respondBadLocation(w, err)
		return
	}

	result, err := h.explore.Search(r.Context(), strings.TrimSpace(r.URL.Query().Get("q")), loc)
	if err != nil {
		handleError(w, h.logger, "places", err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, result)
}

// NearbyPlaces runs a nearby search shaped by the device preferences
// GET /api/places/nearby?lat&lng
func (h *ExploreHandler) NearbyPlaces(w http.ResponseWriter, r *http.Request) {
	center, err := httputil.ParseLatLng(r)
	if err != nil {
		respondBadLocation(w, err)
		return
	}
	if center == nil {
		httputil.RespondError(w, http.StatusBadRequest, "lat and lng are required")
		return
	}

	prefs, err := h.prefs.For(httputil.GetDeviceID(r)).Onboarding(r.Context())
	if err != nil {
		handleError(w, h.logger, "preferences", err)
		return
	}

	result, err := h.explore.Nearby(r.Context(), prefs, *center)
	if err != nil {
		handleError(w, h.logger, "places", err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, result)
}
