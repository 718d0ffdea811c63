package handler

import (
	"log/slog"
	"net/http"

	"beanthere/internal/domain/models"
	"beanthere/internal/domain/services"
	"beanthere/internal/httputil"
)

// PreferencesHandler handles device onboarding preferences
type PreferencesHandler struct {
	prefs  services.PreferencesProvider
	logger *slog.Logger
}

// NewPreferencesHandler creates a new preferences handler
func NewPreferencesHandler(prefs services.PreferencesProvider, logger *slog.Logger) *PreferencesHandler {
	return &PreferencesHandler{
		prefs:  prefs,
		logger: logger,
	}
}

// PreferencesResponse reports the onboarding state of a device
type PreferencesResponse struct {
	Completed   bool                    `json:"completed"`
	Preferences *models.UserPreferences `json:"preferences"`
}

// GetPreferences returns the device's onboarding answers
// GET /api/preferences
func (h *PreferencesHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.prefs.For(httputil.GetDeviceID(r)).Onboarding(r.Context())
	if err != nil {
		handleError(w, h.logger, "preferences", err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, PreferencesResponse{
		Completed:   prefs != nil,
		Preferences: prefs,
	})
}

// SavePreferences stores the onboarding answers
// PUT /api/preferences
func (h *PreferencesHandler) SavePreferences(w http.ResponseWriter, r *http.Request) {
	var req models.UserPreferences
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	saved, err := h.prefs.For(httputil.GetDeviceID(r)).SaveOnboarding(r.Context(), &req)
	if err != nil {
		handleError(w, h.logger, "preferences", err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, PreferencesResponse{
		Completed:   true,
		Preferences: saved,
	})
}

type displayNameBody struct {
	DisplayName string `json:"displayName"`
}

// GetDisplayName returns the name the device signs reviews with
// GET /api/preferences/name
func (h *PreferencesHandler) GetDisplayName(w http.ResponseWriter, r *http.Request) {
	name, err := h.prefs.For(httputil.GetDeviceID(r)).DisplayName(r.Context())
	if err != nil {
		handleError(w, h.logger, "preferences", err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, displayNameBody{DisplayName: name})
}

// SetDisplayName stores the device display name
// PUT /api/preferences/name
func (h *PreferencesHandler) SetDisplayName(w http.ResponseWriter, r *http.Request) {
	var req displayNameBody
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	name, err := h.prefs.For(httputil.GetDeviceID(r)).SetDisplayName(r.Context(), req.DisplayName)
	if err != nil {
		handleError(w, h.logger, "preferences", err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, displayNameBody{DisplayName: name})
}
