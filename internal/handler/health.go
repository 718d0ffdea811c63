package handler

import (
	"net/http"

	"beanthere/internal/httputil"
)

// Health statuses
const (
	StatusOK            = "ok"
	StatusSetupRequired = "setup_required"
)

// HealthHandler reports liveness and whether the server is configured
type HealthHandler struct {
	environment string
	setupErr    error
}

// NewHealthHandler creates a health handler. A non-nil setupErr reports
// setup mode.
func NewHealthHandler(environment string, setupErr error) *HealthHandler {
	return &HealthHandler{environment: environment, setupErr: setupErr}
}

// Health answers liveness probes
// GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	body := map[string]string{
		"status":      StatusOK,
		"environment": h.environment,
	}
	if h.setupErr != nil {
		body["status"] = StatusSetupRequired
		body["reason"] = h.setupErr.Error()
	}
	httputil.RespondJSON(w, http.StatusOK, body)
}

// SetupRequired answers every API route while configuration is missing
func SetupRequired(setupErr error) http.HandlerFunc {
	detail := "BeanThere is not configured: " + setupErr.Error()
	return func(w http.ResponseWriter, r *http.Request) {
		httputil.RespondErrorWithExtras(w, http.StatusServiceUnavailable, detail,
			map[string]interface{}{"action": "configure"})
	}
}
