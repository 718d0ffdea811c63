package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"beanthere/internal/domain"
	"beanthere/internal/domain/models"
	"beanthere/internal/httputil"
	"beanthere/internal/metrics"
)

// User-facing remediation text for unavailable backends
const (
	msgReviewsUnavailable = "Reviews are unavailable right now. The review store is not provisioned; please try again later."
	msgStorageUnavailable = "Storage service not available. Please enable storage."
	msgStoreUnavailable   = "This feature is unavailable right now. Please try again later."
	msgInternal           = "Something went wrong. Please try again."
)

// handleError converts domain errors to HTTP responses. collection labels
// store failures in metrics.
func handleError(w http.ResponseWriter, logger *slog.Logger, collection string, err error) {
	var (
		validationErr  *domain.ValidationError
		conflictErr    *domain.ConflictError
		unavailableErr *domain.BackendUnavailableError
		upstreamErr    *domain.UpstreamError
	)

	switch {
	case errors.As(err, &validationErr):
		if len(validationErr.Fields) > 0 {
			httputil.RespondErrorWithExtras(w, http.StatusBadRequest, validationErr.Message,
				map[string]interface{}{"errors": validationErr.Fields})
			return
		}
		httputil.RespondError(w, http.StatusBadRequest, validationErr.Message)
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrOnboardingRequired):
		httputil.RespondErrorWithExtras(w, http.StatusPreconditionFailed, err.Error(),
			map[string]interface{}{"action": "onboarding"})
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, err.Error())
	case errors.As(err, &conflictErr):
		httputil.RespondError(w, http.StatusConflict, conflictErr.Error())
	case errors.As(err, &upstreamErr):
		logger.Warn("upstream failure", "collection", collection, "error", err)
		httputil.RespondError(w, http.StatusBadGateway, upstreamErr.Message)
	case errors.As(err, &unavailableErr):
		metrics.ObserveStoreError(collection, true)
		logger.Warn("backend unavailable", "collection", collection, "service", unavailableErr.Service, "error", err)
		httputil.RespondError(w, http.StatusServiceUnavailable, unavailableMessage(unavailableErr.Service, collection))
	case domain.IsBackendUnavailable(err):
		metrics.ObserveStoreError(collection, true)
		logger.Warn("backend unavailable", "collection", collection, "error", err)
		httputil.RespondError(w, http.StatusServiceUnavailable, unavailableMessage("", collection))
	default:
		metrics.ObserveStoreError(collection, false)
		logger.Error("request failed", "collection", collection, "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, msgInternal)
	}
}

func unavailableMessage(service, collection string) string {
	if service == "" {
		service = collection
	}
	switch service {
	case "reviews", "supabase", "postgres":
		return msgReviewsUnavailable
	case "storage":
		return msgStorageUnavailable
	default:
		return msgStoreUnavailable
	}
}

// sessionFromClaims builds the profile defaults for the caller
func sessionFromClaims(r *http.Request) *models.Session {
	claims := httputil.GetClaims(r)
	if claims == nil {
		return nil
	}
	return &models.Session{
		UID:         claims.GetUserID(),
		Email:       claims.Email,
		DisplayName: claims.GetDisplayName(),
		AvatarURL:   claims.GetAvatarURL(),
	}
}

// respondBadLocation answers 400 for malformed coordinates
func respondBadLocation(w http.ResponseWriter, err error) {
	httputil.RespondError(w, http.StatusBadRequest, err.Error())
}
