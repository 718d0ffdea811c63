package handler

import (
	"log/slog"
	"net/http"

	"beanthere/internal/domain/models"
	"beanthere/internal/domain/services"
	"beanthere/internal/httputil"
)

// AuthHandler exposes the identity service
type AuthHandler struct {
	identity services.IdentityService
	profiles services.ProfileService
	logger   *slog.Logger
}

// NewAuthHandler creates a new auth handler. profiles may be nil; when set,
// every sign-in makes sure the users document exists.
func NewAuthHandler(identity services.IdentityService, profiles services.ProfileService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		identity: identity,
		profiles: profiles,
		logger:   logger,
	}
}

// CredentialsRequest is the email and password form
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProviderRequest carries an OAuth ID token obtained by the client
type ProviderRequest struct {
	Provider string `json:"provider"`
	IDToken  string `json:"idToken"`
}

// SignIn signs in with email and password
// POST /api/auth/signin
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	result := h.identity.SignInWithEmail(r.Context(), httputil.GetDeviceID(r), req.Email, req.Password)
	h.respondSignIn(w, r, result)
}

// SignUp creates an account; the result carries the verify-email message
// POST /api/auth/signup
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	result := h.identity.SignUpWithEmail(r.Context(), httputil.GetDeviceID(r), req.Email, req.Password)
	if !result.Success {
		httputil.RespondError(w, http.StatusBadRequest, result.Message)
		return
	}
	h.ensureProfile(r, result.Session)
	httputil.RespondJSON(w, http.StatusCreated, result)
}

// SignInWithProvider exchanges a provider ID token for a session
// POST /api/auth/provider
func (h *AuthHandler) SignInWithProvider(w http.ResponseWriter, r *http.Request) {
	var req ProviderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	result := h.identity.SignInWithProvider(r.Context(), httputil.GetDeviceID(r), req.Provider, req.IDToken)
	h.respondSignIn(w, r, result)
}

// SignOut ends the session. An expired token still clears the device.
// POST /api/auth/signout
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	result := h.identity.SignOut(r.Context(), httputil.GetDeviceID(r), httputil.GetUserID(r), httputil.BearerToken(r))
	if !result.Success {
		httputil.RespondError(w, http.StatusBadGateway, result.Message)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, result)
}

// ResendVerification sends the signup email again
// POST /api/auth/verification
func (h *AuthHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	result := h.identity.ResendVerification(r.Context(), httputil.GetAccessToken(r))
	if !result.Success {
		httputil.RespondError(w, http.StatusUnauthorized, result.Message)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, result)
}

// Session returns the current session; anonymous callers get success=false
// GET /api/auth/session
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	result := h.identity.CurrentSession(r.Context(), httputil.GetDeviceID(r), httputil.GetAccessToken(r))
	httputil.RespondJSON(w, http.StatusOK, result)
}

func (h *AuthHandler) respondSignIn(w http.ResponseWriter, r *http.Request, result models.AuthResult) {
	if !result.Success {
		httputil.RespondError(w, http.StatusUnauthorized, result.Message)
		return
	}
	h.ensureProfile(r, result.Session)
	httputil.RespondJSON(w, http.StatusOK, result)
}

// ensureProfile creates or merges the users document. Failures are logged
// and never fail the sign-in.
func (h *AuthHandler) ensureProfile(r *http.Request, session *models.Session) {
	if h.profiles == nil || session == nil {
		return
	}
	if _, err := h.profiles.CreateProfile(r.Context(), session); err != nil {
		h.logger.Warn("failed to create profile on sign-in", "uid", session.UID, "error", err)
	}
}
