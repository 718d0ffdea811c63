package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"beanthere/internal/config"
	"beanthere/internal/domain"
	"beanthere/internal/domain/models"
	"beanthere/internal/domain/services"
	"beanthere/internal/httputil"
)

// multipartOverhead is the slack allowed above the image limit for form framing
const multipartOverhead = 1 << 20

// ProfileHandler handles the caller's profile page
type ProfileHandler struct {
	profiles services.ProfileService
	logger   *slog.Logger
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profiles services.ProfileService, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{
		profiles: profiles,
		logger:   logger,
	}
}

// UpdateProfileRequest is a partial profile update. Bio and location
// distinguish absent from null.
type UpdateProfileRequest struct {
	DisplayName *string                    `json:"displayName"`
	Bio         httputil.OptionalString    `json:"bio"`
	Location    httputil.OptionalString    `json:"location"`
	Preferences *models.ProfilePreferences `json:"preferences"`
}

// GetProfile returns the caller's profile, creating it from the token on
// first visit
// GET /api/users/me/profile
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profiles.GetProfile(r.Context(), httputil.GetUserID(r))
	if errors.Is(err, domain.ErrNotFound) {
		profile, err = h.profiles.CreateProfile(r.Context(), sessionFromClaims(r))
	}
	if err != nil {
		handleError(w, h.logger, "users", err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, profile)
}

// UpdateProfile applies a partial update
// PATCH /api/users/me/profile
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	profile, err := h.profiles.UpdateProfile(r.Context(), httputil.GetUserID(r), &models.UpdateProfileRequest{
		DisplayName: req.DisplayName,
		Bio:         req.Bio.ToOptionalText(),
		Location:    req.Location.ToOptionalText(),
		Preferences: req.Preferences,
	})
	if err != nil {
		handleError(w, h.logger, "users", err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, profile)
}

// UploadPicture replaces the profile picture with the "file" form field
// POST /api/users/me/profile/picture
func (h *ProfileHandler) UploadPicture(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxProfileImageBytes+multipartOverhead)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.RespondError(w, http.StatusRequestEntityTooLarge, "File size must be less than 5MB")
			return
		}
		httputil.RespondError(w, http.StatusBadRequest, "Please choose an image to upload")
		return
	}
	defer file.Close()

	// One byte over the limit is enough for the size check to fire
	data, err := io.ReadAll(io.LimitReader(file, config.MaxProfileImageBytes+1))
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid image file")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}

	url, err := h.profiles.UploadProfilePicture(r.Context(), httputil.GetUserID(r), data, contentType)
	if err != nil {
		handleError(w, h.logger, "storage", err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"photoURL": url})
}
