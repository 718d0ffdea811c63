package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"net"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	_ "golang.org/x/image/webp"

	"beanthere/internal/config"
	"beanthere/internal/domain"
	"beanthere/internal/domain/models"
	"beanthere/internal/domain/repositories"
	"beanthere/internal/domain/services"
)

// Upload failure messages shown to the user.
const (
	msgNotImage       = "File must be an image"
	msgTooLarge       = "File size must be less than 5MB"
	msgZeroDimensions = "Invalid image: zero dimensions"
	msgTooSmall       = "Image too small: minimum 50x50 pixels"
	msgInvalidImage   = "Invalid image file"

	msgStorageUnavailable = "Storage service not available. Please enable storage."
	msgStorageDenied      = "Permission denied. Please check storage security rules."
	msgStorageNetwork     = "Network error. Please check your internet connection."
)

// providerPhotoHost marks avatars hosted by the sign-in provider. They are
// never deleted from our bucket.
const providerPhotoHost = "googleusercontent.com"

// profileService implements services.ProfileService
type profileService struct {
	profileRepo repositories.UserProfileRepository
	blobs       repositories.BlobStore
	logger      *slog.Logger
	now         func() time.Time
}

// NewProfileService creates a new profile service
func NewProfileService(
	profileRepo repositories.UserProfileRepository,
	blobs repositories.BlobStore,
	logger *slog.Logger,
) services.ProfileService {
	return &profileService{
		profileRepo: profileRepo,
		blobs:       blobs,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *profileService) GetProfile(ctx context.Context, uid string) (*models.UserProfile, error) {
	if uid == "" {
		return nil, &domain.UnauthorizedError{Message: "Please sign in to view your profile"}
	}
	profile, err := s.profileRepo.GetByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, &domain.NotFoundError{Message: "Profile not found"}
	}
	return profile, nil
}

// CreateProfile stores the profile for a new session, keeping any fields the
// user already filled in.
func (s *profileService) CreateProfile(ctx context.Context, session *models.Session) (*models.UserProfile, error) {
	if session == nil || session.UID == "" {
		return nil, &domain.UnauthorizedError{Message: "No authenticated user"}
	}

	existing, err := s.profileRepo.GetByUID(ctx, session.UID)
	if err != nil {
		return nil, err
	}

	now := models.NewTimestamp(s.now())
	profile := &models.UserProfile{
		UID:       session.UID,
		CreatedAt: now,
	}
	if existing != nil {
		profile = existing
	}
	profile.DisplayName = firstNonEmpty(profile.DisplayName, session.DisplayName)
	profile.Email = firstNonEmpty(profile.Email, session.Email)
	profile.PhotoURL = firstNonEmpty(profile.PhotoURL, session.AvatarURL)
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now

	if err := s.profileRepo.Upsert(ctx, profile); err != nil {
		return nil, err
	}
	s.logger.Info("profile created", "uid", profile.UID)
	return profile, nil
}

func (s *profileService) UpdateProfile(ctx context.Context, uid string, req *models.UpdateProfileRequest) (*models.UserProfile, error) {
	profile, err := s.GetProfile(ctx, uid)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		profile.DisplayName = strings.TrimSpace(*req.DisplayName)
	}
	profile.Bio = strings.TrimSpace(req.Bio.Apply(profile.Bio))
	profile.Location = strings.TrimSpace(req.Location.Apply(profile.Location))
	if req.Preferences != nil {
		profile.Preferences = *req.Preferences
	}

	errs := validation.Errors{
		"bio": validation.Validate(profile.Bio,
			validation.RuneLength(0, config.MaxBioLength).Error(fmt.Sprintf("Bio must be %d characters or less", config.MaxBioLength)),
		),
	}
	if req.DisplayName != nil {
		errs["displayName"] = validation.Validate(profile.DisplayName,
			validation.Required.Error("Please enter your name"),
			validation.RuneLength(0, config.MaxDisplayNameLength).Error(fmt.Sprintf("Name must be %d characters or less", config.MaxDisplayNameLength)),
		)
	}
	if err := errs.Filter(); err != nil {
		return nil, validationError(err, "displayName", "bio")
	}

	profile.UpdatedAt = models.NewTimestamp(s.now())
	if err := s.profileRepo.Upsert(ctx, profile); err != nil {
		return nil, err
	}
	s.logger.Info("profile updated", "uid", uid)
	return profile, nil
}

// UploadProfilePicture validates and stores a new profile picture, points
// the profile at it and removes the previous one.
func (s *profileService) UploadProfilePicture(ctx context.Context, uid string, data []byte, contentType string) (string, error) {
	if uid == "" {
		return "", &domain.UnauthorizedError{Message: "No authenticated user"}
	}
	if err := validateImage(data, contentType); err != nil {
		return "", err
	}

	path := fmt.Sprintf("profile-pictures/%s/%d.jpg", uid, s.now().UnixMilli())
	url, err := s.blobs.Upload(ctx, path, contentType, data)
	if err != nil {
		s.logger.Error("profile picture upload failed", "uid", uid, "path", path, "error", err)
		return "", storageError(err)
	}

	profile, err := s.profileRepo.GetByUID(ctx, uid)
	if err != nil {
		return "", err
	}
	if profile == nil {
		profile = &models.UserProfile{UID: uid, CreatedAt: models.NewTimestamp(s.now())}
	}
	previous := profile.PhotoURL
	profile.PhotoURL = url
	profile.UpdatedAt = models.NewTimestamp(s.now())
	if err := s.profileRepo.Upsert(ctx, profile); err != nil {
		return "", err
	}

	if previous != "" && previous != url && !strings.Contains(previous, providerPhotoHost) {
		if err := s.blobs.Delete(ctx, previous); err != nil {
			s.logger.Warn("failed to delete old profile picture", "uid", uid, "url", previous, "error", err)
		}
	}

	s.logger.Info("profile picture updated", "uid", uid, "path", path)
	return url, nil
}

// validateImage checks type, size and dimensions in that order.
func validateImage(data []byte, contentType string) error {
	invalid := func(msg string) error {
		return &domain.ValidationError{Message: msg, Fields: map[string]string{"file": msg}}
	}

	if !strings.HasPrefix(contentType, "image/") {
		return invalid(msgNotImage)
	}
	if len(data) > config.MaxProfileImageBytes {
		return invalid(msgTooLarge)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	switch {
	case err != nil:
		return invalid(msgInvalidImage)
	case cfg.Width == 0 || cfg.Height == 0:
		return invalid(msgZeroDimensions)
	case cfg.Width < config.MinProfileImageDimension || cfg.Height < config.MinProfileImageDimension:
		return invalid(msgTooSmall)
	}
	return nil
}

// storageError turns a blob store failure into a user-facing error.
func storageError(err error) error {
	var netErr net.Error
	switch {
	case errors.As(err, &netErr):
		return &domain.UpstreamError{Message: msgStorageNetwork, Err: err}
	case domain.IsBackendUnavailable(err):
		return &domain.BackendUnavailableError{Service: "storage", Err: err}
	case errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrUnauthorized):
		return &domain.ForbiddenError{Message: msgStorageDenied}
	}
	return &domain.UpstreamError{Message: "Upload failed: " + err.Error(), Err: err}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
