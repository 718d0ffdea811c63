package services

import (
	"context"

	"beanthere/internal/domain/models"
)

// PreferencesContext is the device-scoped view over the local store.
// Missing or malformed values read as absent, never as errors.
type PreferencesContext interface {
	DeviceID() string

	// Onboarding returns nil when the device has not completed onboarding
	Onboarding(ctx context.Context) (*models.UserPreferences, error)
	SaveOnboarding(ctx context.Context, prefs *models.UserPreferences) (*models.UserPreferences, error)

	DisplayName(ctx context.Context) (string, error)
	SetDisplayName(ctx context.Context, name string) (string, error)

	// CachedIdentity returns the uid and email mirrored from the last sign-in
	CachedIdentity(ctx context.Context) (uid, email string, err error)
	MirrorIdentity(ctx context.Context, uid, email string) error
	ClearIdentity(ctx context.Context) error
}

// PreferencesProvider hands out a PreferencesContext per device
type PreferencesProvider interface {
	For(deviceID string) PreferencesContext
}
