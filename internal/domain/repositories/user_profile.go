package repositories

import (
	"context"

	"beanthere/internal/domain/models"
)

// UserProfileRepository defines the interface for the users collection
type UserProfileRepository interface {
	// GetByUID returns nil if the user has no profile yet
	GetByUID(ctx context.Context, uid string) (*models.UserProfile, error)

	// Upsert creates or merges the profile document
	Upsert(ctx context.Context, profile *models.UserProfile) error
}
