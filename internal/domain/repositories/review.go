package repositories

import (
	"context"

	"beanthere/internal/domain/models"
)

// ReviewRepository defines the interface for review data access
type ReviewRepository interface {
	// Create inserts a review and fills in ID and CreatedAt.
	// Returns domain.ErrConflict if the user already reviewed the cafe
	Create(ctx context.Context, review *models.Review) error

	// GetByID returns domain.ErrNotFound when the review does not exist
	GetByID(ctx context.Context, id string) (*models.Review, error)

	// Update applies a partial update and stamps UpdatedAt
	Update(ctx context.Context, id string, update *models.ReviewUpdate) (*models.Review, error)

	Delete(ctx context.Context, id string) error

	// ListByCafe returns all reviews of a cafe, newest first
	ListByCafe(ctx context.Context, cafeID string) ([]models.Review, error)

	// FindByCafeAndUser returns nil when the user has not reviewed the cafe
	FindByCafeAndUser(ctx context.Context, cafeID, userID string) (*models.Review, error)

	// ListByUser returns all reviews written by a user, newest first
	ListByUser(ctx context.Context, userID string) ([]models.Review, error)
}
