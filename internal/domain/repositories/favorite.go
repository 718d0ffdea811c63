package repositories

import (
	"context"

	"beanthere/internal/domain/models"
)

// FavoriteRepository defines the interface for favorite cafe data access
type FavoriteRepository interface {
	// Create inserts a favorite and fills in ID and AddedAt
	Create(ctx context.Context, fav *models.FavoriteCafe) error

	// GetByID returns domain.ErrNotFound when the favorite does not exist
	GetByID(ctx context.Context, id string) (*models.FavoriteCafe, error)

	Delete(ctx context.Context, id string) error

	// ListByUser returns a user's favorites, newest first
	ListByUser(ctx context.Context, userID string) ([]models.FavoriteCafe, error)
}
