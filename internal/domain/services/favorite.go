package services

import (
	"context"

	"beanthere/internal/domain/models"
)

// FavoriteService defines the business logic for favorite cafes
type FavoriteService interface {
	Add(ctx context.Context, userID, cafeID, cafeName, cafeAddress string) (*models.FavoriteCafe, error)
	Remove(ctx context.Context, userID, favoriteID string) error
	ListForUser(ctx context.Context, userID string) ([]models.FavoriteCafe, error)
	IsFavorite(ctx context.Context, userID, cafeID string) (bool, error)
}
