package auth

import (
	"context"
	"fmt"

	"beanthere/internal/domain"
	"beanthere/internal/domain/repositories"
)

// OwnerBasedAuthorizer implements ResourceAuthorizer using ownership checks.
// A user can modify a review or favorite only if they created it.
type OwnerBasedAuthorizer struct {
	reviewRepo   repositories.ReviewRepository
	favoriteRepo repositories.FavoriteRepository
}

// NewOwnerBasedAuthorizer creates a new ownership-based authorizer
func NewOwnerBasedAuthorizer(
	reviewRepo repositories.ReviewRepository,
	favoriteRepo repositories.FavoriteRepository,
) *OwnerBasedAuthorizer {
	return &OwnerBasedAuthorizer{
		reviewRepo:   reviewRepo,
		favoriteRepo: favoriteRepo,
	}
}

// CanModifyReview checks if user wrote the review
func (a *OwnerBasedAuthorizer) CanModifyReview(ctx context.Context, userID, reviewID string) error {
	review, err := a.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return fmt.Errorf("get review for auth: %w", err)
	}
	if review.UserID != userID {
		return &domain.ForbiddenError{Message: fmt.Sprintf("review %s belongs to another user", reviewID)}
	}
	return nil
}

// CanModifyFavorite checks if user owns the favorite
func (a *OwnerBasedAuthorizer) CanModifyFavorite(ctx context.Context, userID, favoriteID string) error {
	fav, err := a.favoriteRepo.GetByID(ctx, favoriteID)
	if err != nil {
		return fmt.Errorf("get favorite for auth: %w", err)
	}
	if fav.UserID != userID {
		return &domain.ForbiddenError{Message: fmt.Sprintf("favorite %s belongs to another user", favoriteID)}
	}
	return nil
}
