package services

import "context"

// ResourceAuthorizer checks whether a user may modify a stored resource.
// Reads are public; only writes go through the authorizer.
type ResourceAuthorizer interface {
	// CanModifyReview returns domain.ErrForbidden unless userID wrote the review
	CanModifyReview(ctx context.Context, userID, reviewID string) error

	// CanModifyFavorite returns domain.ErrForbidden unless userID owns the favorite
	CanModifyFavorite(ctx context.Context, userID, favoriteID string) error
}
