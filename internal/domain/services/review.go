package services

import (
	"context"

	"beanthere/internal/domain/models"
)

// SubmitReviewRequest is the review modal payload
type SubmitReviewRequest struct {
	UserID   string
	UserName string
	CafeID   string
	CafeName string
	Rating   int
	Review   string
}

// ReviewService defines the business logic for reviews
type ReviewService interface {
	Add(ctx context.Context, review *models.Review) (string, error)
	Update(ctx context.Context, userID, reviewID string, update *models.ReviewUpdate) (*models.Review, error)
	Delete(ctx context.Context, userID, reviewID string) error

	ListForCafe(ctx context.Context, cafeID string) ([]models.Review, error)
	// ListForUserAndCafe returns nil when the user has not reviewed the cafe
	ListForUserAndCafe(ctx context.Context, cafeID, userID string) (*models.Review, error)
	ListForUser(ctx context.Context, userID string) ([]models.Review, error)

	ComputeRating(ctx context.Context, cafeID string) (*models.CafeRating, error)

	// Submit updates the user's existing review of the cafe, or adds one
	Submit(ctx context.Context, req *SubmitReviewRequest) (*models.Review, error)
}
