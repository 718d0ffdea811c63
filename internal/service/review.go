package service

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"beanthere/internal/config"
	"beanthere/internal/domain"
	"beanthere/internal/domain/models"
	"beanthere/internal/domain/repositories"
	"beanthere/internal/domain/services"
)

// AnonymousUserName is stored when a reviewer has no name or email.
const AnonymousUserName = "Anonymous"

// MarkupChecker reports HTML in user text
type MarkupChecker interface {
	ContainsMarkup(text string) bool
}

var errReviewMarkup = validation.NewError("validation_review_markup", "Reviews can't contain HTML tags")

// reviewService implements services.ReviewService
type reviewService struct {
	reviewRepo repositories.ReviewRepository
	authorizer services.ResourceAuthorizer
	txManager  repositories.TransactionManager
	markup     MarkupChecker
	logger     *slog.Logger
}

// NewReviewService creates a new review service
func NewReviewService(
	reviewRepo repositories.ReviewRepository,
	authorizer services.ResourceAuthorizer,
	txManager repositories.TransactionManager,
	markup MarkupChecker,
	logger *slog.Logger,
) services.ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		authorizer: authorizer,
		txManager:  txManager,
		markup:     markup,
		logger:     logger,
	}
}

// ResolveUserName picks the byline for a review: the device display name,
// then the email's local part, then AnonymousUserName.
func ResolveUserName(displayName, email string) string {
	if name := strings.TrimSpace(displayName); name != "" {
		return name
	}
	if local, _, ok := strings.Cut(email, "@"); ok && local != "" {
		return local
	}
	return AnonymousUserName
}

func (s *reviewService) Add(ctx context.Context, review *models.Review) (string, error) {
	if review.UserID == "" {
		return "", &domain.UnauthorizedError{Message: "Please sign in to submit a review"}
	}
	text, err := s.validate(&review.Rating, &review.Review)
	if err != nil {
		return "", err
	}
	if err := validateCafe(review.CafeID); err != nil {
		return "", err
	}

	review.Review = text
	if strings.TrimSpace(review.UserName) == "" {
		review.UserName = AnonymousUserName
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return "", err
	}

	s.logger.Info("review created",
		"id", review.ID,
		"cafe_id", review.CafeID,
		"user_id", review.UserID,
		"rating", review.Rating,
	)
	return review.ID, nil
}

func (s *reviewService) Update(ctx context.Context, userID, reviewID string, update *models.ReviewUpdate) (*models.Review, error) {
	if userID == "" {
		return nil, &domain.UnauthorizedError{Message: "Please sign in to edit your review"}
	}
	if update == nil || (update.Rating == nil && update.Review == nil) {
		return nil, &domain.ValidationError{Message: "Nothing to update"}
	}

	clean := &models.ReviewUpdate{Rating: update.Rating}
	if update.Review != nil {
		text, err := s.validateText(*update.Review)
		if err != nil {
			return nil, err
		}
		clean.Review = &text
	}
	if update.Rating != nil {
		if err := validateRating(*update.Rating); err != nil {
			return nil, validationError(validation.Errors{"rating": err}, "rating")
		}
	}

	if err := s.authorizer.CanModifyReview(ctx, userID, reviewID); err != nil {
		return nil, err
	}

	updated, err := s.reviewRepo.Update(ctx, reviewID, clean)
	if err != nil {
		return nil, err
	}

	s.logger.Info("review updated",
		"id", reviewID,
		"user_id", userID,
		"rating_changed", clean.Rating != nil,
		"text_changed", clean.Review != nil,
	)
	return updated, nil
}

func (s *reviewService) Delete(ctx context.Context, userID, reviewID string) error {
	if userID == "" {
		return &domain.UnauthorizedError{Message: "Please sign in to delete your review"}
	}
	if err := s.authorizer.CanModifyReview(ctx, userID, reviewID); err != nil {
		return err
	}
	if err := s.reviewRepo.Delete(ctx, reviewID); err != nil {
		return err
	}

	s.logger.Info("review deleted", "id", reviewID, "user_id", userID)
	return nil
}

func (s *reviewService) ListForCafe(ctx context.Context, cafeID string) ([]models.Review, error) {
	if err := validateCafe(cafeID); err != nil {
		return nil, err
	}
	return s.reviewRepo.ListByCafe(ctx, cafeID)
}

func (s *reviewService) ListForUserAndCafe(ctx context.Context, cafeID, userID string) (*models.Review, error) {
	if userID == "" {
		return nil, nil
	}
	return s.reviewRepo.FindByCafeAndUser(ctx, cafeID, userID)
}

func (s *reviewService) ListForUser(ctx context.Context, userID string) ([]models.Review, error) {
	if userID == "" {
		return nil, &domain.UnauthorizedError{Message: "Please sign in to see your reviews"}
	}
	return s.reviewRepo.ListByUser(ctx, userID)
}

func (s *reviewService) ComputeRating(ctx context.Context, cafeID string) (*models.CafeRating, error) {
	reviews, err := s.ListForCafe(ctx, cafeID)
	if err != nil {
		return nil, err
	}
	return RatingOf(reviews), nil
}

// RatingOf averages reviews, rounded to one decimal. No reviews rate 0.
func RatingOf(reviews []models.Review) *models.CafeRating {
	if len(reviews) == 0 {
		return &models.CafeRating{AverageRating: 0, TotalReviews: 0, Reviews: []models.Review{}}
	}
	total := 0
	for _, r := range reviews {
		total += r.Rating
	}
	return &models.CafeRating{
		AverageRating: roundTenth(float64(total) / float64(len(reviews))),
		TotalReviews:  len(reviews),
		Reviews:       reviews,
	}
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

func (s *reviewService) Submit(ctx context.Context, req *services.SubmitReviewRequest) (*models.Review, error) {
	if req.UserID == "" {
		return nil, &domain.UnauthorizedError{Message: "Please sign in to submit a review"}
	}
	rating := req.Rating
	text, err := s.validate(&rating, &req.Review)
	if err != nil {
		return nil, err
	}
	if err := validateCafe(req.CafeID); err != nil {
		return nil, err
	}

	change := &models.ReviewUpdate{Rating: &rating, Review: &text}

	var result *models.Review
	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		existing, err := s.reviewRepo.FindByCafeAndUser(ctx, req.CafeID, req.UserID)
		if err != nil {
			return err
		}
		if existing != nil {
			result, err = s.reviewRepo.Update(ctx, existing.ID, change)
			return err
		}

		review := &models.Review{
			CafeID:   req.CafeID,
			CafeName: req.CafeName,
			UserID:   req.UserID,
			UserName: ResolveUserName(req.UserName, ""),
			Rating:   rating,
			Review:   text,
		}
		if err := s.reviewRepo.Create(ctx, review); err != nil {
			return err
		}
		result = review
		return nil
	})
	if errors.Is(err, domain.ErrConflict) {
		// Lost the insert race; retry as an update outside the aborted tx
		result, err = s.updateExisting(ctx, req.CafeID, req.UserID, change)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("review submitted",
		"id", result.ID,
		"cafe_id", req.CafeID,
		"user_id", req.UserID,
		"rating", rating,
	)
	return result, nil
}

func (s *reviewService) updateExisting(ctx context.Context, cafeID, userID string, change *models.ReviewUpdate) (*models.Review, error) {
	existing, err := s.reviewRepo.FindByCafeAndUser(ctx, cafeID, userID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, &domain.ConflictError{Message: "Review changed while saving. Please try again.", ResourceType: "review"}
	}
	return s.reviewRepo.Update(ctx, existing.ID, change)
}

// validate checks rating and text together and returns the trimmed text.
func (s *reviewService) validate(rating *int, text *string) (string, error) {
	clean := strings.TrimSpace(*text)
	err := validation.Errors{
		"rating": validateRating(*rating),
		"review": s.checkReviewText(clean),
	}.Filter()
	if err != nil {
		return "", validationError(err, "rating", "review")
	}
	return clean, nil
}

func (s *reviewService) validateText(text string) (string, error) {
	clean := strings.TrimSpace(text)
	if err := s.checkReviewText(clean); err != nil {
		return "", validationError(validation.Errors{"review": err}, "review")
	}
	return clean, nil
}

func (s *reviewService) checkReviewText(text string) error {
	if err := validateReviewText(text); err != nil {
		return err
	}
	if s.markup != nil && s.markup.ContainsMarkup(text) {
		return errReviewMarkup
	}
	return nil
}

func validateRating(rating int) error {
	return validation.Validate(rating,
		validation.Required.Error("Please select a rating"),
		validation.Min(config.MinRating).Error("Please select a rating"),
		validation.Max(config.MaxRating).Error("Rating must be between 1 and 5"),
	)
}

func validateReviewText(text string) error {
	return validation.Validate(text,
		validation.Required.Error("Please write a review"),
		validation.RuneLength(0, config.MaxReviewLength).Error("Review must be 500 characters or less"),
	)
}

func validateCafe(cafeID string) error {
	if strings.TrimSpace(cafeID) == "" {
		return &domain.ValidationError{Message: "cafe id is required", Fields: map[string]string{"cafeId": "cafe id is required"}}
	}
	return nil
}
