package postgrest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"beanthere/internal/database"
	"beanthere/internal/domain"
	"beanthere/internal/domain/models"
	"beanthere/internal/domain/repositories"
	"beanthere/internal/supabase"
)

type reviewRow struct {
	ID        string            `json:"id,omitempty"`
	CafeID    string            `json:"cafe_id"`
	CafeName  string            `json:"cafe_name"`
	UserID    string            `json:"user_id"`
	UserName  string            `json:"user_name"`
	Rating    int               `json:"rating"`
	Review    string            `json:"review"`
	CreatedAt models.Timestamp  `json:"created_at"`
	UpdatedAt *models.Timestamp `json:"updated_at,omitempty"`
}

func (r reviewRow) toModel() models.Review {
	review := models.Review{
		ID:        r.ID,
		CafeID:    r.CafeID,
		CafeName:  r.CafeName,
		UserID:    r.UserID,
		UserName:  r.UserName,
		Rating:    r.Rating,
		Review:    r.Review,
		CreatedAt: r.CreatedAt,
	}
	if r.UpdatedAt != nil && !r.UpdatedAt.IsZero() {
		review.UpdatedAt = r.UpdatedAt
	}
	return review
}

// ReviewRepository implements repositories.ReviewRepository
type ReviewRepository struct {
	client *supabase.Client
	tables *database.TableNames
	logger *slog.Logger
}

// NewReviewRepository creates a new review repository
func NewReviewRepository(config *RepositoryConfig) repositories.ReviewRepository {
	return &ReviewRepository{
		client: config.Client,
		tables: config.Tables,
		logger: config.Logger,
	}
}

func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	row := reviewRow{
		CafeID:    review.CafeID,
		CafeName:  review.CafeName,
		UserID:    review.UserID,
		UserName:  review.UserName,
		Rating:    review.Rating,
		Review:    review.Review,
		CreatedAt: review.CreatedAt,
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = models.NewTimestamp(time.Now())
	}

	resp, err := r.client.From(r.tables.Reviews).Insert(ctx, row)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return &domain.ConflictError{
				Message:      "You have already reviewed this cafe",
				ResourceType: "review",
			}
		}
		return storeError("reviews", "create review", err)
	}

	stored, ok, err := decodeOne[reviewRow](resp)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("create review: empty representation")
	}
	*review = stored.toModel()
	return nil
}

func (r *ReviewRepository) GetByID(ctx context.Context, id string) (*models.Review, error) {
	resp, err := r.client.From(r.tables.Reviews).Select("*").Eq("id", id).Limit(1).Execute(ctx)
	if err != nil {
		return nil, storeError("reviews", "get review", err)
	}
	row, ok, err := decodeOne[reviewRow](resp)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("review %s: %w", id, domain.ErrNotFound)
	}
	review := row.toModel()
	return &review, nil
}

func (r *ReviewRepository) Update(ctx context.Context, id string, update *models.ReviewUpdate) (*models.Review, error) {
	patch := map[string]any{"updated_at": models.NewTimestamp(time.Now())}
	if update.Rating != nil {
		patch["rating"] = *update.Rating
	}
	if update.Review != nil {
		patch["review"] = *update.Review
	}

	resp, err := r.client.From(r.tables.Reviews).Eq("id", id).Update(ctx, patch)
	if err != nil {
		return nil, storeError("reviews", "update review", err)
	}
	row, ok, err := decodeOne[reviewRow](resp)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("review %s: %w", id, domain.ErrNotFound)
	}
	review := row.toModel()
	return &review, nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	resp, err := r.client.From(r.tables.Reviews).Eq("id", id).Delete(ctx)
	if err != nil {
		return storeError("reviews", "delete review", err)
	}
	if _, ok, err := decodeOne[reviewRow](resp); err != nil {
		return err
	} else if !ok {
		return fmt.Errorf("review %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *ReviewRepository) ListByCafe(ctx context.Context, cafeID string) ([]models.Review, error) {
	return r.list(ctx, "list cafe reviews", r.client.From(r.tables.Reviews).Select("*").Eq("cafe_id", cafeID))
}

func (r *ReviewRepository) FindByCafeAndUser(ctx context.Context, cafeID, userID string) (*models.Review, error) {
	resp, err := r.client.From(r.tables.Reviews).
		Select("*").
		Eq("cafe_id", cafeID).
		Eq("user_id", userID).
		Order("created_at", false).
		Limit(1).
		Execute(ctx)
	if err != nil {
		return nil, storeError("reviews", "find user review", err)
	}
	row, ok, err := decodeOne[reviewRow](resp)
	if err != nil || !ok {
		return nil, err
	}
	review := row.toModel()
	return &review, nil
}

func (r *ReviewRepository) ListByUser(ctx context.Context, userID string) ([]models.Review, error) {
	return r.list(ctx, "list user reviews", r.client.From(r.tables.Reviews).Select("*").Eq("user_id", userID))
}

func (r *ReviewRepository) list(ctx context.Context, op string, q *supabase.QueryBuilder) ([]models.Review, error) {
	resp, err := q.Order("created_at", false).Execute(ctx)
	if err != nil {
		return nil, storeError("reviews", op, err)
	}

	var rows []reviewRow
	if err := resp.JSON(&rows); err != nil {
		return nil, err
	}
	reviews := make([]models.Review, 0, len(rows))
	for _, row := range rows {
		reviews = append(reviews, row.toModel())
	}
	return reviews, nil
}
