package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"beanthere/internal/database"
	"beanthere/internal/domain"
	"beanthere/internal/domain/models"
	"beanthere/internal/domain/repositories"
)

const reviewColumns = "id, cafe_id, cafe_name, user_id, user_name, rating, review, created_at, updated_at"

// PostgresReviewRepository implements the ReviewRepository interface
type PostgresReviewRepository struct {
	pool   *pgxpool.Pool
	tables *database.TableNames
	logger *slog.Logger
}

// NewReviewRepository creates a new review repository
func NewReviewRepository(config *RepositoryConfig) repositories.ReviewRepository {
	return &PostgresReviewRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create creates a new review
func (r *PostgresReviewRepository) Create(ctx context.Context, review *models.Review) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (cafe_id, cafe_name, user_id, user_name, rating, review, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`, r.tables.Reviews)

	createdAt := review.CreatedAt.Time
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	var stored time.Time
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		review.CafeID,
		review.CafeName,
		review.UserID,
		review.UserName,
		review.Rating,
		review.Review,
		createdAt,
	).Scan(&review.ID, &stored)

	if err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      "You have already reviewed this cafe",
				ResourceType: "review",
			}
		}
		return storeError("reviews", "create review", err)
	}

	review.CreatedAt = models.NewTimestamp(stored)
	return nil
}

// GetByID retrieves a review by ID
func (r *PostgresReviewRepository) GetByID(ctx context.Context, id string) (*models.Review, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, reviewColumns, r.tables.Reviews)

	review, err := scanReview(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("review %s: %w", id, domain.ErrNotFound)
		}
		return nil, storeError("reviews", "get review", err)
	}
	return review, nil
}

// Update applies the non-nil fields of update
func (r *PostgresReviewRepository) Update(ctx context.Context, id string, update *models.ReviewUpdate) (*models.Review, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET rating = COALESCE($1, rating),
			review = COALESCE($2, review),
			updated_at = $3
		WHERE id = $4
		RETURNING %s
	`, r.tables.Reviews, reviewColumns)

	review, err := scanReview(GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		update.Rating,
		update.Review,
		time.Now().UTC(),
		id,
	))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("review %s: %w", id, domain.ErrNotFound)
		}
		return nil, storeError("reviews", "update review", err)
	}
	return review, nil
}

// Delete deletes a review
func (r *PostgresReviewRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Reviews)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id)
	if err != nil {
		return storeError("reviews", "delete review", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("review %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ListByCafe lists a cafe's reviews, newest first
func (r *PostgresReviewRepository) ListByCafe(ctx context.Context, cafeID string) ([]models.Review, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE cafe_id = $1 ORDER BY created_at DESC`, reviewColumns, r.tables.Reviews)
	return r.list(ctx, "list cafe reviews", query, cafeID)
}

// FindByCafeAndUser returns the user's review of a cafe, or nil
func (r *PostgresReviewRepository) FindByCafeAndUser(ctx context.Context, cafeID, userID string) (*models.Review, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE cafe_id = $1 AND user_id = $2
		ORDER BY created_at DESC
		LIMIT 1
	`, reviewColumns, r.tables.Reviews)

	review, err := scanReview(GetExecutor(ctx, r.pool).QueryRow(ctx, query, cafeID, userID))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, nil
		}
		return nil, storeError("reviews", "find user review", err)
	}
	return review, nil
}

// ListByUser lists a user's reviews, newest first
func (r *PostgresReviewRepository) ListByUser(ctx context.Context, userID string) ([]models.Review, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE user_id = $1 ORDER BY created_at DESC`, reviewColumns, r.tables.Reviews)
	return r.list(ctx, "list user reviews", query, userID)
}

func (r *PostgresReviewRepository) list(ctx context.Context, op, query string, arg string) ([]models.Review, error) {
	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, arg)
	if err != nil {
		return nil, storeError("reviews", op, err)
	}
	defer rows.Close()

	reviews := []models.Review{}
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, storeError("reviews", op, err)
		}
		reviews = append(reviews, *review)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("reviews", op, err)
	}
	return reviews, nil
}

func scanReview(row pgx.Row) (*models.Review, error) {
	var (
		review    models.Review
		createdAt time.Time
		updatedAt *time.Time
	)
	err := row.Scan(
		&review.ID,
		&review.CafeID,
		&review.CafeName,
		&review.UserID,
		&review.UserName,
		&review.Rating,
		&review.Review,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	review.CreatedAt = models.NewTimestamp(createdAt)
	if updatedAt != nil {
		ts := models.NewTimestamp(*updatedAt)
		review.UpdatedAt = &ts
	}
	return &review, nil
}
