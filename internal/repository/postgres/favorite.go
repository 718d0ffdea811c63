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

const favoriteColumns = "id, user_id, cafe_id, cafe_name, cafe_address, added_at"

// PostgresFavoriteRepository implements the FavoriteRepository interface
type PostgresFavoriteRepository struct {
	pool   *pgxpool.Pool
	tables *database.TableNames
	logger *slog.Logger
}

// NewFavoriteRepository creates a new favorite repository
func NewFavoriteRepository(config *RepositoryConfig) repositories.FavoriteRepository {
	return &PostgresFavoriteRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create creates a new favorite
func (r *PostgresFavoriteRepository) Create(ctx context.Context, fav *models.FavoriteCafe) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, cafe_id, cafe_name, cafe_address, added_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, added_at
	`, r.tables.Favorites)

	addedAt := fav.AddedAt.Time
	if addedAt.IsZero() {
		addedAt = time.Now().UTC()
	}

	var stored time.Time
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		fav.UserID,
		fav.CafeID,
		fav.CafeName,
		fav.CafeAddress,
		addedAt,
	).Scan(&fav.ID, &stored)
	if err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      "Cafe is already in your favorites",
				ResourceType: "favorite",
			}
		}
		return storeError("favorites", "create favorite", err)
	}

	fav.AddedAt = models.NewTimestamp(stored)
	return nil
}

// GetByID retrieves a favorite by ID
func (r *PostgresFavoriteRepository) GetByID(ctx context.Context, id string) (*models.FavoriteCafe, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, favoriteColumns, r.tables.Favorites)

	fav, err := scanFavorite(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("favorite %s: %w", id, domain.ErrNotFound)
		}
		return nil, storeError("favorites", "get favorite", err)
	}
	return fav, nil
}

// Delete deletes a favorite
func (r *PostgresFavoriteRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Favorites)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id)
	if err != nil {
		return storeError("favorites", "delete favorite", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("favorite %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ListByUser lists a user's favorites, newest first
func (r *PostgresFavoriteRepository) ListByUser(ctx context.Context, userID string) ([]models.FavoriteCafe, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE user_id = $1 ORDER BY added_at DESC`, favoriteColumns, r.tables.Favorites)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, userID)
	if err != nil {
		return nil, storeError("favorites", "list favorites", err)
	}
	defer rows.Close()

	favorites := []models.FavoriteCafe{}
	for rows.Next() {
		fav, err := scanFavorite(rows)
		if err != nil {
			return nil, storeError("favorites", "scan favorite", err)
		}
		favorites = append(favorites, *fav)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("favorites", "list favorites", err)
	}
	return favorites, nil
}

func scanFavorite(row pgx.Row) (*models.FavoriteCafe, error) {
	var (
		fav     models.FavoriteCafe
		addedAt time.Time
	)
	if err := row.Scan(&fav.ID, &fav.UserID, &fav.CafeID, &fav.CafeName, &fav.CafeAddress, &addedAt); err != nil {
		return nil, err
	}
	fav.AddedAt = models.NewTimestamp(addedAt)
	return &fav, nil
}
