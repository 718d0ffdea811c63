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

type favoriteRow struct {
	ID          string           `json:"id,omitempty"`
	UserID      string           `json:"user_id"`
	CafeID      string           `json:"cafe_id"`
	CafeName    string           `json:"cafe_name"`
	CafeAddress string           `json:"cafe_address"`
	AddedAt     models.Timestamp `json:"added_at"`
}

func (r favoriteRow) toModel() models.FavoriteCafe {
	return models.FavoriteCafe{
		ID:          r.ID,
		UserID:      r.UserID,
		CafeID:      r.CafeID,
		CafeName:    r.CafeName,
		CafeAddress: r.CafeAddress,
		AddedAt:     r.AddedAt,
	}
}

// FavoriteRepository implements repositories.FavoriteRepository
type FavoriteRepository struct {
	client *supabase.Client
	tables *database.TableNames
	logger *slog.Logger
}

// NewFavoriteRepository creates a new favorite repository
func NewFavoriteRepository(config *RepositoryConfig) repositories.FavoriteRepository {
	return &FavoriteRepository{
		client: config.Client,
		tables: config.Tables,
		logger: config.Logger,
	}
}

func (r *FavoriteRepository) Create(ctx context.Context, fav *models.FavoriteCafe) error {
	row := favoriteRow{
		UserID:      fav.UserID,
		CafeID:      fav.CafeID,
		CafeName:    fav.CafeName,
		CafeAddress: fav.CafeAddress,
		AddedAt:     fav.AddedAt,
	}
	if row.AddedAt.IsZero() {
		row.AddedAt = models.NewTimestamp(time.Now())
	}

	resp, err := r.client.From(r.tables.Favorites).Insert(ctx, row)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return &domain.ConflictError{
				Message:      "Cafe is already in your favorites",
				ResourceType: "favorite",
			}
		}
		return storeError("favorites", "create favorite", err)
	}

	stored, ok, err := decodeOne[favoriteRow](resp)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("create favorite: empty representation")
	}
	*fav = stored.toModel()
	return nil
}

func (r *FavoriteRepository) GetByID(ctx context.Context, id string) (*models.FavoriteCafe, error) {
	resp, err := r.client.From(r.tables.Favorites).Select("*").Eq("id", id).Limit(1).Execute(ctx)
	if err != nil {
		return nil, storeError("favorites", "get favorite", err)
	}
	row, ok, err := decodeOne[favoriteRow](resp)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("favorite %s: %w", id, domain.ErrNotFound)
	}
	fav := row.toModel()
	return &fav, nil
}

func (r *FavoriteRepository) Delete(ctx context.Context, id string) error {
	resp, err := r.client.From(r.tables.Favorites).Eq("id", id).Delete(ctx)
	if err != nil {
		return storeError("favorites", "delete favorite", err)
	}
	if _, ok, err := decodeOne[favoriteRow](resp); err != nil {
		return err
	} else if !ok {
		return fmt.Errorf("favorite %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *FavoriteRepository) ListByUser(ctx context.Context, userID string) ([]models.FavoriteCafe, error) {
	resp, err := r.client.From(r.tables.Favorites).
		Select("*").
		Eq("user_id", userID).
		Order("added_at", false).
		Execute(ctx)
	if err != nil {
		return nil, storeError("favorites", "list favorites", err)
	}

	var rows []favoriteRow
	if err := resp.JSON(&rows); err != nil {
		return nil, err
	}
	favorites := make([]models.FavoriteCafe, 0, len(rows))
	for _, row := range rows {
		favorites = append(favorites, row.toModel())
	}
	return favorites, nil
}
