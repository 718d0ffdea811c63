package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"beanthere/internal/database"
	"beanthere/internal/domain/models"
	"beanthere/internal/domain/repositories"
)

// PostgresCafeRepository implements the CafeRepository interface
type PostgresCafeRepository struct {
	pool   *pgxpool.Pool
	tables *database.TableNames
	logger *slog.Logger
}

// NewCafeRepository creates a new cafe repository
func NewCafeRepository(config *RepositoryConfig) repositories.CafeRepository {
	return &PostgresCafeRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// List returns the whole catalog ordered by name
func (r *PostgresCafeRepository) List(ctx context.Context) ([]models.Cafe, error) {
	query := fmt.Sprintf(`
		SELECT id, name, address, rating, review_count, lat, lng, tags, place_id, price_level, photos, types
		FROM %s
		ORDER BY name
	`, r.tables.Cafes)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, storeError("cafes", "list cafes", err)
	}
	defer rows.Close()

	cafes := []models.Cafe{}
	for rows.Next() {
		var (
			c        models.Cafe
			lat, lng *float64
		)
		if err := rows.Scan(
			&c.ID,
			&c.Name,
			&c.Address,
			&c.Rating,
			&c.ReviewCount,
			&lat,
			&lng,
			&c.Tags,
			&c.PlaceID,
			&c.PriceLevel,
			&c.Photos,
			&c.Types,
		); err != nil {
			return nil, storeError("cafes", "scan cafe", err)
		}
		if lat != nil && lng != nil {
			c.Coordinates = &models.LatLng{Lat: *lat, Lng: *lng}
		}
		if c.Tags == nil {
			c.Tags = []string{}
		}
		cafes = append(cafes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("cafes", "list cafes", err)
	}
	return cafes, nil
}

// UpsertMany inserts or replaces cafes by ID
func (r *PostgresCafeRepository) UpsertMany(ctx context.Context, cafes []models.Cafe) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, name, address, rating, review_count, lat, lng, tags, place_id, price_level, photos, types)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			address = EXCLUDED.address,
			rating = EXCLUDED.rating,
			review_count = EXCLUDED.review_count,
			lat = EXCLUDED.lat,
			lng = EXCLUDED.lng,
			tags = EXCLUDED.tags,
			place_id = EXCLUDED.place_id,
			price_level = EXCLUDED.price_level,
			photos = EXCLUDED.photos,
			types = EXCLUDED.types
	`, r.tables.Cafes)

	executor := GetExecutor(ctx, r.pool)
	for _, c := range cafes {
		var lat, lng *float64
		if c.Coordinates != nil {
			lat, lng = &c.Coordinates.Lat, &c.Coordinates.Lng
		}
		_, err := executor.Exec(ctx, query,
			c.ID,
			c.Name,
			c.Address,
			c.Rating,
			c.ReviewCount,
			lat,
			lng,
			nonNil(c.Tags),
			c.PlaceID,
			c.PriceLevel,
			nonNil(c.Photos),
			nonNil(c.Types),
		)
		if err != nil {
			return storeError("cafes", fmt.Sprintf("upsert cafe %s", c.ID), err)
		}
	}

	r.logger.Info("cafes upserted", "count", len(cafes))
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
