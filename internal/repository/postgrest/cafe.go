package postgrest

import (
	"context"
	"log/slog"

	"beanthere/internal/database"
	"beanthere/internal/domain/models"
	"beanthere/internal/domain/repositories"
	"beanthere/internal/supabase"
)

type cafeRow struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Address     string   `json:"address"`
	Rating      *float64 `json:"rating"`
	ReviewCount *int     `json:"review_count"`
	Lat         *float64 `json:"lat"`
	Lng         *float64 `json:"lng"`
	Tags        []string `json:"tags"`
	PlaceID     string   `json:"place_id"`
	PriceLevel  *int     `json:"price_level"`
	Photos      []string `json:"photos"`
	Types       []string `json:"types"`
}

func newCafeRow(c models.Cafe) cafeRow {
	row := cafeRow{
		ID:          c.ID,
		Name:        c.Name,
		Address:     c.Address,
		Rating:      c.Rating,
		ReviewCount: c.ReviewCount,
		Tags:        nonNil(c.Tags),
		PlaceID:     c.PlaceID,
		PriceLevel:  c.PriceLevel,
		Photos:      nonNil(c.Photos),
		Types:       nonNil(c.Types),
	}
	if c.Coordinates != nil {
		row.Lat, row.Lng = &c.Coordinates.Lat, &c.Coordinates.Lng
	}
	return row
}

func (r cafeRow) toModel() models.Cafe {
	c := models.Cafe{
		ID:          r.ID,
		Name:        r.Name,
		Address:     r.Address,
		Rating:      r.Rating,
		ReviewCount: r.ReviewCount,
		Tags:        nonNil(r.Tags),
		PlaceID:     r.PlaceID,
		PriceLevel:  r.PriceLevel,
		Photos:      r.Photos,
		Types:       r.Types,
	}
	if r.Lat != nil && r.Lng != nil {
		c.Coordinates = &models.LatLng{Lat: *r.Lat, Lng: *r.Lng}
	}
	return c
}

// CafeRepository implements repositories.CafeRepository
type CafeRepository struct {
	client *supabase.Client
	tables *database.TableNames
	logger *slog.Logger
}

// NewCafeRepository creates a new cafe repository
func NewCafeRepository(config *RepositoryConfig) repositories.CafeRepository {
	return &CafeRepository{
		client: config.Client,
		tables: config.Tables,
		logger: config.Logger,
	}
}

func (r *CafeRepository) List(ctx context.Context) ([]models.Cafe, error) {
	resp, err := r.client.From(r.tables.Cafes).Select("*").Order("name", true).Execute(ctx)
	if err != nil {
		return nil, storeError("cafes", "list cafes", err)
	}

	var rows []cafeRow
	if err := resp.JSON(&rows); err != nil {
		return nil, err
	}
	cafes := make([]models.Cafe, 0, len(rows))
	for _, row := range rows {
		cafes = append(cafes, row.toModel())
	}
	return cafes, nil
}

func (r *CafeRepository) UpsertMany(ctx context.Context, cafes []models.Cafe) error {
	if len(cafes) == 0 {
		return nil
	}
	rows := make([]cafeRow, 0, len(cafes))
	for _, c := range cafes {
		rows = append(rows, newCafeRow(c))
	}

	if _, err := r.client.From(r.tables.Cafes).Upsert(ctx, rows, "id"); err != nil {
		return storeError("cafes", "upsert cafes", err)
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
