package repositories

import (
	"context"

	"beanthere/internal/domain/models"
)

// CafeRepository holds the curated cafe catalog
type CafeRepository interface {
	List(ctx context.Context) ([]models.Cafe, error)

	// UpsertMany inserts or replaces cafes by ID
	UpsertMany(ctx context.Context, cafes []models.Cafe) error
}
