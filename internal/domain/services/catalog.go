package services

import (
	"context"

	"beanthere/internal/domain/models"
)

// NearbyCatalog lists catalog cafes near a point plus the closest one
type NearbyCatalog struct {
	Cafes   []models.NearbyCafe `json:"cafes"`
	Closest *models.NearbyCafe  `json:"closest,omitempty"`
}

// CatalogService serves the curated cafe list
type CatalogService interface {
	// List returns cafes carrying every tag in tags
	List(ctx context.Context, tags []string) ([]models.Cafe, error)
	Nearby(ctx context.Context, center models.LatLng) (*NearbyCatalog, error)
	VibeTags() []string
}
