package service

import (
	"context"
	"log/slog"

	"beanthere/internal/config"
	"beanthere/internal/domain"
	"beanthere/internal/domain/models"
	"beanthere/internal/domain/repositories"
	"beanthere/internal/domain/services"
	"beanthere/internal/geo"
	"beanthere/internal/seed"
)

// catalogService implements services.CatalogService
type catalogService struct {
	cafeRepo repositories.CafeRepository
	logger   *slog.Logger
}

// NewCatalogService creates a catalog service. A nil repository serves the
// embedded seed list.
func NewCatalogService(cafeRepo repositories.CafeRepository, logger *slog.Logger) services.CatalogService {
	return &catalogService{cafeRepo: cafeRepo, logger: logger}
}

func (s *catalogService) List(ctx context.Context, tags []string) ([]models.Cafe, error) {
	cafes, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	if len(tags) == 0 {
		return cafes, nil
	}

	filtered := make([]models.Cafe, 0, len(cafes))
	for _, c := range cafes {
		if hasAllTags(&c, tags) {
			filtered = append(filtered, c)
		}
	}
	return filtered, nil
}

func (s *catalogService) Nearby(ctx context.Context, center models.LatLng) (*services.NearbyCatalog, error) {
	cafes, err := s.all(ctx)
	if err != nil {
		return nil, err
	}

	nearby := geo.Within(cafes, center, config.NearMeRadiusMiles)
	result := &services.NearbyCatalog{Cafes: nearby}
	if len(nearby) > 0 {
		closest := nearby[0]
		result.Closest = &closest
	}
	return result, nil
}

func (s *catalogService) VibeTags() []string {
	return append([]string(nil), seed.VibeTags...)
}

// all returns the stored catalog, or the seed list when the table is empty
// or not provisioned.
func (s *catalogService) all(ctx context.Context) ([]models.Cafe, error) {
	if s.cafeRepo == nil {
		return seed.Cafes(), nil
	}
	cafes, err := s.cafeRepo.List(ctx)
	if err != nil {
		if !domain.IsBackendUnavailable(err) {
			return nil, err
		}
		s.logger.Warn("cafe catalog unavailable, serving seed list", "error", err)
		return seed.Cafes(), nil
	}
	if len(cafes) == 0 {
		return seed.Cafes(), nil
	}
	return cafes, nil
}

func hasAllTags(c *models.Cafe, tags []string) bool {
	for _, t := range tags {
		if !c.HasTag(t) {
			return false
		}
	}
	return true
}
