package seed

import (
	"context"
	"fmt"
	"log/slog"

	"beanthere/internal/domain/models"
	"beanthere/internal/domain/repositories"
)

// Seeder writes the catalog and demo data through the repositories
type Seeder struct {
	cafes     repositories.CafeRepository
	reviews   repositories.ReviewRepository
	favorites repositories.FavoriteRepository
	logger    *slog.Logger
}

// NewSeeder creates a new seeder
func NewSeeder(
	cafes repositories.CafeRepository,
	reviews repositories.ReviewRepository,
	favorites repositories.FavoriteRepository,
	logger *slog.Logger,
) *Seeder {
	return &Seeder{
		cafes:     cafes,
		reviews:   reviews,
		favorites: favorites,
		logger:    logger,
	}
}

// SeedCafes upserts the seed catalog and returns the number of cafes written
func (s *Seeder) SeedCafes(ctx context.Context) (int, error) {
	cafes := Cafes()
	if err := s.cafes.UpsertMany(ctx, cafes); err != nil {
		return 0, fmt.Errorf("upsert cafes: %w", err)
	}
	s.logger.Info("seeded cafes", "count", len(cafes))
	return len(cafes), nil
}

// demoReviews are written for the demo user against the first catalog cafes
var demoReviews = []struct {
	rating int
	text   string
}{
	{5, "Best cortado in San Jose. The seasonal menu is always worth a try."},
	{4, "Quiet enough to get work done, and the wifi never dropped."},
	{3, "Good espresso but it gets loud in the afternoon."},
}

// SeedDemoUser gives userID a few reviews and a favorite. Existing reviews
// by the same user are left alone.
func (s *Seeder) SeedDemoUser(ctx context.Context, userID, userName string) error {
	cafes := Cafes()
	for i, r := range demoReviews {
		cafe := cafes[i]
		existing, err := s.reviews.FindByCafeAndUser(ctx, cafe.ID, userID)
		if err != nil {
			return fmt.Errorf("find review for %s: %w", cafe.Name, err)
		}
		if existing != nil {
			continue
		}
		review := &models.Review{
			CafeID:   cafe.ID,
			CafeName: cafe.Name,
			UserID:   userID,
			UserName: userName,
			Rating:   r.rating,
			Review:   r.text,
		}
		if err := s.reviews.Create(ctx, review); err != nil {
			return fmt.Errorf("create review for %s: %w", cafe.Name, err)
		}
	}

	existing, err := s.favorites.ListByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("list favorites: %w", err)
	}
	if len(existing) == 0 {
		fav := &models.FavoriteCafe{
			UserID:      userID,
			CafeID:      cafes[0].ID,
			CafeName:    cafes[0].Name,
			CafeAddress: cafes[0].Address,
		}
		if err := s.favorites.Create(ctx, fav); err != nil {
			return fmt.Errorf("create favorite: %w", err)
		}
	}

	s.logger.Info("seeded demo user", "user_id", userID, "reviews", len(demoReviews))
	return nil
}
