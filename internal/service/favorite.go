package service

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"beanthere/internal/config"
	"beanthere/internal/domain"
	"beanthere/internal/domain/models"
	"beanthere/internal/domain/repositories"
	"beanthere/internal/domain/services"
)

// favoriteService implements services.FavoriteService. It keeps recently
// active users' lists in a bounded LRU; a list is loaded on sign-in or first
// read and updated locally after every write without re-fetching.
type favoriteService struct {
	favoriteRepo repositories.FavoriteRepository
	authorizer   services.ResourceAuthorizer
	logger       *slog.Logger

	// mu serializes read-modify-write of a cached list; the LRU itself is
	// safe for concurrent use.
	mu    sync.Mutex
	lists *lru.Cache[string, []models.FavoriteCafe]
}

// NewFavoriteService creates a new favorite service. When identity is
// non-nil the service follows its session changes.
func NewFavoriteService(
	favoriteRepo repositories.FavoriteRepository,
	authorizer services.ResourceAuthorizer,
	identity services.IdentityService,
	logger *slog.Logger,
) services.FavoriteService {
	return newFavoriteService(favoriteRepo, authorizer, identity, config.FavoriteListCacheSize, logger)
}

func newFavoriteService(
	favoriteRepo repositories.FavoriteRepository,
	authorizer services.ResourceAuthorizer,
	identity services.IdentityService,
	cacheSize int,
	logger *slog.Logger,
) *favoriteService {
	lists, err := lru.New[string, []models.FavoriteCafe](cacheSize)
	if err != nil {
		// only reachable with a non-positive size
		panic(err)
	}
	s := &favoriteService{
		favoriteRepo: favoriteRepo,
		authorizer:   authorizer,
		logger:       logger,
		lists:        lists,
	}
	if identity != nil {
		identity.Subscribe(s.onSessionChange)
	}
	return s
}

func (s *favoriteService) onSessionChange(ctx context.Context, change models.SessionChange) {
	if !change.SignedIn() {
		if change.UserID != "" {
			s.mu.Lock()
			s.lists.Remove(change.UserID)
			s.mu.Unlock()
		}
		return
	}
	if _, err := s.load(ctx, change.UserID); err != nil {
		s.logger.Warn("failed to load favorites", "user_id", change.UserID, "error", err)
	}
}

func (s *favoriteService) Add(ctx context.Context, userID, cafeID, cafeName, cafeAddress string) (*models.FavoriteCafe, error) {
	if userID == "" {
		return nil, &domain.UnauthorizedError{Message: "Please sign in to save favorites"}
	}
	if strings.TrimSpace(cafeID) == "" {
		return nil, &domain.ValidationError{Message: "cafe id is required", Fields: map[string]string{"cafeId": "cafe id is required"}}
	}
	if strings.TrimSpace(cafeAddress) == "" {
		cafeAddress = cafeName
	}

	fav := &models.FavoriteCafe{
		UserID:      userID,
		CafeID:      cafeID,
		CafeName:    cafeName,
		CafeAddress: cafeAddress,
	}
	if err := s.favoriteRepo.Create(ctx, fav); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if list, ok := s.lists.Peek(userID); ok {
		s.lists.Add(userID, append([]models.FavoriteCafe{*fav}, list...))
	}
	s.mu.Unlock()

	s.logger.Info("favorite added", "id", fav.ID, "user_id", userID, "cafe_id", cafeID)
	return fav, nil
}

func (s *favoriteService) Remove(ctx context.Context, userID, favoriteID string) error {
	if userID == "" {
		return &domain.UnauthorizedError{Message: "Please sign in to manage favorites"}
	}
	if err := s.authorizer.CanModifyFavorite(ctx, userID, favoriteID); err != nil {
		return err
	}
	if err := s.favoriteRepo.Delete(ctx, favoriteID); err != nil {
		return err
	}

	s.mu.Lock()
	if list, ok := s.lists.Peek(userID); ok {
		kept := make([]models.FavoriteCafe, 0, len(list))
		for _, f := range list {
			if f.ID != favoriteID {
				kept = append(kept, f)
			}
		}
		s.lists.Add(userID, kept)
	}
	s.mu.Unlock()

	s.logger.Info("favorite removed", "id", favoriteID, "user_id", userID)
	return nil
}

func (s *favoriteService) ListForUser(ctx context.Context, userID string) ([]models.FavoriteCafe, error) {
	if userID == "" {
		return nil, &domain.UnauthorizedError{Message: "Please sign in to see your favorites"}
	}
	return s.load(ctx, userID)
}

func (s *favoriteService) IsFavorite(ctx context.Context, userID, cafeID string) (bool, error) {
	if userID == "" {
		return false, nil
	}

	list, ok := s.lists.Get(userID)

	if !ok {
		var err error
		if list, err = s.load(ctx, userID); err != nil {
			return false, err
		}
	}
	for _, f := range list {
		if f.CafeID == cafeID {
			return true, nil
		}
	}
	return false, nil
}

// load fetches the user's favorites and replaces the cached list.
func (s *favoriteService) load(ctx context.Context, userID string) ([]models.FavoriteCafe, error) {
	list, err := s.favoriteRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.lists.Add(userID, list)
	s.mu.Unlock()

	out := make([]models.FavoriteCafe, len(list))
	copy(out, list)
	return out, nil
}
