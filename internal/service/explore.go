package service

import (
	"context"
	"log/slog"
	"slices"

	"beanthere/internal/domain"
	"beanthere/internal/domain/models"
	"beanthere/internal/domain/services"
	"beanthere/internal/geo"
	"beanthere/internal/match"
	"beanthere/internal/places"
)

// PlacesQuerier runs provider searches. Satisfied by *places.Component.
type PlacesQuerier interface {
	Nearby(ctx context.Context, center models.LatLng, prefs *models.UserPreferences) places.Result
	Search(ctx context.Context, query string, location *models.LatLng) (places.Result, error)
}

// exploreService implements services.ExploreService
type exploreService struct {
	locator     *geo.Locator
	places      PlacesQuerier
	engine      *match.Engine
	ipLookupURL string
	logger      *slog.Logger
}

// NewExploreService creates the explore service. ipLookupURL may be empty
// to use geo.DefaultIPLookupURL.
func NewExploreService(
	locator *geo.Locator,
	placesQuerier PlacesQuerier,
	engine *match.Engine,
	ipLookupURL string,
	logger *slog.Logger,
) services.ExploreService {
	return &exploreService{
		locator:     locator,
		places:      placesQuerier,
		engine:      engine,
		ipLookupURL: ipLookupURL,
		logger:      logger,
	}
}

// Locate resolves the browser report first and the client IP second. The
// IP is never consulted once the user has denied location access.
func (s *exploreService) Locate(ctx context.Context, req services.LocateRequest) models.ResolvedLocation {
	source := geo.FallbackSource{
		High: geo.ClientSource{
			Location: req.Position,
			Accuracy: req.Accuracy,
			Denied:   req.Denied,
		},
	}
	if req.ClientIP != "" && !req.Denied {
		source.Low = geo.NewIPSource(s.ipLookupURL, req.ClientIP)
	}
	return s.locator.Locate(ctx, source)
}

func (s *exploreService) Explore(ctx context.Context, prefs *models.UserPreferences, req services.LocateRequest) (*services.ExploreResult, error) {
	if prefs == nil {
		return nil, domain.ErrOnboardingRequired
	}

	loc := s.Locate(ctx, req)
	res := s.places.Nearby(ctx, loc.Location, prefs)
	recommended, other := match.Split(s.engine.Rank(res.Cafes, prefs))

	s.logger.Debug("explore",
		"lat", loc.Location.Lat,
		"lng", loc.Location.Lng,
		"fallback", loc.IsFallback,
		"results", len(res.Cafes),
		"recommended", len(recommended),
	)
	return &services.ExploreResult{
		Location:    loc,
		Recommended: recommended,
		Other:       other,
		Warning:     res.Warning,
	}, nil
}

func (s *exploreService) Search(ctx context.Context, query string, location *models.LatLng) (*services.SearchResult, error) {
	res, err := s.places.Search(ctx, query, location)
	if err != nil {
		return nil, err
	}
	return &services.SearchResult{Cafes: nonNilCafes(res.Cafes), Warning: res.Warning}, nil
}

func (s *exploreService) Nearby(ctx context.Context, prefs *models.UserPreferences, center models.LatLng) (*services.SearchResult, error) {
	res := s.places.Nearby(ctx, center, prefs)
	return &services.SearchResult{Cafes: nonNilCafes(res.Cafes), Warning: res.Warning}, nil
}

func nonNilCafes(cafes []models.Cafe) []models.Cafe {
	if cafes == nil {
		return []models.Cafe{}
	}
	return slices.Clip(cafes)
}
