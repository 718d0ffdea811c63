package services

import (
	"context"

	"beanthere/internal/domain/models"
)

// LocateRequest is what the browser reported about its position
type LocateRequest struct {
	Position *models.LatLng
	Accuracy float64
	Denied   bool
	// ClientIP feeds the low accuracy lookup when the browser gave no fix
	ClientIP string
}

// ExploreResult is the explore page payload
type ExploreResult struct {
	Location    models.ResolvedLocation `json:"location"`
	Recommended []models.ScoredCafe     `json:"recommended"`
	Other       []models.ScoredCafe     `json:"other"`
	Warning     string                  `json:"warning,omitempty"`
}

// SearchResult wraps places results with a user-facing warning
type SearchResult struct {
	Cafes   []models.Cafe `json:"cafes"`
	Warning string        `json:"warning,omitempty"`
}

// ExploreService ties location, places and matching together
type ExploreService interface {
	Locate(ctx context.Context, req LocateRequest) models.ResolvedLocation
	// Explore returns domain.ErrOnboardingRequired when prefs is nil
	Explore(ctx context.Context, prefs *models.UserPreferences, req LocateRequest) (*ExploreResult, error)
	Search(ctx context.Context, query string, location *models.LatLng) (*SearchResult, error)
	Nearby(ctx context.Context, prefs *models.UserPreferences, center models.LatLng) (*SearchResult, error)
}
