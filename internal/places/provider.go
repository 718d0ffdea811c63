// Package places queries a third-party places provider for coffee shops and
// normalizes the results into models.Cafe.
package places

import (
	"context"

	"beanthere/internal/domain/models"
)

// Provider is a places/maps web service.
// Implementations include Google Places; tests use a fake.
type Provider interface {
	NearbySearch(ctx context.Context, req NearbyRequest) ([]Place, error)
	TextSearch(ctx context.Context, req TextRequest) ([]Place, error)
}

// NearbyRequest searches by radius around a center.
type NearbyRequest struct {
	Location models.LatLng
	Radius   int    // meters
	Type     string // provider place type, e.g. "cafe"
	Keyword  string
	MinPrice *int
	MaxPrice *int
}

// TextRequest is a free-text search biased towards a location.
type TextRequest struct {
	Query    string
	Location models.LatLng
	Radius   int // meters
}

// Place is a raw provider record.
type Place struct {
	PlaceID          string
	Name             string
	FormattedAddress string
	Vicinity         string
	Location         *models.LatLng
	Rating           *float64
	UserRatingsTotal *int
	Types            []string
	PriceLevel       *int
	PhotoReferences  []string
}

// Address prefers the formatted address and falls back to the vicinity.
// Text search results carry the formatted address.
func (p *Place) Address() string {
	if p.FormattedAddress != "" {
		return p.FormattedAddress
	}
	return p.Vicinity
}

// NearbyAddress prefers the vicinity, which is what nearby search returns,
// and falls back to the formatted address.
func (p *Place) NearbyAddress() string {
	if p.Vicinity != "" {
		return p.Vicinity
	}
	return p.FormattedAddress
}
