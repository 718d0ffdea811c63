// Package mapview builds the explore map marker set independently of any
// mapping SDK. A MapHandle receives the calls a map widget would.
package mapview

import (
	"fmt"

	"beanthere/internal/domain/models"
)

// MarkerKind distinguishes the user pin from cafe pins.
type MarkerKind string

const (
	MarkerUser MarkerKind = "user"
	MarkerCafe MarkerKind = "cafe"
)

// InfoWindow is the popup content of a cafe marker.
type InfoWindow struct {
	Name        string   `json:"name"`
	Address     string   `json:"address"`
	Rating      *float64 `json:"rating,omitempty"`
	ReviewCount *int     `json:"reviewCount,omitempty"`
	MatchScore  int      `json:"matchScore"`
}

// Marker is a single pin.
type Marker struct {
	ID       string        `json:"id"`
	Kind     MarkerKind    `json:"kind"`
	Position models.LatLng `json:"position"`
	Title    string        `json:"title"`
	Info     *InfoWindow   `json:"info,omitempty"`
}

// MapHandle is the surface the renderer draws on.
type MapHandle interface {
	SetCenter(center models.LatLng)
	AddMarker(marker Marker)
	ClearMarkers()
}

// Renderer draws the user position and scored cafes onto a MapHandle.
type Renderer struct{}

// NewRenderer creates a Renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render replaces whatever the handle shows with center plus one marker per
// cafe that has coordinates. It returns the number of cafe markers added.
func (r *Renderer) Render(handle MapHandle, center models.LatLng, cafes []models.ScoredCafe) int {
	handle.ClearMarkers()
	handle.SetCenter(center)
	handle.AddMarker(Marker{
		ID:       "user",
		Kind:     MarkerUser,
		Position: center,
		Title:    "You are here",
	})

	added := 0
	for i, c := range cafes {
		if c.Coordinates == nil {
			continue
		}
		id := c.ID
		if id == "" {
			id = fmt.Sprintf("cafe-%d", i)
		}
		handle.AddMarker(Marker{
			ID:       id,
			Kind:     MarkerCafe,
			Position: *c.Coordinates,
			Title:    c.Name,
			Info: &InfoWindow{
				Name:        c.Name,
				Address:     c.Address,
				Rating:      c.Rating,
				ReviewCount: c.ReviewCount,
				MatchScore:  c.MatchScore,
			},
		})
		added++
	}
	return added
}
