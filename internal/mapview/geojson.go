package mapview

import (
	"encoding/json"

	"beanthere/internal/domain/models"
)

// Feature is a GeoJSON Point feature.
type Feature struct {
	Type       string         `json:"type"`
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

// Geometry is a GeoJSON Point. Coordinates are [lng, lat].
type Geometry struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

// FeatureCollection is the document served to the client map.
type FeatureCollection struct {
	Type     string        `json:"type"`
	Center   models.LatLng `json:"center"`
	Features []Feature     `json:"features"`
}

// GeoJSONMap accumulates markers as a GeoJSON FeatureCollection. It is not
// safe for concurrent use; build one per request.
type GeoJSONMap struct {
	center   models.LatLng
	features []Feature
}

// NewGeoJSONMap creates an empty map.
func NewGeoJSONMap() *GeoJSONMap {
	return &GeoJSONMap{features: []Feature{}}
}

func (m *GeoJSONMap) SetCenter(center models.LatLng) {
	m.center = center
}

func (m *GeoJSONMap) AddMarker(marker Marker) {
	props := map[string]any{
		"id":    marker.ID,
		"kind":  marker.Kind,
		"title": marker.Title,
	}
	if marker.Info != nil {
		props["name"] = marker.Info.Name
		props["address"] = marker.Info.Address
		props["matchScore"] = marker.Info.MatchScore
		if marker.Info.Rating != nil {
			props["rating"] = *marker.Info.Rating
		}
		if marker.Info.ReviewCount != nil {
			props["reviewCount"] = *marker.Info.ReviewCount
		}
	}
	m.features = append(m.features, Feature{
		Type: "Feature",
		Geometry: Geometry{
			Type:        "Point",
			Coordinates: [2]float64{marker.Position.Lng, marker.Position.Lat},
		},
		Properties: props,
	})
}

func (m *GeoJSONMap) ClearMarkers() {
	m.features = []Feature{}
}

// Collection returns the current state.
func (m *GeoJSONMap) Collection() FeatureCollection {
	return FeatureCollection{
		Type:     "FeatureCollection",
		Center:   m.center,
		Features: m.features,
	}
}

// MarshalJSON encodes the map as its FeatureCollection.
func (m *GeoJSONMap) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Collection())
}
