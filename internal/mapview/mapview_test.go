package mapview

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beanthere/internal/domain/models"
)

type recordingMap struct {
	calls   []string
	markers []Marker
	center  models.LatLng
}

func (m *recordingMap) SetCenter(c models.LatLng) {
	m.calls = append(m.calls, "center")
	m.center = c
}

func (m *recordingMap) AddMarker(marker Marker) {
	m.calls = append(m.calls, "marker")
	m.markers = append(m.markers, marker)
}

func (m *recordingMap) ClearMarkers() {
	m.calls = append(m.calls, "clear")
	m.markers = nil
}

func ptr[T any](v T) *T { return &v }

func TestRender(t *testing.T) {
	center := models.LatLng{Lat: 37.77, Lng: -122.42}
	cafes := []models.ScoredCafe{
		{Cafe: models.Cafe{ID: "a", Name: "Ritual", Address: "1026 Valencia", Rating: ptr(4.6), ReviewCount: ptr(120), Coordinates: &models.LatLng{Lat: 37.75, Lng: -122.42}}, MatchScore: 3},
		{Cafe: models.Cafe{ID: "b", Name: "No Coords"}},
	}
	m := &recordingMap{}

	added := NewRenderer().Render(m, center, cafes)

	assert.Equal(t, 1, added)
	assert.Equal(t, []string{"clear", "center", "marker", "marker"}, m.calls)
	assert.Equal(t, center, m.center)
	require.Len(t, m.markers, 2)
	assert.Equal(t, MarkerUser, m.markers[0].Kind)
	assert.Equal(t, MarkerCafe, m.markers[1].Kind)
	require.NotNil(t, m.markers[1].Info)
	assert.Equal(t, 3, m.markers[1].Info.MatchScore)
	assert.Equal(t, "1026 Valencia", m.markers[1].Info.Address)
}

func TestGeoJSONMap(t *testing.T) {
	m := NewGeoJSONMap()
	m.AddMarker(Marker{ID: "stale"})

	NewRenderer().Render(m, models.LatLng{Lat: 1, Lng: 2}, []models.ScoredCafe{
		{Cafe: models.Cafe{ID: "x", Name: "Philz", Coordinates: &models.LatLng{Lat: 3, Lng: 4}, Rating: ptr(4.2)}, MatchScore: 1},
	})

	data, err := json.Marshal(m)
	require.NoError(t, err)

	var doc FeatureCollection
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "FeatureCollection", doc.Type)
	require.Len(t, doc.Features, 2)
	assert.Equal(t, [2]float64{2, 1}, doc.Features[0].Geometry.Coordinates)
	assert.Equal(t, [2]float64{4, 3}, doc.Features[1].Geometry.Coordinates)
	assert.Equal(t, "Philz", doc.Features[1].Properties["name"])
	assert.Equal(t, 4.2, doc.Features[1].Properties["rating"])
	assert.InDelta(t, 1, doc.Features[1].Properties["matchScore"], 0)
}
