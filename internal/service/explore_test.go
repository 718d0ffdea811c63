package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beanthere/internal/domain"
	"beanthere/internal/domain/models"
	"beanthere/internal/domain/services"
	"beanthere/internal/geo"
	"beanthere/internal/match"
	"beanthere/internal/places"
)

// fakePlaces returns a fixed result and records the centers it was asked about.
type fakePlaces struct {
	mu      sync.Mutex
	result  places.Result
	centers []models.LatLng
}

func (f *fakePlaces) Nearby(_ context.Context, center models.LatLng, _ *models.UserPreferences) places.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.centers = append(f.centers, center)
	return f.result
}

func (f *fakePlaces) Search(_ context.Context, _ string, _ *models.LatLng) (places.Result, error) {
	return f.result, nil
}

func newExploreFixture(t *testing.T, result places.Result, ipLookupURL string) (*fakePlaces, services.ExploreService) {
	t.Helper()
	table, err := match.DefaultTable()
	require.NoError(t, err)
	fp := &fakePlaces{result: result}
	return fp, NewExploreService(geo.NewLocator(testLogger()), fp, match.NewEngine(table), ipLookupURL, testLogger())
}

func TestExplore_RequiresOnboarding(t *testing.T) {
	_, svc := newExploreFixture(t, places.Result{}, "")
	_, err := svc.Explore(context.Background(), nil, services.LocateRequest{})
	assert.ErrorIs(t, err, domain.ErrOnboardingRequired)
	assert.Equal(t, "Please complete the onboarding first.", err.Error())
}

func TestExplore_SplitsByMatch(t *testing.T) {
	result := places.Result{Cafes: []models.Cafe{
		{ID: "a", Name: "Corner Cafe"},
		{ID: "b", Name: "Blue Bottle Coffee"},
	}}
	fp, svc := newExploreFixture(t, result, "")
	prefs := &models.UserPreferences{Vibe: []string{"aesthetic"}, FavoriteFlavor: "fruity", MilkType: "oat"}
	pos := models.LatLng{Lat: 37.78, Lng: -122.41}

	got, err := svc.Explore(context.Background(), prefs, services.LocateRequest{Position: &pos, Accuracy: 20})
	require.NoError(t, err)

	assert.False(t, got.Location.IsFallback)
	assert.Equal(t, []models.LatLng{pos}, fp.centers)
	require.Len(t, got.Recommended, 1)
	assert.Equal(t, "b", got.Recommended[0].ID)
	assert.Equal(t, 4, got.Recommended[0].MatchScore)
	require.Len(t, got.Other, 1)
	assert.Equal(t, "a", got.Other[0].ID)
}

func TestExplore_DeniedWithoutIPFallsBackToDefault(t *testing.T) {
	fp, svc := newExploreFixture(t, places.Result{Warning: places.WarningNoneNearby}, "")

	got, err := svc.Explore(context.Background(), &models.UserPreferences{}, services.LocateRequest{Denied: true})
	require.NoError(t, err)
	assert.True(t, got.Location.IsFallback)
	assert.Equal(t, models.DefaultLocation, got.Location.Location)
	assert.Contains(t, got.Location.Advisory, "Please allow location access")
	assert.Equal(t, places.WarningNoneNearby, got.Warning)
	assert.Equal(t, []models.LatLng{models.DefaultLocation}, fp.centers)
	assert.NotNil(t, got.Recommended)
	assert.NotNil(t, got.Other)
}

func TestExplore_LocateUsesIPLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/8.8.8.8", r.URL.Path)
		_, _ = w.Write([]byte(`{"status":"success","lat":40.7,"lon":-74.0}`))
	}))
	defer srv.Close()

	_, svc := newExploreFixture(t, places.Result{}, srv.URL)
	loc := svc.Locate(context.Background(), services.LocateRequest{ClientIP: "8.8.8.8"})

	assert.False(t, loc.IsFallback)
	assert.Equal(t, models.LatLng{Lat: 40.7, Lng: -74.0}, loc.Location)
}

func TestExplore_DeniedIgnoresClientIP(t *testing.T) {
	tests := []struct {
		name string
		ip   string
	}{
		{name: "public address", ip: "8.8.8.8"},
		{name: "loopback", ip: "127.0.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var lookups int
			var mu sync.Mutex
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				mu.Lock()
				lookups++
				mu.Unlock()
				_, _ = w.Write([]byte(`{"status":"success","lat":40.7,"lon":-74.0}`))
			}))
			defer srv.Close()

			_, svc := newExploreFixture(t, places.Result{}, srv.URL)
			loc := svc.Locate(context.Background(), services.LocateRequest{Denied: true, ClientIP: tt.ip})

			assert.True(t, loc.IsFallback)
			assert.Equal(t, models.DefaultLocation, loc.Location)
			assert.Equal(t, "Unable to get your location. Please allow location access in your browser settings. Using San Francisco.", loc.Advisory)
			mu.Lock()
			assert.Zero(t, lookups)
			mu.Unlock()
		})
	}
}

func TestExplore_SearchNeverReturnsNilCafes(t *testing.T) {
	_, svc := newExploreFixture(t, places.Result{Warning: places.WarningSearchFailed}, "")

	res, err := svc.Search(context.Background(), "latte", nil)
	require.NoError(t, err)
	assert.NotNil(t, res.Cafes)
	assert.Equal(t, places.WarningSearchFailed, res.Warning)
}
