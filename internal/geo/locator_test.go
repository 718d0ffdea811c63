package geo

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beanthere/internal/domain/models"
)

type scriptedSource struct {
	calls   []PositionOptions
	results []func(ctx context.Context) (*Position, error)
}

func (s *scriptedSource) CurrentPosition(ctx context.Context, opts PositionOptions) (*Position, error) {
	s.calls = append(s.calls, opts)
	i := len(s.calls) - 1
	if i >= len(s.results) {
		return nil, &Error{Code: CodeUnknown}
	}
	return s.results[i](ctx)
}

func fix(lat, lng float64) func(context.Context) (*Position, error) {
	return func(context.Context) (*Position, error) {
		return &Position{Location: models.LatLng{Lat: lat, Lng: lng}, Accuracy: 12}, nil
	}
}

func fail(code ErrorCode) func(context.Context) (*Position, error) {
	return func(context.Context) (*Position, error) {
		return nil, &Error{Code: code}
	}
}

func newTestLocator() *Locator {
	return NewLocator(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestLocate_HighAccuracySucceeds(t *testing.T) {
	src := &scriptedSource{results: []func(context.Context) (*Position, error){fix(40.7, -74.0)}}

	got := newTestLocator().Locate(context.Background(), src)

	assert.False(t, got.IsFallback)
	assert.Empty(t, got.Advisory)
	assert.Equal(t, 40.7, got.Location.Lat)
	require.Len(t, src.calls, 1)
	assert.True(t, src.calls[0].EnableHighAccuracy)
	assert.Equal(t, 20*time.Second, src.calls[0].Timeout)
	assert.Equal(t, 5*time.Minute, src.calls[0].MaximumAge)
}

func TestLocate_FallsBackToLowAccuracyOnce(t *testing.T) {
	src := &scriptedSource{results: []func(context.Context) (*Position, error){
		fail(CodeTimeout),
		fix(34.05, -118.24),
	}}

	got := newTestLocator().Locate(context.Background(), src)

	assert.False(t, got.IsFallback)
	assert.Equal(t, 34.05, got.Location.Lat)
	require.Len(t, src.calls, 2)
	assert.False(t, src.calls[1].EnableHighAccuracy)
	assert.Equal(t, 15*time.Second, src.calls[1].Timeout)
	assert.Equal(t, 10*time.Minute, src.calls[1].MaximumAge)
}

func TestLocate_DefaultsWithAdvisory(t *testing.T) {
	tests := []struct {
		name     string
		code     ErrorCode
		advisory string
		attempts int
	}{
		{name: "denied", code: CodePermissionDenied, advisory: "Unable to get your location. Please allow location access in your browser settings. Using San Francisco.", attempts: 1},
		{name: "unavailable", code: CodePositionUnavailable, advisory: "Unable to get your location. Location information is unavailable. Using San Francisco.", attempts: 2},
		{name: "timeout", code: CodeTimeout, advisory: "Unable to get your location. Location request timed out. Using San Francisco.", attempts: 2},
		{name: "unknown", code: CodeUnknown, advisory: "Unable to get your location. Please try again. Using San Francisco.", attempts: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &scriptedSource{results: []func(context.Context) (*Position, error){fail(tt.code), fail(tt.code)}}

			got := newTestLocator().Locate(context.Background(), src)

			assert.True(t, got.IsFallback)
			assert.Equal(t, models.DefaultLocation, got.Location)
			assert.Equal(t, tt.advisory, got.Advisory)
			assert.Len(t, src.calls, tt.attempts)
		})
	}
}

func TestLocate_DeadlineBecomesTimeout(t *testing.T) {
	blocking := func(ctx context.Context) (*Position, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	src := &scriptedSource{results: []func(context.Context) (*Position, error){blocking, blocking}}
	l := newTestLocator()

	_, err := l.attempt(context.Background(), src, PositionOptions{Timeout: 10 * time.Millisecond})

	var geoErr *Error
	require.ErrorAs(t, err, &geoErr)
	assert.Equal(t, CodeTimeout, geoErr.Code)
}

func TestLocate_RejectsStalePosition(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	stale := func(context.Context) (*Position, error) {
		return &Position{Location: models.LatLng{Lat: 1, Lng: 1}, Timestamp: now.Add(-6 * time.Minute)}, nil
	}
	src := &scriptedSource{results: []func(context.Context) (*Position, error){stale, stale}}
	l := newTestLocator()
	l.now = func() time.Time { return now }

	got := l.Locate(context.Background(), src)

	// 6 minutes is too old for high accuracy but fine for low
	assert.False(t, got.IsFallback)
	assert.Len(t, src.calls, 2)
}

func TestClientSource(t *testing.T) {
	_, err := ClientSource{Denied: true}.CurrentPosition(context.Background(), HighAccuracy)
	var geoErr *Error
	require.ErrorAs(t, err, &geoErr)
	assert.Equal(t, CodePermissionDenied, geoErr.Code)

	_, err = ClientSource{}.CurrentPosition(context.Background(), HighAccuracy)
	require.ErrorAs(t, err, &geoErr)
	assert.Equal(t, CodePositionUnavailable, geoErr.Code)

	pos, err := ClientSource{Location: &models.LatLng{Lat: 1, Lng: 2}}.CurrentPosition(context.Background(), HighAccuracy)
	require.NoError(t, err)
	assert.Equal(t, 2.0, pos.Location.Lng)
}

func TestIPSource(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/8.8.8.8", r.URL.Path)
		_, _ = w.Write([]byte(`{"status":"success","lat":37.4,"lon":-122.1}`))
	}))
	defer server.Close()

	pos, err := NewIPSource(server.URL, "8.8.8.8").CurrentPosition(context.Background(), LowAccuracy)
	require.NoError(t, err)
	assert.Equal(t, 37.4, pos.Location.Lat)
	assert.Equal(t, -122.1, pos.Location.Lng)

	for _, ip := range []string{"", "127.0.0.1", "10.0.0.4", "not-an-ip"} {
		_, err := NewIPSource(server.URL, ip).CurrentPosition(context.Background(), LowAccuracy)
		var geoErr *Error
		require.ErrorAs(t, err, &geoErr, ip)
		assert.Equal(t, CodePositionUnavailable, geoErr.Code)
	}
}

func TestIPSource_FailStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"fail","message":"reserved range"}`))
	}))
	defer server.Close()

	_, err := NewIPSource(server.URL, "8.8.4.4").CurrentPosition(context.Background(), LowAccuracy)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reserved range")
}

func TestFallbackSource(t *testing.T) {
	src := FallbackSource{
		High: ClientSource{},
		Low:  ClientSource{Location: &models.LatLng{Lat: 5, Lng: 5}},
	}

	got := newTestLocator().Locate(context.Background(), src)

	assert.False(t, got.IsFallback)
	assert.Equal(t, 5.0, got.Location.Lat)
}

func TestFallbackSource_DeniedNeverAsksLow(t *testing.T) {
	low := &scriptedSource{results: []func(context.Context) (*Position, error){fix(40.7, -74.0)}}
	src := FallbackSource{High: ClientSource{Denied: true}, Low: low}

	got := newTestLocator().Locate(context.Background(), src)

	assert.True(t, got.IsFallback)
	assert.Equal(t, models.DefaultLocation, got.Location)
	assert.Equal(t, "Unable to get your location. Please allow location access in your browser settings. Using San Francisco.", got.Advisory)
	assert.Empty(t, low.calls)
}
