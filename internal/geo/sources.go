package geo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/tidwall/gjson"

	"beanthere/internal/domain/models"
)

// ClientSource replays what the browser reported. A browser that sent no
// coordinates without denying has no position to offer.
type ClientSource struct {
	Location  *models.LatLng
	Accuracy  float64
	Denied    bool
	Timestamp time.Time
}

// CurrentPosition implements PositionSource.
func (s ClientSource) CurrentPosition(_ context.Context, _ PositionOptions) (*Position, error) {
	if s.Denied {
		return nil, &Error{Code: CodePermissionDenied}
	}
	if s.Location == nil {
		return nil, &Error{Code: CodePositionUnavailable, Err: errors.New("no coordinates reported")}
	}
	return &Position{Location: *s.Location, Accuracy: s.Accuracy, Timestamp: s.Timestamp}, nil
}

const (
	// DefaultIPLookupURL is an ip-api compatible endpoint
	DefaultIPLookupURL = "http://ip-api.com/json"
	// DefaultIPLookupTimeout bounds a single lookup
	DefaultIPLookupTimeout = 5 * time.Second

	// ipAccuracyMeters is the nominal accuracy of a city-level IP fix
	ipAccuracyMeters = 5000
)

// IPSource geolocates the client IP. It is the low-accuracy source.
type IPSource struct {
	baseURL    string
	httpClient *http.Client
	ip         string
}

// NewIPSource creates a lookup for ip against baseURL.
func NewIPSource(baseURL, ip string) *IPSource {
	if baseURL == "" {
		baseURL = DefaultIPLookupURL
	}
	return &IPSource{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: DefaultIPLookupTimeout},
		ip:         ip,
	}
}

// CurrentPosition implements PositionSource.
func (s *IPSource) CurrentPosition(ctx context.Context, _ PositionOptions) (*Position, error) {
	parsed := net.ParseIP(s.ip)
	if parsed == nil || parsed.IsLoopback() || parsed.IsPrivate() || parsed.IsUnspecified() {
		return nil, &Error{Code: CodePositionUnavailable, Err: fmt.Errorf("no public client address %q", s.ip)}
	}

	reqURL := fmt.Sprintf("%s/%s?fields=status,message,lat,lon", s.baseURL, parsed.String())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, &Error{Code: CodeTimeout, Err: err}
		}
		return nil, &Error{Code: CodePositionUnavailable, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Code: CodePositionUnavailable, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &Error{Code: CodePositionUnavailable, Err: fmt.Errorf("ip lookup status %d", resp.StatusCode)}
	}

	result := gjson.ParseBytes(body)
	if result.Get("status").String() != "success" {
		return nil, &Error{Code: CodePositionUnavailable, Err: fmt.Errorf("ip lookup: %s", result.Get("message").String())}
	}

	return &Position{
		Location: models.LatLng{Lat: result.Get("lat").Float(), Lng: result.Get("lon").Float()},
		Accuracy: ipAccuracyMeters,
	}, nil
}

// FallbackSource serves high-accuracy requests from High and the rest from
// Low. A nil Low falls back to High.
type FallbackSource struct {
	High PositionSource
	Low  PositionSource
}

// CurrentPosition implements PositionSource.
func (s FallbackSource) CurrentPosition(ctx context.Context, opts PositionOptions) (*Position, error) {
	if opts.EnableHighAccuracy || s.Low == nil {
		return s.High.CurrentPosition(ctx, opts)
	}
	return s.Low.CurrentPosition(ctx, opts)
}
