package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/tidwall/gjson"

	"beanthere/internal/domain/models"
)

const (
	// DefaultGoogleBaseURL is the Places web service root
	DefaultGoogleBaseURL = "https://maps.googleapis.com/maps/api/place"
	// DefaultGoogleTimeout is the default HTTP timeout for Places requests
	DefaultGoogleTimeout = 10 * time.Second
)

// Provider status values that are not failures
const (
	statusOK          = "OK"
	statusZeroResults = "ZERO_RESULTS"
)

// GoogleClient implements Provider for the Google Places web service.
type GoogleClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewGoogleClient creates a new Google Places client.
func NewGoogleClient(apiKey string) *GoogleClient {
	return NewGoogleClientWithConfig(apiKey, DefaultGoogleBaseURL, DefaultGoogleTimeout)
}

// NewGoogleClientWithConfig creates a Google Places client with custom configuration.
func NewGoogleClientWithConfig(apiKey, baseURL string, timeout time.Duration) *GoogleClient {
	if baseURL == "" {
		baseURL = DefaultGoogleBaseURL
	}
	return &GoogleClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// NearbySearch implements Provider.
func (c *GoogleClient) NearbySearch(ctx context.Context, req NearbyRequest) ([]Place, error) {
	params := url.Values{}
	params.Set("location", formatLatLng(req.Location))
	params.Set("radius", strconv.Itoa(req.Radius))
	if req.Type != "" {
		params.Set("type", req.Type)
	}
	if req.Keyword != "" {
		params.Set("keyword", req.Keyword)
	}
	if req.MinPrice != nil {
		params.Set("minprice", strconv.Itoa(*req.MinPrice))
	}
	if req.MaxPrice != nil {
		params.Set("maxprice", strconv.Itoa(*req.MaxPrice))
	}
	return c.search(ctx, "nearbysearch", params)
}

// TextSearch implements Provider.
func (c *GoogleClient) TextSearch(ctx context.Context, req TextRequest) ([]Place, error) {
	params := url.Values{}
	params.Set("query", req.Query)
	params.Set("location", formatLatLng(req.Location))
	params.Set("radius", strconv.Itoa(req.Radius))
	return c.search(ctx, "textsearch", params)
}

func (c *GoogleClient) search(ctx context.Context, endpoint string, params url.Values) ([]Place, error) {
	params.Set("key", c.apiKey)
	reqURL := fmt.Sprintf("%s/%s/json?%s", c.baseURL, endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("places API error (status %d): %s", resp.StatusCode, string(body))
	}

	// The service answers 200 for request-level failures; the envelope
	// status says what actually happened.
	status := gjson.GetBytes(body, "status").String()
	switch status {
	case statusOK:
	case statusZeroResults:
		return []Place{}, nil
	default:
		msg := gjson.GetBytes(body, "error_message").String()
		if msg == "" {
			msg = "no error message"
		}
		return nil, fmt.Errorf("places API status %s: %s", status, msg)
	}

	var parsed googleResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	results := make([]Place, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		results = append(results, r.toPlace())
	}
	return results, nil
}

func formatLatLng(l models.LatLng) string {
	return strconv.FormatFloat(l.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(l.Lng, 'f', -1, 64)
}

// googleResponse represents a Places search response
type googleResponse struct {
	Results []googleResult `json:"results"`
	Status  string         `json:"status"`
}

// googleResult represents a single place from a Places search
type googleResult struct {
	PlaceID          string   `json:"place_id"`
	Name             string   `json:"name"`
	FormattedAddress string   `json:"formatted_address"`
	Vicinity         string   `json:"vicinity"`
	Rating           *float64 `json:"rating"`
	UserRatingsTotal *int     `json:"user_ratings_total"`
	Types            []string `json:"types"`
	PriceLevel       *int     `json:"price_level"`
	Geometry         *struct {
		Location *models.LatLng `json:"location"`
	} `json:"geometry"`
	Photos []struct {
		PhotoReference string `json:"photo_reference"`
	} `json:"photos"`
}

func (r googleResult) toPlace() Place {
	p := Place{
		PlaceID:          r.PlaceID,
		Name:             r.Name,
		FormattedAddress: r.FormattedAddress,
		Vicinity:         r.Vicinity,
		Rating:           r.Rating,
		UserRatingsTotal: r.UserRatingsTotal,
		Types:            r.Types,
		PriceLevel:       r.PriceLevel,
	}
	if r.Geometry != nil && r.Geometry.Location != nil {
		loc := *r.Geometry.Location
		p.Location = &loc
	}
	for _, ph := range r.Photos {
		if ph.PhotoReference != "" {
			p.PhotoReferences = append(p.PhotoReferences, ph.PhotoReference)
		}
	}
	return p
}
