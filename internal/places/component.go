package places

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"beanthere/internal/config"
	"beanthere/internal/domain"
	"beanthere/internal/domain/models"
	"beanthere/internal/match"
)

// User-facing messages. Provider failures never surface as errors.
const (
	WarningSearchFailed  = "Error searching for coffee shops. Please try again."
	WarningNoneNearby    = "No coffee shops found nearby."
	WarningNotConfigured = "Places search is not configured."
	emptyQueryMessage    = "Please enter a search query."
)

// Query kinds and outcomes reported to the Recorder
const (
	KindNearby = "nearby"
	KindText   = "text"

	OutcomeOK     = "ok"
	OutcomeEmpty  = "empty"
	OutcomeError  = "error"
	OutcomeCached = "cached"
)

// Cache stores normalized results between identical queries.
type Cache interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

// Recorder receives query metrics.
type Recorder interface {
	ObservePlacesQuery(kind, outcome string, elapsed time.Duration)
	ObserveCacheLookup(hit bool)
}

// Result is a normalized result set plus an optional warning for the user.
type Result struct {
	Cafes   []models.Cafe `json:"cafes"`
	Warning string        `json:"warning,omitempty"`
}

// ComponentConfig wires a Component. Only Logger is required; a nil
// Provider makes every query return WarningNotConfigured.
type ComponentConfig struct {
	Provider Provider
	Cache    Cache
	CacheTTL time.Duration
	Recorder Recorder
	Logger   *slog.Logger
}

// Component runs places queries, one provider attempt per call.
type Component struct {
	provider Provider
	cache    Cache
	cacheTTL time.Duration
	recorder Recorder
	logger   *slog.Logger
}

// NewComponent creates a places query component.
func NewComponent(cfg ComponentConfig) *Component {
	return &Component{
		provider: cfg.Provider,
		cache:    cfg.Cache,
		cacheTTL: cfg.CacheTTL,
		recorder: cfg.Recorder,
		logger:   cfg.Logger,
	}
}

// Nearby finds cafes around center, shaped by the device's preferences.
func (c *Component) Nearby(ctx context.Context, center models.LatLng, prefs *models.UserPreferences) Result {
	req := NearbyRequest{
		Location: center,
		Radius:   config.SearchRadiusMeters,
		Type:     "cafe",
	}
	if prefs != nil {
		req.Keyword = strings.Join(prefs.CoffeeTypes, " ")
		price := match.BudgetPriceRange(prefs.Budget)
		req.MinPrice = &price.Min
		req.MaxPrice = &price.Max
	}

	key := fmt.Sprintf("places:nearby:%.4f,%.4f:%s:%s", center.Lat, center.Lng, req.Keyword, priceKey(req))
	res := c.run(ctx, KindNearby, key, func(ctx context.Context) ([]Place, error) {
		return c.provider.NearbySearch(ctx, req)
	}, NormalizeNearby)
	if res.Warning == "" && len(res.Cafes) == 0 {
		res.Warning = WarningNoneNearby
	}
	return res
}

// Search runs a free-text search biased towards location, or towards the
// default location when nil. An empty query is rejected before any call.
func (c *Component) Search(ctx context.Context, query string, location *models.LatLng) (Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Result{}, &domain.ValidationError{
			Message: emptyQueryMessage,
			Fields:  map[string]string{"q": emptyQueryMessage},
		}
	}

	bias := models.DefaultLocation
	if location != nil {
		bias = *location
	}
	req := TextRequest{
		Query:    query + " coffee shops",
		Location: bias,
		Radius:   config.SearchRadiusMeters,
	}

	key := fmt.Sprintf("places:text:%.4f,%.4f:%s", bias.Lat, bias.Lng, strings.ToLower(query))
	res := c.run(ctx, KindText, key, func(ctx context.Context) ([]Place, error) {
		return c.provider.TextSearch(ctx, req)
	}, NormalizeAll)
	if res.Warning == "" && len(res.Cafes) == 0 {
		res.Warning = fmt.Sprintf("No coffee shops found matching %q. Try a different search term.", query)
	}
	return res, nil
}

func (c *Component) run(
	ctx context.Context,
	kind, key string,
	call func(context.Context) ([]Place, error),
	normalize func([]Place) []models.Cafe,
) Result {
	if c.provider == nil {
		c.observe(kind, OutcomeError, 0)
		return Result{Cafes: []models.Cafe{}, Warning: WarningNotConfigured}
	}

	if cafes, ok := c.cached(ctx, key); ok {
		c.observe(kind, OutcomeCached, 0)
		return Result{Cafes: cafes}
	}

	start := time.Now()
	raw, err := call(ctx)
	elapsed := time.Since(start)
	if err != nil {
		c.logger.Warn("places query failed", "kind", kind, "error", err)
		c.observe(kind, OutcomeError, elapsed)
		return Result{Cafes: []models.Cafe{}, Warning: WarningSearchFailed}
	}

	cafes := normalize(raw)
	if len(cafes) == 0 {
		c.observe(kind, OutcomeEmpty, elapsed)
		return Result{Cafes: cafes}
	}

	c.observe(kind, OutcomeOK, elapsed)
	c.store(ctx, key, cafes)
	return Result{Cafes: cafes}
}

func (c *Component) cached(ctx context.Context, key string) ([]models.Cafe, bool) {
	if c.cache == nil {
		return nil, false
	}
	var cafes []models.Cafe
	hit, err := c.cache.GetJSON(ctx, key, &cafes)
	if err != nil {
		c.logger.Debug("places cache read failed", "key", key, "error", err)
		hit = false
	}
	if c.recorder != nil {
		c.recorder.ObserveCacheLookup(hit)
	}
	return cafes, hit
}

func (c *Component) store(ctx context.Context, key string, cafes []models.Cafe) {
	if c.cache == nil || c.cacheTTL <= 0 {
		return
	}
	if err := c.cache.SetJSON(ctx, key, cafes, c.cacheTTL); err != nil {
		c.logger.Debug("places cache write failed", "key", key, "error", err)
	}
}

func (c *Component) observe(kind, outcome string, elapsed time.Duration) {
	if c.recorder != nil {
		c.recorder.ObservePlacesQuery(kind, outcome, elapsed)
	}
}

func priceKey(req NearbyRequest) string {
	if req.MinPrice == nil || req.MaxPrice == nil {
		return "any"
	}
	return fmt.Sprintf("%d-%d", *req.MinPrice, *req.MaxPrice)
}
