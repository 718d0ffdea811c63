// Package geo resolves the device location, falling back from a
// high-accuracy fix to a low-accuracy one and finally to a default point.
package geo

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"beanthere/internal/config"
	"beanthere/internal/domain/models"
)

// PositionOptions matches the browser geolocation options.
type PositionOptions struct {
	EnableHighAccuracy bool
	Timeout            time.Duration
	MaximumAge         time.Duration
}

// HighAccuracy and LowAccuracy are the two attempts Locate makes.
var (
	HighAccuracy = PositionOptions{
		EnableHighAccuracy: true,
		Timeout:            config.HighAccuracyTimeout,
		MaximumAge:         config.HighAccuracyMaximumAge,
	}
	LowAccuracy = PositionOptions{
		EnableHighAccuracy: false,
		Timeout:            config.LowAccuracyTimeout,
		MaximumAge:         config.LowAccuracyMaximumAge,
	}
)

// Position is a location fix.
type Position struct {
	Location  models.LatLng
	Accuracy  float64 // meters
	Timestamp time.Time
}

// PositionSource produces a position. Implementations should honor ctx;
// Locate enforces opts.Timeout through it.
type PositionSource interface {
	CurrentPosition(ctx context.Context, opts PositionOptions) (*Position, error)
}

// Locator resolves locations with a fixed fallback.
type Locator struct {
	fallback      models.LatLng
	fallbackLabel string
	now           func() time.Time
	logger        *slog.Logger
}

// NewLocator falls back to San Francisco.
func NewLocator(logger *slog.Logger) *Locator {
	return &Locator{
		fallback:      models.DefaultLocation,
		fallbackLabel: "San Francisco",
		now:           time.Now,
		logger:        logger,
	}
}

// Locate tries a high-accuracy fix, then exactly one low-accuracy fix, and
// otherwise returns the fallback location with an advisory. A denied
// permission skips the low-accuracy attempt.
func (l *Locator) Locate(ctx context.Context, source PositionSource) models.ResolvedLocation {
	pos, err := l.attempt(ctx, source, HighAccuracy)
	if err == nil {
		return resolved(pos)
	}
	l.logger.Debug("high accuracy location failed", "error", err)

	if !IsPermissionDenied(err) {
		pos, err = l.attempt(ctx, source, LowAccuracy)
		if err == nil {
			return resolved(pos)
		}
		l.logger.Debug("low accuracy location failed", "error", err)
	}
	return l.fallbackWith(err)
}

func (l *Locator) fallbackWith(err error) models.ResolvedLocation {
	var geoErr *Error
	if !errors.As(err, &geoErr) {
		geoErr = &Error{Code: CodeUnknown, Err: err}
	}
	return models.ResolvedLocation{
		Location:   l.fallback,
		IsFallback: true,
		Advisory:   geoErr.Message() + " Using " + l.fallbackLabel + ".",
	}
}

func (l *Locator) attempt(ctx context.Context, source PositionSource, opts PositionOptions) (*Position, error) {
	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	pos, err := source.CurrentPosition(ctx, opts)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &Error{Code: CodeTimeout, Err: err}
		}
		return nil, err
	}
	if pos == nil {
		return nil, &Error{Code: CodePositionUnavailable}
	}
	if !pos.Timestamp.IsZero() && opts.MaximumAge > 0 && l.now().Sub(pos.Timestamp) > opts.MaximumAge {
		return nil, &Error{Code: CodePositionUnavailable, Err: errors.New("cached position is too old")}
	}
	return pos, nil
}

func resolved(pos *Position) models.ResolvedLocation {
	return models.ResolvedLocation{
		Location: pos.Location,
		Accuracy: pos.Accuracy,
	}
}
