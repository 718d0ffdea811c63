package httputil

import (
	"context"
	"net/http"

	"beanthere/internal/domain/models"
)

// Context key type to avoid collisions
type contextKey string

const (
	userIDKey      contextKey = "userID"
	claimsKey      contextKey = "claims"
	accessTokenKey contextKey = "accessToken"
	deviceIDKey    contextKey = "deviceID"
)

// DefaultDeviceID is used when the client sends no X-Device-ID header.
const DefaultDeviceID = "default"

// WithUserID adds userID to the request context
func WithUserID(r *http.Request, userID string) *http.Request {
	ctx := context.WithValue(r.Context(), userIDKey, userID)
	return r.WithContext(ctx)
}

// GetUserID retrieves userID from context, returns empty string if not found
func GetUserID(r *http.Request) string {
	userID, _ := r.Context().Value(userIDKey).(string)
	return userID
}

// WithClaims stores verified token claims together with the raw token and
// the user ID they name.
func WithClaims(r *http.Request, claims *models.SupabaseClaims, token string) *http.Request {
	ctx := context.WithValue(r.Context(), claimsKey, claims)
	ctx = context.WithValue(ctx, accessTokenKey, token)
	ctx = context.WithValue(ctx, userIDKey, claims.GetUserID())
	return r.WithContext(ctx)
}

// GetClaims returns the verified claims, or nil for anonymous requests
func GetClaims(r *http.Request) *models.SupabaseClaims {
	claims, _ := r.Context().Value(claimsKey).(*models.SupabaseClaims)
	return claims
}

// GetAccessToken returns the bearer token the request was verified with
func GetAccessToken(r *http.Request) string {
	token, _ := r.Context().Value(accessTokenKey).(string)
	return token
}

// WithDeviceID adds the browser installation ID to the request context
func WithDeviceID(r *http.Request, deviceID string) *http.Request {
	ctx := context.WithValue(r.Context(), deviceIDKey, deviceID)
	return r.WithContext(ctx)
}

// GetDeviceID returns the device ID, or DefaultDeviceID if none was set
func GetDeviceID(r *http.Request) string {
	if id, _ := r.Context().Value(deviceIDKey).(string); id != "" {
		return id
	}
	return DefaultDeviceID
}
