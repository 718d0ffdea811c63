package domain

import (
	"errors"
	"net/http"
	"strings"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// Domain error types implementing HTTPError interface
type (
	// NotFoundError indicates a resource was not found
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input. Fields carries per-field
	// messages when the input was validated as a struct.
	ValidationError struct {
		Message string
		Fields  map[string]string
	}

	// UnauthorizedError indicates authentication failure
	UnauthorizedError struct {
		Message string
	}

	// ForbiddenError indicates authorization failure
	ForbiddenError struct {
		Message string
	}
)

// Error implementations
func (e *NotFoundError) Error() string     { return e.Message }
func (e *ValidationError) Error() string   { return e.Message }
func (e *UnauthorizedError) Error() string { return e.Message }
func (e *ForbiddenError) Error() string    { return e.Message }

// StatusCode implementations (HTTPError interface)
func (e *NotFoundError) StatusCode() int     { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int   { return http.StatusBadRequest }
func (e *UnauthorizedError) StatusCode() int { return http.StatusUnauthorized }
func (e *ForbiddenError) StatusCode() int    { return http.StatusForbidden }

// Is lets errors.Is match the typed errors against their sentinels
func (e *NotFoundError) Is(target error) bool     { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool   { return target == ErrValidation }
func (e *UnauthorizedError) Is(target error) bool { return target == ErrUnauthorized }
func (e *ForbiddenError) Is(target error) bool    { return target == ErrForbidden }

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// ErrBackendUnavailable means the document or blob store is not
	// provisioned or cannot be reached.
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrConfig means required configuration is absent.
	ErrConfig = errors.New("configuration error")

	// ErrOnboardingRequired means the device has no onboarding answers yet.
	ErrOnboardingRequired = errors.New("Please complete the onboarding first.")
)

// ConflictError represents a resource conflict with details about the existing resource
type ConflictError struct {
	Message      string // Human-readable error message
	ResourceType string // Type of resource (review, favorite)
	ResourceID   string // ID of the existing/conflicting resource, when known
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	return e.Message
}

// StatusCode implements the HTTPError interface
func (e *ConflictError) StatusCode() int {
	return http.StatusConflict
}

// Is allows errors.Is() to match against ErrConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// BackendUnavailableError wraps a failure from a store that is not provisioned
// or not reachable. Service names the store ("reviews", "storage").
type BackendUnavailableError struct {
	Service string
	Err     error
}

func (e *BackendUnavailableError) Error() string {
	if e.Err == nil {
		return e.Service + " is not available"
	}
	return e.Service + " is not available: " + e.Err.Error()
}

func (e *BackendUnavailableError) Unwrap() error { return e.Err }

// StatusCode implements the HTTPError interface
func (e *BackendUnavailableError) StatusCode() int {
	return http.StatusServiceUnavailable
}

// Is allows errors.Is() to match against ErrBackendUnavailable
func (e *BackendUnavailableError) Is(target error) bool {
	return target == ErrBackendUnavailable
}

// unavailableMarkers are message fragments that identify an unprovisioned or
// unreachable store in errors that did not come through our own clients.
var unavailableMarkers = []string{
	"not available",
	"not provisioned",
	"does not exist",
	"connection refused",
	"no such host",
	"could not find the table",
}

// IsBackendUnavailable reports whether err means the backing store is not
// usable. Typed errors are checked first, then the message text.
func IsBackendUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrBackendUnavailable) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range unavailableMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// UpstreamError is a failure from a third-party service whose Message is
// safe to show the user.
type UpstreamError struct {
	Message string
	Err     error
}

func (e *UpstreamError) Error() string { return e.Message }

func (e *UpstreamError) Unwrap() error { return e.Err }

// StatusCode implements the HTTPError interface
func (e *UpstreamError) StatusCode() int {
	return http.StatusBadGateway
}
