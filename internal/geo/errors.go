package geo

import (
	"errors"
	"fmt"
)

// ErrorCode mirrors the browser geolocation error codes.
type ErrorCode int

const (
	CodeUnknown ErrorCode = iota
	CodePermissionDenied
	CodePositionUnavailable
	CodeTimeout
)

const messagePrefix = "Unable to get your location. "

func (c ErrorCode) String() string {
	switch c {
	case CodePermissionDenied:
		return "permission_denied"
	case CodePositionUnavailable:
		return "position_unavailable"
	case CodeTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// sentence is the user-facing explanation for the code.
func (c ErrorCode) sentence() string {
	switch c {
	case CodePermissionDenied:
		return "Please allow location access in your browser settings."
	case CodePositionUnavailable:
		return "Location information is unavailable."
	case CodeTimeout:
		return "Location request timed out."
	default:
		return "Please try again."
	}
}

// Error is a failed position request.
type Error struct {
	Code ErrorCode
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("geolocation %s: %v", e.Code, e.Err)
	}
	return "geolocation " + e.Code.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Message is the sentence shown to the user.
func (e *Error) Message() string {
	return messagePrefix + e.Code.sentence()
}

// IsPermissionDenied reports whether err is a denied location permission.
func IsPermissionDenied(err error) bool {
	var geoErr *Error
	return errors.As(err, &geoErr) && geoErr.Code == CodePermissionDenied
}
