package supabase

import (
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"beanthere/internal/domain"
)

// Error is a failed Supabase response. PostgREST, GoTrue and Storage each
// use a different error body; parseError reads all of them.
type Error struct {
	Code    string
	Message string
	Details string
	Hint    string
	Status  int
}

func (e *Error) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}

// Is maps Supabase failures onto domain sentinels so callers can use
// errors.Is without knowing the wire format.
func (e *Error) Is(target error) bool {
	switch target {
	case domain.ErrBackendUnavailable:
		return e.unavailable()
	case domain.ErrConflict:
		return e.Status == http.StatusConflict || e.Code == "23505"
	case domain.ErrNotFound:
		// PGRST116: single-object request matched no rows
		return e.Code == "PGRST116" || (e.Status == http.StatusNotFound && !e.unavailable())
	case domain.ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case domain.ErrForbidden:
		return e.Status == http.StatusForbidden || e.Code == "42501"
	}
	return false
}

func (e *Error) unavailable() bool {
	switch {
	case e.Status == http.StatusServiceUnavailable:
		return true
	case e.Code == "PGRST205", e.Code == "42P01":
		return true
	case e.Status == http.StatusNotFound && strings.Contains(strings.ToLower(e.Message), "bucket not found"):
		return true
	}
	return false
}

func parseError(body []byte, statusCode int) error {
	if !gjson.ValidBytes(body) {
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = http.StatusText(statusCode)
		}
		return &Error{Code: "unknown", Message: msg, Status: statusCode}
	}

	parsed := gjson.ParseBytes(body)
	msg := firstString(parsed, "message", "msg", "error_description", "error")
	if msg == "" {
		msg = http.StatusText(statusCode)
	}

	return &Error{
		Code:    firstString(parsed, "error_code", "code"),
		Message: msg,
		Details: parsed.Get("details").String(),
		Hint:    parsed.Get("hint").String(),
		Status:  statusCode,
	}
}

// firstString returns the first non-empty field. GoTrue sends a numeric
// "code" and the text in "msg"; PostgREST a string "code" and "message".
func firstString(r gjson.Result, paths ...string) string {
	for _, p := range paths {
		v := r.Get(p)
		if v.Exists() && v.String() != "" {
			return v.String()
		}
	}
	return ""
}
