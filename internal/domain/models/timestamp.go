package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Timestamp is the canonical time type at the store boundary.
//
// Rows arrive with timestamps in whatever shape the writer used: RFC3339
// strings (with or without fractional seconds), Postgres timestamptz text,
// unix seconds or milliseconds, or {seconds, nanoseconds} objects written by
// older clients. UnmarshalJSON accepts all of them and always yields UTC.
// It marshals as RFC3339Nano.
type Timestamp struct {
	time.Time
}

// NewTimestamp wraps t in UTC.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC()}
}

// timestampLayouts are tried in order for string timestamps.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",       // PostgREST without zone
	"2006-01-02 15:04:05.999999-07",    // timestamptz text
	"2006-01-02 15:04:05.999999-07:00", // timestamptz text with minutes
	"2006-01-02 15:04:05.999999",       // timestamp without zone
}

// unixMillisThreshold separates second and millisecond epochs; any value
// above it is read as milliseconds.
const unixMillisThreshold = 1e11

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		t.Time = time.Time{}
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		parsed, err := ParseTimestamp(s)
		if err != nil {
			return err
		}
		t.Time = parsed
		return nil
	case '{':
		var obj struct {
			Seconds     *int64 `json:"seconds"`
			Nanoseconds int64  `json:"nanoseconds"`
			LegacySecs  *int64 `json:"_seconds"`
			LegacyNanos int64  `json:"_nanoseconds"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		switch {
		case obj.Seconds != nil:
			t.Time = time.Unix(*obj.Seconds, obj.Nanoseconds).UTC()
		case obj.LegacySecs != nil:
			t.Time = time.Unix(*obj.LegacySecs, obj.LegacyNanos).UTC()
		default:
			return fmt.Errorf("timestamp object has no seconds field")
		}
		return nil
	default:
		n, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return fmt.Errorf("invalid timestamp %s", string(data))
		}
		t.Time = fromUnix(n)
		return nil
	}
}

// ParseTimestamp parses a string timestamp in any of the accepted layouts,
// including a bare unix epoch.
func ParseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed.UTC(), nil
		}
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return fromUnix(n), nil
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func fromUnix(n float64) time.Time {
	if n > unixMillisThreshold {
		return time.UnixMilli(int64(n)).UTC()
	}
	sec := int64(n)
	nsec := int64((n - float64(sec)) * 1e9)
	return time.Unix(sec, nsec).UTC()
}

// Scan implements sql.Scanner so pgx rows can scan straight into Timestamp.
func (t *Timestamp) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		t.Time = time.Time{}
	case time.Time:
		t.Time = v.UTC()
	case string:
		parsed, err := ParseTimestamp(v)
		if err != nil {
			return err
		}
		t.Time = parsed
	case []byte:
		parsed, err := ParseTimestamp(string(v))
		if err != nil {
			return err
		}
		t.Time = parsed
	case int64:
		t.Time = fromUnix(float64(v))
	default:
		return fmt.Errorf("cannot scan %T into Timestamp", src)
	}
	return nil
}

// Value implements driver.Valuer.
func (t Timestamp) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	return t.UTC(), nil
}
