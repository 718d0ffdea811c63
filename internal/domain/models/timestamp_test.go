package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestamp_UnmarshalJSON(t *testing.T) {
	want := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{name: "rfc3339", input: `"2024-05-01T12:30:00Z"`, want: want},
		{name: "rfc3339 offset", input: `"2024-05-01T14:30:00+02:00"`, want: want},
		{name: "postgrest fractional", input: `"2024-05-01T12:30:00.000000+00:00"`, want: want},
		{name: "timestamptz text", input: `"2024-05-01 12:30:00+00"`, want: want},
		{name: "unix seconds", input: `1714566600`, want: want},
		{name: "unix millis", input: `1714566600000`, want: want},
		{name: "seconds object", input: `{"seconds":1714566600,"nanoseconds":0}`, want: want},
		{name: "legacy seconds object", input: `{"_seconds":1714566600,"_nanoseconds":0}`, want: want},
		{name: "null", input: `null`, want: time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tt.input), &ts))
			assert.True(t, tt.want.Equal(ts.Time), "got %v", ts.Time)
			if !ts.IsZero() {
				assert.Equal(t, time.UTC, ts.Location())
			}
		})
	}
}

func TestTimestamp_RejectsGarbage(t *testing.T) {
	var ts Timestamp
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
	assert.Error(t, json.Unmarshal([]byte(`{"foo":1}`), &ts))
}

func TestTimestamp_MarshalJSON(t *testing.T) {
	ts := NewTimestamp(time.Date(2024, 5, 1, 14, 30, 0, 0, time.FixedZone("CEST", 2*3600)))
	data, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"2024-05-01T12:30:00Z"`, string(data))

	data, err = json.Marshal(Timestamp{})
	require.NoError(t, err)
	assert.Equal(t, `null`, string(data))
}

func TestTimestamp_Scan(t *testing.T) {
	var ts Timestamp
	require.NoError(t, ts.Scan(time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)))
	assert.Equal(t, 2024, ts.Year())

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	assert.Error(t, ts.Scan(3.14))
}
