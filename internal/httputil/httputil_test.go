package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLatLng(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantNil bool
		wantErr bool
	}{
		{name: "absent", query: "", wantNil: true},
		{name: "valid", query: "lat=37.77&lng=-122.42"},
		{name: "missing lng", query: "lat=37.77", wantErr: true},
		{name: "garbage", query: "lat=abc&lng=1", wantErr: true},
		{name: "out of range", query: "lat=91&lng=0", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
			got, err := ParseLatLng(r)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, 37.77, got.Lat, 1e-9)
			assert.InDelta(t, -122.42, got.Lng, 1e-9)
		})
	}
}

func TestParseList(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?tags=cozy,%20wifi,,", nil)
	assert.Equal(t, []string{"cozy", "wifi"}, ParseList(r, "tags"))
	assert.Nil(t, ParseList(r, "missing"))
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", ClientIP(r))

	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "10.0.0.1", ClientIP(r))

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "[::1]:80"
	assert.Equal(t, "::1", ClientIP(r))
}

func TestRespondErrorWithExtras(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondErrorWithExtras(rec, http.StatusPreconditionFailed, "Please complete the onboarding first.", map[string]interface{}{
		"action": "onboarding",
	})

	assert.Equal(t, http.StatusPreconditionFailed, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Precondition Failed", body["title"])
	assert.Equal(t, "Please complete the onboarding first.", body["detail"])
	assert.Equal(t, "onboarding", body["action"])
	assert.Contains(t, body["type"], "rfc7232")
}

func TestOptionalString(t *testing.T) {
	var req struct {
		Bio OptionalString `json:"bio"`
		Loc OptionalString `json:"location"`
	}
	require.NoError(t, json.NewDecoder(strings.NewReader(`{"bio":null}`)).Decode(&req))

	bio := req.Bio.ToOptionalText()
	assert.True(t, bio.Present)
	assert.Nil(t, bio.Value)
	assert.False(t, req.Loc.ToOptionalText().Present)
}

func TestDeviceIDDefault(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, DefaultDeviceID, GetDeviceID(r))
	assert.Equal(t, "dev-1", GetDeviceID(WithDeviceID(r, "dev-1")))
}
