package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlacesRecorder(t *testing.T) {
	before := testutil.ToFloat64(PlacesQueries.WithLabelValues("text", "ok"))
	Places{}.ObservePlacesQuery("text", "ok", 20*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(PlacesQueries.WithLabelValues("text", "ok")))

	hits := testutil.ToFloat64(CacheLookups.WithLabelValues("hit"))
	Places{}.ObserveCacheLookup(true)
	assert.Equal(t, hits+1, testutil.ToFloat64(CacheLookups.WithLabelValues("hit")))
}

func TestMiddleware_LabelsByPattern(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/cafes/{id}/reviews", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	handler := Middleware()(mux)

	before := testutil.ToFloat64(RequestTotal.WithLabelValues("GET", "GET /api/cafes/{id}/reviews", "418"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cafes/abc/reviews", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(RequestTotal.WithLabelValues("GET", "GET /api/cafes/{id}/reviews", "418")))
}

func TestHandler_Exposes(t *testing.T) {
	ObserveStoreError("reviews", true)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `beanthere_store_errors_total{collection="reviews",kind="unavailable"}`))
}
