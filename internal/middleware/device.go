package middleware

import (
	"net/http"
	"strings"

	"beanthere/internal/httputil"
)

// DeviceHeader carries the browser installation ID.
const DeviceHeader = "X-Device-ID"

// maxDeviceIDLen bounds the key used in the local store.
const maxDeviceIDLen = 128

// Device copies the X-Device-ID header into the request context. A missing
// or oversized header falls back to httputil.DefaultDeviceID.
func Device(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(DeviceHeader))
		if id == "" || len(id) > maxDeviceIDLen {
			id = httputil.DefaultDeviceID
		}
		next.ServeHTTP(w, httputil.WithDeviceID(r, id))
	})
}
