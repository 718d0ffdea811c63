package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"beanthere/internal/httputil"
)

// Recovery middleware recovers from panics and returns a 500 asking the
// client to reload.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}
					logger.Error("panic recovered",
						"error", err,
						"path", r.URL.Path,
						"method", r.Method,
						"stack", string(debug.Stack()),
					)

					httputil.RespondErrorWithExtras(w, http.StatusInternalServerError,
						"Something went wrong. Please reload the page.",
						map[string]interface{}{"action": "reload"})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
