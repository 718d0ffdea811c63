package middleware

import (
	"log/slog"
	"net/http"

	"beanthere/internal/auth"
	"beanthere/internal/httputil"
)

// Authenticate verifies a bearer token when one is sent and stores the
// claims on the request. Requests without a valid token continue
// anonymously; RequireAuth rejects them on protected routes.
func Authenticate(verifier auth.JWTVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := httputil.BearerToken(r)
			if token == "" || verifier == nil {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				logger.Debug("ignoring invalid bearer token", "path", r.URL.Path)
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, httputil.WithClaims(r, claims, token))
		})
	}
}

// RequireAuth answers 401 unless Authenticate attached a user.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if httputil.GetUserID(r) == "" {
			httputil.RespondError(w, http.StatusUnauthorized, "Please sign in to continue")
			return
		}
		next.ServeHTTP(w, r)
	})
}
