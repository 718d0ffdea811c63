package middleware

import (
	"net/http"

	"beanthere/internal/httputil"
	"beanthere/internal/supabase"
)

// ForwardAccessToken hands the verified bearer token to the Supabase client
// so PostgREST and storage calls run as the signed-in user.
func ForwardAccessToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := httputil.GetAccessToken(r); token != "" {
			r = r.WithContext(supabase.WithAccessToken(r.Context(), token))
		}
		next.ServeHTTP(w, r)
	})
}
