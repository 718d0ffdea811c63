package handler

import (
	"net/http"

	"beanthere/internal/middleware"
)

// Handlers groups every route handler for registration
type Handlers struct {
	Health      *HealthHandler
	Cafes       *CafeHandler
	Explore     *ExploreHandler
	Preferences *PreferencesHandler
	Reviews     *ReviewHandler
	Favorites   *FavoriteHandler
	Profiles    *ProfileHandler
	Auth        *AuthHandler
}

// Register adds the API routes to mux. Authenticated routes are wrapped in
// middleware.RequireAuth.
func (h *Handlers) Register(mux *http.ServeMux) {
	protected := func(fn http.HandlerFunc) http.Handler {
		return middleware.RequireAuth(fn)
	}

	mux.HandleFunc("GET /health", h.Health.Health)

	// Catalog
	mux.HandleFunc("GET /api/cafes", h.Cafes.ListCafes)
	mux.HandleFunc("GET /api/cafes/nearby", h.Cafes.NearbyCafes)

	// Places, location and explore
	mux.HandleFunc("GET /api/places/search", h.Explore.SearchPlaces)
	mux.HandleFunc("GET /api/places/nearby", h.Explore.NearbyPlaces)
	mux.HandleFunc("GET /api/location", h.Explore.Locate)
	mux.HandleFunc("GET /api/explore", h.Explore.Explore)
	mux.HandleFunc("GET /api/explore/map", h.Explore.ExploreMap)

	// Device preferences
	mux.HandleFunc("GET /api/preferences", h.Preferences.GetPreferences)
	mux.HandleFunc("PUT /api/preferences", h.Preferences.SavePreferences)
	mux.HandleFunc("GET /api/preferences/name", h.Preferences.GetDisplayName)
	mux.HandleFunc("PUT /api/preferences/name", h.Preferences.SetDisplayName)

	// Reviews
	mux.HandleFunc("GET /api/cafes/{id}/reviews", h.Reviews.GetCafeRating)
	mux.Handle("GET /api/cafes/{id}/reviews/me", protected(h.Reviews.GetMyReview))
	mux.Handle("POST /api/cafes/{id}/reviews", protected(h.Reviews.SubmitReview))
	mux.Handle("PATCH /api/reviews/{id}", protected(h.Reviews.UpdateReview))
	mux.Handle("DELETE /api/reviews/{id}", protected(h.Reviews.DeleteReview))
	mux.Handle("GET /api/users/me/reviews", protected(h.Reviews.ListMyReviews))
	mux.Handle("GET /api/users/me/taste-profile", protected(h.Reviews.GetTasteProfile))

	// Favorites
	mux.Handle("GET /api/users/me/favorites", protected(h.Favorites.ListFavorites))
	mux.Handle("POST /api/users/me/favorites", protected(h.Favorites.AddFavorite))
	mux.Handle("DELETE /api/users/me/favorites/{id}", protected(h.Favorites.RemoveFavorite))
	mux.Handle("GET /api/users/me/favorites/{cafeId}/status", protected(h.Favorites.FavoriteStatus))

	// Profile
	mux.Handle("GET /api/users/me/profile", protected(h.Profiles.GetProfile))
	mux.Handle("PATCH /api/users/me/profile", protected(h.Profiles.UpdateProfile))
	mux.Handle("POST /api/users/me/profile/picture", protected(h.Profiles.UploadPicture))

	// Identity
	mux.HandleFunc("POST /api/auth/signin", h.Auth.SignIn)
	mux.HandleFunc("POST /api/auth/signup", h.Auth.SignUp)
	mux.HandleFunc("POST /api/auth/provider", h.Auth.SignInWithProvider)
	mux.HandleFunc("POST /api/auth/signout", h.Auth.SignOut)
	mux.Handle("POST /api/auth/verification", protected(h.Auth.ResendVerification))
	mux.HandleFunc("GET /api/auth/session", h.Auth.Session)
}
