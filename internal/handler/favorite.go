package handler

import (
	"log/slog"
	"net/http"

	"beanthere/internal/domain/models"
	"beanthere/internal/domain/services"
	"beanthere/internal/httputil"
)

// FavoriteHandler handles the caller's favorite cafes
type FavoriteHandler struct {
	favorites services.FavoriteService
	logger    *slog.Logger
}

// NewFavoriteHandler creates a new favorite handler
func NewFavoriteHandler(favorites services.FavoriteService, logger *slog.Logger) *FavoriteHandler {
	return &FavoriteHandler{
		favorites: favorites,
		logger:    logger,
	}
}

// AddFavoriteRequest names the cafe to save
type AddFavoriteRequest struct {
	CafeID      string `json:"cafeId"`
	CafeName    string `json:"cafeName"`
	CafeAddress string `json:"cafeAddress"`
}

// ListFavorites returns the caller's favorites, newest first
// GET /api/users/me/favorites
func (h *FavoriteHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	favorites, err := h.favorites.ListForUser(r.Context(), httputil.GetUserID(r))
	if err != nil {
		handleError(w, h.logger, "favorites", err)
		return
	}
	if favorites == nil {
		favorites = []models.FavoriteCafe{}
	}
	httputil.RespondJSON(w, http.StatusOK, map[string][]models.FavoriteCafe{"favorites": favorites})
}

// AddFavorite saves a cafe
// POST /api/users/me/favorites
func (h *FavoriteHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	var req AddFavoriteRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	favorite, err := h.favorites.Add(r.Context(), httputil.GetUserID(r), req.CafeID, req.CafeName, req.CafeAddress)
	if err != nil {
		handleError(w, h.logger, "favorites", err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, favorite)
}

// RemoveFavorite deletes one of the caller's favorites
// DELETE /api/users/me/favorites/{id}
func (h *FavoriteHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	if err := h.favorites.Remove(r.Context(), httputil.GetUserID(r), r.PathValue("id")); err != nil {
		handleError(w, h.logger, "favorites", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// FavoriteStatus reports whether the caller saved a cafe
// GET /api/users/me/favorites/{cafeId}/status
func (h *FavoriteHandler) FavoriteStatus(w http.ResponseWriter, r *http.Request) {
	ok, err := h.favorites.IsFavorite(r.Context(), httputil.GetUserID(r), r.PathValue("cafeId"))
	if err != nil {
		handleError(w, h.logger, "favorites", err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]bool{"isFavorite": ok})
}
