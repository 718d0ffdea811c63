package handler

import (
	"log/slog"
	"net/http"

	"beanthere/internal/domain/models"
	"beanthere/internal/domain/services"
	"beanthere/internal/httputil"
	"beanthere/internal/service"
)

// ReviewHandler handles review HTTP requests
type ReviewHandler struct {
	reviews services.ReviewService
	tastes  services.TasteProfileService
	prefs   services.PreferencesProvider
	logger  *slog.Logger
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(
	reviews services.ReviewService,
	tastes services.TasteProfileService,
	prefs services.PreferencesProvider,
	logger *slog.Logger,
) *ReviewHandler {
	return &ReviewHandler{
		reviews: reviews,
		tastes:  tastes,
		prefs:   prefs,
		logger:  logger,
	}
}

// SubmitReviewRequest is the review modal payload
type SubmitReviewRequest struct {
	CafeName string `json:"cafeName"`
	Rating   int    `json:"rating"`
	Review   string `json:"review"`
}

// GetCafeRating returns the reviews and derived rating of a cafe
// GET /api/cafes/{id}/reviews
func (h *ReviewHandler) GetCafeRating(w http.ResponseWriter, r *http.Request) {
	rating, err := h.reviews.ComputeRating(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, h.logger, "reviews", err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, rating)
}

// GetMyReview returns the caller's review of a cafe, or null
// GET /api/cafes/{id}/reviews/me
func (h *ReviewHandler) GetMyReview(w http.ResponseWriter, r *http.Request) {
	review, err := h.reviews.ListForUserAndCafe(r.Context(), r.PathValue("id"), httputil.GetUserID(r))
	if err != nil {
		handleError(w, h.logger, "reviews", err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]*models.Review{"review": review})
}

// SubmitReview adds the caller's review of a cafe or updates the existing one
// POST /api/cafes/{id}/reviews
func (h *ReviewHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	var req SubmitReviewRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	review, err := h.reviews.Submit(r.Context(), &services.SubmitReviewRequest{
		UserID:   httputil.GetUserID(r),
		UserName: h.userName(r),
		CafeID:   r.PathValue("id"),
		CafeName: req.CafeName,
		Rating:   req.Rating,
		Review:   req.Review,
	})
	if err != nil {
		handleError(w, h.logger, "reviews", err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, review)
}

// UpdateReview patches the caller's own review
// PATCH /api/reviews/{id}
func (h *ReviewHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	var req models.ReviewUpdate
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	review, err := h.reviews.Update(r.Context(), httputil.GetUserID(r), r.PathValue("id"), &req)
	if err != nil {
		handleError(w, h.logger, "reviews", err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, review)
}

// DeleteReview removes the caller's own review
// DELETE /api/reviews/{id}
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	if err := h.reviews.Delete(r.Context(), httputil.GetUserID(r), r.PathValue("id")); err != nil {
		handleError(w, h.logger, "reviews", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListMyReviews returns the caller's reviews, newest first
// GET /api/users/me/reviews
func (h *ReviewHandler) ListMyReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviews.ListForUser(r.Context(), httputil.GetUserID(r))
	if err != nil {
		handleError(w, h.logger, "reviews", err)
		return
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	httputil.RespondJSON(w, http.StatusOK, map[string][]models.Review{"reviews": reviews})
}

// GetTasteProfile summarizes the caller's reviewing history
// GET /api/users/me/taste-profile
func (h *ReviewHandler) GetTasteProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.tastes.Compute(r.Context(), httputil.GetUserID(r))
	if err != nil {
		handleError(w, h.logger, "reviews", err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, profile)
}

// userName resolves the review byline from the device name and token email
func (h *ReviewHandler) userName(r *http.Request) string {
	name, err := h.prefs.For(httputil.GetDeviceID(r)).DisplayName(r.Context())
	if err != nil {
		h.logger.Warn("failed to read display name", "error", err)
	}
	email := ""
	if claims := httputil.GetClaims(r); claims != nil {
		email = claims.Email
		if name == "" {
			name = claims.GetDisplayName()
		}
	}
	return service.ResolveUserName(name, email)
}
