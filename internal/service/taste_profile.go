package service

import (
	"context"
	"fmt"
	"time"

	"beanthere/internal/config"
	"beanthere/internal/domain/models"
	"beanthere/internal/domain/services"
)

const day = 24 * time.Hour

// tasteProfileService implements services.TasteProfileService
type tasteProfileService struct {
	reviews services.ReviewService
	now     func() time.Time
}

// NewTasteProfileService creates a taste profile service over the user's reviews
func NewTasteProfileService(reviews services.ReviewService) services.TasteProfileService {
	return &tasteProfileService{reviews: reviews, now: time.Now}
}

func (s *tasteProfileService) Compute(ctx context.Context, userID string) (*models.TasteProfile, error) {
	reviews, err := s.reviews.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return TasteProfileOf(reviews, s.now()), nil
}

// TasteProfileOf summarizes reviews as of now.
func TasteProfileOf(reviews []models.Review, now time.Time) *models.TasteProfile {
	profile := &models.TasteProfile{
		TotalReviews:       len(reviews),
		RatingDistribution: make(map[int]int, config.MaxRating),
		RecentActivity:     "No reviews yet",
		TodayReviews:       []models.Review{},
	}
	for star := config.MinRating; star <= config.MaxRating; star++ {
		profile.RatingDistribution[star] = 0
	}
	if len(reviews) == 0 {
		return profile
	}

	total := 0
	var last time.Time
	for _, r := range reviews {
		total += r.Rating
		profile.RatingDistribution[r.Rating]++
		if sameDay(r.CreatedAt.Time, now) {
			profile.TodayReviews = append(profile.TodayReviews, r)
		}
		if r.CreatedAt.After(last) {
			last = r.CreatedAt.Time
		}
	}
	profile.AverageRating = roundTenth(float64(total) / float64(len(reviews)))
	profile.RecentActivity = recentActivity(last, now)
	return profile
}

func recentActivity(last, now time.Time) string {
	if last.IsZero() {
		return "No recent activity"
	}
	days := int(now.Sub(last) / day)
	switch {
	case days <= 0:
		return "Reviewed today"
	case days == 1:
		return "Reviewed yesterday"
	case days < 7:
		return fmt.Sprintf("Reviewed %d days ago", days)
	case days < 30:
		return "Reviewed " + plural(days/7, "week") + " ago"
	default:
		return "Reviewed " + plural(days/30, "month") + " ago"
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// sameDay compares calendar dates in now's location.
func sameDay(t, now time.Time) bool {
	t = t.In(now.Location())
	y1, m1, d1 := t.Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
