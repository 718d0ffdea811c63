package models

// TasteProfile summarizes a user's reviewing history for the dashboard.
type TasteProfile struct {
	TotalReviews       int         `json:"totalReviews"`
	AverageRating      float64     `json:"averageRating"`
	RatingDistribution map[int]int `json:"ratingDistribution"` // star -> count, keys 1..5 always present
	RecentActivity     string      `json:"recentActivity"`
	TodayReviews       []Review    `json:"todayReviews"`
}
