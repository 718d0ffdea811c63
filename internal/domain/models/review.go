package models

// Review is one user's star rating and text for a cafe. At most one review
// exists per (CafeID, UserID).
type Review struct {
	ID        string     `json:"id"`
	CafeID    string     `json:"cafeId"`
	CafeName  string     `json:"cafeName"`
	UserID    string     `json:"userId"`
	UserName  string     `json:"userName"`
	Rating    int        `json:"rating"`
	Review    string     `json:"review"`
	CreatedAt Timestamp  `json:"createdAt"`
	UpdatedAt *Timestamp `json:"updatedAt,omitempty"`
}

// ReviewUpdate carries the fields of a partial review update. Nil fields are
// left unchanged.
type ReviewUpdate struct {
	Rating *int    `json:"rating,omitempty"`
	Review *string `json:"review,omitempty"`
}

// CafeRating is derived on read from all reviews of a cafe.
type CafeRating struct {
	AverageRating float64  `json:"averageRating"`
	TotalReviews  int      `json:"totalReviews"`
	Reviews       []Review `json:"reviews"`
}
