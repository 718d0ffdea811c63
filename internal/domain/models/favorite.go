package models

// FavoriteCafe records that a user favorited a cafe.
type FavoriteCafe struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	CafeID      string    `json:"cafeId"`
	CafeName    string    `json:"cafeName"`
	CafeAddress string    `json:"cafeAddress"`
	AddedAt     Timestamp `json:"addedAt"`
}
