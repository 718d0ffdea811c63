package models

// Cafe is the normalized coffee shop shape shared by the seed catalog and
// places provider results.
type Cafe struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Address     string   `json:"address"`
	Rating      *float64 `json:"rating,omitempty"`
	ReviewCount *int     `json:"reviewCount,omitempty"`
	Coordinates *LatLng  `json:"coordinates,omitempty"`
	Tags        []string `json:"tags"`
	PlaceID     string   `json:"placeId,omitempty"`
	PriceLevel  *int     `json:"priceLevel,omitempty"`
	Photos      []string `json:"photos,omitempty"`
	Types       []string `json:"types,omitempty"`
}

// HasTag reports whether the cafe carries tag.
func (c *Cafe) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// MatchedPreferences lists exactly which preference values contributed to a
// match score.
type MatchedPreferences struct {
	Vibes   []string `json:"vibes"`
	Flavors []string `json:"flavors"`
	Milk    []string `json:"milk"`
}

// IsEmpty reports whether nothing matched.
func (m MatchedPreferences) IsEmpty() bool {
	return len(m.Vibes) == 0 && len(m.Flavors) == 0 && len(m.Milk) == 0
}

// MatchClass splits explore results into the two lists shown to the user.
type MatchClass string

const (
	MatchRecommended MatchClass = "recommended"
	MatchOther       MatchClass = "other"
)

// ScoredCafe is a cafe annotated with its match score.
type ScoredCafe struct {
	Cafe
	MatchScore         int                `json:"matchScore"`
	MatchedPreferences MatchedPreferences `json:"matchedPreferences"`
	Class              MatchClass         `json:"class"`
}

// NearbyCafe is a catalog cafe with its distance from the device.
type NearbyCafe struct {
	Cafe
	DistanceMiles float64 `json:"distanceMiles"`
}
