// Package seed holds the curated cafe catalog and demo data used by the
// seed CLI and as the catalog fallback when the cafes table is empty.
package seed

import (
	"beanthere/internal/domain/models"
	"beanthere/internal/places"
)

// VibeTags are the home page filter chips, in display order.
var VibeTags = []string{
	"good-for-work",
	"quiet",
	"lively",
	"good-for-date",
	"outdoor-seating",
	"fast-wifi",
	"cozy",
	"serves-food",
	"great-espresso",
}

type seedCafe struct {
	name        string
	address     string
	rating      float64
	reviewCount int
	tags        []string
	lat, lng    float64
	placeID     string
}

var catalog = []seedCafe{
	// South Bay / Peninsula
	{"Voyager Craft Coffee", "398 S 1st St, San Jose, CA 95113", 4.6, 855, []string{"trendy", "good-for-date", "unique-drinks", "lively"}, 37.3305, -121.8889, "ChIJN1t_tDeuEmsRUsoyG83frY4"},
	{"Academic Coffee", "499 S 2nd St, San Jose, CA 95113", 4.7, 410, []string{"good-for-work", "quiet", "minimalist", "fast-wifi", "great-espresso"}, 37.3308, -121.8885, ""},
	{"Chromatic Coffee", "460 Lincoln Ave, San Jose, CA 95126", 4.5, 980, []string{"good-for-work", "lively", "outdoor-seating", "serves-food", "great-espresso"}, 37.3389, -121.9147, ""},
	{"Verve Coffee Roasters", "1620 El Camino Real, Palo Alto, CA 94306", 4.4, 758, []string{"good-for-work", "trendy", "outdoor-seating", "minimalist"}, 37.4419, -122.1430, ""},
	{"Red Rock Coffee", "201 Castro St, Mountain View, CA 94041", 4.3, 1213, []string{"good-for-friends", "lively", "outdoor-seating", "serves-food", "cozy"}, 37.3944, -122.0789, ""},

	// San Francisco
	{"Four Barrel Coffee", "375 Valencia St, San Francisco, CA 94103", 4.5, 412, []string{"trendy", "lively", "great-espresso", "minimalist"}, 37.7675, -122.4219, ""},
	{"Ritual Coffee Roasters", "1026 Valencia St, San Francisco, CA 94110", 4.4, 876, []string{"great-espresso", "trendy", "lively", "outdoor-seating"}, 37.7569, -122.4206, ""},
	{"Blue Bottle Coffee", "66 Mint St, San Francisco, CA 94103", 4.6, 235, []string{"minimalist", "great-espresso", "quiet", "good-for-date"}, 37.7833, -122.4167, ""},
	{"The Mill", "736 Divisadero St, San Francisco, CA 94117", 4.5, 875, []string{"trendy", "serves-food", "lively", "minimalist"}, 37.7769, -122.4372, ""},
	{"Andytown Coffee Roasters", "3655 Lawton St, San Francisco, CA 94122", 4.7, 959, []string{"cozy", "unique-drinks", "great-espresso", "good-for-friends"}, 37.7289, -122.5039, ""},
	{"Saint Frank Coffee", "2340 Polk St, San Francisco, CA 94109", 4.6, 880, []string{"minimalist", "good-for-work", "great-espresso", "quiet"}, 37.7974, -122.4224, ""},

	// East Bay
	{"Peet's Coffee (Original)", "2124 Vine St, Berkeley, CA 94709", 4.5, 1300, []string{"cozy", "great-espresso", "good-for-friends"}, 37.8716, -122.2727, ""},
	{"Cole Coffee", "6255 College Ave, Oakland, CA 94618", 4.4, 650, []string{"lively", "outdoor-seating", "good-for-friends", "cash-only"}, 37.8476, -122.2519, ""},
	{"Timeless Coffee", "4252 Piedmont Ave, Oakland, CA 94611", 4.6, 770, []string{"serves-food", "lively", "trendy", "vegan"}, 37.8285, -122.2484, ""},
	{"Artís Coffee", "1717B Fourth St, Berkeley, CA 94710", 4.5, 550, []string{"good-for-work", "minimalist", "great-espresso", "trendy"}, 37.8696, -122.2997, ""},
	{"Red Bay Coffee Roasters", "3098 E 10th St, Oakland, CA 94601", 4.6, 430, []string{"outdoor-seating", "lively", "good-for-friends", "trendy"}, 37.7986, -122.2347, ""},
}

// Cafes returns a fresh copy of the seed catalog. IDs are content hashes of
// name and address, so they are stable across runs.
func Cafes() []models.Cafe {
	out := make([]models.Cafe, 0, len(catalog))
	for _, c := range catalog {
		rating := c.rating
		count := c.reviewCount
		out = append(out, models.Cafe{
			ID:          places.CafeID("", c.name, c.address),
			Name:        c.name,
			Address:     c.address,
			Rating:      &rating,
			ReviewCount: &count,
			Coordinates: &models.LatLng{Lat: c.lat, Lng: c.lng},
			Tags:        append([]string(nil), c.tags...),
			PlaceID:     c.placeID,
		})
	}
	return out
}
