package places

import (
	"regexp"
	"slices"
	"strings"

	"github.com/google/uuid"

	"beanthere/internal/config"
	"beanthere/internal/domain/models"
)

// cafeNamespace scopes content-hash cafe IDs. Changing it changes every
// derived ID.
var cafeNamespace = uuid.MustParse("5b0e1f0e-6c1a-4f52-9d55-8a3c2f1b7e40")

// CafeIDPrefix marks IDs derived from name and address rather than a
// provider place ID.
const CafeIDPrefix = "cafe_"

// CafeID returns the provider place ID when present, otherwise a UUIDv5
// over name and address.
func CafeID(placeID, name, address string) string {
	if placeID != "" {
		return placeID
	}
	return CafeIDPrefix + uuid.NewSHA1(cafeNamespace, []byte(name+"\x00"+address)).String()
}

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]`)

// LegacyID reproduces the old client's "<name>-<address>" ID with every
// non-alphanumeric byte replaced by "_". Use only to find documents written
// under the old scheme; distinct cafes can collide.
func LegacyID(name, address string) string {
	return nonAlphanumeric.ReplaceAllString(name+"-"+address, "_")
}

// IsCafe reports whether a place looks like a coffee shop.
func IsCafe(p *Place) bool {
	if slices.Contains(p.Types, "cafe") {
		return true
	}
	name := strings.ToLower(p.Name)
	return strings.Contains(name, "coffee") || strings.Contains(name, "cafe")
}

// Tags synthesizes descriptive tags from provider fields.
func Tags(p *Place) []string {
	tags := []string{}
	if slices.Contains(p.Types, "food") {
		tags = append(tags, "serves-food")
	}
	if slices.Contains(p.Types, "establishment") {
		tags = append(tags, "lively")
	}
	if p.Rating != nil && *p.Rating >= 4.5 {
		tags = append(tags, "great-espresso")
	}
	if slices.Contains(p.Types, "point_of_interest") {
		tags = append(tags, "trendy")
	}
	tags = append(tags, "cozy")
	if p.Rating != nil && *p.Rating >= 4.0 {
		tags = append(tags, "good-for-friends")
	}
	return tags
}

// Normalize maps a provider place into the app's cafe shape.
func Normalize(p *Place) models.Cafe {
	return normalize(p, p.Address())
}

func normalize(p *Place, address string) models.Cafe {
	cafe := models.Cafe{
		ID:          CafeID(p.PlaceID, p.Name, address),
		Name:        p.Name,
		Address:     address,
		Rating:      p.Rating,
		ReviewCount: p.UserRatingsTotal,
		Tags:        Tags(p),
		PlaceID:     p.PlaceID,
		PriceLevel:  p.PriceLevel,
		Photos:      p.PhotoReferences,
		Types:       p.Types,
	}
	if p.Location != nil {
		loc := *p.Location
		cafe.Coordinates = &loc
	}
	return cafe
}

// NormalizeNearby keeps the first config.MaxNearbyResults places of a nearby
// search in provider order. The request is already typed "cafe", so nothing
// is filtered out, and addresses prefer the vicinity.
func NormalizeNearby(places []Place) []models.Cafe {
	if len(places) > config.MaxNearbyResults {
		places = places[:config.MaxNearbyResults]
	}
	cafes := make([]models.Cafe, 0, len(places))
	for i := range places {
		cafes = append(cafes, normalize(&places[i], places[i].NearbyAddress()))
	}
	return cafes
}

// NormalizeAll filters places to cafes and normalizes them, keeping order.
func NormalizeAll(places []Place) []models.Cafe {
	cafes := make([]models.Cafe, 0, len(places))
	for i := range places {
		if IsCafe(&places[i]) {
			cafes = append(cafes, Normalize(&places[i]))
		}
	}
	return cafes
}
