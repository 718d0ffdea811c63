package geo

import (
	"math"
	"sort"

	"beanthere/internal/domain/models"
)

// earthRadiusMiles is the mean Earth radius.
const earthRadiusMiles = 3959.0

// DistanceMiles is the haversine distance between two points.
func DistanceMiles(a, b models.LatLng) float64 {
	dLat := toRadians(b.Lat - a.Lat)
	dLng := toRadians(b.Lng - a.Lng)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(a.Lat))*math.Cos(toRadians(b.Lat))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusMiles * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Within returns the cafes within radiusMiles of center, closest first.
// Cafes without coordinates are skipped.
func Within(cafes []models.Cafe, center models.LatLng, radiusMiles float64) []models.NearbyCafe {
	nearby := []models.NearbyCafe{}
	for _, c := range cafes {
		if c.Coordinates == nil {
			continue
		}
		d := DistanceMiles(center, *c.Coordinates)
		if d <= radiusMiles {
			nearby = append(nearby, models.NearbyCafe{Cafe: c, DistanceMiles: d})
		}
	}
	sort.SliceStable(nearby, func(i, j int) bool {
		return nearby[i].DistanceMiles < nearby[j].DistanceMiles
	})
	return nearby
}
