package models

import "beanthere/internal/config"

// LatLng is a WGS84 coordinate pair.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// DefaultLocation is used whenever the device location is unknown.
var DefaultLocation = LatLng{Lat: config.DefaultLatitude, Lng: config.DefaultLongitude}

// ResolvedLocation is the outcome of a geolocation attempt. Advisory is set
// whenever Location is the default rather than a real fix.
type ResolvedLocation struct {
	Location   LatLng  `json:"location"`
	Accuracy   float64 `json:"accuracy,omitempty"` // meters
	IsFallback bool    `json:"isFallback"`
	Advisory   string  `json:"advisory,omitempty"`
}
