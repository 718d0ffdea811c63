package config

import "time"

const (
	// MaxReviewLength is the maximum length of review text, counted in
	// characters after trimming surrounding whitespace.
	MaxReviewLength = 500

	// MinRating and MaxRating bound the star rating of a review.
	MinRating = 1
	MaxRating = 5

	// MaxProfileImageBytes is the largest accepted profile picture (5MB).
	MaxProfileImageBytes = 5 * 1024 * 1024

	// MinProfileImageDimension is the minimum width and height in pixels
	// for a profile picture.
	MinProfileImageDimension = 50

	// MaxDisplayNameLength keeps display names short enough for headers
	// and review bylines.
	MaxDisplayNameLength = 80

	// MaxBioLength limits the free-text bio on the profile page.
	MaxBioLength = 280

	// MinPasswordLength mirrors the auth provider's own minimum.
	MinPasswordLength = 6

	// FavoriteListCacheSize is how many users' favorite lists stay in memory.
	// The least recently used list is evicted past it.
	FavoriteListCacheSize = 1024
)

const (
	// SearchRadiusMeters is the radius used for both nearby and text
	// searches against the places provider.
	SearchRadiusMeters = 5000

	// MaxNearbyResults caps how many nearby places are scored on explore.
	MaxNearbyResults = 10

	// NearMeRadiusMiles is the radius of the home page "near me" filter
	// over the seed catalog.
	NearMeRadiusMiles = 50.0

	// DefaultLatitude and DefaultLongitude are used whenever the device
	// location cannot be determined (San Francisco).
	DefaultLatitude  = 37.7749
	DefaultLongitude = -122.4194
)

const (
	// HighAccuracyTimeout bounds the first geolocation attempt.
	HighAccuracyTimeout = 20 * time.Second
	// HighAccuracyMaximumAge is how old a cached high accuracy fix may be.
	HighAccuracyMaximumAge = 5 * time.Minute

	// LowAccuracyTimeout bounds the single fallback attempt.
	LowAccuracyTimeout = 15 * time.Second
	// LowAccuracyMaximumAge is how old a cached low accuracy fix may be.
	LowAccuracyMaximumAge = 10 * time.Minute
)
