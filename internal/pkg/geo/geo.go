// Package geo computes great-circle distances between listing coordinates.
package geo

import (
	"math"

	"github.com/paulmach/orb"
)

// earthRadiusMiles is the sphere radius used for the haversine distance.
const earthRadiusMiles = 3959.0

// NewPoint builds an orb.Point from latitude/longitude in decimal degrees.
// orb stores points as (lon, lat).
func NewPoint(lat, lng float64) orb.Point {
	return orb.Point{lng, lat}
}

// Miles returns the great-circle distance between a and b in whole miles
// (haversine, rounded to nearest). Total for any finite input; callers
// exclude coordinate-less listings upstream rather than passing zeros.
func Miles(a, b orb.Point) int {
	return int(math.Round(MilesExact(a, b)))
}

// MilesExact returns the unrounded haversine distance in miles.
func MilesExact(a, b orb.Point) float64 {
	lat1 := a.Lat() * math.Pi / 180
	lat2 := b.Lat() * math.Pi / 180
	dLat := (b.Lat() - a.Lat()) * math.Pi / 180
	dLng := (b.Lon() - a.Lon()) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusMiles * c
}
