// Package location — geo_utils contains pure geographic computation helpers.
package location

import (
	"math"

	"teleport/internal/types"
)

const earthRadiusKm = 6371.0

const (
	// FallbackDistanceKm is used when either end of a trip has no coordinates.
	FallbackDistanceKm = 4.5
	// MinBillableKm is the shortest distance any pricing formula sees.
	MinBillableKm = 1.5
)

// haversineKm returns the great-circle distance in kilometres between two
// points specified in decimal degrees.
func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := degreesToRadians(lat2 - lat1)
	dLng := degreesToRadians(lng2 - lng1)

	rLat1 := degreesToRadians(lat1)
	rLat2 := degreesToRadians(lat2)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// DistanceKm is the great-circle distance between a and b.
func DistanceKm(a, b types.Point) float64 {
	return haversineKm(a.Lat, a.Lng, b.Lat, b.Lng)
}

// TripDistanceKm is the distance pricing works with: FallbackDistanceKm when
// a side is missing coordinates, never below MinBillableKm.
func TripDistanceKm(from, to types.GeoPoint) float64 {
	d := FallbackDistanceKm
	if from.HasCoords() && to.HasCoords() {
		d = DistanceKm(*from.Coords, *to.Coords)
	}
	return math.Max(d, MinBillableKm)
}
