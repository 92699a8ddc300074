package location

import (
	"math"
	"testing"

	"teleport/internal/types"
)

func TestHaversineKm_KnownDistances(t *testing.T) {
	tests := []struct {
		name      string
		lat1      float64
		lng1      float64
		lat2      float64
		lng2      float64
		wantKm    float64
		tolerance float64
	}{
		{
			name: "same point",
			lat1: 37.7749, lng1: -122.4194,
			lat2: 37.7749, lng2: -122.4194,
			wantKm:    0,
			tolerance: 0.001,
		},
		{
			name: "SF Civic Center to a block north-east (~1.4km)",
			lat1: 37.7749, lng1: -122.4194,
			lat2: 37.7849, lng2: -122.4094,
			wantKm:    1.41,
			tolerance: 0.05,
		},
		{
			name: "New York to Los Angeles (~3944km)",
			lat1: 40.7128, lng1: -74.0060,
			lat2: 34.0522, lng2: -118.2437,
			wantKm:    3944,
			tolerance: 50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := haversineKm(tt.lat1, tt.lng1, tt.lat2, tt.lng2)
			if math.Abs(got-tt.wantKm) > tt.tolerance {
				t.Errorf("haversineKm() = %f, want %f (±%f)", got, tt.wantKm, tt.tolerance)
			}
		})
	}
}

func TestHaversineKm_Symmetry(t *testing.T) {
	d1 := haversineKm(25.0, 121.0, 26.0, 122.0)
	d2 := haversineKm(26.0, 122.0, 25.0, 121.0)
	if math.Abs(d1-d2) > 0.0001 {
		t.Errorf("haversine is not symmetric: %f vs %f", d1, d2)
	}
}

func TestTripDistanceKm(t *testing.T) {
	sf := types.NewGeoPoint(37.7749, -122.4194, "Civic Center")
	near := types.NewGeoPoint(37.7849, -122.4094, "Nob Hill")
	oakland := types.NewGeoPoint(37.8044, -122.2712, "Oakland")
	labelOnly := types.GeoPoint{Label: "somewhere downtown"}

	tests := []struct {
		name string
		a, b types.GeoPoint
		want float64
		tol  float64
	}{
		{"short hop floored", sf, near, MinBillableKm, 0},
		{"same point floored", sf, sf, MinBillableKm, 0},
		{"missing pickup coords", labelOnly, near, FallbackDistanceKm, 0},
		{"missing dropoff coords", sf, labelOnly, FallbackDistanceKm, 0},
		{"long trip untouched", sf, oakland, 13.4, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TripDistanceKm(tt.a, tt.b)
			if math.Abs(got-tt.want) > tt.tol {
				t.Errorf("TripDistanceKm() = %f, want %f", got, tt.want)
			}
			if got < MinBillableKm {
				t.Errorf("TripDistanceKm() = %f below floor", got)
			}
		})
	}
}
