// README: Courier pool and assignment value types.
package matching

import "teleport/internal/types"

type Courier struct {
	ID       types.ID    `json:"id"`
	Name     string      `json:"name"`
	Rating   float64     `json:"rating"`
	Position types.Point `json:"position"`
	Load     int         `json:"load"`
	Vehicle  string      `json:"vehicle"`
}

// AssignmentResult carries the selected courier and its fitness score.
// Fallback is set when the pool was empty and a default courier was used.
type AssignmentResult struct {
	Courier  Courier `json:"courier"`
	Score    float64 `json:"score"`
	Fallback bool    `json:"fallback"`
}

const (
	ratingWeight   = 10.0
	distanceWeight = 2.0
	loadWeight     = 5.0
	// kmPerDegree scales the planar degree distance used for ranking only.
	kmPerDegree = 111.0
)

// DefaultCouriers is the known pool. Its first entry is the fallback courier.
var DefaultCouriers = []Courier{
	{ID: "c-michael", Name: "Michael D.", Rating: 4.9, Position: types.Point{Lat: 37.7790, Lng: -122.4170}, Load: 0, Vehicle: "Toyota Prius"},
	{ID: "c-sarah", Name: "Sarah K.", Rating: 4.8, Position: types.Point{Lat: 37.7710, Lng: -122.4230}, Load: 1, Vehicle: "Bike Courier"},
	{ID: "c-james", Name: "James L.", Rating: 4.6, Position: types.Point{Lat: 37.7860, Lng: -122.4010}, Load: 2, Vehicle: "Cargo Van"},
	{ID: "c-amara", Name: "Amara O.", Rating: 4.95, Position: types.Point{Lat: 37.7600, Lng: -122.4350}, Load: 0, Vehicle: "Electric Scooter"},
	{ID: "c-diego", Name: "Diego R.", Rating: 4.7, Position: types.Point{Lat: 37.7950, Lng: -122.3940}, Load: 1, Vehicle: "Cargo Trike"},
}
