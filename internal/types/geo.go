// README: Shared identifiers and geographic value types.
package types

type ID string

// Point is a coordinate pair in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// GeoPoint is a place the user picked. Coords is nil when only the label is known.
type GeoPoint struct {
	Label  string `json:"label,omitempty"`
	Coords *Point `json:"coords,omitempty"`
}

func NewGeoPoint(lat, lng float64, label string) GeoPoint {
	return GeoPoint{Label: label, Coords: &Point{Lat: lat, Lng: lng}}
}

func (g GeoPoint) HasCoords() bool {
	return g.Coords != nil
}
