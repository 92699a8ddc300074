// README: Pricing value types: rate profiles, trip requests, offers and quotes.
package pricing

import "teleport/internal/types"

type Category string

const (
	CategoryStandard Category = "standard"
	CategoryLuxury   Category = "luxury"
	CategoryDelivery Category = "delivery"
	CategoryEco      Category = "eco"
	CategoryTransit  Category = "transit"
	CategoryScooter  Category = "scooter"
	CategoryBicycle  Category = "bicycle"
	CategoryWater    Category = "water"
	CategoryVan      Category = "van"
	CategoryTricycle Category = "tricycle"
)

// FilterAll disables category filtering.
const FilterAll Category = "all"

type Provider string

const (
	ProviderTeleport Provider = "Teleport Fleet"
	ProviderUber     Provider = "Uber"
	ProviderLyft     Provider = "Lyft"
	ProviderLime     Provider = "Lime"
	ProviderMetro    Provider = "City Metro"
)

type ServiceType string

const (
	ServiceRide     ServiceType = "ride"
	ServiceDelivery ServiceType = "delivery"
	ServiceBusiness ServiceType = "business"
)

type SortKey string

const (
	SortByPrice SortKey = "price"
	SortByETA   SortKey = "eta"
	SortByEco   SortKey = "eco"
)

type Badge string

const (
	BadgeCheapest Badge = "Cheapest"
	BadgeFastest  Badge = "Fastest"
)

// RateProfile holds the constants of one category's pricing formula.
type RateProfile struct {
	Base     float64
	PerKm    float64
	PerMin   float64
	SpeedKmh float64
}

// TripRequest is everything the user chose for one search.
type TripRequest struct {
	Pickup            types.GeoPoint
	Dropoff           types.GeoPoint
	Stops             []types.GeoPoint
	Shared            bool
	FlexibleDelivery  bool
	Service           ServiceType
	DiscountFraction  float64
	TrafficSurge      float64
	PreferredProvider Provider
	Premium           bool
	Filter            Category
	SortBy            SortKey
}

// Offer is an unpriced base quote from one provider for one category.
type Offer struct {
	ID           string   `json:"id"`
	Provider     Provider `json:"provider"`
	Category     Category `json:"category"`
	VehicleLabel string   `json:"vehicle_label"`
	EcoScore     int      `json:"eco_score"`
	Shareable    bool     `json:"shareable"`
	Surged       bool     `json:"surged"`
}

// Quote is a priced offer. A new set is produced on every pricing pass.
type Quote struct {
	ID            string   `json:"id"`
	Provider      Provider `json:"provider"`
	Category      Category `json:"category"`
	VehicleLabel  string   `json:"vehicle_label"`
	Price         float64  `json:"price"`
	OriginalPrice *float64 `json:"original_price,omitempty"`
	BargainPrice  *float64 `json:"bargain_price,omitempty"`
	Currency      string   `json:"currency"`
	ETAMinutes    int      `json:"eta_minutes"`
	EcoScore      int      `json:"eco_score"`
	Surged        bool     `json:"surged"`
	Shareable     bool     `json:"shareable"`
	Badges        []Badge  `json:"badges"`
}

func (q Quote) HasBadge(b Badge) bool {
	for _, have := range q.Badges {
		if have == b {
			return true
		}
	}
	return false
}
