// README: Pricing calculator turns one offer into a priced, ETA-annotated quote.
package pricing

import (
	"math"

	"teleport/internal/modules/location"
)

const (
	handlingBufferMin = 3.0
	// surgedOfferFloor is the minimum surge for offers the provider flagged as surged.
	surgedOfferFloor = 1.4
	platformMargin   = 1.05
	stopSurcharge    = 0.15
	// MaxStops is the most intermediate stops a trip may have. Requests
	// are expected to be rejected above it; Price clamps as a fallback.
	MaxStops = 3

	sharedDiscount   = 0.75
	flexibleDiscount = 0.80
	bargainFactor    = 0.90

	sharedETAFactor   = 1.2
	flexibleETAFactor = 2.0

	Currency = "USD"
)

// Price computes the quote for one offer. Identical inputs always produce an
// identical quote; no I/O, no shared state.
func Price(req TripRequest, offer Offer) Quote {
	req = normalize(req)

	distance := location.TripDistanceKm(req.Pickup, req.Dropoff)
	profile := LookupRate(offer.Category)

	duration := distance/profile.SpeedKmh*60 + handlingBufferMin

	price := profile.Base + profile.PerKm*distance + profile.PerMin*duration
	price *= variance(offer.Provider)

	surge := req.TrafficSurge
	if offer.Surged {
		surge = math.Max(surge, surgedOfferFloor)
	}
	price *= surge
	price *= platformMargin
	price *= 1 + stopSurcharge*float64(len(req.Stops))

	final, original := discounted(price, discountMultiplier(req, offer))

	q := Quote{
		ID:            offer.ID,
		Provider:      offer.Provider,
		Category:      offer.Category,
		VehicleLabel:  offer.VehicleLabel,
		Price:         final,
		OriginalPrice: original,
		Currency:      Currency,
		ETAMinutes:    eta(duration, req),
		EcoScore:      clampEco(offer.EcoScore),
		Surged:        offer.Surged,
		Shareable:     offer.Shareable,
	}
	if bargainEligible(req, offer) {
		b := roundCents(final * bargainFactor)
		q.BargainPrice = &b
	}
	return q
}

// discountMultiplier combines the promo/active discount with the shared-ride
// and flexible-delivery discounts.
func discountMultiplier(req TripRequest, offer Offer) float64 {
	m := 1 - req.DiscountFraction
	if req.Shared && offer.Shareable {
		m *= sharedDiscount
	}
	if flexibleActive(req) {
		m *= flexibleDiscount
	}
	return m
}

// discounted applies multiplier to price. The pre-discount amount is returned
// only when the multiplier actually lowers the price.
func discounted(price, multiplier float64) (float64, *float64) {
	final := roundCents(price * multiplier)
	if multiplier >= 1 {
		return final, nil
	}
	original := roundCents(price)
	return final, &original
}

// bargainEligible: premium customer AND (preferred provider OR luxury).
func bargainEligible(req TripRequest, offer Offer) bool {
	return req.Premium && (offer.Provider == req.PreferredProvider || offer.Category == CategoryLuxury)
}

func flexibleActive(req TripRequest) bool {
	return req.FlexibleDelivery && req.Service == ServiceDelivery
}

func eta(durationMin float64, req TripRequest) int {
	m := req.TrafficSurge
	if req.Shared {
		m *= sharedETAFactor
	}
	if flexibleActive(req) {
		m *= flexibleETAFactor
	}
	return int(math.Round(durationMin * m))
}

// normalize clamps request fields into their documented ranges.
func normalize(req TripRequest) TripRequest {
	if math.IsNaN(req.TrafficSurge) || req.TrafficSurge < 1 {
		req.TrafficSurge = 1
	}
	switch {
	case math.IsNaN(req.DiscountFraction) || req.DiscountFraction < 0:
		req.DiscountFraction = 0
	case req.DiscountFraction > 1:
		req.DiscountFraction = 1
	}
	if len(req.Stops) > MaxStops {
		req.Stops = req.Stops[:MaxStops]
	}
	if req.PreferredProvider == "" {
		req.PreferredProvider = ProviderTeleport
	}
	if req.Service == "" {
		req.Service = ServiceRide
	}
	return req
}

func clampEco(v int) int {
	switch {
	case v < 0:
		return 0
	case v > 10:
		return 10
	}
	return v
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
