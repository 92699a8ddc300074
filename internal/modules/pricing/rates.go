// README: Static rate catalog and provider variance table.
package pricing

// Rates maps every recognised category to its profile.
var Rates = map[Category]RateProfile{
	CategoryStandard: {Base: 2.00, PerKm: 1.05, PerMin: 0.20, SpeedKmh: 30},
	CategoryLuxury:   {Base: 5.00, PerKm: 2.10, PerMin: 0.45, SpeedKmh: 32},
	CategoryDelivery: {Base: 2.50, PerKm: 0.90, PerMin: 0.15, SpeedKmh: 25},
	CategoryEco:      {Base: 1.80, PerKm: 0.95, PerMin: 0.18, SpeedKmh: 28},
	CategoryTransit:  {Base: 1.00, PerKm: 0.10, PerMin: 0.02, SpeedKmh: 22},
	CategoryScooter:  {Base: 1.00, PerKm: 0.35, PerMin: 0.25, SpeedKmh: 18},
	CategoryBicycle:  {Base: 0.80, PerKm: 0.30, PerMin: 0.15, SpeedKmh: 15},
	CategoryWater:    {Base: 6.00, PerKm: 3.00, PerMin: 0.50, SpeedKmh: 20},
	CategoryVan:      {Base: 4.00, PerKm: 1.60, PerMin: 0.30, SpeedKmh: 28},
	CategoryTricycle: {Base: 1.50, PerKm: 0.60, PerMin: 0.18, SpeedKmh: 14},
}

// providerVariance is the fixed adjustment each provider applies on top of
// the base formula. The own fleet undercuts, aggregated providers mark up.
var providerVariance = map[Provider]float64{
	ProviderTeleport: 0.92,
	ProviderUber:     1.08,
	ProviderLyft:     1.05,
	ProviderLime:     1.03,
	ProviderMetro:    1.02,
}

// LookupRate never fails: unknown categories price as standard.
func LookupRate(c Category) RateProfile {
	if p, ok := Rates[c]; ok {
		return p
	}
	return Rates[CategoryStandard]
}

// IsCategory reports whether c has its own profile.
func IsCategory(c Category) bool {
	_, ok := Rates[c]
	return ok
}

func variance(p Provider) float64 {
	if v, ok := providerVariance[p]; ok {
		return v
	}
	return 1.0
}
