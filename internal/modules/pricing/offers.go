// README: Built-in offer catalog used when no offers table is available.
package pricing

// DefaultOffers mirrors what the aggregated providers currently list.
var DefaultOffers = []Offer{
	{ID: "1", Provider: ProviderUber, Category: CategoryStandard, VehicleLabel: "UberX", EcoScore: 4, Surged: true, Shareable: true},
	{ID: "2", Provider: ProviderLyft, Category: CategoryStandard, VehicleLabel: "Standard", EcoScore: 5, Shareable: true},
	{ID: "3", Provider: ProviderTeleport, Category: CategoryEco, VehicleLabel: "Eco Van", EcoScore: 9, Shareable: true},
	{ID: "4", Provider: ProviderUber, Category: CategoryLuxury, VehicleLabel: "Uber Black", EcoScore: 3, Surged: true},
	{ID: "5", Provider: ProviderLyft, Category: CategoryLuxury, VehicleLabel: "Lyft Lux", EcoScore: 4},
	{ID: "6", Provider: ProviderTeleport, Category: CategoryDelivery, VehicleLabel: "Bike Courier", EcoScore: 10},
	{ID: "7", Provider: ProviderUber, Category: CategoryEco, VehicleLabel: "Uber Green", EcoScore: 8, Shareable: true},
	{ID: "8", Provider: ProviderLime, Category: CategoryScooter, VehicleLabel: "Electric Scooter", EcoScore: 10},
	{ID: "9", Provider: ProviderMetro, Category: CategoryTransit, VehicleLabel: "Bus 42", EcoScore: 9},
	{ID: "10", Provider: ProviderTeleport, Category: CategoryVan, VehicleLabel: "Cargo Van", EcoScore: 6},
	{ID: "11", Provider: ProviderTeleport, Category: CategoryTricycle, VehicleLabel: "Cargo Trike", EcoScore: 9},
	{ID: "12", Provider: ProviderLime, Category: CategoryBicycle, VehicleLabel: "E-Bike", EcoScore: 10},
	{ID: "13", Provider: ProviderTeleport, Category: CategoryWater, VehicleLabel: "Water Taxi", EcoScore: 5},
}
