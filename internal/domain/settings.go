package domain

// Settings holds per-trip display and computation preferences. They are
// pure configuration consumed when formatting travel legs; the itinerary
// engine never mutates them.
type Settings struct {
	TripID         ID      `json:"trip_id"`
	DistanceUnit   string  `json:"distance_unit"` // "km" or "mi"
	Currency       string  `json:"currency"`      // ISO 4217 code
	FuelCost       float64 `json:"fuel_cost"`     // per unit of fuel, in Currency
	MPG            float64 `json:"mpg"`
	AvoidTolls     bool    `json:"avoid_tolls"`
	AvoidMotorways bool    `json:"avoid_motorways"`
	MapStyle       string  `json:"map_style"`
}

// DefaultSettings returns the settings a newly created trip starts with.
func DefaultSettings(tripID ID) Settings {
	return Settings{
		TripID:       tripID,
		DistanceUnit: "km",
		Currency:     "USD",
		MPG:          35,
		MapStyle:     "standard",
	}
}
