package domain

// Stop is a single place visited on a given day. A stop belongs to exactly
// one day at a time; moving it between days reassigns DayID and recomputes
// Order in both the source and destination day.
type Stop struct {
	ID         ID      `json:"id"`
	DayID      ID      `json:"day_id"`
	TripID     ID      `json:"trip_id"`
	Name       string  `json:"name"`
	PlaceID    string  `json:"place_id"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Order      int     `json:"order"`
	CustomName string  `json:"custom_name,omitempty"`
	Event      string  `json:"stop_event,omitempty"`
	Cost       float64 `json:"stop_cost,omitempty"`
}

// PlaceDetails is the resolved place a new stop is created from.
// It is produced by the routing package's place lookup and consumed by
// itinerary.AddStop.
type PlaceDetails struct {
	PlaceID   string  `json:"place_id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
