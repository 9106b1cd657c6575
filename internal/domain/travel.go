package domain

// Leg describes one directed origin→destination pair from the distance
// matrix: the cost of arriving at some stop from OriginID.
type Leg struct {
	OriginID ID `json:"origin_id"`
	// DayID is the day of the destination stop the leg arrives at.
	DayID ID `json:"day_id"`
	// DistanceMeters is straight from the provider; display-unit
	// conversion is a formatting concern (see Settings.DistanceUnit).
	DistanceMeters int `json:"distance"`
	// DurationSec is the live-traffic travel time in whole seconds.
	DurationSec int64 `json:"duration"`
	// StaticDurationSec is the traffic-free travel time in whole seconds.
	StaticDurationSec int64 `json:"static_duration"`
	// Condition is the provider's route condition tag (e.g. traffic level).
	Condition string `json:"condition"`
}

// StopTravel is the travel state of one stop: every pairwise relationship
// recorded for it, plus the one leg that is live in the current itinerary
// order — the leg from the stop's immediate predecessor.
//
// Details is nil for the very first stop of the trip: nothing precedes it.
type StopTravel struct {
	Relationships map[ID]Leg `json:"relationships"`
	Details       *Leg       `json:"details,omitempty"`
}

// Travel is the derived travel record for a trip, keyed by stop ID.
// It is rebuilt wholesale whenever the ordered stop sequence changes and
// persisted with upsert-replace semantics; it is never hand-edited or
// merged field-by-field.
type Travel struct {
	TripID  ID                `json:"trip_id"`
	Travels map[ID]StopTravel `json:"travels"`
}

// EmptyTravel returns the travel record for a trip with fewer than two
// stops, where no distance query is made.
func EmptyTravel(tripID ID) Travel {
	return Travel{TripID: tripID, Travels: map[ID]StopTravel{}}
}
