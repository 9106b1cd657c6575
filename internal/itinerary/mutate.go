package itinerary

import (
	"fmt"

	"github.com/tripflow/backend/internal/domain"
)

// Direction selects which neighbor MoveDay swaps with.
type Direction string

const (
	// Up moves the day one position earlier in the trip.
	Up Direction = "up"
	// Down moves the day one position later in the trip.
	Down Direction = "down"
)

// AddStop appends a new stop built from place to the end of the target
// day's stop list. The stop carries a pending ID until the insert is
// confirmed. Returns domain.ErrNotFound when dayID is not in the trip.
func AddStop(trip domain.Trip, dayID domain.ID, place domain.PlaceDetails) (domain.Trip, error) {
	out := trip.Clone()
	day := out.DayByID(dayID)
	if day == nil {
		return domain.Trip{}, fmt.Errorf("itinerary.AddStop: day %s: %w", dayID, domain.ErrNotFound)
	}
	day.Stops = append(day.Stops, domain.Stop{
		ID:        domain.NewPendingID(),
		DayID:     day.ID,
		TripID:    out.ID,
		Name:      place.Name,
		PlaceID:   place.PlaceID,
		Latitude:  place.Latitude,
		Longitude: place.Longitude,
		Order:     len(day.Stops),
	})
	return out, nil
}

// DeleteStop removes the stop from its day and reindexes the day's
// remaining stops. Returns domain.ErrNotFound when the day or the stop
// does not exist in the snapshot.
func DeleteStop(trip domain.Trip, dayID, stopID domain.ID) (domain.Trip, error) {
	out := trip.Clone()
	day := out.DayByID(dayID)
	if day == nil {
		return domain.Trip{}, fmt.Errorf("itinerary.DeleteStop: day %s: %w", dayID, domain.ErrNotFound)
	}
	idx := stopIndex(day.Stops, stopID)
	if idx < 0 {
		return domain.Trip{}, fmt.Errorf("itinerary.DeleteStop: stop %s: %w", stopID, domain.ErrNotFound)
	}
	day.Stops = append(day.Stops[:idx], day.Stops[idx+1:]...)
	ReindexStops(day.Stops)
	return out, nil
}

// DeleteDay removes a day and its stops, then reindexes and re-dates every
// remaining day sequentially from the trip's start date, moving EndDate in
// to match the new last day.
//
// A trip must always retain at least one day: deleting the only day leaves
// the snapshot unchanged and returns domain.ErrValidation.
//
// Note the re-dating deliberately shifts the calendar dates of every day
// after the deleted one; the itinerary has no holes, so removing day i
// pulls all later days one date earlier.
func DeleteDay(trip domain.Trip, dayID domain.ID) (domain.Trip, error) {
	if len(trip.Days) <= 1 {
		return trip, fmt.Errorf("itinerary.DeleteDay: %w: a trip must keep at least one day", domain.ErrValidation)
	}
	out := trip.Clone()
	idx := dayIndex(out.Days, dayID)
	if idx < 0 {
		return domain.Trip{}, fmt.Errorf("itinerary.DeleteDay: day %s: %w", dayID, domain.ErrNotFound)
	}
	out.Days = append(out.Days[:idx], out.Days[idx+1:]...)
	ReindexDays(out.Days)
	redateDays(out.Days, out.StartDate)
	out.EndDate = out.Days[len(out.Days)-1].Date
	return out, nil
}

// MoveDay swaps the day with its immediate neighbor in the requested
// direction, then re-dates all days sequentially from StartDate so date
// order keeps matching array order. Moving past either boundary is a
// no-op. Returns domain.ErrNotFound for an unknown day, ErrValidation for
// an unknown direction.
func MoveDay(trip domain.Trip, dayID domain.ID, dir Direction) (domain.Trip, error) {
	out := trip.Clone()
	idx := dayIndex(out.Days, dayID)
	if idx < 0 {
		return domain.Trip{}, fmt.Errorf("itinerary.MoveDay: day %s: %w", dayID, domain.ErrNotFound)
	}

	var swap int
	switch dir {
	case Up:
		swap = idx - 1
	case Down:
		swap = idx + 1
	default:
		return domain.Trip{}, fmt.Errorf("itinerary.MoveDay: %w: direction must be %q or %q", domain.ErrValidation, Up, Down)
	}
	if swap < 0 || swap >= len(out.Days) {
		return out, nil
	}

	out.Days[idx], out.Days[swap] = out.Days[swap], out.Days[idx]
	ReindexDays(out.Days)
	redateDays(out.Days, out.StartDate)
	return out, nil
}

// ReorderStop implements drag-and-drop of a stop, same-day or cross-day.
//
// The stop identified by activeStopID is removed from the source day and
// reinserted according to the drop target: when overStopID names a stop in
// the destination day, the dragged stop takes that stop's position and the
// target is displaced down; when overStopID is empty or names the
// destination day itself (dropped on the day's empty area), the stop is
// appended at the end. Both affected days are reindexed.
//
// Dropping a stop onto itself, or onto a target that cannot be resolved in
// the destination day, leaves the snapshot unchanged.
func ReorderStop(trip domain.Trip, srcDayID, dstDayID, activeStopID, overStopID domain.ID) (domain.Trip, error) {
	if activeStopID == overStopID {
		return trip.Clone(), nil
	}

	out := trip.Clone()
	src := out.DayByID(srcDayID)
	if src == nil {
		return domain.Trip{}, fmt.Errorf("itinerary.ReorderStop: source day %s: %w", srcDayID, domain.ErrNotFound)
	}
	dst := out.DayByID(dstDayID)
	if dst == nil {
		return domain.Trip{}, fmt.Errorf("itinerary.ReorderStop: destination day %s: %w", dstDayID, domain.ErrNotFound)
	}

	idx := stopIndex(src.Stops, activeStopID)
	if idx < 0 {
		return domain.Trip{}, fmt.Errorf("itinerary.ReorderStop: stop %s: %w", activeStopID, domain.ErrNotFound)
	}
	moved := src.Stops[idx]
	src.Stops = append(src.Stops[:idx], src.Stops[idx+1:]...)
	moved.DayID = dst.ID

	// Resolve the insertion point in the destination as it looks after the
	// removal, so same-day drags land exactly where the target sat.
	at := len(dst.Stops)
	if overStopID != "" && overStopID != dstDayID {
		over := stopIndex(dst.Stops, overStopID)
		if over < 0 {
			return trip.Clone(), nil
		}
		at = over
	}

	dst.Stops = append(dst.Stops, domain.Stop{})
	copy(dst.Stops[at+1:], dst.Stops[at:])
	dst.Stops[at] = moved

	ReindexStops(src.Stops)
	ReindexStops(dst.Stops)
	return out, nil
}

func stopIndex(stops []domain.Stop, id domain.ID) int {
	for i := range stops {
		if stops[i].ID == id {
			return i
		}
	}
	return -1
}

func dayIndex(days []domain.Day, id domain.ID) int {
	for i := range days {
		if days[i].ID == id {
			return i
		}
	}
	return -1
}
