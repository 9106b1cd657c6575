package itinerary

import (
	"fmt"
	"time"

	"github.com/tripflow/backend/internal/domain"
)

// PendingDeletion is the non-mutating result of a date-range shrink that
// would drop days still holding stops. The caller must get explicit user
// confirmation and then re-issue the change via PruneToRange; until then
// the trip is untouched.
type PendingDeletion struct {
	// Days are the trailing days that would be removed, in trip order.
	Days []domain.Day
	// From and To echo the requested range so the confirmation step can
	// replay it without re-deriving anything.
	From time.Time
	To   time.Time
}

// ResizeDateRange reconciles the trip's day list against a new inclusive
// [from, to] range.
//
// The overlapping prefix of existing days is re-dated to from+i. Growing
// appends empty days with pending IDs. Shrinking silently drops trailing
// days only when all of them are empty; otherwise no mutation happens and
// a PendingDeletion is returned instead, carrying the days at stake.
//
// Stops inside the retained prefix are never touched: only wholly-dropped
// trailing days are checked or pruned.
//
// Returns domain.ErrValidation when to is before from.
func ResizeDateRange(trip domain.Trip, from, to time.Time) (domain.Trip, *PendingDeletion, error) {
	from = domain.TruncateToDate(from)
	to = domain.TruncateToDate(to)

	newCount := domain.DaysBetween(from, to) + 1
	if newCount < 1 {
		return domain.Trip{}, nil, fmt.Errorf("itinerary.ResizeDateRange: %w: end date %s before start date %s",
			domain.ErrValidation, to.Format(time.DateOnly), from.Format(time.DateOnly))
	}

	if newCount < len(trip.Days) {
		var doomed []domain.Day
		for _, d := range trip.Days[newCount:] {
			if len(d.Stops) > 0 {
				doomed = append(doomed, d.Clone())
			}
		}
		if len(doomed) > 0 {
			return trip, &PendingDeletion{Days: doomed, From: from, To: to}, nil
		}
	}

	out, err := PruneToRange(trip, from, to)
	if err != nil {
		return domain.Trip{}, nil, err
	}
	return out, nil, nil
}

// PruneToRange unconditionally reconciles the trip to the [from, to]
// range, truncating trailing days even when they hold stops (their stops
// are discarded with them). This is the confirmed-destructive counterpart
// of ResizeDateRange.
func PruneToRange(trip domain.Trip, from, to time.Time) (domain.Trip, error) {
	from = domain.TruncateToDate(from)
	to = domain.TruncateToDate(to)

	newCount := domain.DaysBetween(from, to) + 1
	if newCount < 1 {
		return domain.Trip{}, fmt.Errorf("itinerary.PruneToRange: %w: end date %s before start date %s",
			domain.ErrValidation, to.Format(time.DateOnly), from.Format(time.DateOnly))
	}

	out := trip.Clone()

	if newCount < len(out.Days) {
		out.Days = out.Days[:newCount]
	}
	for len(out.Days) < newCount {
		out.Days = append(out.Days, domain.Day{
			ID:     domain.NewPendingID(),
			TripID: out.ID,
			Stops:  []domain.Stop{},
		})
	}

	redateDays(out.Days, from)
	ReindexDays(out.Days)
	out.StartDate = from
	out.EndDate = to
	return out, nil
}
