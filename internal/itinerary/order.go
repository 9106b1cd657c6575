// Package itinerary implements the structural operations that keep a trip
// snapshot internally consistent: dense ordering, contiguous dates, stop
// and day mutations, and date-range resizing.
//
// Every exported function is pure with respect to its input: the trip is
// deep-copied before any change and a new snapshot is returned. Callers
// hold on to the previous snapshot for optimistic rollback (see the
// planner package).
package itinerary

import (
	"time"

	"github.com/tripflow/backend/internal/domain"
)

// ReindexStops assigns Order = positional index to every stop, preserving
// relative order. Idempotent: reindexing an already-dense slice changes
// nothing. Safe on empty and nil slices.
//
// The slice is updated in place; callers pass freshly cloned slices.
func ReindexStops(stops []domain.Stop) {
	for i := range stops {
		stops[i].Order = i
	}
}

// ReindexDays assigns Order = positional index to every day, preserving
// relative order. Same contract as ReindexStops.
func ReindexDays(days []domain.Day) {
	for i := range days {
		days[i].Order = i
	}
}

// redateDays reassigns dates sequentially from start: the day at index i
// gets start + i days. Restores the date-contiguity invariant after any
// operation that reorders or removes days.
func redateDays(days []domain.Day, start time.Time) {
	start = domain.TruncateToDate(start)
	for i := range days {
		days[i].Date = start.AddDate(0, 0, i)
	}
}
