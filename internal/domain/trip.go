// Package domain contains the core data types for the trip planner.
// This package has zero dependencies beyond uuid and is imported by every
// other internal package (itinerary, travel, planner, repo, service, handler).
package domain

import (
	"time"
)

// Trip is the top-level aggregate: an ordered list of days between an
// inclusive start and end date. Invariants maintained by the itinerary
// package:
//
//   - Days are sorted by date ascending and Day.Order == array index.
//   - StartDate == Days[0].Date and EndDate == Days[last].Date.
//   - len(Days) == EndDate − StartDate + 1 (in days).
//   - A trip always has at least one day.
type Trip struct {
	ID        ID        `json:"id"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Days      []Day     `json:"days"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Day is one calendar date within a trip, holding an ordered list of stops.
// Order is dense 0..n-1 and always matches the day's position in Trip.Days.
type Day struct {
	ID     ID        `json:"id"`
	TripID ID        `json:"trip_id"`
	Date   time.Time `json:"date"`
	Order  int       `json:"order"`
	Stops  []Stop    `json:"stops"`
}

// Clone returns a deep copy of the trip. Every structural operation in the
// itinerary package clones first, so callers can treat snapshots as
// immutable values and diff against the previous one for rollback.
func (t Trip) Clone() Trip {
	out := t
	out.Days = make([]Day, len(t.Days))
	for i, d := range t.Days {
		out.Days[i] = d.Clone()
	}
	return out
}

// Clone returns a deep copy of the day and its stops.
func (d Day) Clone() Day {
	out := d
	out.Stops = make([]Stop, len(d.Stops))
	copy(out.Stops, d.Stops)
	return out
}

// DayByID returns a pointer into t.Days for the given id, or nil.
// The pointer is only valid until the slice is next modified.
func (t *Trip) DayByID(id ID) *Day {
	for i := range t.Days {
		if t.Days[i].ID == id {
			return &t.Days[i]
		}
	}
	return nil
}

// FlattenStops returns every stop of the trip in itinerary order:
// days in order, stops in order within each day. This is the canonical
// ordering used for distance-matrix requests and the travel projection.
func (t Trip) FlattenStops() []Stop {
	var out []Stop
	for _, d := range t.Days {
		out = append(out, d.Stops...)
	}
	return out
}

// ResolveDayID replaces a pending day ID with its confirmed counterpart,
// on the day itself and on every stop that references it. Called after a
// create round-trips and the database has assigned the real ID.
func (t *Trip) ResolveDayID(pending, confirmed ID) {
	for i := range t.Days {
		if t.Days[i].ID != pending {
			continue
		}
		t.Days[i].ID = confirmed
		for j := range t.Days[i].Stops {
			t.Days[i].Stops[j].DayID = confirmed
		}
	}
}

// ResolveStopID replaces a pending stop ID with its confirmed counterpart
// wherever it appears in the trip.
func (t *Trip) ResolveStopID(pending, confirmed ID) {
	for i := range t.Days {
		for j := range t.Days[i].Stops {
			if t.Days[i].Stops[j].ID == pending {
				t.Days[i].Stops[j].ID = confirmed
			}
		}
	}
}

// DaysBetween returns the whole number of calendar days from a to b,
// ignoring the time-of-day portion of both. Negative when b is before a.
func DaysBetween(a, b time.Time) int {
	return int(TruncateToDate(b).Sub(TruncateToDate(a)).Hours() / 24)
}

// TruncateToDate normalizes a timestamp to midnight UTC so date arithmetic
// is immune to time-of-day and zone drift.
func TruncateToDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
