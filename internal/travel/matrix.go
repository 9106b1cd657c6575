// Package travel builds the derived travel record for a trip from a
// distance-matrix response.
//
// The full pairwise matrix is kept, not just consecutive legs: a future
// reorder can re-project each stop's active leg from the relationships
// already on hand without a fresh provider call, at the cost of O(n²)
// requested pairs up front. Partial results are not yet cached across
// edits.
package travel

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tripflow/backend/internal/domain"
	"github.com/tripflow/backend/internal/routing"
)

// Build assembles the travel record for the given stop sequence (the
// trip's stops flattened in itinerary order) from the provider's matrix
// elements. Element indexes refer to positions in stops.
//
// Every non-self pair is recorded under the destination stop's
// relationships, then each stop's Details is projected as the leg from its
// immediate predecessor in the sequence. The first stop gets no Details.
//
// With fewer than two stops Build returns an empty record; callers should
// skip the provider query entirely in that case (see service.TravelService).
func Build(tripID domain.ID, stops []domain.Stop, elements []routing.MatrixElement) (domain.Travel, error) {
	out := domain.EmptyTravel(tripID)
	if len(stops) < 2 {
		return out, nil
	}

	for _, el := range elements {
		if el.OriginIndex == el.DestinationIndex {
			continue
		}
		if el.OriginIndex < 0 || el.OriginIndex >= len(stops) ||
			el.DestinationIndex < 0 || el.DestinationIndex >= len(stops) {
			return domain.Travel{}, fmt.Errorf("travel.Build: element indexes (%d,%d) out of range for %d stops",
				el.OriginIndex, el.DestinationIndex, len(stops))
		}

		origin := stops[el.OriginIndex]
		dest := stops[el.DestinationIndex]

		duration, err := parseSeconds(el.Duration)
		if err != nil {
			return domain.Travel{}, fmt.Errorf("travel.Build: duration for pair (%d,%d): %w", el.OriginIndex, el.DestinationIndex, err)
		}
		static, err := parseSeconds(el.StaticDuration)
		if err != nil {
			return domain.Travel{}, fmt.Errorf("travel.Build: static duration for pair (%d,%d): %w", el.OriginIndex, el.DestinationIndex, err)
		}

		st := out.Travels[dest.ID]
		if st.Relationships == nil {
			st.Relationships = map[domain.ID]domain.Leg{}
		}
		st.Relationships[origin.ID] = domain.Leg{
			OriginID:          origin.ID,
			DayID:             dest.DayID,
			DistanceMeters:    el.DistanceMeters,
			DurationSec:       duration,
			StaticDurationSec: static,
			Condition:         el.Condition,
		}
		out.Travels[dest.ID] = st
	}

	// Surface each stop's leg from its predecessor. Index 0 is the trip's
	// very first stop and has no incoming leg.
	for i := 1; i < len(stops); i++ {
		st, ok := out.Travels[stops[i].ID]
		if !ok {
			continue
		}
		if leg, ok := st.Relationships[stops[i-1].ID]; ok {
			st.Details = &leg
			out.Travels[stops[i].ID] = st
		}
	}

	return out, nil
}

// parseSeconds converts a provider duration string such as "3600s" into
// whole seconds. A bare numeric string is accepted too; the empty string
// is zero (absent duration on a ROUTE_NOT_FOUND element).
func parseSeconds(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	s = strings.TrimSuffix(s, "s")
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed duration %q", s)
	}
	return n, nil
}
