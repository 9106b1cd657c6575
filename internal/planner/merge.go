package planner

import (
	"github.com/tripflow/backend/internal/domain"
)

// state pairs the two pieces of session state a refresh can replace.
type state struct {
	trip   domain.Trip
	travel domain.Travel
}

// refreshResult carries the two independent outcomes of the post-mutation
// refresh pass. The trip refetch and the travel recompute can each succeed
// or fail on their own.
type refreshResult struct {
	trip      domain.Trip
	tripErr   error
	travel    domain.Travel
	travelErr error
}

// mergeRefresh folds the refresh outcomes into the current state with a
// keep-previous-on-failure rule: whichever refresh succeeded replaces its
// field, whichever failed leaves the field as it was. Named so the merge
// policy is testable on its own.
func mergeRefresh(current state, r refreshResult) state {
	out := current
	if r.tripErr == nil {
		out.trip = r.trip
	}
	if r.travelErr == nil {
		out.travel = r.travel
	}
	return out
}
