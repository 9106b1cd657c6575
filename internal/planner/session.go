// Package planner coordinates optimistic mutations of a trip snapshot.
//
// A Session is the explicit state container for one trip being edited: it
// holds the authoritative snapshot (trip + travel record) and is the only
// thing that mutates it. Structural changes are computed as pure snapshots
// by the itinerary package and pushed through Session.Perform, which
// applies them optimistically, runs the remote mutation, refreshes derived
// state, and rolls back when the mutation fails.
package planner

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tripflow/backend/internal/domain"
)

// Refresher re-derives state after a mutation settles: the travel record
// is recomputed from the new stop ordering, and the canonical trip row is
// refetched. Both calls are best-effort (see Perform).
type Refresher interface {
	RefreshTravel(ctx context.Context, trip domain.Trip) (domain.Travel, error)
	RefreshTrip(ctx context.Context, tripID domain.ID) (domain.Trip, error)
}

// Action is one user-initiated mutation.
type Action struct {
	// Name labels the action in logs ("add stop", "move day", ...).
	Name string

	// Snapshot is the optimistic trip state, applied before Mutate runs.
	Snapshot domain.Trip

	// Mutate performs the remote persistence call. A non-nil error rolls
	// the session back to the state captured at invocation.
	Mutate func(ctx context.Context) error

	// OnSuccess, when set, patches the optimistic snapshot after Mutate
	// succeeds — the identity-resolution hook that swaps pending IDs for
	// the server-assigned ones Mutate learned.
	OnSuccess func(t *domain.Trip)
}

// Session holds the live snapshot for one trip.
//
// Perform serializes actions: a second action blocks until the first has
// settled or rolled back, so every action's captured original state truly
// is the state it started from. The snapshot swap itself is still
// immediate from the caller's point of view — there is no remote wait
// between capture and optimistic apply.
type Session struct {
	mu        sync.Mutex
	trip      domain.Trip
	travel    domain.Travel
	refresher Refresher
	log       *slog.Logger
}

// NewSession builds a session seeded with the trip's current persisted
// state.
func NewSession(trip domain.Trip, travel domain.Travel, refresher Refresher, log *slog.Logger) *Session {
	if log == nil {
		log = slog.Default()
	}
	return &Session{trip: trip.Clone(), travel: cloneTravel(travel), refresher: refresher, log: log}
}

// Snapshot returns deep copies of the current trip and travel state.
func (s *Session) Snapshot() (domain.Trip, domain.Travel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.trip.Clone(), cloneTravel(s.travel)
}

// Perform runs one optimistic action to completion.
//
// The pre-action state is captured, the optimistic snapshot applied, and
// the remote mutation executed. On mutation failure the captured state is
// restored verbatim and the error returned. On success, the travel record
// and the canonical trip row are refreshed in parallel, best-effort: a
// failed refresh keeps its previous value and the action still settles
// successfully.
func (s *Session) Perform(ctx context.Context, action Action) (domain.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	originalTrip := s.trip.Clone()
	originalTravel := cloneTravel(s.travel)

	s.trip = action.Snapshot.Clone()

	if err := action.Mutate(ctx); err != nil {
		s.trip = originalTrip
		s.travel = originalTravel
		s.log.ErrorContext(ctx, "action rolled back", "action", action.Name, "trip_id", originalTrip.ID, "error", err)
		return domain.Trip{}, fmt.Errorf("planner.Session.Perform: %s: %w", action.Name, err)
	}

	if action.OnSuccess != nil {
		action.OnSuccess(&s.trip)
	}

	refreshed := s.refresh(ctx)
	merged := mergeRefresh(state{trip: s.trip, travel: s.travel}, refreshed)
	s.trip = merged.trip
	s.travel = merged.travel

	s.log.InfoContext(ctx, "action settled", "action", action.Name, "trip_id", s.trip.ID)
	return s.trip.Clone(), nil
}

// refresh runs the two post-mutation refreshes concurrently and collects
// their independent outcomes.
func (s *Session) refresh(ctx context.Context) refreshResult {
	var (
		wg  sync.WaitGroup
		out refreshResult
	)
	trip := s.trip.Clone()

	wg.Add(2)
	go func() {
		defer wg.Done()
		out.travel, out.travelErr = s.refresher.RefreshTravel(ctx, trip)
	}()
	go func() {
		defer wg.Done()
		out.trip, out.tripErr = s.refresher.RefreshTrip(ctx, trip.ID)
	}()
	wg.Wait()

	if out.travelErr != nil {
		s.log.WarnContext(ctx, "travel refresh failed; keeping previous record", "trip_id", trip.ID, "error", out.travelErr)
	}
	if out.tripErr != nil {
		s.log.WarnContext(ctx, "trip refresh failed; keeping optimistic snapshot", "trip_id", trip.ID, "error", out.tripErr)
	}
	return out
}

func cloneTravel(t domain.Travel) domain.Travel {
	out := domain.Travel{TripID: t.TripID, Travels: make(map[domain.ID]domain.StopTravel, len(t.Travels))}
	for id, st := range t.Travels {
		cp := domain.StopTravel{Relationships: make(map[domain.ID]domain.Leg, len(st.Relationships))}
		for origin, leg := range st.Relationships {
			cp.Relationships[origin] = leg
		}
		if st.Details != nil {
			leg := *st.Details
			cp.Details = &leg
		}
		out.Travels[id] = cp
	}
	return out
}
