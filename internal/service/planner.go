package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/tripflow/backend/internal/domain"
	"github.com/tripflow/backend/internal/itinerary"
	"github.com/tripflow/backend/internal/planner"
	"github.com/tripflow/backend/internal/repo"
	"github.com/tripflow/backend/internal/routing"
)

// PlannerService exposes the structural itinerary operations. Each
// operation computes a new snapshot with the itinerary engine and pushes
// it through the trip's planner session, which applies it optimistically,
// persists, refreshes derived state, and rolls back on failure.
//
// Sessions are created lazily per trip and kept for the life of the
// process; the session serializes concurrent edits to its trip.
type PlannerService struct {
	mu       sync.Mutex
	sessions map[domain.ID]*planner.Session

	trips   repo.TripRepo
	days    repo.DayRepo
	stops   repo.StopRepo
	reorder repo.ReorderRepo
	travels *TravelService
	places  routing.PlaceLookup
	log     *slog.Logger
}

// NewPlannerService constructs a PlannerService.
func NewPlannerService(
	trips repo.TripRepo,
	days repo.DayRepo,
	stops repo.StopRepo,
	reorder repo.ReorderRepo,
	travels *TravelService,
	places routing.PlaceLookup,
	log *slog.Logger,
) *PlannerService {
	if log == nil {
		log = slog.Default()
	}
	return &PlannerService{
		sessions: map[domain.ID]*planner.Session{},
		trips:    trips,
		days:     days,
		stops:    stops,
		reorder:  reorder,
		travels:  travels,
		places:   places,
		log:      log,
	}
}

// RefreshTravel implements planner.Refresher by recomputing the travel
// record from the snapshot's stop ordering.
func (s *PlannerService) RefreshTravel(ctx context.Context, trip domain.Trip) (domain.Travel, error) {
	return s.travels.Recompute(ctx, trip)
}

// RefreshTrip implements planner.Refresher by refetching the canonical
// trip aggregate.
func (s *PlannerService) RefreshTrip(ctx context.Context, tripID domain.ID) (domain.Trip, error) {
	return s.trips.GetByID(ctx, tripID)
}

// session returns the live session for a trip, seeding it from the
// database on first use.
func (s *PlannerService) session(ctx context.Context, tripID domain.ID) (*planner.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[tripID]; ok {
		return sess, nil
	}

	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	record, err := s.travels.GetByTripID(ctx, tripID)
	if err != nil {
		return nil, err
	}

	sess := planner.NewSession(trip, record, s, s.log)
	s.sessions[tripID] = sess
	return sess, nil
}

// Snapshot returns the current in-session state for a trip.
func (s *PlannerService) Snapshot(ctx context.Context, tripID domain.ID) (domain.Trip, domain.Travel, error) {
	sess, err := s.session(ctx, tripID)
	if err != nil {
		return domain.Trip{}, domain.Travel{}, fmt.Errorf("service.PlannerService.Snapshot: %w", err)
	}
	trip, record := sess.Snapshot()
	return trip, record, nil
}

// AddStop resolves the place and appends a stop to the target day.
func (s *PlannerService) AddStop(ctx context.Context, tripID, dayID domain.ID, placeID string) (domain.Trip, error) {
	sess, err := s.session(ctx, tripID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.PlannerService.AddStop: %w", err)
	}
	trip, _ := sess.Snapshot()

	place, err := s.places.Details(ctx, placeID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.PlannerService.AddStop: %w", err)
	}

	next, err := itinerary.AddStop(trip, dayID, place)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.PlannerService.AddStop: %w", err)
	}

	// The appended stop is the last one of the target day.
	day := next.DayByID(dayID)
	pending := day.Stops[len(day.Stops)-1]

	var created domain.Stop
	settled, err := sess.Perform(ctx, planner.Action{
		Name:     "add stop",
		Snapshot: next,
		Mutate: func(ctx context.Context) error {
			inserted, err := s.stops.Create(ctx, pending)
			if err != nil {
				return err
			}
			created = inserted
			return nil
		},
		OnSuccess: func(t *domain.Trip) {
			t.ResolveStopID(pending.ID, created.ID)
		},
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.PlannerService.AddStop: %w", err)
	}
	return settled, nil
}

// UpdateStop edits a stop's custom name, event category, and cost.
func (s *PlannerService) UpdateStop(ctx context.Context, stop domain.Stop) (domain.Trip, error) {
	sess, err := s.session(ctx, stop.TripID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.PlannerService.UpdateStop: %w", err)
	}
	trip, _ := sess.Snapshot()

	next := trip.Clone()
	day := next.DayByID(stop.DayID)
	if day == nil {
		return domain.Trip{}, fmt.Errorf("service.PlannerService.UpdateStop: day %s: %w", stop.DayID, domain.ErrNotFound)
	}
	found := false
	for i := range day.Stops {
		if day.Stops[i].ID == stop.ID {
			day.Stops[i].CustomName = stop.CustomName
			day.Stops[i].Event = stop.Event
			day.Stops[i].Cost = stop.Cost
			stop = day.Stops[i]
			found = true
			break
		}
	}
	if !found {
		return domain.Trip{}, fmt.Errorf("service.PlannerService.UpdateStop: stop %s: %w", stop.ID, domain.ErrNotFound)
	}

	settled, err := sess.Perform(ctx, planner.Action{
		Name:     "update stop",
		Snapshot: next,
		Mutate: func(ctx context.Context) error {
			_, err := s.stops.Update(ctx, stop)
			return err
		},
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.PlannerService.UpdateStop: %w", err)
	}
	return settled, nil
}

// DeleteStop removes a stop and persists the reindexed day.
func (s *PlannerService) DeleteStop(ctx context.Context, tripID, dayID, stopID domain.ID) (domain.Trip, error) {
	sess, err := s.session(ctx, tripID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.PlannerService.DeleteStop: %w", err)
	}
	trip, _ := sess.Snapshot()

	next, err := itinerary.DeleteStop(trip, dayID, stopID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.PlannerService.DeleteStop: %w", err)
	}

	settled, err := sess.Perform(ctx, planner.Action{
		Name:     "delete stop",
		Snapshot: next,
		Mutate: func(ctx context.Context) error {
			if err := s.stops.Delete(ctx, tripID, stopID); err != nil {
				return err
			}
			return s.reorder.SaveOrdering(ctx, next)
		},
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.PlannerService.DeleteStop: %w", err)
	}
	return settled, nil
}

// DeleteDay removes a day (cascading its stops) and persists the
// reindexed, re-dated remainder.
func (s *PlannerService) DeleteDay(ctx context.Context, tripID, dayID domain.ID) (domain.Trip, error) {
	sess, err := s.session(ctx, tripID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.PlannerService.DeleteDay: %w", err)
	}
	trip, _ := sess.Snapshot()

	next, err := itinerary.DeleteDay(trip, dayID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.PlannerService.DeleteDay: %w", err)
	}

	settled, err := sess.Perform(ctx, planner.Action{
		Name:     "delete day",
		Snapshot: next,
		Mutate: func(ctx context.Context) error {
			if err := s.days.Delete(ctx, tripID, dayID); err != nil {
				return err
			}
			return s.reorder.SaveOrdering(ctx, next)
		},
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.PlannerService.DeleteDay: %w", err)
	}
	return settled, nil
}

// MoveDay swaps a day with its neighbor and persists the new ordering.
func (s *PlannerService) MoveDay(ctx context.Context, tripID, dayID domain.ID, dir itinerary.Direction) (domain.Trip, error) {
	sess, err := s.session(ctx, tripID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.PlannerService.MoveDay: %w", err)
	}
	trip, _ := sess.Snapshot()

	next, err := itinerary.MoveDay(trip, dayID, dir)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.PlannerService.MoveDay: %w", err)
	}

	settled, err := sess.Perform(ctx, planner.Action{
		Name:     "move day",
		Snapshot: next,
		Mutate: func(ctx context.Context) error {
			return s.reorder.SaveOrdering(ctx, next)
		},
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.PlannerService.MoveDay: %w", err)
	}
	return settled, nil
}

// ReorderStop applies a drag-and-drop stop move and persists the new
// ordering of both affected days.
func (s *PlannerService) ReorderStop(ctx context.Context, tripID, srcDayID, dstDayID, activeStopID, overStopID domain.ID) (domain.Trip, error) {
	sess, err := s.session(ctx, tripID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.PlannerService.ReorderStop: %w", err)
	}
	trip, _ := sess.Snapshot()

	next, err := itinerary.ReorderStop(trip, srcDayID, dstDayID, activeStopID, overStopID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.PlannerService.ReorderStop: %w", err)
	}

	settled, err := sess.Perform(ctx, planner.Action{
		Name:     "reorder stop",
		Snapshot: next,
		Mutate: func(ctx context.Context) error {
			return s.reorder.SaveOrdering(ctx, next)
		},
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.PlannerService.ReorderStop: %w", err)
	}
	return settled, nil
}

// ResizeDateRange reconciles the trip against a new [from, to] range.
// When the shrink would drop days that still hold stops, no mutation is
// applied and the pending-deletion signal is returned for the caller to
// confirm via ConfirmPrune.
func (s *PlannerService) ResizeDateRange(ctx context.Context, tripID domain.ID, from, to time.Time) (domain.Trip, *itinerary.PendingDeletion, error) {
	sess, err := s.session(ctx, tripID)
	if err != nil {
		return domain.Trip{}, nil, fmt.Errorf("service.PlannerService.ResizeDateRange: %w", err)
	}
	trip, _ := sess.Snapshot()

	next, pendingDel, err := itinerary.ResizeDateRange(trip, from, to)
	if err != nil {
		return domain.Trip{}, nil, fmt.Errorf("service.PlannerService.ResizeDateRange: %w", err)
	}
	if pendingDel != nil {
		return trip, pendingDel, nil
	}

	settled, err := s.performStructure(ctx, sess, "resize date range", trip, next)
	if err != nil {
		return domain.Trip{}, nil, fmt.Errorf("service.PlannerService.ResizeDateRange: %w", err)
	}
	return settled, nil, nil
}

// ConfirmPrune applies the destructive counterpart of ResizeDateRange
// after the user has confirmed dropping non-empty days.
func (s *PlannerService) ConfirmPrune(ctx context.Context, tripID domain.ID, from, to time.Time) (domain.Trip, error) {
	sess, err := s.session(ctx, tripID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.PlannerService.ConfirmPrune: %w", err)
	}
	trip, _ := sess.Snapshot()

	next, err := itinerary.PruneToRange(trip, from, to)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.PlannerService.ConfirmPrune: %w", err)
	}

	settled, err := s.performStructure(ctx, sess, "prune date range", trip, next)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.PlannerService.ConfirmPrune: %w", err)
	}
	return settled, nil
}

// performStructure persists a structural snapshot transition that may have
// created or dropped whole days: new (pending-ID) days are inserted first
// so the ordering write references only confirmed rows, removed days are
// deleted, and the full ordering is saved atomically.
func (s *PlannerService) performStructure(ctx context.Context, sess *planner.Session, name string, prev, next domain.Trip) (domain.Trip, error) {
	kept := map[domain.ID]bool{}
	for _, d := range next.Days {
		kept[d.ID] = true
	}
	var dropped []domain.ID
	for _, d := range prev.Days {
		if !kept[d.ID] {
			dropped = append(dropped, d.ID)
		}
	}

	resolved := map[domain.ID]domain.ID{} // pending -> confirmed
	return sess.Perform(ctx, planner.Action{
		Name:     name,
		Snapshot: next,
		Mutate: func(ctx context.Context) error {
			persisted := next.Clone()
			for _, day := range persisted.Days {
				if !day.ID.IsPending() {
					continue
				}
				created, err := s.days.Create(ctx, day)
				if err != nil {
					return err
				}
				resolved[day.ID] = created.ID
			}
			for pending, confirmed := range resolved {
				persisted.ResolveDayID(pending, confirmed)
			}
			for _, dayID := range dropped {
				if err := s.days.Delete(ctx, next.ID, dayID); err != nil {
					return err
				}
			}
			return s.reorder.SaveOrdering(ctx, persisted)
		},
		OnSuccess: func(t *domain.Trip) {
			for pending, confirmed := range resolved {
				t.ResolveDayID(pending, confirmed)
			}
		},
	})
}

// RecomputeTravel rebuilds the travel record from the current session
// snapshot on demand.
func (s *PlannerService) RecomputeTravel(ctx context.Context, tripID domain.ID) (domain.Travel, error) {
	sess, err := s.session(ctx, tripID)
	if err != nil {
		return domain.Travel{}, fmt.Errorf("service.PlannerService.RecomputeTravel: %w", err)
	}
	trip, _ := sess.Snapshot()
	record, err := s.travels.Recompute(ctx, trip)
	if err != nil {
		return domain.Travel{}, fmt.Errorf("service.PlannerService.RecomputeTravel: %w", err)
	}
	return record, nil
}

// SearchPlaces resolves a free-text query to place candidates for the
// add-stop flow. Always returns a non-nil slice.
func (s *PlannerService) SearchPlaces(ctx context.Context, query string) ([]routing.PlaceCandidate, error) {
	if query == "" {
		return []routing.PlaceCandidate{}, nil
	}
	candidates, err := s.places.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("service.PlannerService.SearchPlaces: %w", err)
	}
	if candidates == nil {
		return []routing.PlaceCandidate{}, nil
	}
	return candidates, nil
}

// Evict drops the in-memory session for a trip, e.g. after the trip is
// deleted. The next operation reseeds from the database.
func (s *PlannerService) Evict(tripID domain.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, tripID)
}
