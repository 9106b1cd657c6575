// Package handler implements the HTTP handlers for the trip planner API.
// All handlers are methods on Server. Methods are split into
// domain-specific files (trip.go, planner.go, health.go) but all share the
// same Server struct so they can access its dependencies.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tripflow/backend/internal/domain"
	"github.com/tripflow/backend/internal/itinerary"
	"github.com/tripflow/backend/internal/routing"
	"github.com/tripflow/backend/spec"
)

// TripServicer defines the trip CRUD operations the handler depends on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type TripServicer interface {
	Create(ctx context.Context, name string, from, to time.Time) (domain.Trip, error)
	GetByID(ctx context.Context, id domain.ID) (domain.Trip, error)
	List(ctx context.Context) ([]domain.Trip, error)
	Rename(ctx context.Context, id domain.ID, name string) (domain.Trip, error)
	Delete(ctx context.Context, id domain.ID) error
	Settings(ctx context.Context, tripID domain.ID) (domain.Settings, error)
	UpdateSettings(ctx context.Context, settings domain.Settings) (domain.Settings, error)
}

// PlannerServicer defines the structural itinerary operations the handler
// depends on.
type PlannerServicer interface {
	Snapshot(ctx context.Context, tripID domain.ID) (domain.Trip, domain.Travel, error)
	AddStop(ctx context.Context, tripID, dayID domain.ID, placeID string) (domain.Trip, error)
	UpdateStop(ctx context.Context, stop domain.Stop) (domain.Trip, error)
	DeleteStop(ctx context.Context, tripID, dayID, stopID domain.ID) (domain.Trip, error)
	DeleteDay(ctx context.Context, tripID, dayID domain.ID) (domain.Trip, error)
	MoveDay(ctx context.Context, tripID, dayID domain.ID, dir itinerary.Direction) (domain.Trip, error)
	ReorderStop(ctx context.Context, tripID, srcDayID, dstDayID, activeStopID, overStopID domain.ID) (domain.Trip, error)
	ResizeDateRange(ctx context.Context, tripID domain.ID, from, to time.Time) (domain.Trip, *itinerary.PendingDeletion, error)
	ConfirmPrune(ctx context.Context, tripID domain.ID, from, to time.Time) (domain.Trip, error)
	RecomputeTravel(ctx context.Context, tripID domain.ID) (domain.Travel, error)
	SearchPlaces(ctx context.Context, query string) ([]routing.PlaceCandidate, error)
	Evict(tripID domain.ID)
}

// Server implements the HTTP API. Wire it into a router via Routes.
type Server struct {
	trips   TripServicer
	planner PlannerServicer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(trips TripServicer, planner PlannerServicer) *Server {
	return &Server{trips: trips, planner: planner}
}

// Routes registers every endpoint on a fresh chi router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Get("/places", s.SearchPlaces)

	r.Route("/trips", func(r chi.Router) {
		r.Get("/", s.ListTrips)
		r.Post("/", s.CreateTrip)

		r.Route("/{tripID}", func(r chi.Router) {
			r.Get("/", s.GetTrip)
			r.Patch("/", s.RenameTrip)
			r.Delete("/", s.DeleteTrip)

			r.Get("/settings", s.GetSettings)
			r.Put("/settings", s.UpdateSettings)

			r.Put("/range", s.ResizeDateRange)
			r.Post("/range/confirm", s.ConfirmPrune)

			r.Get("/travel", s.GetTravel)
			r.Post("/travel/recompute", s.RecomputeTravel)

			r.Route("/days/{dayID}", func(r chi.Router) {
				r.Delete("/", s.DeleteDay)
				r.Post("/move", s.MoveDay)
				r.Post("/stops", s.AddStop)
				r.Route("/stops/{stopID}", func(r chi.Router) {
					r.Patch("/", s.UpdateStop)
					r.Delete("/", s.DeleteStop)
				})
			})

			r.Post("/stops/reorder", s.ReorderStop)
		})
	})

	return r
}

// GetOpenAPI serves the embedded OpenAPI document.
func (s *Server) GetOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(spec.OpenAPI)
}
