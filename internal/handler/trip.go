package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tripflow/backend/internal/domain"
)

// createTripRequest is the body for POST /trips.
type createTripRequest struct {
	Name      string `json:"name"`
	StartDate string `json:"start_date"` // "2006-01-02"
	EndDate   string `json:"end_date"`
}

// renameTripRequest is the body for PATCH /trips/{tripID}.
type renameTripRequest struct {
	Name string `json:"name"`
}

// CreateTrip handles POST /trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var req createTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	from, err := parseDate(req.StartDate)
	if err != nil {
		writeBadRequest(w, "start_date must be formatted YYYY-MM-DD")
		return
	}
	to, err := parseDate(req.EndDate)
	if err != nil {
		writeBadRequest(w, "end_date must be formatted YYYY-MM-DD")
		return
	}

	trip, err := s.trips.Create(r.Context(), req.Name, from, to)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, trip)
}

// ListTrips handles GET /trips.
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	trips, err := s.trips.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trips)
}

// GetTrip handles GET /trips/{tripID}. It returns the live session
// snapshot (trip plus travel record), not the raw database rows, so
// clients see in-flight optimistic state.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	trip, record, err := s.planner.Snapshot(r.Context(), pathID(r, "tripID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tripResponse{Trip: trip, Travel: record})
}

// RenameTrip handles PATCH /trips/{tripID}.
func (s *Server) RenameTrip(w http.ResponseWriter, r *http.Request) {
	var req renameTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	trip, err := s.trips.Rename(r.Context(), pathID(r, "tripID"), req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// DeleteTrip handles DELETE /trips/{tripID}. The planner session is
// evicted so a recreated trip cannot see stale state.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	tripID := pathID(r, "tripID")
	if err := s.trips.Delete(r.Context(), tripID); err != nil {
		writeError(w, err)
		return
	}
	s.planner.Evict(tripID)
	w.WriteHeader(http.StatusNoContent)
}

// GetSettings handles GET /trips/{tripID}/settings.
func (s *Server) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.trips.Settings(r.Context(), pathID(r, "tripID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// UpdateSettings handles PUT /trips/{tripID}/settings.
func (s *Server) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var settings domain.Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	settings.TripID = pathID(r, "tripID")
	saved, err := s.trips.UpdateSettings(r.Context(), settings)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// tripResponse pairs a trip snapshot with its travel record.
type tripResponse struct {
	Trip   domain.Trip   `json:"trip"`
	Travel domain.Travel `json:"travel"`
}

// pathID reads a chi URL parameter as a domain.ID.
func pathID(r *http.Request, name string) domain.ID {
	return domain.ID(chi.URLParam(r, name))
}

// parseDate parses a YYYY-MM-DD request field.
func parseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(time.DateOnly, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}
