package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/tripflow/backend/internal/domain"
	"github.com/tripflow/backend/internal/itinerary"
)

// addStopRequest is the body for POST /trips/{tripID}/days/{dayID}/stops.
type addStopRequest struct {
	PlaceID string `json:"place_id"`
}

// updateStopRequest is the body for PATCH .../stops/{stopID}.
type updateStopRequest struct {
	CustomName string  `json:"custom_name"`
	StopEvent  string  `json:"stop_event"`
	StopCost   float64 `json:"stop_cost"`
}

// moveDayRequest is the body for POST .../days/{dayID}/move.
type moveDayRequest struct {
	Direction string `json:"direction"` // "up" or "down"
}

// reorderStopRequest is the body for POST /trips/{tripID}/stops/reorder.
// OverStopID may name a stop in the destination day, name the destination
// day itself, or be empty — the latter two mean "append at the end".
type reorderStopRequest struct {
	SourceDayID      string `json:"source_day_id"`
	DestinationDayID string `json:"destination_day_id"`
	ActiveStopID     string `json:"active_stop_id"`
	OverStopID       string `json:"over_stop_id"`
}

// rangeRequest is the body for PUT /trips/{tripID}/range and its
// confirmation counterpart.
type rangeRequest struct {
	StartDate string `json:"start_date"` // "2006-01-02"
	EndDate   string `json:"end_date"`
}

// pendingDeletionResponse is returned with 409 Conflict when a range
// shrink needs explicit confirmation: the listed days still hold stops and
// nothing has been changed.
type pendingDeletionResponse struct {
	ConfirmRequired bool         `json:"confirm_required"`
	Days            []domain.Day `json:"days"`
	StartDate       string       `json:"start_date"`
	EndDate         string       `json:"end_date"`
}

// AddStop handles POST /trips/{tripID}/days/{dayID}/stops.
func (s *Server) AddStop(w http.ResponseWriter, r *http.Request) {
	var req addStopRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PlaceID == "" {
		writeBadRequest(w, "place_id is required")
		return
	}
	trip, err := s.planner.AddStop(r.Context(), pathID(r, "tripID"), pathID(r, "dayID"), req.PlaceID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, trip)
}

// UpdateStop handles PATCH /trips/{tripID}/days/{dayID}/stops/{stopID}.
func (s *Server) UpdateStop(w http.ResponseWriter, r *http.Request) {
	var req updateStopRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	trip, err := s.planner.UpdateStop(r.Context(), domain.Stop{
		ID:         pathID(r, "stopID"),
		DayID:      pathID(r, "dayID"),
		TripID:     pathID(r, "tripID"),
		CustomName: req.CustomName,
		Event:      req.StopEvent,
		Cost:       req.StopCost,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// DeleteStop handles DELETE /trips/{tripID}/days/{dayID}/stops/{stopID}.
func (s *Server) DeleteStop(w http.ResponseWriter, r *http.Request) {
	trip, err := s.planner.DeleteStop(r.Context(), pathID(r, "tripID"), pathID(r, "dayID"), pathID(r, "stopID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// DeleteDay handles DELETE /trips/{tripID}/days/{dayID}.
func (s *Server) DeleteDay(w http.ResponseWriter, r *http.Request) {
	trip, err := s.planner.DeleteDay(r.Context(), pathID(r, "tripID"), pathID(r, "dayID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// MoveDay handles POST /trips/{tripID}/days/{dayID}/move.
func (s *Server) MoveDay(w http.ResponseWriter, r *http.Request) {
	var req moveDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	trip, err := s.planner.MoveDay(r.Context(), pathID(r, "tripID"), pathID(r, "dayID"), itinerary.Direction(req.Direction))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// ReorderStop handles POST /trips/{tripID}/stops/reorder.
func (s *Server) ReorderStop(w http.ResponseWriter, r *http.Request) {
	var req reorderStopRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	trip, err := s.planner.ReorderStop(r.Context(), pathID(r, "tripID"),
		domain.ID(req.SourceDayID), domain.ID(req.DestinationDayID),
		domain.ID(req.ActiveStopID), domain.ID(req.OverStopID))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// ResizeDateRange handles PUT /trips/{tripID}/range. A shrink that would
// drop non-empty days is answered with 409 Conflict and the days at stake;
// the client confirms via POST /trips/{tripID}/range/confirm.
func (s *Server) ResizeDateRange(w http.ResponseWriter, r *http.Request) {
	from, to, ok := decodeRange(w, r)
	if !ok {
		return
	}
	trip, pending, err := s.planner.ResizeDateRange(r.Context(), pathID(r, "tripID"), from, to)
	if err != nil {
		writeError(w, err)
		return
	}
	if pending != nil {
		writeJSON(w, http.StatusConflict, pendingDeletionResponse{
			ConfirmRequired: true,
			Days:            pending.Days,
			StartDate:       pending.From.Format(time.DateOnly),
			EndDate:         pending.To.Format(time.DateOnly),
		})
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// ConfirmPrune handles POST /trips/{tripID}/range/confirm.
func (s *Server) ConfirmPrune(w http.ResponseWriter, r *http.Request) {
	from, to, ok := decodeRange(w, r)
	if !ok {
		return
	}
	trip, err := s.planner.ConfirmPrune(r.Context(), pathID(r, "tripID"), from, to)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// GetTravel handles GET /trips/{tripID}/travel.
func (s *Server) GetTravel(w http.ResponseWriter, r *http.Request) {
	_, record, err := s.planner.Snapshot(r.Context(), pathID(r, "tripID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// RecomputeTravel handles POST /trips/{tripID}/travel/recompute.
func (s *Server) RecomputeTravel(w http.ResponseWriter, r *http.Request) {
	record, err := s.planner.RecomputeTravel(r.Context(), pathID(r, "tripID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// SearchPlaces handles GET /places?query=...
func (s *Server) SearchPlaces(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		writeBadRequest(w, "query is required")
		return
	}
	candidates, err := s.planner.SearchPlaces(r.Context(), query)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, candidates)
}

// decodeRange parses the shared range request body, writing the error
// response itself when the body is unusable.
func decodeRange(w http.ResponseWriter, r *http.Request) (from, to time.Time, ok bool) {
	var req rangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return time.Time{}, time.Time{}, false
	}
	from, err := parseDate(req.StartDate)
	if err != nil {
		writeBadRequest(w, "start_date must be formatted YYYY-MM-DD")
		return time.Time{}, time.Time{}, false
	}
	to, err = parseDate(req.EndDate)
	if err != nil {
		writeBadRequest(w, "end_date must be formatted YYYY-MM-DD")
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}
