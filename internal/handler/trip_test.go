package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripflow/backend/internal/domain"
	"github.com/tripflow/backend/internal/handler"
)

// mockTripServicer is a test double for handler.TripServicer.
// Set only the method fields your test needs.
type mockTripServicer struct {
	create         func(ctx context.Context, name string, from, to time.Time) (domain.Trip, error)
	getByID        func(ctx context.Context, id domain.ID) (domain.Trip, error)
	list           func(ctx context.Context) ([]domain.Trip, error)
	rename         func(ctx context.Context, id domain.ID, name string) (domain.Trip, error)
	delete         func(ctx context.Context, id domain.ID) error
	settings       func(ctx context.Context, tripID domain.ID) (domain.Settings, error)
	updateSettings func(ctx context.Context, settings domain.Settings) (domain.Settings, error)
}

var _ handler.TripServicer = (*mockTripServicer)(nil)

func (m *mockTripServicer) Create(ctx context.Context, name string, from, to time.Time) (domain.Trip, error) {
	return m.create(ctx, name, from, to)
}
func (m *mockTripServicer) GetByID(ctx context.Context, id domain.ID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripServicer) List(ctx context.Context) ([]domain.Trip, error) {
	return m.list(ctx)
}
func (m *mockTripServicer) Rename(ctx context.Context, id domain.ID, name string) (domain.Trip, error) {
	return m.rename(ctx, id, name)
}
func (m *mockTripServicer) Delete(ctx context.Context, id domain.ID) error {
	return m.delete(ctx, id)
}
func (m *mockTripServicer) Settings(ctx context.Context, tripID domain.ID) (domain.Settings, error) {
	return m.settings(ctx, tripID)
}
func (m *mockTripServicer) UpdateSettings(ctx context.Context, settings domain.Settings) (domain.Settings, error) {
	return m.updateSettings(ctx, settings)
}

// ---- helpers ---------------------------------------------------------------

// newHTTPHandler wires a Server with the given mocks into its chi router,
// mirroring how main.go wires it in production.
func newHTTPHandler(trips handler.TripServicer, planner handler.PlannerServicer) http.Handler {
	return handler.NewServer(trips, planner).Routes()
}

func tripFixture() domain.Trip {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	tripID := domain.NewID()
	dayID := domain.NewID()
	return domain.Trip{
		ID:        tripID,
		Name:      "Summer Tour",
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 1),
		Days: []domain.Day{
			{ID: dayID, TripID: tripID, Date: start, Order: 0, Stops: []domain.Stop{
				{ID: domain.NewID(), DayID: dayID, TripID: tripID, Name: "Harbor", Order: 0},
			}},
			{ID: domain.NewID(), TripID: tripID, Date: start.AddDate(0, 0, 1), Order: 1},
		},
	}
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func dateStr(t time.Time) string {
	return t.Format(time.DateOnly)
}

func decodeTrip(t *testing.T, rec *httptest.ResponseRecorder) domain.Trip {
	t.Helper()
	var trip domain.Trip
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&trip))
	return trip
}

// ---- POST /trips -----------------------------------------------------------

func TestCreateTrip_201(t *testing.T) {
	fixture := tripFixture()
	svc := &mockTripServicer{
		create: func(_ context.Context, name string, from, to time.Time) (domain.Trip, error) {
			assert.Equal(t, "Summer Tour", name)
			assert.True(t, from.Equal(fixture.StartDate))
			assert.True(t, to.Equal(fixture.EndDate))
			return fixture, nil
		},
	}

	body := jsonBody(t, map[string]any{
		"name":       "Summer Tour",
		"start_date": dateStr(fixture.StartDate),
		"end_date":   dateStr(fixture.EndDate),
	})
	req := httptest.NewRequest(http.MethodPost, "/trips", body)
	rec := httptest.NewRecorder()

	newHTTPHandler(svc, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, fixture.ID, decodeTrip(t, rec).ID)
}

func TestCreateTrip_400_BadDate(t *testing.T) {
	body := jsonBody(t, map[string]any{
		"name":       "Summer Tour",
		"start_date": "June 1st",
		"end_date":   "2025-06-02",
	})
	req := httptest.NewRequest(http.MethodPost, "/trips", body)
	rec := httptest.NewRecorder()

	newHTTPHandler(&mockTripServicer{}, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateTrip_422_Validation(t *testing.T) {
	svc := &mockTripServicer{
		create: func(context.Context, string, time.Time, time.Time) (domain.Trip, error) {
			return domain.Trip{}, domain.ErrValidation
		},
	}
	body := jsonBody(t, map[string]any{
		"name":       "",
		"start_date": "2025-06-01",
		"end_date":   "2025-06-02",
	})
	req := httptest.NewRequest(http.MethodPost, "/trips", body)
	rec := httptest.NewRecorder()

	newHTTPHandler(svc, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

// ---- GET /trips ------------------------------------------------------------

func TestListTrips_200(t *testing.T) {
	svc := &mockTripServicer{
		list: func(context.Context) ([]domain.Trip, error) {
			return []domain.Trip{tripFixture()}, nil
		},
	}
	req := httptest.NewRequest(http.MethodGet, "/trips", nil)
	rec := httptest.NewRecorder()

	newHTTPHandler(svc, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var trips []domain.Trip
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&trips))
	assert.Len(t, trips, 1)
}

// ---- GET /trips/{tripID} ---------------------------------------------------

func TestGetTrip_200_SessionSnapshot(t *testing.T) {
	fixture := tripFixture()
	planner := &mockPlannerServicer{
		snapshot: func(_ context.Context, tripID domain.ID) (domain.Trip, domain.Travel, error) {
			assert.Equal(t, fixture.ID, tripID)
			return fixture, domain.EmptyTravel(fixture.ID), nil
		},
	}
	req := httptest.NewRequest(http.MethodGet, "/trips/"+string(fixture.ID), nil)
	rec := httptest.NewRecorder()

	newHTTPHandler(nil, planner).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Trip   domain.Trip   `json:"trip"`
		Travel domain.Travel `json:"travel"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, fixture.ID, resp.Trip.ID)
	assert.Equal(t, fixture.ID, resp.Travel.TripID)
}

func TestGetTrip_404(t *testing.T) {
	planner := &mockPlannerServicer{
		snapshot: func(context.Context, domain.ID) (domain.Trip, domain.Travel, error) {
			return domain.Trip{}, domain.Travel{}, domain.ErrNotFound
		},
	}
	req := httptest.NewRequest(http.MethodGet, "/trips/"+string(domain.NewID()), nil)
	rec := httptest.NewRecorder()

	newHTTPHandler(nil, planner).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ---- PATCH /trips/{tripID} -------------------------------------------------

func TestRenameTrip_200(t *testing.T) {
	fixture := tripFixture()
	svc := &mockTripServicer{
		rename: func(_ context.Context, id domain.ID, name string) (domain.Trip, error) {
			assert.Equal(t, fixture.ID, id)
			fixture.Name = name
			return fixture, nil
		},
	}
	body := jsonBody(t, map[string]any{"name": "Renamed"})
	req := httptest.NewRequest(http.MethodPatch, "/trips/"+string(fixture.ID), body)
	rec := httptest.NewRecorder()

	newHTTPHandler(svc, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Renamed", decodeTrip(t, rec).Name)
}

// ---- DELETE /trips/{tripID} ------------------------------------------------

func TestDeleteTrip_204_EvictsSession(t *testing.T) {
	fixture := tripFixture()
	svc := &mockTripServicer{
		delete: func(_ context.Context, id domain.ID) error {
			assert.Equal(t, fixture.ID, id)
			return nil
		},
	}
	var evicted domain.ID
	planner := &mockPlannerServicer{
		evict: func(tripID domain.ID) { evicted = tripID },
	}
	req := httptest.NewRequest(http.MethodDelete, "/trips/"+string(fixture.ID), nil)
	rec := httptest.NewRecorder()

	newHTTPHandler(svc, planner).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, fixture.ID, evicted)
}

func TestDeleteTrip_404(t *testing.T) {
	svc := &mockTripServicer{
		delete: func(context.Context, domain.ID) error { return domain.ErrNotFound },
	}
	req := httptest.NewRequest(http.MethodDelete, "/trips/"+string(domain.NewID()), nil)
	rec := httptest.NewRecorder()

	newHTTPHandler(svc, &mockPlannerServicer{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ---- settings --------------------------------------------------------------

func TestGetSettings_200(t *testing.T) {
	tripID := domain.NewID()
	svc := &mockTripServicer{
		settings: func(_ context.Context, id domain.ID) (domain.Settings, error) {
			return domain.DefaultSettings(id), nil
		},
	}
	req := httptest.NewRequest(http.MethodGet, "/trips/"+string(tripID)+"/settings", nil)
	rec := httptest.NewRecorder()

	newHTTPHandler(svc, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var settings domain.Settings
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&settings))
	assert.Equal(t, tripID, settings.TripID)
	assert.Equal(t, "km", settings.DistanceUnit)
}

func TestUpdateSettings_TripIDFromPath(t *testing.T) {
	tripID := domain.NewID()
	svc := &mockTripServicer{
		updateSettings: func(_ context.Context, s domain.Settings) (domain.Settings, error) {
			assert.Equal(t, tripID, s.TripID, "path wins over any trip_id in the body")
			return s, nil
		},
	}
	settings := domain.DefaultSettings("spoofed")
	settings.DistanceUnit = "mi"
	req := httptest.NewRequest(http.MethodPut, "/trips/"+string(tripID)+"/settings", jsonBody(t, settings))
	rec := httptest.NewRecorder()

	newHTTPHandler(svc, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
