package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripflow/backend/internal/domain"
	"github.com/tripflow/backend/internal/repo"
	"github.com/tripflow/backend/testutil"
)

// newTestTx opens a transaction against the test database and rolls it
// back when the test finishes, giving free per-test isolation. All repos
// under test are constructed on top of this transaction.
func newTestTx(t *testing.T) pgx.Tx {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		_ = tx.Rollback(context.Background())
	})
	return tx
}

func tripFixture() domain.Trip {
	return domain.Trip{
		Name:      "Summer Tour",
		StartDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC),
	}
}

func stopFixture(trip domain.Trip, day domain.Day, order int) domain.Stop {
	return domain.Stop{
		DayID:     day.ID,
		TripID:    trip.ID,
		Name:      "Stop",
		PlaceID:   "pl_test",
		Latitude:  41.35,
		Longitude: -70.51,
		Order:     order,
	}
}

// seedTrip persists a trip with one day per date and n stops on the first
// day, returning the full aggregate as stored.
func seedTrip(t *testing.T, tx pgx.Tx, stopCount int) domain.Trip {
	t.Helper()
	ctx := context.Background()

	trips := repo.NewTripRepo(tx)
	days := repo.NewDayRepo(tx)
	stops := repo.NewStopRepo(tx)

	trip, err := trips.Create(ctx, tripFixture())
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		day, err := days.Create(ctx, domain.Day{
			TripID: trip.ID,
			Date:   trip.StartDate.AddDate(0, 0, i),
			Order:  i,
		})
		require.NoError(t, err)
		trip.Days = append(trip.Days, day)
	}
	for i := 0; i < stopCount; i++ {
		stop, err := stops.Create(ctx, stopFixture(trip, trip.Days[0], i))
		require.NoError(t, err)
		trip.Days[0].Stops = append(trip.Days[0].Stops, stop)
	}
	return trip
}

func TestTripRepo_Create(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewTripRepo(tx)
	ctx := context.Background()

	input := tripFixture()
	got, err := r.Create(ctx, input)

	require.NoError(t, err)
	assert.NotEmpty(t, got.ID, "ID should be DB-generated")
	assert.False(t, got.ID.IsPending())
	assert.Equal(t, input.Name, got.Name)
	assert.True(t, got.StartDate.Equal(input.StartDate), "StartDate mismatch")
	assert.True(t, got.EndDate.Equal(input.EndDate), "EndDate mismatch")
	assert.False(t, got.CreatedAt.IsZero(), "CreatedAt should be set by DB")
	assert.False(t, got.UpdatedAt.IsZero(), "UpdatedAt should be set by DB")
}

func TestTripRepo_GetByID_HydratesAggregate(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewTripRepo(tx)
	ctx := context.Background()

	seeded := seedTrip(t, tx, 2)

	got, err := r.GetByID(ctx, seeded.ID)

	require.NoError(t, err)
	require.Len(t, got.Days, 3)
	for i, day := range got.Days {
		assert.Equal(t, seeded.Days[i].ID, day.ID, "days come back in position order")
		assert.Equal(t, i, day.Order)
		assert.True(t, day.Date.Equal(seeded.StartDate.AddDate(0, 0, i)))
	}
	require.Len(t, got.Days[0].Stops, 2)
	for i, stop := range got.Days[0].Stops {
		assert.Equal(t, seeded.Days[0].Stops[i].ID, stop.ID, "stops come back in position order")
		assert.Equal(t, i, stop.Order)
		assert.Equal(t, got.Days[0].ID, stop.DayID)
	}
	assert.Empty(t, got.Days[1].Stops)
}

func TestTripRepo_GetByID_NotFound(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewTripRepo(tx)

	_, err := r.GetByID(context.Background(), domain.NewID())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// A pending ID has not round-tripped through the database, so it can never
// name a stored row.
func TestTripRepo_GetByID_PendingID(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewTripRepo(tx)

	_, err := r.GetByID(context.Background(), domain.NewPendingID())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripRepo_List_NewestFirst(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewTripRepo(tx)
	ctx := context.Background()

	first := tripFixture()
	first.Name = "First"
	_, err := r.Create(ctx, first)
	require.NoError(t, err)

	second := tripFixture()
	second.Name = "Second"
	second.StartDate = first.StartDate.AddDate(0, 1, 0)
	second.EndDate = first.EndDate.AddDate(0, 1, 0)
	_, err = r.Create(ctx, second)
	require.NoError(t, err)

	got, err := r.List(ctx)

	require.NoError(t, err)
	require.GreaterOrEqual(t, len(got), 2)
	assert.Equal(t, "Second", got[0].Name, "ordered by start_date descending")
	assert.Equal(t, "First", got[1].Name)
}

func TestTripRepo_Update(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewTripRepo(tx)
	ctx := context.Background()

	created, err := r.Create(ctx, tripFixture())
	require.NoError(t, err)

	created.Name = "Renamed"
	created.EndDate = created.EndDate.AddDate(0, 0, 2)

	got, err := r.Update(ctx, created)

	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.True(t, got.EndDate.Equal(created.EndDate))
}

func TestTripRepo_Update_NotFound(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewTripRepo(tx)

	missing := tripFixture()
	missing.ID = domain.NewID()

	_, err := r.Update(context.Background(), missing)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripRepo_Delete_Cascades(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewTripRepo(tx)
	ctx := context.Background()

	seeded := seedTrip(t, tx, 1)

	require.NoError(t, r.Delete(ctx, seeded.ID))

	_, err := r.GetByID(ctx, seeded.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	var count int
	require.NoError(t, tx.QueryRow(ctx,
		`SELECT count(*) FROM stops WHERE trip_id = $1`, string(seeded.ID)).Scan(&count))
	assert.Zero(t, count, "stops cascade with the trip")
}

func TestTripRepo_Delete_NotFound(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewTripRepo(tx)

	err := r.Delete(context.Background(), domain.NewID())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
