// Package repo contains all database access logic for the trip planner.
// Each resource has its own file with an interface and a Postgres
// implementation. No business logic lives here — only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/tripflow/backend/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and
// pgx.Tx. Accepting this interface instead of *pgxpool.Pool directly
// allows integration tests to pass a transaction that is rolled back after
// each test, giving free per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TripRepo defines the persistence operations for Trips.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type TripRepo interface {
	// Create inserts a new trip row (days are created separately via
	// DayRepo) and returns the persisted record with DB-generated fields.
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID retrieves the full trip aggregate: the trip row plus its
	// days in date order, each with its stops in position order.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id domain.ID) (domain.Trip, error)

	// List returns all trip rows (without days) ordered by start_date
	// descending.
	List(ctx context.Context) ([]domain.Trip, error)

	// Update overwrites the mutable trip fields (name, start/end dates)
	// and returns the updated row without days.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// Delete removes a trip by ID; days, stops, settings, and the travel
	// record cascade. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id domain.ID) error
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback
// isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		INSERT INTO trips (name, start_date, end_date)
		VALUES (@name, @start_date, @end_date)
		RETURNING id, name, start_date, end_date, created_at, updated_at`

	args := pgx.NamedArgs{
		"name":       trip.Name,
		"start_date": trip.StartDate,
		"end_date":   trip.EndDate,
	}

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) GetByID(ctx context.Context, id domain.ID) (domain.Trip, error) {
	tripID, err := id.UUID()
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", domain.ErrNotFound)
	}

	const q = `
		SELECT id, name, start_date, end_date, created_at, updated_at
		FROM trips
		WHERE id = @id`

	trip, err := scanTrip(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": tripID}))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}

	trip.Days, err = r.loadDays(ctx, tripID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return trip, nil
}

// loadDays hydrates the day list with stops for a trip, ordered by the
// stored positions.
func (r *pgTripRepo) loadDays(ctx context.Context, tripID uuid.UUID) ([]domain.Day, error) {
	const dayQ = `
		SELECT id, trip_id, date, position
		FROM days
		WHERE trip_id = @trip_id
		ORDER BY position`

	rows, err := r.db.Query(ctx, dayQ, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("days: %w", err)
	}
	defer rows.Close()

	var days []domain.Day
	byID := map[domain.ID]int{}
	for rows.Next() {
		d, err := scanDay(rows)
		if err != nil {
			return nil, fmt.Errorf("days: scan: %w", err)
		}
		d.Stops = []domain.Stop{}
		byID[d.ID] = len(days)
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("days: rows: %w", err)
	}

	const stopQ = `
		SELECT id, day_id, trip_id, name, place_id, latitude, longitude,
		       position, custom_name, stop_event, stop_cost
		FROM stops
		WHERE trip_id = @trip_id
		ORDER BY day_id, position`

	stopRows, err := r.db.Query(ctx, stopQ, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("stops: %w", err)
	}
	defer stopRows.Close()

	for stopRows.Next() {
		s, err := scanStop(stopRows)
		if err != nil {
			return nil, fmt.Errorf("stops: scan: %w", err)
		}
		if i, ok := byID[s.DayID]; ok {
			days[i].Stops = append(days[i].Stops, s)
		}
	}
	if err := stopRows.Err(); err != nil {
		return nil, fmt.Errorf("stops: rows: %w", err)
	}

	return days, nil
}

func (r *pgTripRepo) List(ctx context.Context) ([]domain.Trip, error) {
	const q = `
		SELECT id, name, start_date, end_date, created_at, updated_at
		FROM trips
		ORDER BY start_date DESC`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.List: %w", err)
	}
	defer rows.Close()

	var trips []domain.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TripRepo.List: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TripRepo.List: rows: %w", err)
	}

	return trips, nil
}

func (r *pgTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	tripID, err := trip.ID.UUID()
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", domain.ErrNotFound)
	}

	const q = `
		UPDATE trips
		SET name       = @name,
		    start_date = @start_date,
		    end_date   = @end_date,
		    updated_at = now()
		WHERE id = @id
		RETURNING id, name, start_date, end_date, created_at, updated_at`

	args := pgx.NamedArgs{
		"id":         tripID,
		"name":       trip.Name,
		"start_date": trip.StartDate,
		"end_date":   trip.EndDate,
	}

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) Delete(ctx context.Context, id domain.ID) error {
	tripID, err := id.UUID()
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}

	tag, err := r.db.Exec(ctx, `DELETE FROM trips WHERE id = @id`, pgx.NamedArgs{"id": tripID})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan
// helpers to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanTrip maps a single database row into a domain.Trip (without days).
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t     domain.Trip
		id    pgtype.UUID
		start pgtype.Date
		end   pgtype.Date
	)

	err := s.Scan(&id, &t.Name, &start, &end, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.ID = domain.ID(uuid.UUID(id.Bytes).String())
	t.StartDate = start.Time
	t.EndDate = end.Time
	return t, nil
}

// scanDay maps a single database row into a domain.Day (without stops).
func scanDay(s scanner) (domain.Day, error) {
	var (
		d      domain.Day
		id     pgtype.UUID
		tripID pgtype.UUID
		date   pgtype.Date
	)

	err := s.Scan(&id, &tripID, &date, &d.Order)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Day{}, domain.ErrNotFound
		}
		return domain.Day{}, err
	}

	d.ID = domain.ID(uuid.UUID(id.Bytes).String())
	d.TripID = domain.ID(uuid.UUID(tripID.Bytes).String())
	d.Date = date.Time
	return d, nil
}

// scanStop maps a single database row into a domain.Stop.
func scanStop(s scanner) (domain.Stop, error) {
	var (
		st     domain.Stop
		id     pgtype.UUID
		dayID  pgtype.UUID
		tripID pgtype.UUID
	)

	err := s.Scan(&id, &dayID, &tripID, &st.Name, &st.PlaceID, &st.Latitude,
		&st.Longitude, &st.Order, &st.CustomName, &st.Event, &st.Cost)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Stop{}, domain.ErrNotFound
		}
		return domain.Stop{}, err
	}

	st.ID = domain.ID(uuid.UUID(id.Bytes).String())
	st.DayID = domain.ID(uuid.UUID(dayID.Bytes).String())
	st.TripID = domain.ID(uuid.UUID(tripID.Bytes).String())
	return st, nil
}
