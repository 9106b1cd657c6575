package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tripflow/backend/internal/domain"
)

// StopRepo defines the persistence operations for Stops.
// All write operations are scoped by tripID to enforce ownership.
// Position and day reassignment for many stops at once goes through
// ReorderRepo.
type StopRepo interface {
	// Create inserts a new stop and returns the persisted record with its
	// server-assigned ID. The caller resolves the pending ID afterwards.
	Create(ctx context.Context, stop domain.Stop) (domain.Stop, error)

	// Update overwrites the editable stop fields (custom name, event
	// category, cost), scoped to the given trip.
	// Returns domain.ErrNotFound if no such stop exists under that trip.
	Update(ctx context.Context, stop domain.Stop) (domain.Stop, error)

	// Delete removes a stop by ID, scoped to the given tripID.
	// Returns domain.ErrNotFound if no such stop exists under that trip.
	Delete(ctx context.Context, tripID, stopID domain.ID) error
}

// pgStopRepo is the Postgres implementation of StopRepo.
type pgStopRepo struct {
	db db
}

// NewStopRepo constructs a StopRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback
// isolation.
func NewStopRepo(db db) StopRepo {
	return &pgStopRepo{db: db}
}

func (r *pgStopRepo) Create(ctx context.Context, stop domain.Stop) (domain.Stop, error) {
	dayID, err := stop.DayID.UUID()
	if err != nil {
		return domain.Stop{}, fmt.Errorf("repo.StopRepo.Create: day: %w", domain.ErrNotFound)
	}
	tripID, err := stop.TripID.UUID()
	if err != nil {
		return domain.Stop{}, fmt.Errorf("repo.StopRepo.Create: trip: %w", domain.ErrNotFound)
	}

	const q = `
		INSERT INTO stops (day_id, trip_id, name, place_id, latitude, longitude,
		                   position, custom_name, stop_event, stop_cost)
		VALUES (@day_id, @trip_id, @name, @place_id, @latitude, @longitude,
		        @position, @custom_name, @stop_event, @stop_cost)
		RETURNING id, day_id, trip_id, name, place_id, latitude, longitude,
		          position, custom_name, stop_event, stop_cost`

	args := pgx.NamedArgs{
		"day_id":      dayID,
		"trip_id":     tripID,
		"name":        stop.Name,
		"place_id":    stop.PlaceID,
		"latitude":    stop.Latitude,
		"longitude":   stop.Longitude,
		"position":    stop.Order,
		"custom_name": stop.CustomName,
		"stop_event":  stop.Event,
		"stop_cost":   stop.Cost,
	}

	result, err := scanStop(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Stop{}, fmt.Errorf("repo.StopRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgStopRepo) Update(ctx context.Context, stop domain.Stop) (domain.Stop, error) {
	stopID, err := stop.ID.UUID()
	if err != nil {
		return domain.Stop{}, fmt.Errorf("repo.StopRepo.Update: %w", domain.ErrNotFound)
	}
	tripID, err := stop.TripID.UUID()
	if err != nil {
		return domain.Stop{}, fmt.Errorf("repo.StopRepo.Update: trip: %w", domain.ErrNotFound)
	}

	const q = `
		UPDATE stops
		SET custom_name = @custom_name,
		    stop_event  = @stop_event,
		    stop_cost   = @stop_cost
		WHERE id = @id AND trip_id = @trip_id
		RETURNING id, day_id, trip_id, name, place_id, latitude, longitude,
		          position, custom_name, stop_event, stop_cost`

	args := pgx.NamedArgs{
		"id":          stopID,
		"trip_id":     tripID,
		"custom_name": stop.CustomName,
		"stop_event":  stop.Event,
		"stop_cost":   stop.Cost,
	}

	result, err := scanStop(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Stop{}, fmt.Errorf("repo.StopRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgStopRepo) Delete(ctx context.Context, tripID, stopID domain.ID) error {
	tid, err := tripID.UUID()
	if err != nil {
		return fmt.Errorf("repo.StopRepo.Delete: %w", domain.ErrNotFound)
	}
	sid, err := stopID.UUID()
	if err != nil {
		return fmt.Errorf("repo.StopRepo.Delete: %w", domain.ErrNotFound)
	}

	const q = `DELETE FROM stops WHERE id = @id AND trip_id = @trip_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": sid, "trip_id": tid})
	if err != nil {
		return fmt.Errorf("repo.StopRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.StopRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}
