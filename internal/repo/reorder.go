package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tripflow/backend/internal/domain"
)

// txBeginner is the subset of *pgxpool.Pool (and pgx.Tx, which supports
// nested transactions) needed to open a transaction.
type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// ReorderRepo persists a full ordering rewrite for a trip: every day's
// date and position plus every stop's day assignment and position, applied
// as one all-or-nothing transaction. This is the atomic bulk-reorder
// operation structural mutations settle through — a partially applied
// reorder would break the dense-ordering and date-contiguity invariants
// for every other reader.
type ReorderRepo interface {
	// SaveOrdering writes the ordering of the given snapshot. Every day
	// and stop in the snapshot must already have a confirmed ID; rows not
	// present in the snapshot are left untouched.
	SaveOrdering(ctx context.Context, trip domain.Trip) error
}

// pgReorderRepo is the Postgres implementation of ReorderRepo.
type pgReorderRepo struct {
	db txBeginner
}

// NewReorderRepo constructs a ReorderRepo backed by the provided pool
// (or transaction, in tests).
func NewReorderRepo(db txBeginner) ReorderRepo {
	return &pgReorderRepo{db: db}
}

func (r *pgReorderRepo) SaveOrdering(ctx context.Context, trip domain.Trip) error {
	tripID, err := trip.ID.UUID()
	if err != nil {
		return fmt.Errorf("repo.ReorderRepo.SaveOrdering: %w", domain.ErrNotFound)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repo.ReorderRepo.SaveOrdering: begin: %w", err)
	}
	defer tx.Rollback(ctx) // no-op after Commit

	const tripQ = `
		UPDATE trips
		SET start_date = @start_date, end_date = @end_date, updated_at = now()
		WHERE id = @id`
	if _, err := tx.Exec(ctx, tripQ, pgx.NamedArgs{
		"id":         tripID,
		"start_date": trip.StartDate,
		"end_date":   trip.EndDate,
	}); err != nil {
		return fmt.Errorf("repo.ReorderRepo.SaveOrdering: trip: %w", err)
	}

	const dayQ = `
		UPDATE days
		SET date = @date, position = @position
		WHERE id = @id AND trip_id = @trip_id`
	const stopQ = `
		UPDATE stops
		SET day_id = @day_id, position = @position
		WHERE id = @id AND trip_id = @trip_id`

	// Batch every row update into one round trip.
	batch := &pgx.Batch{}
	for _, day := range trip.Days {
		dayID, err := day.ID.UUID()
		if err != nil {
			return fmt.Errorf("repo.ReorderRepo.SaveOrdering: day %s has no confirmed id", day.ID)
		}
		batch.Queue(dayQ, pgx.NamedArgs{
			"id":       dayID,
			"trip_id":  tripID,
			"date":     day.Date,
			"position": day.Order,
		})
		for _, stop := range day.Stops {
			stopID, err := stop.ID.UUID()
			if err != nil {
				return fmt.Errorf("repo.ReorderRepo.SaveOrdering: stop %s has no confirmed id", stop.ID)
			}
			batch.Queue(stopQ, pgx.NamedArgs{
				"id":       stopID,
				"trip_id":  tripID,
				"day_id":   dayID,
				"position": stop.Order,
			})
		}
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("repo.ReorderRepo.SaveOrdering: batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("repo.ReorderRepo.SaveOrdering: commit: %w", err)
	}
	return nil
}
