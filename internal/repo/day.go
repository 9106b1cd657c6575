package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tripflow/backend/internal/domain"
)

// DayRepo defines the persistence operations for Days.
// Date and position rewrites across many days go through ReorderRepo, not
// here, so they land in a single transaction.
type DayRepo interface {
	// Create inserts a new day and returns the persisted record with its
	// server-assigned ID. The caller resolves the pending ID afterwards.
	Create(ctx context.Context, day domain.Day) (domain.Day, error)

	// Delete removes a day by ID, scoped to the given tripID; its stops
	// cascade. Returns domain.ErrNotFound if no such day exists.
	Delete(ctx context.Context, tripID, dayID domain.ID) error
}

// pgDayRepo is the Postgres implementation of DayRepo.
type pgDayRepo struct {
	db db
}

// NewDayRepo constructs a DayRepo backed by the provided db connection.
func NewDayRepo(db db) DayRepo {
	return &pgDayRepo{db: db}
}

func (r *pgDayRepo) Create(ctx context.Context, day domain.Day) (domain.Day, error) {
	tripID, err := day.TripID.UUID()
	if err != nil {
		return domain.Day{}, fmt.Errorf("repo.DayRepo.Create: trip: %w", domain.ErrNotFound)
	}

	const q = `
		INSERT INTO days (trip_id, date, position)
		VALUES (@trip_id, @date, @position)
		RETURNING id, trip_id, date, position`

	args := pgx.NamedArgs{
		"trip_id":  tripID,
		"date":     day.Date,
		"position": day.Order,
	}

	result, err := scanDay(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Day{}, fmt.Errorf("repo.DayRepo.Create: %w", err)
	}
	result.Stops = []domain.Stop{}
	return result, nil
}

func (r *pgDayRepo) Delete(ctx context.Context, tripID, dayID domain.ID) error {
	tid, err := tripID.UUID()
	if err != nil {
		return fmt.Errorf("repo.DayRepo.Delete: %w", domain.ErrNotFound)
	}
	did, err := dayID.UUID()
	if err != nil {
		return fmt.Errorf("repo.DayRepo.Delete: %w", domain.ErrNotFound)
	}

	const q = `DELETE FROM days WHERE id = @id AND trip_id = @trip_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": did, "trip_id": tid})
	if err != nil {
		return fmt.Errorf("repo.DayRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.DayRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}
