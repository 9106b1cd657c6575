package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tripflow/backend/internal/domain"
)

// TravelRepo persists the derived travel record, one row per trip.
// The record is written with upsert-replace semantics: Save overwrites the
// whole document, never merging — the travel record is entirely derived
// and is rebuilt from scratch on every recompute.
type TravelRepo interface {
	// Save creates or fully replaces the travel record for its trip.
	Save(ctx context.Context, travel domain.Travel) error

	// GetByTripID returns the stored record, or domain.ErrNotFound when
	// no record has been saved for the trip yet.
	GetByTripID(ctx context.Context, tripID domain.ID) (domain.Travel, error)
}

// pgTravelRepo stores travel records as a JSONB document keyed by trip.
// The record is read and replaced wholesale, never queried into, so a
// document column beats a normalized pair table here.
type pgTravelRepo struct {
	db db
}

// NewTravelRepo constructs a TravelRepo backed by the provided db connection.
func NewTravelRepo(db db) TravelRepo {
	return &pgTravelRepo{db: db}
}

func (r *pgTravelRepo) Save(ctx context.Context, travel domain.Travel) error {
	tripID, err := travel.TripID.UUID()
	if err != nil {
		return fmt.Errorf("repo.TravelRepo.Save: %w", domain.ErrNotFound)
	}

	doc, err := json.Marshal(travel.Travels)
	if err != nil {
		return fmt.Errorf("repo.TravelRepo.Save: marshal: %w", err)
	}

	const q = `
		INSERT INTO travels (trip_id, data, updated_at)
		VALUES (@trip_id, @data, now())
		ON CONFLICT (trip_id) DO UPDATE
		SET data = excluded.data, updated_at = now()`

	if _, err := r.db.Exec(ctx, q, pgx.NamedArgs{"trip_id": tripID, "data": doc}); err != nil {
		return fmt.Errorf("repo.TravelRepo.Save: %w", err)
	}
	return nil
}

func (r *pgTravelRepo) GetByTripID(ctx context.Context, tripID domain.ID) (domain.Travel, error) {
	tid, err := tripID.UUID()
	if err != nil {
		return domain.Travel{}, fmt.Errorf("repo.TravelRepo.GetByTripID: %w", domain.ErrNotFound)
	}

	const q = `SELECT data FROM travels WHERE trip_id = @trip_id`

	var doc []byte
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"trip_id": tid}).Scan(&doc); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Travel{}, fmt.Errorf("repo.TravelRepo.GetByTripID: %w", domain.ErrNotFound)
		}
		return domain.Travel{}, fmt.Errorf("repo.TravelRepo.GetByTripID: %w", err)
	}

	travel := domain.EmptyTravel(tripID)
	if err := json.Unmarshal(doc, &travel.Travels); err != nil {
		return domain.Travel{}, fmt.Errorf("repo.TravelRepo.GetByTripID: unmarshal: %w", err)
	}
	return travel, nil
}
