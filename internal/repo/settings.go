package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/tripflow/backend/internal/domain"
)

// SettingsRepo persists per-trip display preferences, one row per trip.
type SettingsRepo interface {
	// Save creates or replaces the settings row for its trip.
	Save(ctx context.Context, settings domain.Settings) (domain.Settings, error)

	// GetByTripID returns the stored settings, or domain.ErrNotFound when
	// none have been saved for the trip.
	GetByTripID(ctx context.Context, tripID domain.ID) (domain.Settings, error)
}

// pgSettingsRepo is the Postgres implementation of SettingsRepo.
type pgSettingsRepo struct {
	db db
}

// NewSettingsRepo constructs a SettingsRepo backed by the provided db connection.
func NewSettingsRepo(db db) SettingsRepo {
	return &pgSettingsRepo{db: db}
}

func (r *pgSettingsRepo) Save(ctx context.Context, settings domain.Settings) (domain.Settings, error) {
	tripID, err := settings.TripID.UUID()
	if err != nil {
		return domain.Settings{}, fmt.Errorf("repo.SettingsRepo.Save: %w", domain.ErrNotFound)
	}

	const q = `
		INSERT INTO settings (trip_id, distance_unit, currency, fuel_cost, mpg,
		                      avoid_tolls, avoid_motorways, map_style)
		VALUES (@trip_id, @distance_unit, @currency, @fuel_cost, @mpg,
		        @avoid_tolls, @avoid_motorways, @map_style)
		ON CONFLICT (trip_id) DO UPDATE
		SET distance_unit   = excluded.distance_unit,
		    currency        = excluded.currency,
		    fuel_cost       = excluded.fuel_cost,
		    mpg             = excluded.mpg,
		    avoid_tolls     = excluded.avoid_tolls,
		    avoid_motorways = excluded.avoid_motorways,
		    map_style       = excluded.map_style
		RETURNING trip_id, distance_unit, currency, fuel_cost, mpg,
		          avoid_tolls, avoid_motorways, map_style`

	args := pgx.NamedArgs{
		"trip_id":         tripID,
		"distance_unit":   settings.DistanceUnit,
		"currency":        settings.Currency,
		"fuel_cost":       settings.FuelCost,
		"mpg":             settings.MPG,
		"avoid_tolls":     settings.AvoidTolls,
		"avoid_motorways": settings.AvoidMotorways,
		"map_style":       settings.MapStyle,
	}

	result, err := scanSettings(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Settings{}, fmt.Errorf("repo.SettingsRepo.Save: %w", err)
	}
	return result, nil
}

func (r *pgSettingsRepo) GetByTripID(ctx context.Context, tripID domain.ID) (domain.Settings, error) {
	tid, err := tripID.UUID()
	if err != nil {
		return domain.Settings{}, fmt.Errorf("repo.SettingsRepo.GetByTripID: %w", domain.ErrNotFound)
	}

	const q = `
		SELECT trip_id, distance_unit, currency, fuel_cost, mpg,
		       avoid_tolls, avoid_motorways, map_style
		FROM settings
		WHERE trip_id = @trip_id`

	result, err := scanSettings(r.db.QueryRow(ctx, q, pgx.NamedArgs{"trip_id": tid}))
	if err != nil {
		return domain.Settings{}, fmt.Errorf("repo.SettingsRepo.GetByTripID: %w", err)
	}
	return result, nil
}

func scanSettings(s scanner) (domain.Settings, error) {
	var (
		out    domain.Settings
		tripID pgtype.UUID
	)

	err := s.Scan(&tripID, &out.DistanceUnit, &out.Currency, &out.FuelCost,
		&out.MPG, &out.AvoidTolls, &out.AvoidMotorways, &out.MapStyle)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Settings{}, domain.ErrNotFound
		}
		return domain.Settings{}, err
	}

	out.TripID = domain.ID(uuid.UUID(tripID.Bytes).String())
	return out, nil
}
