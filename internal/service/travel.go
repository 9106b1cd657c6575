package service

import (
	"context"
	"fmt"

	"github.com/tripflow/backend/internal/domain"
	"github.com/tripflow/backend/internal/repo"
	"github.com/tripflow/backend/internal/routing"
	"github.com/tripflow/backend/internal/travel"
)

// TravelService recomputes and persists the derived travel record for a
// trip. The record is always rebuilt from scratch — one batch matrix
// request for the full flattened stop sequence, then the per-stop
// projection — and saved with upsert-replace semantics.
type TravelService struct {
	travels  repo.TravelRepo
	settings repo.SettingsRepo
	matrix   routing.DistanceMatrixer
}

// NewTravelService constructs a TravelService.
func NewTravelService(travels repo.TravelRepo, settings repo.SettingsRepo, matrix routing.DistanceMatrixer) *TravelService {
	return &TravelService{travels: travels, settings: settings, matrix: matrix}
}

// Recompute rebuilds the travel record for the trip snapshot and persists
// it. With fewer than two stops the provider is not queried at all and an
// empty record is saved.
//
// A provider failure fails the whole recompute; no partial matrix is ever
// stored.
func (s *TravelService) Recompute(ctx context.Context, trip domain.Trip) (domain.Travel, error) {
	stops := trip.FlattenStops()

	if len(stops) < 2 {
		empty := domain.EmptyTravel(trip.ID)
		if err := s.travels.Save(ctx, empty); err != nil {
			return domain.Travel{}, fmt.Errorf("service.TravelService.Recompute: %w", err)
		}
		return empty, nil
	}

	settings, err := s.settings.GetByTripID(ctx, trip.ID)
	if err != nil {
		if !isNotFound(err) {
			return domain.Travel{}, fmt.Errorf("service.TravelService.Recompute: settings: %w", err)
		}
		settings = domain.DefaultSettings(trip.ID)
	}

	elements, err := s.matrix.DistanceMatrix(ctx, stops, settings)
	if err != nil {
		return domain.Travel{}, fmt.Errorf("service.TravelService.Recompute: %w", err)
	}

	record, err := travel.Build(trip.ID, stops, elements)
	if err != nil {
		return domain.Travel{}, fmt.Errorf("service.TravelService.Recompute: %w", err)
	}

	if err := s.travels.Save(ctx, record); err != nil {
		return domain.Travel{}, fmt.Errorf("service.TravelService.Recompute: %w", err)
	}
	return record, nil
}

// GetByTripID returns the stored travel record, or an empty record when
// none has been computed yet.
func (s *TravelService) GetByTripID(ctx context.Context, tripID domain.ID) (domain.Travel, error) {
	record, err := s.travels.GetByTripID(ctx, tripID)
	if err != nil {
		if isNotFound(err) {
			return domain.EmptyTravel(tripID), nil
		}
		return domain.Travel{}, fmt.Errorf("service.TravelService.GetByTripID: %w", err)
	}
	return record, nil
}
