// Package service contains the business logic for the trip planner API.
// Services validate inputs, enforce business rules, and orchestrate repo,
// engine, and provider calls. No SQL lives here — services depend on repo
// interfaces, not implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tripflow/backend/internal/domain"
	"github.com/tripflow/backend/internal/repo"
)

// TripService implements create/read/update/delete for trips and their
// per-trip settings. Structural itinerary edits live on PlannerService.
type TripService struct {
	trips    repo.TripRepo
	days     repo.DayRepo
	settings repo.SettingsRepo
}

// NewTripService constructs a TripService backed by the provided repos.
func NewTripService(trips repo.TripRepo, days repo.DayRepo, settings repo.SettingsRepo) *TripService {
	return &TripService{trips: trips, days: days, settings: settings}
}

// Create persists a new trip spanning the inclusive [from, to] date range,
// with one empty day per date. Returns domain.ErrValidation for an empty
// name or an inverted range.
func (s *TripService) Create(ctx context.Context, name string, from, to time.Time) (domain.Trip, error) {
	if strings.TrimSpace(name) == "" {
		return domain.Trip{}, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	from = domain.TruncateToDate(from)
	to = domain.TruncateToDate(to)
	dayCount := domain.DaysBetween(from, to) + 1
	if dayCount < 1 {
		return domain.Trip{}, fmt.Errorf("%w: end date must not be before start date", domain.ErrValidation)
	}

	trip, err := s.trips.Create(ctx, domain.Trip{Name: name, StartDate: from, EndDate: to})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}

	trip.Days = make([]domain.Day, 0, dayCount)
	for i := 0; i < dayCount; i++ {
		day, err := s.days.Create(ctx, domain.Day{
			TripID: trip.ID,
			Date:   from.AddDate(0, 0, i),
			Order:  i,
		})
		if err != nil {
			return domain.Trip{}, fmt.Errorf("service.TripService.Create: day %d: %w", i, err)
		}
		trip.Days = append(trip.Days, day)
	}

	if _, err := s.settings.Save(ctx, domain.DefaultSettings(trip.ID)); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: settings: %w", err)
	}
	return trip, nil
}

// GetByID returns the full trip aggregate.
func (s *TripService) GetByID(ctx context.Context, id domain.ID) (domain.Trip, error) {
	trip, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return trip, nil
}

// List returns all trips without their day lists.
// Always returns a non-nil slice so callers can safely range over it.
func (s *TripService) List(ctx context.Context) ([]domain.Trip, error) {
	trips, err := s.trips.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.List: %w", err)
	}
	if trips == nil {
		return []domain.Trip{}, nil
	}
	return trips, nil
}

// Rename updates the trip's name.
func (s *TripService) Rename(ctx context.Context, id domain.ID, name string) (domain.Trip, error) {
	if strings.TrimSpace(name) == "" {
		return domain.Trip{}, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	trip, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Rename: %w", err)
	}
	trip.Name = name
	updated, err := s.trips.Update(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Rename: %w", err)
	}
	return updated, nil
}

// Delete removes a trip; days, stops, settings, and the travel record
// cascade with it.
func (s *TripService) Delete(ctx context.Context, id domain.ID) error {
	if err := s.trips.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}

// Settings returns the trip's settings, falling back to defaults when none
// have been saved yet.
func (s *TripService) Settings(ctx context.Context, tripID domain.ID) (domain.Settings, error) {
	settings, err := s.settings.GetByTripID(ctx, tripID)
	if err != nil {
		if isNotFound(err) {
			return domain.DefaultSettings(tripID), nil
		}
		return domain.Settings{}, fmt.Errorf("service.TripService.Settings: %w", err)
	}
	return settings, nil
}

// UpdateSettings validates and persists the trip's settings.
func (s *TripService) UpdateSettings(ctx context.Context, settings domain.Settings) (domain.Settings, error) {
	switch settings.DistanceUnit {
	case "km", "mi":
	default:
		return domain.Settings{}, fmt.Errorf("%w: distance unit must be \"km\" or \"mi\"", domain.ErrValidation)
	}
	if _, err := s.trips.GetByID(ctx, settings.TripID); err != nil {
		return domain.Settings{}, fmt.Errorf("service.TripService.UpdateSettings: %w", err)
	}
	saved, err := s.settings.Save(ctx, settings)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("service.TripService.UpdateSettings: %w", err)
	}
	return saved, nil
}

// isNotFound reports whether err wraps domain.ErrNotFound.
func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
