package service_test

import (
	"context"

	"github.com/tripflow/backend/internal/domain"
	"github.com/tripflow/backend/internal/repo"
	"github.com/tripflow/backend/internal/routing"
)

// Hand-written test doubles for the repo and provider interfaces. Each
// method is a function field — set only the ones your test needs.

type mockTripRepo struct {
	create  func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID func(ctx context.Context, id domain.ID) (domain.Trip, error)
	list    func(ctx context.Context) ([]domain.Trip, error)
	update  func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	delete  func(ctx context.Context, id domain.ID) error
}

var _ repo.TripRepo = (*mockTripRepo)(nil)

func (m *mockTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.create(ctx, trip)
}
func (m *mockTripRepo) GetByID(ctx context.Context, id domain.ID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripRepo) List(ctx context.Context) ([]domain.Trip, error) {
	return m.list(ctx)
}
func (m *mockTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.update(ctx, trip)
}
func (m *mockTripRepo) Delete(ctx context.Context, id domain.ID) error {
	return m.delete(ctx, id)
}

type mockDayRepo struct {
	create func(ctx context.Context, day domain.Day) (domain.Day, error)
	delete func(ctx context.Context, tripID, dayID domain.ID) error
}

var _ repo.DayRepo = (*mockDayRepo)(nil)

func (m *mockDayRepo) Create(ctx context.Context, day domain.Day) (domain.Day, error) {
	return m.create(ctx, day)
}
func (m *mockDayRepo) Delete(ctx context.Context, tripID, dayID domain.ID) error {
	return m.delete(ctx, tripID, dayID)
}

type mockStopRepo struct {
	create func(ctx context.Context, stop domain.Stop) (domain.Stop, error)
	update func(ctx context.Context, stop domain.Stop) (domain.Stop, error)
	delete func(ctx context.Context, tripID, stopID domain.ID) error
}

var _ repo.StopRepo = (*mockStopRepo)(nil)

func (m *mockStopRepo) Create(ctx context.Context, stop domain.Stop) (domain.Stop, error) {
	return m.create(ctx, stop)
}
func (m *mockStopRepo) Update(ctx context.Context, stop domain.Stop) (domain.Stop, error) {
	return m.update(ctx, stop)
}
func (m *mockStopRepo) Delete(ctx context.Context, tripID, stopID domain.ID) error {
	return m.delete(ctx, tripID, stopID)
}

type mockReorderRepo struct {
	saveOrdering func(ctx context.Context, trip domain.Trip) error
}

var _ repo.ReorderRepo = (*mockReorderRepo)(nil)

func (m *mockReorderRepo) SaveOrdering(ctx context.Context, trip domain.Trip) error {
	return m.saveOrdering(ctx, trip)
}

type mockSettingsRepo struct {
	save        func(ctx context.Context, settings domain.Settings) (domain.Settings, error)
	getByTripID func(ctx context.Context, tripID domain.ID) (domain.Settings, error)
}

var _ repo.SettingsRepo = (*mockSettingsRepo)(nil)

func (m *mockSettingsRepo) Save(ctx context.Context, settings domain.Settings) (domain.Settings, error) {
	return m.save(ctx, settings)
}
func (m *mockSettingsRepo) GetByTripID(ctx context.Context, tripID domain.ID) (domain.Settings, error) {
	return m.getByTripID(ctx, tripID)
}

type mockTravelRepo struct {
	save        func(ctx context.Context, travel domain.Travel) error
	getByTripID func(ctx context.Context, tripID domain.ID) (domain.Travel, error)
}

var _ repo.TravelRepo = (*mockTravelRepo)(nil)

func (m *mockTravelRepo) Save(ctx context.Context, travel domain.Travel) error {
	return m.save(ctx, travel)
}
func (m *mockTravelRepo) GetByTripID(ctx context.Context, tripID domain.ID) (domain.Travel, error) {
	return m.getByTripID(ctx, tripID)
}

type mockMatrix struct {
	distanceMatrix func(ctx context.Context, stops []domain.Stop, settings domain.Settings) ([]routing.MatrixElement, error)
}

var _ routing.DistanceMatrixer = (*mockMatrix)(nil)

func (m *mockMatrix) DistanceMatrix(ctx context.Context, stops []domain.Stop, settings domain.Settings) ([]routing.MatrixElement, error) {
	return m.distanceMatrix(ctx, stops, settings)
}

type mockPlaces struct {
	search  func(ctx context.Context, query string) ([]routing.PlaceCandidate, error)
	details func(ctx context.Context, placeID string) (domain.PlaceDetails, error)
}

var _ routing.PlaceLookup = (*mockPlaces)(nil)

func (m *mockPlaces) Search(ctx context.Context, query string) ([]routing.PlaceCandidate, error) {
	return m.search(ctx, query)
}
func (m *mockPlaces) Details(ctx context.Context, placeID string) (domain.PlaceDetails, error) {
	return m.details(ctx, placeID)
}

// pairwise builds one matrix element per non-self ordered pair, with a
// fixed distance and duration.
func pairwise(stops []domain.Stop) []routing.MatrixElement {
	var els []routing.MatrixElement
	for oi := range stops {
		for di := range stops {
			if oi == di {
				continue
			}
			els = append(els, routing.MatrixElement{
				OriginIndex:      oi,
				DestinationIndex: di,
				DistanceMeters:   5000,
				Duration:         "300s",
				StaticDuration:   "300s",
				Condition:        routing.ConditionRouteExists,
			})
		}
	}
	return els
}
