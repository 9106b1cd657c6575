// Package routing defines the external provider contracts the planner
// depends on — pairwise distance matrices and place lookup — plus the
// Google Maps implementation of both.
//
// The engine treats the matrix provider as a black box: one batch request
// for the full stop sequence, one error for the whole batch, no partial
// results.
package routing

import (
	"context"

	"github.com/tripflow/backend/internal/domain"
)

// MatrixElement is one directed origin→destination tuple of a distance
// matrix response. Indexes refer to positions in the stop sequence the
// request was built from; the same ordering must be used when projecting
// the result back onto stops.
//
// Durations arrive as strings with a trailing seconds suffix (e.g.
// "3600s"), matching the provider wire format; the travel package parses
// them to numeric seconds.
type MatrixElement struct {
	OriginIndex      int
	DestinationIndex int
	DistanceMeters   int
	Duration         string
	StaticDuration   string
	Condition        string
}

// Route conditions reported per matrix element.
const (
	ConditionRouteExists   = "ROUTE_EXISTS"
	ConditionRouteNotFound = "ROUTE_NOT_FOUND"
)

// DistanceMatrixer computes the full pairwise matrix for a stop sequence
// (origins == destinations == the sequence, in order). Implementations
// must return every ordered pair with OriginIndex != DestinationIndex, or
// an error for the whole batch — never a partial matrix.
type DistanceMatrixer interface {
	DistanceMatrix(ctx context.Context, stops []domain.Stop, settings domain.Settings) ([]MatrixElement, error)
}

// PlaceCandidate is one autocomplete suggestion for a free-text query.
type PlaceCandidate struct {
	PlaceID     string `json:"place_id"`
	Description string `json:"description"`
}

// PlaceLookup resolves free-text queries to candidate places and a chosen
// candidate to full coordinates. Consumed only by the add-stop flow.
type PlaceLookup interface {
	Search(ctx context.Context, query string) ([]PlaceCandidate, error)
	Details(ctx context.Context, placeID string) (domain.PlaceDetails, error)
}
