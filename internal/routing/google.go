package routing

import (
	"context"
	"fmt"
	"strings"

	"googlemaps.github.io/maps"

	"github.com/tripflow/backend/internal/domain"
)

// GoogleProvider implements DistanceMatrixer and PlaceLookup on top of the
// Google Maps Web Service APIs.
type GoogleProvider struct {
	client *maps.Client
}

// NewGoogleProvider builds a provider from an API key.
func NewGoogleProvider(apiKey string) (*GoogleProvider, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("routing.NewGoogleProvider: %w", err)
	}
	return &GoogleProvider{client: client}, nil
}

// DistanceMatrix requests the full pairwise matrix for the stop sequence,
// using each stop's coordinates as both origin and destination set.
// Trip settings map onto route modifiers (avoid tolls / motorways).
//
// The whole batch fails as one: any transport or status error is returned
// with the provider's message and no elements.
func (p *GoogleProvider) DistanceMatrix(ctx context.Context, stops []domain.Stop, settings domain.Settings) ([]MatrixElement, error) {
	coords := make([]string, len(stops))
	for i, s := range stops {
		coords[i] = fmt.Sprintf("%f,%f", s.Latitude, s.Longitude)
	}

	req := &maps.DistanceMatrixRequest{
		Origins:       coords,
		Destinations:  coords,
		Mode:          maps.TravelModeDriving,
		DepartureTime: "now", // enables duration_in_traffic
	}
	if avoid := avoidParam(settings); avoid != "" {
		req.Avoid = maps.Avoid(avoid)
	}

	resp, err := p.client.DistanceMatrix(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("routing.GoogleProvider.DistanceMatrix: %w", err)
	}

	var elements []MatrixElement
	for oi, row := range resp.Rows {
		for di, el := range row.Elements {
			if oi == di {
				continue
			}
			m := MatrixElement{
				OriginIndex:      oi,
				DestinationIndex: di,
				Condition:        ConditionRouteNotFound,
			}
			if el.Status == "OK" {
				live := el.Duration
				if el.DurationInTraffic > 0 {
					live = el.DurationInTraffic
				}
				m.DistanceMeters = el.Distance.Meters
				m.Duration = fmt.Sprintf("%ds", int64(live.Seconds()))
				m.StaticDuration = fmt.Sprintf("%ds", int64(el.Duration.Seconds()))
				m.Condition = ConditionRouteExists
			}
			elements = append(elements, m)
		}
	}
	return elements, nil
}

// avoidParam joins the settings' avoidance flags into the pipe-separated
// form the Distance Matrix API expects.
func avoidParam(settings domain.Settings) string {
	var parts []string
	if settings.AvoidTolls {
		parts = append(parts, string(maps.AvoidTolls))
	}
	if settings.AvoidMotorways {
		parts = append(parts, string(maps.AvoidHighways))
	}
	return strings.Join(parts, "|")
}

// Search resolves a free-text query to place candidates via autocomplete.
func (p *GoogleProvider) Search(ctx context.Context, query string) ([]PlaceCandidate, error) {
	resp, err := p.client.PlaceAutocomplete(ctx, &maps.PlaceAutocompleteRequest{Input: query})
	if err != nil {
		return nil, fmt.Errorf("routing.GoogleProvider.Search: %w", err)
	}
	candidates := make([]PlaceCandidate, 0, len(resp.Predictions))
	for _, pred := range resp.Predictions {
		candidates = append(candidates, PlaceCandidate{
			PlaceID:     pred.PlaceID,
			Description: pred.Description,
		})
	}
	return candidates, nil
}

// Details resolves a place ID to its name and coordinates.
func (p *GoogleProvider) Details(ctx context.Context, placeID string) (domain.PlaceDetails, error) {
	result, err := p.client.PlaceDetails(ctx, &maps.PlaceDetailsRequest{PlaceID: placeID})
	if err != nil {
		return domain.PlaceDetails{}, fmt.Errorf("routing.GoogleProvider.Details: %w", err)
	}
	return domain.PlaceDetails{
		PlaceID:   result.PlaceID,
		Name:      result.Name,
		Latitude:  result.Geometry.Location.Lat,
		Longitude: result.Geometry.Location.Lng,
	}, nil
}

// compile-time interface checks
var (
	_ DistanceMatrixer = (*GoogleProvider)(nil)
	_ PlaceLookup      = (*GoogleProvider)(nil)
)
