package ports

import (
	"context"
	"errors"

	"waste-route-service/internal/domain"
)

// ErrNoAddress reports that the geocoder found no match for a coordinate.
var ErrNoAddress = errors.New("no address found for coordinate")

// Contract for resolving a coordinate to a human-readable address.
// Used only to populate display labels, never for routing decisions.
type Geocoder interface {
	// ReverseGeocode returns the best-match address for the coordinate,
	// or ErrNoAddress when the service reports no result.
	ReverseGeocode(ctx context.Context, coord domain.Coordinates) (string, error)
}
