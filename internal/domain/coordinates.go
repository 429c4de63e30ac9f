package domain

import (
	"fmt"
	"math"
)

// Immutable geographic coordinates (latitude, longitude).
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether both components are finite real numbers.
func (c Coordinates) Valid() bool {
	return !math.IsNaN(c.Lat) && !math.IsInf(c.Lat, 0) &&
		!math.IsNaN(c.Lng) && !math.IsInf(c.Lng, 0)
}

// Return coordinates as "lat,lng" for external API compatibility.
func (c Coordinates) String() string {
	return fmt.Sprintf("%.6f,%.6f", c.Lat, c.Lng)
}

// PinnedLabel is the placeholder address used when reverse geocoding
// failed or was skipped.
func (c Coordinates) PinnedLabel() string {
	return fmt.Sprintf("Pinned: %.6f, %.6f", c.Lat, c.Lng)
}
