package ports

import (
	"context"

	"waste-route-service/internal/domain"
)

// An intermediate stop the route must visit; order is decided by the
// external service, not the caller.
type Waypoint struct {
	Coordinate domain.Coordinates
	Stopover   bool
}

// RouteRequest is the multi-stop request sent to the directions service.
// The origin and destination are fixed; when OptimizeWaypoints is set
// the service may reorder the intermediate waypoints only.
type RouteRequest struct {
	Origin            domain.Coordinates
	Destination       domain.Coordinates
	Waypoints         []Waypoint
	OptimizeWaypoints bool
	Mode              string
}

// Distance and travel duration of a single route leg.
type RouteLeg struct {
	DistanceMeters  int
	DurationSeconds int
}

// RouteResult is the validated success payload of a directions call.
// WaypointOrder holds indices into the request's Waypoints slice in
// optimized visiting order.
type RouteResult struct {
	WaypointOrder []int
	Legs          []RouteLeg
}

// Contract for computing a multi-stop route via an external service.
type DirectionsProvider interface {
	// Route returns the optimized leg sequence for the request.
	// Service failures are reported as *domain.RoutingError.
	Route(ctx context.Context, req RouteRequest) (RouteResult, error)
}
