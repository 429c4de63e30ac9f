package services

import (
	"waste-route-service/internal/domain"
	"waste-route-service/internal/ports"
)

// BuildRouteRequest turns the current bin set plus the fixed depot into
// a multi-stop directions request.
//
// The destination is pinned to the last bin in insertion order — an
// explicit, arbitrary tie-break, not a geographic choice. The external
// service may reorder only the intermediate waypoints, so the route is
// waypoint-optimal conditional on that fixed endpoint rather than a
// free-endpoint solve. Duplicate coordinates are kept as-is: each bin
// is an independent pickup.
func BuildRouteRequest(bins []domain.BinRecord, depot domain.Coordinates) (ports.RouteRequest, error) {
	if len(bins) == 0 {
		return ports.RouteRequest{}, domain.ErrNoBins
	}

	last := bins[len(bins)-1]

	waypoints := make([]ports.Waypoint, 0, len(bins)-1)
	for _, b := range bins[:len(bins)-1] {
		waypoints = append(waypoints, ports.Waypoint{
			Coordinate: b.Coordinate,
			Stopover:   true,
		})
	}

	return ports.RouteRequest{
		Origin:            depot,
		Destination:       last.Coordinate,
		Waypoints:         waypoints,
		OptimizeWaypoints: true,
		Mode:              "driving",
	}, nil
}
