package directions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"waste-route-service/internal/domain"
	"waste-route-service/internal/platform/obs"
	"waste-route-service/internal/ports"
)

type directionsResponse struct {
	Status string `json:"status"`
	Routes []struct {
		WaypointOrder []int `json:"waypoint_order"`
		Legs          []struct {
			Distance struct {
				Value int `json:"value"`
			} `json:"distance"`
			Duration struct {
				Value int `json:"value"`
			} `json:"duration"`
		} `json:"legs"`
	} `json:"routes"`
}

// Route computes an optimized multi-stop route via the directions API.
// The service may reorder the intermediate waypoints but never the
// origin or destination. Non-OK service statuses are reported as
// *domain.RoutingError.
func (g *GoogleMapsProvider) Route(
	ctx context.Context,
	req ports.RouteRequest,
) (_ ports.RouteResult, err error) {
	defer obs.Time(ctx, "directions.Route")(&err)

	endpoint := g.baseURL + "/maps/api/directions/json"

	q := url.Values{}
	q.Set("origin", req.Origin.String())
	q.Set("destination", req.Destination.String())
	q.Set("mode", req.Mode)
	q.Set("key", g.apiKey)

	if len(req.Waypoints) > 0 {
		parts := make([]string, 0, 1+len(req.Waypoints))
		if req.OptimizeWaypoints {
			parts = append(parts, "optimize:true")
		}
		for _, w := range req.Waypoints {
			// Stopovers are the default; "via:" marks pass-through points.
			prefix := ""
			if !w.Stopover {
				prefix = "via:"
			}
			parts = append(parts, prefix+w.Coordinate.String())
		}
		q.Set("waypoints", strings.Join(parts, "|"))
	}

	httpReq, err := g.newRequest(ctx, endpoint+"?"+q.Encode())
	if err != nil {
		return ports.RouteResult{}, fmt.Errorf("directions request: %w", err)
	}

	resp, err := g.do(httpReq)
	if err != nil {
		var he *httpStatusError
		if errors.As(err, &he) {
			return ports.RouteResult{}, &domain.RoutingError{Status: fmt.Sprintf("HTTP_%d", he.Code)}
		}
		return ports.RouteResult{}, fmt.Errorf("directions request: %w", err)
	}
	defer resp.Body.Close()

	var decoded directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return ports.RouteResult{}, &domain.RoutingError{Status: "MALFORMED_RESPONSE"}
	}

	if decoded.Status != "OK" {
		return ports.RouteResult{}, &domain.RoutingError{Status: decoded.Status}
	}

	if len(decoded.Routes) == 0 || len(decoded.Routes[0].Legs) == 0 {
		return ports.RouteResult{}, &domain.RoutingError{Status: "EMPTY_RESPONSE"}
	}

	route := decoded.Routes[0]
	legs := make([]ports.RouteLeg, 0, len(route.Legs))
	for _, l := range route.Legs {
		legs = append(legs, ports.RouteLeg{
			DistanceMeters:  l.Distance.Value,
			DurationSeconds: l.Duration.Value,
		})
	}

	return ports.RouteResult{
		WaypointOrder: route.WaypointOrder,
		Legs:          legs,
	}, nil
}
