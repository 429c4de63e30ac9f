package services

import (
	"context"
	"fmt"
	"math"
	"sync"

	"go.uber.org/atomic"

	"waste-route-service/internal/domain"
	"waste-route-service/internal/ports"
)

// RoutePlanner manages the Unplanned -> Planning -> Planned lifecycle
// of a single route-planning session.
//
// The plan is a derived, disposable view over the bin set: any registry
// mutation invalidates it back to Unplanned. Exactly one routing
// request may be in flight at a time; a second RequestPlan while
// Planning is rejected, not queued. There is no cancellation for an
// in-flight request — a ClearPlan or mutation simply bumps the plan
// generation so the eventual response is discarded on arrival.
type RoutePlanner struct {
	mu       sync.Mutex
	registry *BinRegistry
	provider ports.DirectionsProvider
	depot    domain.Coordinates

	status  domain.PlanStatus
	stops   []domain.BinRecord
	summary *domain.RouteSummary

	// gen increments on every transition that abandons an in-flight
	// request; a routing result is applied only if the generation it
	// was issued under is still current.
	gen atomic.Int64
}

func NewRoutePlanner(registry *BinRegistry, provider ports.DirectionsProvider, depot domain.Coordinates) *RoutePlanner {
	p := &RoutePlanner{
		registry: registry,
		provider: provider,
		depot:    depot,
		status:   domain.PlanUnplanned,
	}
	registry.OnMutate(p.Invalidate)
	return p
}

// RequestPlan builds a route request over the current bin set,
// delegates to the directions service and, if the session has not
// moved on meanwhile, transitions to Planned with an aggregate summary.
//
// Valid only from Unplanned: while Planning it reports ErrPlanInFlight
// and with a current plan ErrAlreadyPlanned, leaving state untouched.
func (p *RoutePlanner) RequestPlan(ctx context.Context) (domain.RoutePlan, error) {
	p.mu.Lock()
	switch p.status {
	case domain.PlanPlanning:
		p.mu.Unlock()
		return domain.RoutePlan{}, domain.ErrPlanInFlight
	case domain.PlanPlanned:
		p.mu.Unlock()
		return domain.RoutePlan{}, domain.ErrAlreadyPlanned
	}

	bins := p.registry.List()
	req, err := BuildRouteRequest(bins, p.depot)
	if err != nil {
		p.mu.Unlock()
		return domain.RoutePlan{}, err
	}

	p.status = domain.PlanPlanning
	myGen := p.gen.Inc()
	p.mu.Unlock()

	// The round trip to the directions service happens without the
	// lock so the rest of the interface stays responsive.
	result, routeErr := p.provider.Route(ctx, req)

	p.mu.Lock()
	defer p.mu.Unlock()

	// Stale-response guard: the session may have been cleared or the
	// bin set mutated while the request was in flight.
	if p.status != domain.PlanPlanning || p.gen.Load() != myGen {
		return p.planLocked(), domain.ErrPlanSuperseded
	}

	if routeErr != nil {
		p.status = domain.PlanUnplanned
		return p.planLocked(), fmt.Errorf("request plan: %w", routeErr)
	}

	stops, sumErr := orderStops(bins, result)
	if sumErr != nil {
		p.status = domain.PlanUnplanned
		return p.planLocked(), fmt.Errorf("request plan: %w", sumErr)
	}

	p.stops = stops
	p.summary = summarize(result.Legs)
	p.status = domain.PlanPlanned
	return p.planLocked(), nil
}

// ClearPlan discards the ordered stops and summary and returns to
// Unplanned. Valid from Planned or Planning; a no-op when already
// Unplanned. It never touches the bin registry.
func (p *RoutePlanner) ClearPlan() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.status == domain.PlanUnplanned {
		return
	}

	p.gen.Inc()
	p.status = domain.PlanUnplanned
	p.stops = nil
	p.summary = nil
}

// Invalidate resets the session after a bin-set mutation. Registered
// as the registry's mutation hook.
func (p *RoutePlanner) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.status == domain.PlanUnplanned {
		return
	}

	p.gen.Inc()
	p.status = domain.PlanUnplanned
	p.stops = nil
	p.summary = nil
}

// Plan returns a snapshot of the current session state.
func (p *RoutePlanner) Plan() domain.RoutePlan {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.planLocked()
}

func (p *RoutePlanner) planLocked() domain.RoutePlan {
	plan := domain.RoutePlan{Status: p.status}
	if p.status != domain.PlanPlanned {
		return plan
	}

	plan.OrderedStops = make([]domain.BinRecord, len(p.stops))
	copy(plan.OrderedStops, p.stops)
	if p.summary != nil {
		s := *p.summary
		plan.Summary = &s
	}
	return plan
}

// orderStops applies the service's optimized waypoint order to the
// request's bins. The destination bin stays last; the returned order
// must be a permutation over the intermediate waypoints.
func orderStops(bins []domain.BinRecord, result ports.RouteResult) ([]domain.BinRecord, error) {
	if len(result.Legs) == 0 {
		return nil, &domain.RoutingError{Status: "EMPTY_RESPONSE"}
	}

	last := bins[len(bins)-1]
	intermediates := bins[:len(bins)-1]

	order := result.WaypointOrder
	if order == nil {
		// Some responses omit the order when nothing was reordered.
		order = make([]int, len(intermediates))
		for i := range order {
			order[i] = i
		}
	}

	if len(order) != len(intermediates) {
		return nil, &domain.RoutingError{Status: "BAD_WAYPOINT_ORDER"}
	}

	seen := make(map[int]struct{}, len(order))
	stops := make([]domain.BinRecord, 0, len(bins))
	for _, idx := range order {
		if idx < 0 || idx >= len(intermediates) {
			return nil, &domain.RoutingError{Status: "BAD_WAYPOINT_ORDER"}
		}
		if _, dup := seen[idx]; dup {
			return nil, &domain.RoutingError{Status: "BAD_WAYPOINT_ORDER"}
		}
		seen[idx] = struct{}{}
		stops = append(stops, intermediates[idx])
	}

	return append(stops, last), nil
}

// summarize converts summed leg metrics into display units: kilometers
// rounded to two decimals and whole rounded minutes.
func summarize(legs []ports.RouteLeg) *domain.RouteSummary {
	var meters, seconds int
	for _, leg := range legs {
		meters += leg.DistanceMeters
		seconds += leg.DurationSeconds
	}

	return &domain.RouteSummary{
		DistanceKm:      math.Round(float64(meters)/1000*100) / 100,
		DurationMinutes: int(math.Round(float64(seconds) / 60)),
	}
}
