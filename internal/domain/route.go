package domain

// PlanStatus enumerates the route plan lifecycle. Using an explicit
// enumeration (rather than independent boolean flags) makes invalid
// combinations unrepresentable.
type PlanStatus string

const (
	PlanUnplanned PlanStatus = "unplanned"
	PlanPlanning  PlanStatus = "planning"
	PlanPlanned   PlanStatus = "planned"
)

// Aggregate distance and duration of a planned route, in display units.
type RouteSummary struct {
	DistanceKm      float64
	DurationMinutes int
}

// Represents the derived, disposable result of optimizing a visiting
// order over the current bin set. A RoutePlan references bin records by
// value snapshot only; the registry remains the single source of truth
// and any bin-set mutation invalidates the plan.
type RoutePlan struct {
	Status       PlanStatus
	OrderedStops []BinRecord
	Summary      *RouteSummary
}
