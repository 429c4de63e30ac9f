package dto

type RouteSummaryResponse struct {
	DistanceKm      float64 `json:"distance_km"`
	DurationMinutes int     `json:"duration_minutes"`
}

type PlanResponse struct {
	Status  string                `json:"status"`
	Stops   []BinResponse         `json:"stops,omitempty"`
	Summary *RouteSummaryResponse `json:"summary,omitempty"`
}
