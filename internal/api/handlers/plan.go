package handlers

import (
	"errors"
	"log"
	"net/http"

	"waste-route-service/internal/api/dto"
	"waste-route-service/internal/domain"
	"waste-route-service/internal/services"
)

// PlanHandler exposes the driver-facing route planning surface.
type PlanHandler struct {
	Planner *services.RoutePlanner
}

// Plan dispatches /plan by method: request a plan, read the current
// session state or clear the plan.
func (h *PlanHandler) Plan(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.create(w, r)
	case http.MethodGet:
		writeJSON(w, r, http.StatusOK, toPlanResponse(h.Planner.Plan()))
	case http.MethodDelete:
		h.Planner.ClearPlan()
		writeJSON(w, r, http.StatusOK, toPlanResponse(h.Planner.Plan()))
	default:
		w.Header().Set("Allow", "GET, POST, DELETE")
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *PlanHandler) create(w http.ResponseWriter, r *http.Request) {
	plan, err := h.Planner.RequestPlan(r.Context())

	var routingErr *domain.RoutingError
	switch {
	case err == nil:
		writeJSON(w, r, http.StatusOK, toPlanResponse(plan))
	case errors.Is(err, domain.ErrNoBins):
		writeError(w, r, http.StatusUnprocessableEntity, "no bins registered; report a bin first")
	case errors.Is(err, domain.ErrPlanInFlight),
		errors.Is(err, domain.ErrAlreadyPlanned),
		errors.Is(err, domain.ErrPlanSuperseded):
		writeError(w, r, http.StatusConflict, err.Error())
	case errors.As(err, &routingErr):
		log.Printf("route request failed: %v", err)
		writeError(w, r, http.StatusBadGateway, routingErr.Error())
	default:
		log.Printf("route request failed: %v", err)
		writeError(w, r, http.StatusBadGateway, "routing service unavailable")
	}
}

func toPlanResponse(plan domain.RoutePlan) dto.PlanResponse {
	res := dto.PlanResponse{Status: string(plan.Status)}

	if plan.Status != domain.PlanPlanned {
		return res
	}

	res.Stops = make([]dto.BinResponse, 0, len(plan.OrderedStops))
	for _, s := range plan.OrderedStops {
		res.Stops = append(res.Stops, toBinResponse(s))
	}
	if plan.Summary != nil {
		res.Summary = &dto.RouteSummaryResponse{
			DistanceKm:      plan.Summary.DistanceKm,
			DurationMinutes: plan.Summary.DurationMinutes,
		}
	}
	return res
}
