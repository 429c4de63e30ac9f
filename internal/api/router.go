package api

import (
	"net/http"

	"waste-route-service/internal/api/handlers"
	"waste-route-service/internal/ports"
	"waste-route-service/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(registry *services.BinRegistry, planner *services.RoutePlanner, geocoder ports.Geocoder) http.Handler {
	mux := http.NewServeMux()

	binHandler := &handlers.BinHandler{Registry: registry, Geocoder: geocoder}
	planHandler := &handlers.PlanHandler{Planner: planner}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/bins", binHandler.Bins)
	mux.HandleFunc("/bins/reload", binHandler.Reload)
	mux.HandleFunc("/plan", planHandler.Plan)

	return loggingMiddleware(mux)
}
