package app

import (
	"github.com/gorilla/mux"
	"github.com/runwayclock/runwayclock/internal/config"
	"github.com/runwayclock/runwayclock/pkg/clock"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Clock
	r.HandleFunc("/api/clock", deps.ClockHandler.SaveClock).Methods("POST")
	r.HandleFunc("/api/clock", deps.ClockHandler.GetOwnClock).Methods("GET")
	if deps.ClockCapacity == clock.CapacityMultiple {
		r.HandleFunc("/api/clock/all", deps.ClockHandler.ListClocks).Methods("GET")
	}
	r.HandleFunc("/api/clock/{clockId}", deps.ClockHandler.GetClock).Methods("GET")
	r.HandleFunc("/api/clock/{clockId}/reset", deps.ClockHandler.ResetClock).Methods("POST")
	r.HandleFunc("/api/clock/{clockId}", deps.ClockHandler.DeleteClock).Methods("DELETE")

	// Public clock (no identity required, used by the embeddable widget)
	r.HandleFunc("/api/public/clock/{clockId}", deps.ClockHandler.GetPublicClock).Methods("GET")

	// Scenario
	r.HandleFunc("/api/scenario", deps.ScenarioHandler.SaveScenario).Methods("POST")
	r.HandleFunc("/api/scenario/{scenarioId}", deps.ScenarioHandler.GetScenario).Methods("GET")

	// Runway preview (stateless calculation)
	r.HandleFunc("/api/runway/preview", deps.RunwayHandler.Preview).Methods("POST")
}
