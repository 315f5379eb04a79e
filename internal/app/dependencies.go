package app

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/runwayclock/runwayclock/internal/config"
	"github.com/runwayclock/runwayclock/internal/utils"
	"github.com/runwayclock/runwayclock/pkg/clock"
	"github.com/runwayclock/runwayclock/pkg/runway"
	"github.com/runwayclock/runwayclock/pkg/scenario"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	ClockCapacity clock.Capacity

	ClockRepo    clock.Repository
	ClockService clock.Service
	ClockHandler *clock.Handler

	ScenarioRepo    scenario.Repository
	ScenarioService scenario.Service
	ScenarioHandler *scenario.Handler

	RunwayHandler *runway.Handler

	Clock utils.Clock
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *pgxpool.Pool, cfg config.Application) (*Dependencies, error) {
	deps := &Dependencies{}

	capacity, err := clock.ParseCapacity(cfg.Clock.OwnerCapacity)
	if err != nil {
		return nil, fmt.Errorf("invalid clock configuration: %w", err)
	}
	deps.ClockCapacity = capacity

	deps.Clock = &utils.SystemClock{}

	deps.ClockRepo = clock.NewRepository(db, capacity)
	deps.ClockService = clock.NewService(deps.ClockRepo, deps.Clock)
	deps.ClockHandler = clock.NewHandler(deps.ClockService)

	deps.ScenarioRepo = scenario.NewRepository(db)
	deps.ScenarioService = scenario.NewService(deps.ScenarioRepo, deps.Clock)
	deps.ScenarioHandler = scenario.NewHandler(deps.ScenarioService)

	deps.RunwayHandler = runway.NewHandler(deps.Clock)

	return deps, nil
}
