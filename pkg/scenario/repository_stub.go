package scenario

import (
	"context"

	"github.com/google/uuid"
)

type stubScenarioRepository struct {
	scenarios map[string]Scenario // id -> scenario
}

func newStubScenarioRepository() *stubScenarioRepository {
	return &stubScenarioRepository{
		scenarios: map[string]Scenario{},
	}
}

func (s *stubScenarioRepository) Store(ctx context.Context, scenario Scenario) (Scenario, error) {
	scenario.Id = uuid.NewString()
	s.scenarios[scenario.Id] = scenario
	return scenario, nil
}

func (s *stubScenarioRepository) FindById(ctx context.Context, id string) (Scenario, error) {
	scenario, ok := s.scenarios[id]
	if !ok {
		return Scenario{}, ErrScenarioNotFound
	}
	return scenario, nil
}

func (s *stubScenarioRepository) reset() {
	s.scenarios = map[string]Scenario{}
}
