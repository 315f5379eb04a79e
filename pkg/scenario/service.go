package scenario

import (
	"context"
	"fmt"

	"github.com/runwayclock/runwayclock/internal/utils"
	"github.com/runwayclock/runwayclock/pkg/runway"
	"github.com/runwayclock/runwayclock/pkg/user"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	// Save validates and stores a new scenario for the caller.
	Save(ctx context.Context, s Scenario) (Scenario, error)
	// GetById returns the caller's scenario together with its runway
	// projection recomputed at the current instant. A scenario owned by
	// somebody else is reported as ErrScenarioNotFound.
	GetById(ctx context.Context, id string) (Scenario, runway.Projection, error)
}

type ServiceImpl struct {
	repo  Repository
	clock utils.Clock
}

func NewService(repo Repository, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{repo: repo, clock: clock}
}

func (s *ServiceImpl) Save(ctx context.Context, scenario Scenario) (Scenario, error) {
	uid, err := user.CurrentUid(ctx)
	if err != nil {
		return Scenario{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if err := validate(scenario); err != nil {
		return Scenario{}, err
	}

	now := s.clock.Now().UTC()
	scenario.OwnerUid = uid
	if scenario.Currency == "" {
		scenario.Currency = DefaultCurrency
	}
	scenario.CreatedAt = now
	scenario.UpdatedAt = now

	return s.repo.Store(ctx, scenario)
}

func (s *ServiceImpl) GetById(ctx context.Context, id string) (Scenario, runway.Projection, error) {
	uid, err := user.CurrentUid(ctx)
	if err != nil {
		return Scenario{}, runway.Projection{}, fmt.Errorf("failed to get current user: %w", err)
	}

	scenario, err := s.repo.FindById(ctx, id)
	if err != nil {
		return Scenario{}, runway.Projection{}, err
	}
	if scenario.OwnerUid != uid {
		log.Debugf("scenario %s requested by non-owner %s", id, uid)
		return Scenario{}, runway.Projection{}, ErrScenarioNotFound
	}

	projection := runway.Project(scenario.Expenses, scenario.Income, scenario.StartingCash, s.clock.Now())
	return scenario, projection, nil
}

func validate(scenario Scenario) error {
	if scenario.Name == "" {
		return ErrNameRequired
	}
	if scenario.StartingCash < 0 {
		return ErrNegativeCash
	}
	for _, item := range append(scenario.Expenses, scenario.Income...) {
		if item.Name == "" || item.AmountMonthly < 0 {
			return ErrInvalidItem
		}
	}
	return nil
}
