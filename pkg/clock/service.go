package clock

import (
	"context"
	"fmt"

	"github.com/runwayclock/runwayclock/internal/utils"
	"github.com/runwayclock/runwayclock/pkg/user"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	// Save upserts the caller's clock. Repeated saves keep the same record id.
	Save(ctx context.Context, c Clock) (Clock, error)
	// GetById returns the caller's clock. A clock owned by somebody else is
	// reported as ErrClockNotFound, identical to a missing id.
	GetById(ctx context.Context, id string) (Clock, error)
	// GetPublicById returns the clock without an ownership check, for the
	// embeddable read-only view.
	GetPublicById(ctx context.Context, id string) (Clock, error)
	GetForOwner(ctx context.Context) (Clock, error)
	ListForOwner(ctx context.Context) ([]Clock, error)
	// Reset clears the runway end date and city label, keeping the record.
	Reset(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type ServiceImpl struct {
	repo  Repository
	clock utils.Clock
}

func NewService(repo Repository, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{repo: repo, clock: clock}
}

func (s *ServiceImpl) Save(ctx context.Context, c Clock) (Clock, error) {
	uid, err := user.CurrentUid(ctx)
	if err != nil {
		return Clock{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if c.Name == "" {
		return Clock{}, ErrNameRequired
	}

	now := s.clock.Now().UTC()
	c.OwnerUid = uid
	c.CreatedAt = now
	c.UpdatedAt = now

	return s.repo.Upsert(ctx, c)
}

func (s *ServiceImpl) GetById(ctx context.Context, id string) (Clock, error) {
	uid, err := user.CurrentUid(ctx)
	if err != nil {
		return Clock{}, fmt.Errorf("failed to get current user: %w", err)
	}

	c, err := s.repo.FindById(ctx, id)
	if err != nil {
		return Clock{}, err
	}
	if c.OwnerUid != uid {
		log.Debugf("clock %s requested by non-owner %s", id, uid)
		return Clock{}, ErrClockNotFound
	}
	return c, nil
}

func (s *ServiceImpl) GetPublicById(ctx context.Context, id string) (Clock, error) {
	return s.repo.FindById(ctx, id)
}

func (s *ServiceImpl) GetForOwner(ctx context.Context) (Clock, error) {
	uid, err := user.CurrentUid(ctx)
	if err != nil {
		return Clock{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.FindByOwner(ctx, uid)
}

func (s *ServiceImpl) ListForOwner(ctx context.Context) ([]Clock, error) {
	uid, err := user.CurrentUid(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.ListByOwner(ctx, uid)
}

func (s *ServiceImpl) Reset(ctx context.Context, id string) error {
	uid, err := user.CurrentUid(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}

	ok, err := s.repo.Reset(ctx, id, uid, s.clock.Now().UTC())
	if err != nil {
		return err
	}
	if !ok {
		log.Debugf("clock %s not reset, it does not exist or %s is not the owner", id, uid)
		return ErrClockNotFound
	}
	return nil
}

func (s *ServiceImpl) Delete(ctx context.Context, id string) error {
	uid, err := user.CurrentUid(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}

	ok, err := s.repo.Delete(ctx, id, uid)
	if err != nil {
		return err
	}
	if !ok {
		log.Debugf("clock %s not deleted, it does not exist or %s is not the owner", id, uid)
		return ErrClockNotFound
	}
	return nil
}
