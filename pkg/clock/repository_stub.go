package clock

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// stubClockRepository mimics the single capacity semantics of the real
// repository: one row per owner, id preserved across upserts.
type stubClockRepository struct {
	clocks map[string]Clock // ownerUid -> clock
}

func newStubClockRepository() *stubClockRepository {
	return &stubClockRepository{
		clocks: map[string]Clock{},
	}
}

func (s *stubClockRepository) Upsert(ctx context.Context, c Clock) (Clock, error) {
	existing, ok := s.clocks[c.OwnerUid]
	if ok {
		c.Id = existing.Id
		c.CreatedAt = existing.CreatedAt
	} else {
		c.Id = uuid.NewString()
	}
	s.clocks[c.OwnerUid] = c
	return c, nil
}

func (s *stubClockRepository) FindById(ctx context.Context, id string) (Clock, error) {
	for _, c := range s.clocks {
		if c.Id == id {
			return c, nil
		}
	}
	return Clock{}, ErrClockNotFound
}

func (s *stubClockRepository) FindByOwner(ctx context.Context, ownerUid string) (Clock, error) {
	c, ok := s.clocks[ownerUid]
	if !ok {
		return Clock{}, ErrClockNotFound
	}
	return c, nil
}

func (s *stubClockRepository) ListByOwner(ctx context.Context, ownerUid string) ([]Clock, error) {
	c, ok := s.clocks[ownerUid]
	if !ok {
		return nil, nil
	}
	return []Clock{c}, nil
}

func (s *stubClockRepository) Reset(ctx context.Context, id string, ownerUid string, now time.Time) (bool, error) {
	c, ok := s.clocks[ownerUid]
	if !ok || c.Id != id {
		return false, nil
	}
	c.RunwayEndDate = nil
	c.City = ""
	c.UpdatedAt = now
	s.clocks[ownerUid] = c
	return true, nil
}

func (s *stubClockRepository) Delete(ctx context.Context, id string, ownerUid string) (bool, error) {
	c, ok := s.clocks[ownerUid]
	if !ok || c.Id != id {
		return false, nil
	}
	delete(s.clocks, ownerUid)
	return true, nil
}

func (s *stubClockRepository) reset() {
	s.clocks = map[string]Clock{}
}
