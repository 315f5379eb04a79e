package clock

import (
	"errors"
	"fmt"
	"time"
)

// Clock is the single persisted countdown record of a user: a display name,
// an optional city label, and the projected runway end date. A nil
// RunwayEndDate means there is no active burn ("Never").
type Clock struct {
	Id            string
	OwnerUid      string
	Name          string
	City          string
	RunwayEndDate *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

var (
	ErrClockNotFound = errors.New("clock not found")
	ErrNameRequired  = errors.New("clock name must not be empty")
)

// Capacity is the persistence policy for clocks per owner. In single mode a
// unique index on owner_uid guarantees at most one row per user; multiple
// mode lifts the restriction and enables listing.
type Capacity string

const (
	CapacitySingle   Capacity = "single"
	CapacityMultiple Capacity = "multiple"
)

func ParseCapacity(s string) (Capacity, error) {
	switch Capacity(s) {
	case CapacitySingle, CapacityMultiple:
		return Capacity(s), nil
	default:
		return "", fmt.Errorf("unknown owner capacity: %q", s)
	}
}
