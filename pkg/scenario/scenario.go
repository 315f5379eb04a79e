package scenario

import (
	"errors"
	"time"

	"github.com/runwayclock/runwayclock/pkg/runway"
)

// Scenario is a named snapshot of a user's finances: starting cash plus the
// recurring monthly expense and income lines it was computed from. Unlike the
// clock, scenarios keep the raw inputs so the projection can be recomputed.
type Scenario struct {
	Id           string
	OwnerUid     string
	Name         string
	Currency     string
	StartingCash int64
	Expenses     []runway.Item
	Income       []runway.Item
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

const DefaultCurrency = "USD"

var (
	ErrScenarioNotFound = errors.New("scenario not found")
	ErrNameRequired     = errors.New("scenario name must not be empty")
	ErrNegativeCash     = errors.New("starting cash must not be negative")
	ErrInvalidItem      = errors.New("scenario items need a name and a non-negative monthly amount")
)
