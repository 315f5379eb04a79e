package runway

import "time"

// Item is a single recurring monthly line, expense or income.
// AmountMonthly is in minor currency units (cents); amounts stay integral
// until the final burn-rate and day arithmetic.
type Item struct {
	Name          string
	AmountMonthly int64
}

// Projection is the result of converting financial inputs into a runway.
// EndDate is nil when the runway is infinite ("Never").
type Projection struct {
	DailyBurn  float64
	RunwayDays float64
	EndDate    *time.Time
	Profitable bool
}
