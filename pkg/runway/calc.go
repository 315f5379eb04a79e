package runway

import (
	"math"
	"time"
)

// Monthly amounts are converted to daily by dividing by exactly 30.
// This is a deliberate approximation, not calendar arithmetic.
const daysPerMonth = 30

// SumMonthly sums the monthly amounts of the given items, in minor units.
// An empty slice sums to 0. Negative amounts flow through unchanged;
// validation is a caller concern.
func SumMonthly(items []Item) int64 {
	var sum int64
	for _, item := range items {
		sum += item.AmountMonthly
	}
	return sum
}

// DailyBurn computes the daily net burn rate in minor units per day:
// max(expenses - income, 0) / 30. Burn is never negative; a surplus is
// reported as zero burn. Profitability is a separate signal derived from
// the sign of the net, not from this value.
func DailyBurn(expensesMonthly int64, incomeMonthly int64) float64 {
	net := expensesMonthly - incomeMonthly
	if net < 0 {
		net = 0
	}
	return float64(net) / daysPerMonth
}

// RunwayDays computes how many days the starting cash lasts at the given
// daily burn. Zero burn means the cash never depletes: +Inf.
func RunwayDays(startingCash int64, dailyBurn float64) float64 {
	if dailyBurn == 0 {
		return math.Inf(1)
	}
	return float64(startingCash) / dailyBurn
}

// RunwayEndDate projects the exhaustion date from a reference instant.
// Returns nil when the runway is infinite. Partial days are floored, so the
// projected date is deterministic and slightly conservative. Calendar
// arithmetic keeps very long runways exact; a time.Duration would overflow
// past ~292 years of days.
func RunwayEndDate(reference time.Time, runwayDays float64) *time.Time {
	if math.IsInf(runwayDays, 1) {
		return nil
	}
	endDate := reference.AddDate(0, 0, int(math.Floor(runwayDays)))
	return &endDate
}

// Project composes the full pipeline from line items and starting cash to a
// runway projection at the given reference instant.
func Project(expenses []Item, income []Item, startingCash int64, reference time.Time) Projection {
	expensesMonthly := SumMonthly(expenses)
	incomeMonthly := SumMonthly(income)
	dailyBurn := DailyBurn(expensesMonthly, incomeMonthly)
	runwayDays := RunwayDays(startingCash, dailyBurn)
	return Projection{
		DailyBurn:  dailyBurn,
		RunwayDays: runwayDays,
		EndDate:    RunwayEndDate(reference, runwayDays),
		Profitable: incomeMonthly >= expensesMonthly,
	}
}
