package recurring

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/subtrackhq/subtrack_backend/internal/core/domain"
)

var (
	// daysPerMonth is 365.25 / 12, so daily prices don't systematically
	// overstate against a flat 30.
	daysPerMonth  = decimal.RequireFromString("30.4375")
	weeksPerYear  = decimal.NewFromInt(52)
	monthsPerYear = decimal.NewFromInt(12)
)

// MonthlyAmount normalizes a subscription's price into its average cost per
// month. In priority order: a subscription inside its trial window costs
// nothing; lifetime purchases are excluded from recurring totals (see
// LifetimeAmount); an ended subscription no longer recurs. Everything else
// is scaled by its cycle length.
//
// All arithmetic stays in base-10 decimals and no rounding is applied here;
// rounding, if any, happens at display time.
func MonthlyAmount(sub domain.Subscription, asOf time.Time) decimal.Decimal {
	if IsInTrial(sub, asOf) {
		return decimal.Zero
	}
	if sub.Cycle.IsLifetime() {
		return decimal.Zero
	}
	if HasEnded(sub, asOf) {
		return decimal.Zero
	}

	switch sub.Cycle.Kind {
	case domain.CycleMonthly:
		return sub.Price
	case domain.CycleYearly:
		return sub.Price.Div(monthsPerYear)
	case domain.CycleWeekly:
		return sub.Price.Mul(weeksPerYear).Div(monthsPerYear)
	case domain.CycleDaily:
		return sub.Price.Mul(daysPerMonth)
	case domain.CycleCustom:
		value := decimal.NewFromInt(int64(sub.Cycle.Value))
		switch sub.Cycle.Unit {
		case domain.UnitDay:
			return sub.Price.Mul(daysPerMonth).Div(value)
		case domain.UnitWeek:
			return sub.Price.Mul(weeksPerYear).Div(value.Mul(monthsPerYear))
		case domain.UnitMonth:
			return sub.Price.Div(value)
		case domain.UnitYear:
			return sub.Price.Div(value.Mul(monthsPerYear))
		}
	}
	return decimal.Zero
}

// LifetimeAmount returns the one-time cost a lifetime subscription
// contributes to the separate one-time-purchase total, and zero for
// recurring cycles.
func LifetimeAmount(sub domain.Subscription) decimal.Decimal {
	if !sub.Cycle.IsLifetime() {
		return decimal.Zero
	}
	return sub.Price
}
