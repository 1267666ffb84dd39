package recurring

import (
	"time"

	"github.com/subtrackhq/subtrack_backend/internal/core/domain"
)

// NextBillingDate computes the first renewal strictly after asOf by walking
// forward from the last billing date one cycle period at a time. The loop
// condition is "not after", so a subscription billed exactly at asOf still
// advances one full period. Returns nil for lifetime cycles, which never
// renew.
func NextBillingDate(sub domain.Subscription, asOf time.Time) *time.Time {
	if sub.Cycle.IsLifetime() {
		return nil
	}
	next := sub.LastBillingDate
	for !next.After(asOf) {
		stepped := addPeriod(next, sub.Cycle)
		if !stepped.After(next) {
			// A non-advancing period would loop forever; only possible with
			// an invalid cycle that slipped past validation.
			return nil
		}
		next = stepped
	}
	return &next
}

// RemainingDays returns the whole days until the subscription next renews,
// at day granularity (time-of-day is ignored). A future end date caps the
// result instead of the cycle-based renewal. Negative values clamp to 0, so
// an overdue subscription reads "renew now".
func RemainingDays(sub domain.Subscription, asOf time.Time) int {
	today := startOfDay(asOf)

	if sub.EndDate != nil {
		end := startOfDay(*sub.EndDate)
		if !end.Before(today) {
			return wholeDaysBetween(today, end)
		}
	}

	next := NextBillingDate(sub, asOf)
	if next == nil {
		return 0
	}
	days := wholeDaysBetween(today, startOfDay(*next))
	if days < 0 {
		return 0
	}
	return days
}

// IsInTrial reports whether asOf falls inside the half-open trial window
// [lastBillingDate, lastBillingDate + trialPeriod).
func IsInTrial(sub domain.Subscription, asOf time.Time) bool {
	if sub.TrialPeriod == nil {
		return false
	}
	trialEnd := addUnits(sub.LastBillingDate, sub.TrialPeriod.Value, sub.TrialPeriod.Unit)
	return !asOf.Before(sub.LastBillingDate) && asOf.Before(trialEnd)
}

// HasEnded reports whether the subscription's end date has passed, at day
// granularity.
func HasEnded(sub domain.Subscription, asOf time.Time) bool {
	if sub.EndDate == nil {
		return false
	}
	return startOfDay(*sub.EndDate).Before(startOfDay(asOf))
}

func addPeriod(t time.Time, cycle domain.BillingCycle) time.Time {
	switch cycle.Kind {
	case domain.CycleDaily:
		return t.AddDate(0, 0, 1)
	case domain.CycleWeekly:
		return t.AddDate(0, 0, 7)
	case domain.CycleMonthly:
		return addMonthsClamped(t, 1)
	case domain.CycleYearly:
		return addMonthsClamped(t, 12)
	case domain.CycleCustom:
		return addUnits(t, cycle.Value, cycle.Unit)
	default:
		return t
	}
}

func addUnits(t time.Time, value int, unit domain.CycleUnit) time.Time {
	switch unit {
	case domain.UnitDay:
		return t.AddDate(0, 0, value)
	case domain.UnitWeek:
		return t.AddDate(0, 0, 7*value)
	case domain.UnitMonth:
		return addMonthsClamped(t, value)
	case domain.UnitYear:
		return addMonthsClamped(t, 12*value)
	default:
		return t
	}
}

// addMonthsClamped adds calendar months, clamping the day-of-month to the
// target month's last day. time.AddDate would normalize Jan 31 + 1 month
// into March; billing dates must land on the last day of February instead.
func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	firstOfTarget := time.Date(year, month+time.Month(months), 1,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if last := daysInMonth(firstOfTarget.Year(), firstOfTarget.Month()); day > last {
		day = last
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysInMonth(year int, month time.Month) int {
	// Day zero of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// wholeDaysBetween counts calendar days between two dates. Both are rebuilt
// as UTC midnights first, so a DST transition inside the window (a 23- or
// 25-hour day) cannot skew the count.
func wholeDaysBetween(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	fromUTC := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	toUTC := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(toUTC.Sub(fromUTC) / (24 * time.Hour))
}
