package recurring_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subtrackhq/subtrack_backend/internal/core/domain"
	"github.com/subtrackhq/subtrack_backend/internal/utils/recurring"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func subWithCycle(lastBilling time.Time, cycle domain.BillingCycle) domain.Subscription {
	return domain.Subscription{
		LastBillingDate: lastBilling,
		Cycle:           cycle,
	}
}

func TestNextBillingDate_MonthEndClamping(t *testing.T) {
	// Jan 31 + 1 month must land on the last day of February, not March 2/3.
	sub := subWithCycle(date(2025, time.January, 31), domain.BillingCycle{Kind: domain.CycleMonthly})

	next := recurring.NextBillingDate(sub, date(2025, time.February, 1))
	require.NotNil(t, next)
	assert.Equal(t, date(2025, time.February, 28), *next)

	// Leap year February keeps the 29th.
	sub = subWithCycle(date(2024, time.January, 31), domain.BillingCycle{Kind: domain.CycleMonthly})
	next = recurring.NextBillingDate(sub, date(2024, time.February, 1))
	require.NotNil(t, next)
	assert.Equal(t, date(2024, time.February, 29), *next)
}

func TestNextBillingDate_AdvancesWhenExactlyAtAsOf(t *testing.T) {
	// A renewal exactly at asOf is not "upcoming"; the next one is a full
	// period later.
	sub := subWithCycle(date(2025, time.March, 15), domain.BillingCycle{Kind: domain.CycleMonthly})

	next := recurring.NextBillingDate(sub, date(2025, time.March, 15))
	require.NotNil(t, next)
	assert.Equal(t, date(2025, time.April, 15), *next)
}

func TestNextBillingDate_WalksPastMultiplePeriods(t *testing.T) {
	sub := subWithCycle(date(2025, time.January, 1), domain.BillingCycle{Kind: domain.CycleWeekly})

	next := recurring.NextBillingDate(sub, date(2025, time.February, 10))
	require.NotNil(t, next)
	assert.Equal(t, date(2025, time.February, 12), *next)
}

func TestNextBillingDate_LifetimeNeverRenews(t *testing.T) {
	sub := subWithCycle(date(2025, time.January, 1), domain.BillingCycle{Kind: domain.CycleLifetime})
	assert.Nil(t, recurring.NextBillingDate(sub, date(2025, time.June, 1)))
}

func TestNextBillingDate_CustomCycle(t *testing.T) {
	cycle, err := domain.NewCustomCycle(3, domain.UnitMonth)
	require.NoError(t, err)
	sub := subWithCycle(date(2025, time.January, 31), cycle)

	next := recurring.NextBillingDate(sub, date(2025, time.February, 1))
	require.NotNil(t, next)
	assert.Equal(t, date(2025, time.April, 30), *next)
}

func TestRemainingDays_CycleBased(t *testing.T) {
	sub := subWithCycle(date(2025, time.March, 1), domain.BillingCycle{Kind: domain.CycleMonthly})

	assert.Equal(t, 11, recurring.RemainingDays(sub, date(2025, time.March, 21)))
}

func TestRemainingDays_TimeOfDayIgnored(t *testing.T) {
	sub := subWithCycle(date(2025, time.March, 1), domain.BillingCycle{Kind: domain.CycleMonthly})

	lateEvening := time.Date(2025, time.March, 21, 23, 55, 0, 0, time.UTC)
	assert.Equal(t, 11, recurring.RemainingDays(sub, lateEvening))
}

func TestRemainingDays_EndDateCapsRenewal(t *testing.T) {
	end := date(2025, time.March, 25)
	sub := subWithCycle(date(2025, time.March, 1), domain.BillingCycle{Kind: domain.CycleMonthly})
	sub.EndDate = &end

	// The end date is nearer than the April renewal and wins.
	assert.Equal(t, 4, recurring.RemainingDays(sub, date(2025, time.March, 21)))
}

func TestRemainingDays_PastEndDateFallsBackToCycle(t *testing.T) {
	end := date(2025, time.March, 10)
	sub := subWithCycle(date(2025, time.March, 1), domain.BillingCycle{Kind: domain.CycleMonthly})
	sub.EndDate = &end

	// A past end date no longer caps anything; the cycle math takes over.
	assert.Equal(t, 11, recurring.RemainingDays(sub, date(2025, time.March, 21)))
}

func TestRemainingDays_DSTTransitionInsideWindow(t *testing.T) {
	// US DST starts Mar 9 2025, making that a 23-hour day. Counting calendar
	// days must not lose a day to the shortened wall clock.
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	lastBilling := time.Date(2025, time.March, 8, 0, 0, 0, 0, ny)
	sub := subWithCycle(lastBilling, domain.BillingCycle{Kind: domain.CycleMonthly})

	// Mar 8 to Apr 8 is 31 calendar days.
	assert.Equal(t, 31, recurring.RemainingDays(sub, lastBilling))

	// Same across the end-date cap: Mar 8 to Mar 10 is 2 days.
	end := time.Date(2025, time.March, 10, 0, 0, 0, 0, ny)
	sub.EndDate = &end
	assert.Equal(t, 2, recurring.RemainingDays(sub, lastBilling))
}

func TestRemainingDays_LifetimeIsZero(t *testing.T) {
	sub := subWithCycle(date(2025, time.January, 1), domain.BillingCycle{Kind: domain.CycleLifetime})
	assert.Equal(t, 0, recurring.RemainingDays(sub, date(2025, time.June, 1)))
}

func TestIsInTrial_HalfOpenWindow(t *testing.T) {
	sub := subWithCycle(date(2025, time.April, 1), domain.BillingCycle{Kind: domain.CycleMonthly})
	sub.TrialPeriod = &domain.TrialPeriod{Value: 14, Unit: domain.UnitDay}

	assert.True(t, recurring.IsInTrial(sub, date(2025, time.April, 1)), "window start is inclusive")
	assert.True(t, recurring.IsInTrial(sub, date(2025, time.April, 14)))
	assert.False(t, recurring.IsInTrial(sub, date(2025, time.April, 15)), "window end is exclusive")
	assert.False(t, recurring.IsInTrial(sub, date(2025, time.March, 31)), "before the window")
}

func TestIsInTrial_NoTrialConfigured(t *testing.T) {
	sub := subWithCycle(date(2025, time.April, 1), domain.BillingCycle{Kind: domain.CycleMonthly})
	assert.False(t, recurring.IsInTrial(sub, date(2025, time.April, 5)))
}

func TestHasEnded_DayGranularity(t *testing.T) {
	end := date(2025, time.May, 10)
	sub := subWithCycle(date(2025, time.May, 1), domain.BillingCycle{Kind: domain.CycleMonthly})
	sub.EndDate = &end

	// Still active on the end date itself, even late in the day.
	assert.False(t, recurring.HasEnded(sub, time.Date(2025, time.May, 10, 23, 0, 0, 0, time.UTC)))
	assert.True(t, recurring.HasEnded(sub, date(2025, time.May, 11)))
}
