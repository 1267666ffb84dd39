package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/subtrackhq/subtrack_backend/internal/core/domain"
)

// SpendingCalcSvc exposes the pure aggregation primitives. They take asOf
// explicitly so callers and tests control the clock.
type SpendingCalcSvc interface {
	// MonthlyTotal sums normalized monthly amounts into the base currency.
	// Unconvertible currencies land in the result's missing set; the total is
	// always a partial result, never an all-or-nothing failure.
	MonthlyTotal(subs []domain.Subscription, baseCode string, snapshot *domain.CurrencyRateSnapshot, asOf time.Time) domain.SpendingResult

	// LifetimeTotal sums raw one-time prices of lifetime subscriptions into
	// the base currency, with the same missing-set semantics.
	LifetimeTotal(subs []domain.Subscription, baseCode string, snapshot *domain.CurrencyRateSnapshot, asOf time.Time) domain.SpendingResult

	// EvaluateConversionNeed returns the exact monthly total when every
	// subscription already uses the base currency, letting callers skip the
	// snapshot fetch. The second return is false when conversion is needed.
	EvaluateConversionNeed(subs []domain.Subscription, baseCode string, asOf time.Time) (decimal.Decimal, bool)
}

// SpendingReportSvc loads a user's subscriptions and produces aggregated
// totals, fetching a rate snapshot only when conversion is required.
type SpendingReportSvc interface {
	MonthlyOverview(ctx context.Context, userID, baseCode string) (*domain.SpendingResult, error)
	LifetimeOverview(ctx context.Context, userID, baseCode string) (*domain.SpendingResult, error)
}

// SpendingSvcFacade combines all spending-related service interfaces
type SpendingSvcFacade interface {
	SpendingCalcSvc
	SpendingReportSvc
}
