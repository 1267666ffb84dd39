package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/subtrackhq/subtrack_backend/internal/core/domain"
	portsrepo "github.com/subtrackhq/subtrack_backend/internal/core/ports/repositories"
	portssvc "github.com/subtrackhq/subtrack_backend/internal/core/ports/services"
	"github.com/subtrackhq/subtrack_backend/internal/utils/recurring"
)

// SpendingService aggregates subscription spend into a single base currency.
// The aggregation itself is pure; only the overview entry points touch the
// repository and the rate cache.
type SpendingService struct {
	subscriptionRepo portsrepo.SubscriptionRepositoryFacade
	ratesService     portssvc.RatesSvcFacade
	now              func() time.Time
}

// NewSpendingService creates a new SpendingService.
func NewSpendingService(subscriptionRepo portsrepo.SubscriptionRepositoryFacade, ratesService portssvc.RatesSvcFacade) *SpendingService {
	return &SpendingService{
		subscriptionRepo: subscriptionRepo,
		ratesService:     ratesService,
		now:              time.Now,
	}
}

// MonthlyTotal sums normalized monthly amounts into the base currency.
// Subscriptions contributing exactly zero are skipped without any rate
// lookup. Unconvertible currencies are collected in the missing set instead
// of failing the aggregation.
func (s *SpendingService) MonthlyTotal(subs []domain.Subscription, baseCode string, snapshot *domain.CurrencyRateSnapshot, asOf time.Time) domain.SpendingResult {
	return aggregate(subs, baseCode, snapshot, func(sub domain.Subscription) decimal.Decimal {
		return recurring.MonthlyAmount(sub, asOf)
	})
}

// LifetimeTotal sums the raw one-time prices of lifetime subscriptions into
// the base currency, with the same conversion and missing-set semantics as
// MonthlyTotal but no monthly normalization.
func (s *SpendingService) LifetimeTotal(subs []domain.Subscription, baseCode string, snapshot *domain.CurrencyRateSnapshot, asOf time.Time) domain.SpendingResult {
	return aggregate(subs, baseCode, snapshot, recurring.LifetimeAmount)
}

// EvaluateConversionNeed returns the exact monthly total when every
// contributing subscription is already priced in the base currency. The
// second return is false when a conversion (and therefore a snapshot) is
// needed. For the all-same-currency case, the total matches the full
// aggregation exactly: same amounts, same accumulation order.
func (s *SpendingService) EvaluateConversionNeed(subs []domain.Subscription, baseCode string, asOf time.Time) (decimal.Decimal, bool) {
	base := strings.ToUpper(baseCode)
	total := decimal.Zero
	for _, sub := range subs {
		amount := recurring.MonthlyAmount(sub, asOf)
		if amount.IsZero() {
			continue
		}
		if strings.ToUpper(sub.CurrencyCode) != base {
			return decimal.Zero, false
		}
		total = total.Add(amount)
	}
	return total, true
}

// MonthlyOverview aggregates the user's recurring monthly spend, fetching a
// rate snapshot only when some subscription needs converting.
func (s *SpendingService) MonthlyOverview(ctx context.Context, userID, baseCode string) (*domain.SpendingResult, error) {
	subs, err := s.subscriptionRepo.ListSubscriptionsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions for spending overview: %w", err)
	}
	asOf := s.now()

	if total, ok := s.EvaluateConversionNeed(subs, baseCode, asOf); ok {
		return &domain.SpendingResult{Total: total, MissingCurrencyCodes: []string{}}, nil
	}

	snapshot, err := s.ratesService.LatestSnapshot(ctx, baseCode, false)
	if err != nil {
		return nil, err
	}
	result := s.MonthlyTotal(subs, baseCode, snapshot, asOf)
	return &result, nil
}

// LifetimeOverview aggregates the user's one-time purchases, reported
// separately from recurring monthly spend.
func (s *SpendingService) LifetimeOverview(ctx context.Context, userID, baseCode string) (*domain.SpendingResult, error) {
	subs, err := s.subscriptionRepo.ListSubscriptionsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions for spending overview: %w", err)
	}
	asOf := s.now()

	if !needsConversion(subs, baseCode, recurring.LifetimeAmount) {
		result := s.LifetimeTotal(subs, baseCode, nil, asOf)
		return &result, nil
	}

	snapshot, err := s.ratesService.LatestSnapshot(ctx, baseCode, false)
	if err != nil {
		return nil, err
	}
	result := s.LifetimeTotal(subs, baseCode, snapshot, asOf)
	return &result, nil
}

func aggregate(subs []domain.Subscription, baseCode string, snapshot *domain.CurrencyRateSnapshot, amountOf func(domain.Subscription) decimal.Decimal) domain.SpendingResult {
	base := strings.ToUpper(baseCode)
	total := decimal.Zero
	missing := make(map[string]struct{})

	for _, sub := range subs {
		amount := amountOf(sub)
		if amount.IsZero() {
			// A zero contribution needs no currency conversion.
			continue
		}

		code := strings.ToUpper(sub.CurrencyCode)
		if code == base {
			total = total.Add(amount)
			continue
		}

		if snapshot == nil {
			missing[code] = struct{}{}
			continue
		}
		converted, ok := snapshot.Convert(amount, code, base)
		if !ok {
			missing[code] = struct{}{}
			continue
		}
		total = total.Add(converted)
	}

	missingCodes := make([]string, 0, len(missing))
	for code := range missing {
		missingCodes = append(missingCodes, code)
	}
	sort.Strings(missingCodes)

	return domain.SpendingResult{Total: total, MissingCurrencyCodes: missingCodes}
}

func needsConversion(subs []domain.Subscription, baseCode string, amountOf func(domain.Subscription) decimal.Decimal) bool {
	base := strings.ToUpper(baseCode)
	for _, sub := range subs {
		if amountOf(sub).IsZero() {
			continue
		}
		if strings.ToUpper(sub.CurrencyCode) != base {
			return true
		}
	}
	return false
}
