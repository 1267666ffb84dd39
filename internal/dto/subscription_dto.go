package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/subtrackhq/subtrack_backend/internal/apperrors"
	"github.com/subtrackhq/subtrack_backend/internal/core/domain"
	"github.com/subtrackhq/subtrack_backend/internal/utils/recurring"
)

// BillingCycleInput is the wire form of a billing cycle. Kind accepts the
// canonical upper-case names and the legacy title-case forms older exports
// used ("Monthly", "Yearly", ...). Value and Unit apply to CUSTOM only.
type BillingCycleInput struct {
	Kind  string `json:"kind" binding:"required"`
	Value int    `json:"value,omitempty"`
	Unit  string `json:"unit,omitempty"`
}

// ToDomain decodes the wire form into the closed domain variant.
func (b BillingCycleInput) ToDomain() (domain.BillingCycle, error) {
	kind := domain.CycleKind(strings.ToUpper(strings.TrimSpace(b.Kind)))
	switch kind {
	case domain.CycleDaily, domain.CycleWeekly, domain.CycleMonthly, domain.CycleYearly, domain.CycleLifetime:
		return domain.BillingCycle{Kind: kind}, nil
	case domain.CycleCustom:
		unit, err := parseCycleUnit(b.Unit)
		if err != nil {
			return domain.BillingCycle{}, err
		}
		return domain.NewCustomCycle(b.Value, unit)
	default:
		return domain.BillingCycle{}, fmt.Errorf("%w: unknown billing cycle kind '%s'", apperrors.ErrValidation, b.Kind)
	}
}

// TrialPeriodInput is the wire form of a trial window.
type TrialPeriodInput struct {
	Value int    `json:"value" binding:"required,min=1"`
	Unit  string `json:"unit" binding:"required"`
}

// ToDomain decodes the wire form into a validated trial period.
func (t TrialPeriodInput) ToDomain() (domain.TrialPeriod, error) {
	unit, err := parseCycleUnit(t.Unit)
	if err != nil {
		return domain.TrialPeriod{}, err
	}
	tp := domain.TrialPeriod{Value: t.Value, Unit: unit}
	if err := tp.Validate(); err != nil {
		return domain.TrialPeriod{}, err
	}
	return tp, nil
}

func parseCycleUnit(raw string) (domain.CycleUnit, error) {
	unit := domain.CycleUnit(strings.ToUpper(strings.TrimSpace(raw)))
	switch unit {
	case domain.UnitDay, domain.UnitWeek, domain.UnitMonth, domain.UnitYear:
		return unit, nil
	default:
		return "", fmt.Errorf("%w: unknown cycle unit '%s'", apperrors.ErrValidation, raw)
	}
}

// CreateSubscriptionRequest defines the structure for creating a new subscription.
type CreateSubscriptionRequest struct {
	Name            string            `json:"name" binding:"required"`
	Price           decimal.Decimal   `json:"price" binding:"required"`
	CurrencyCode    string            `json:"currencyCode" binding:"required,len=3"`
	Cycle           BillingCycleInput `json:"cycle" binding:"required"`
	LastBillingDate time.Time         `json:"lastBillingDate" binding:"required"`
	EndDate         *time.Time        `json:"endDate,omitempty"`
	TrialPeriod     *TrialPeriodInput `json:"trialPeriod,omitempty"`
	ReminderDays    []int             `json:"reminderDays,omitempty"`
	Notes           string            `json:"notes,omitempty"`
}

// UpdateSubscriptionRequest defines the structure for updating a subscription.
// Only non-nil fields are applied; each re-validates its own invariants.
type UpdateSubscriptionRequest struct {
	Name            *string            `json:"name,omitempty"`
	Price           *decimal.Decimal   `json:"price,omitempty"`
	CurrencyCode    *string            `json:"currencyCode,omitempty"`
	Cycle           *BillingCycleInput `json:"cycle,omitempty"`
	LastBillingDate *time.Time         `json:"lastBillingDate,omitempty"`
	EndDate         *time.Time         `json:"endDate,omitempty"`
	ClearEndDate    bool               `json:"clearEndDate,omitempty"`
	TrialPeriod     *TrialPeriodInput  `json:"trialPeriod,omitempty"`
	ClearTrial      bool               `json:"clearTrial,omitempty"`
	ReminderDays    *[]int             `json:"reminderDays,omitempty"`
	Notes           *string            `json:"notes,omitempty"`
}

// SubscriptionResponse defines the API response for a subscription, with the
// computed renewal fields the notifier and UI consume.
type SubscriptionResponse struct {
	SubscriptionID  string              `json:"subscriptionID"`
	Name            string              `json:"name"`
	Price           decimal.Decimal     `json:"price"`
	CurrencyCode    string              `json:"currencyCode"`
	Cycle           domain.BillingCycle `json:"cycle"`
	LastBillingDate time.Time           `json:"lastBillingDate"`
	EndDate         *time.Time          `json:"endDate,omitempty"`
	TrialPeriod     *domain.TrialPeriod `json:"trialPeriod,omitempty"`
	ReminderDays    []int               `json:"reminderDays,omitempty"`
	Notes           string              `json:"notes,omitempty"`
	NextBillingDate *time.Time          `json:"nextBillingDate,omitempty"` // Absent for lifetime subscriptions
	RemainingDays   int                 `json:"remainingDays"`
	InTrial         bool                `json:"inTrial"`
	CreatedAt       time.Time           `json:"createdAt"`
	LastUpdatedAt   time.Time           `json:"lastUpdatedAt"`
}

// ToSubscriptionResponse converts a domain.Subscription to its response DTO,
// computing the renewal fields as of the given time.
func ToSubscriptionResponse(sub *domain.Subscription, asOf time.Time) SubscriptionResponse {
	return SubscriptionResponse{
		SubscriptionID:  sub.SubscriptionID,
		Name:            sub.Name,
		Price:           sub.Price,
		CurrencyCode:    sub.CurrencyCode,
		Cycle:           sub.Cycle,
		LastBillingDate: sub.LastBillingDate,
		EndDate:         sub.EndDate,
		TrialPeriod:     sub.TrialPeriod,
		ReminderDays:    sub.ReminderDays,
		Notes:           sub.Notes,
		NextBillingDate: recurring.NextBillingDate(*sub, asOf),
		RemainingDays:   recurring.RemainingDays(*sub, asOf),
		InTrial:         recurring.IsInTrial(*sub, asOf),
		CreatedAt:       sub.CreatedAt,
		LastUpdatedAt:   sub.LastUpdatedAt,
	}
}

// ToListSubscriptionResponse converts a slice of subscriptions to response DTOs.
func ToListSubscriptionResponse(subs []domain.Subscription, asOf time.Time) []SubscriptionResponse {
	responses := make([]SubscriptionResponse, len(subs))
	for i := range subs {
		responses[i] = ToSubscriptionResponse(&subs[i], asOf)
	}
	return responses
}
