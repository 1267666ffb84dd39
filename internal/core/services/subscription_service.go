package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/subtrackhq/subtrack_backend/internal/apperrors"
	"github.com/subtrackhq/subtrack_backend/internal/core/domain"
	portsrepo "github.com/subtrackhq/subtrack_backend/internal/core/ports/repositories"
	portssvc "github.com/subtrackhq/subtrack_backend/internal/core/ports/services"
	"github.com/subtrackhq/subtrack_backend/internal/dto"
)

// SubscriptionService provides business logic for subscriptions. Creation is
// fail-fast: no partially-invalid subscription is ever persisted. Updates
// re-validate only the invariants touched by the changed fields.
type SubscriptionService struct {
	subscriptionRepo portsrepo.SubscriptionRepositoryFacade
	currencyService  portssvc.CurrencySvcFacade
	now              func() time.Time
}

// NewSubscriptionService creates a new SubscriptionService.
func NewSubscriptionService(subscriptionRepo portsrepo.SubscriptionRepositoryFacade, currencyService portssvc.CurrencySvcFacade) *SubscriptionService {
	return &SubscriptionService{
		subscriptionRepo: subscriptionRepo,
		currencyService:  currencyService,
		now:              time.Now,
	}
}

// CreateSubscription validates and persists a new subscription for the user.
func (s *SubscriptionService) CreateSubscription(ctx context.Context, userID string, req dto.CreateSubscriptionRequest) (*domain.Subscription, error) {
	now := s.now()

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: subscription name must not be empty", apperrors.ErrValidation)
	}
	if err := s.validatePrice(req.Price); err != nil {
		return nil, err
	}

	currencyCode, err := s.resolveCurrency(ctx, req.CurrencyCode)
	if err != nil {
		return nil, err
	}

	cycle, err := req.Cycle.ToDomain()
	if err != nil {
		return nil, err
	}

	if req.LastBillingDate.After(now) {
		return nil, fmt.Errorf("%w: last billing date must not be in the future", apperrors.ErrValidation)
	}
	if req.EndDate != nil && req.EndDate.Before(req.LastBillingDate) {
		return nil, fmt.Errorf("%w: end date must not precede the last billing date", apperrors.ErrValidation)
	}

	var trial *domain.TrialPeriod
	if req.TrialPeriod != nil {
		tp, err := req.TrialPeriod.ToDomain()
		if err != nil {
			return nil, err
		}
		trial = &tp
	}

	if err := validateReminderDays(req.ReminderDays); err != nil {
		return nil, err
	}

	sub := domain.Subscription{
		SubscriptionID:  uuid.NewString(),
		UserID:          userID,
		Name:            name,
		Price:           req.Price,
		CurrencyCode:    currencyCode,
		Cycle:           cycle,
		LastBillingDate: req.LastBillingDate,
		EndDate:         req.EndDate,
		TrialPeriod:     trial,
		ReminderDays:    req.ReminderDays,
		Notes:           req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.subscriptionRepo.SaveSubscription(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to create subscription in service: %w", err)
	}

	return &sub, nil
}

// UpdateSubscription applies the non-nil fields of the request, re-validating
// the invariants they participate in.
func (s *SubscriptionService) UpdateSubscription(ctx context.Context, userID, subscriptionID string, req dto.UpdateSubscriptionRequest) (*domain.Subscription, error) {
	sub, err := s.GetSubscriptionByID(ctx, userID, subscriptionID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: subscription name must not be empty", apperrors.ErrValidation)
		}
		sub.Name = name
	}
	if req.Price != nil {
		if err := s.validatePrice(*req.Price); err != nil {
			return nil, err
		}
		sub.Price = *req.Price
	}
	if req.CurrencyCode != nil {
		code, err := s.resolveCurrency(ctx, *req.CurrencyCode)
		if err != nil {
			return nil, err
		}
		sub.CurrencyCode = code
	}
	if req.Cycle != nil {
		cycle, err := req.Cycle.ToDomain()
		if err != nil {
			return nil, err
		}
		sub.Cycle = cycle
	}
	if req.LastBillingDate != nil {
		if req.LastBillingDate.After(s.now()) {
			return nil, fmt.Errorf("%w: last billing date must not be in the future", apperrors.ErrValidation)
		}
		sub.LastBillingDate = *req.LastBillingDate
	}
	if req.ClearEndDate {
		sub.EndDate = nil
	} else if req.EndDate != nil {
		sub.EndDate = req.EndDate
	}
	if sub.EndDate != nil && sub.EndDate.Before(sub.LastBillingDate) {
		return nil, fmt.Errorf("%w: end date must not precede the last billing date", apperrors.ErrValidation)
	}
	if req.ClearTrial {
		sub.TrialPeriod = nil
	} else if req.TrialPeriod != nil {
		tp, err := req.TrialPeriod.ToDomain()
		if err != nil {
			return nil, err
		}
		sub.TrialPeriod = &tp
	}
	if req.ReminderDays != nil {
		if err := validateReminderDays(*req.ReminderDays); err != nil {
			return nil, err
		}
		sub.ReminderDays = *req.ReminderDays
	}
	if req.Notes != nil {
		sub.Notes = *req.Notes
	}

	sub.LastUpdatedAt = s.now()
	sub.LastUpdatedBy = userID

	if err := s.subscriptionRepo.UpdateSubscription(ctx, *sub); err != nil {
		return nil, fmt.Errorf("failed to update subscription in service: %w", err)
	}

	return sub, nil
}

// DeleteSubscription soft-deletes a subscription owned by the user.
func (s *SubscriptionService) DeleteSubscription(ctx context.Context, userID, subscriptionID string) error {
	if _, err := s.GetSubscriptionByID(ctx, userID, subscriptionID); err != nil {
		return err
	}
	if err := s.subscriptionRepo.MarkSubscriptionDeleted(ctx, subscriptionID, userID); err != nil {
		return fmt.Errorf("failed to delete subscription in service: %w", err)
	}
	return nil
}

// GetSubscriptionByID retrieves a subscription and enforces ownership.
func (s *SubscriptionService) GetSubscriptionByID(ctx context.Context, userID, subscriptionID string) (*domain.Subscription, error) {
	sub, err := s.subscriptionRepo.FindSubscriptionByID(ctx, subscriptionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription in service: %w", err)
	}
	if sub.UserID != userID {
		// Don't leak existence of other users' subscriptions.
		return nil, apperrors.ErrNotFound
	}
	return sub, nil
}

// ListSubscriptions retrieves all of the user's subscriptions.
func (s *SubscriptionService) ListSubscriptions(ctx context.Context, userID string) ([]domain.Subscription, error) {
	subs, err := s.subscriptionRepo.ListSubscriptionsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions in service: %w", err)
	}
	if subs == nil {
		return []domain.Subscription{}, nil
	}
	return subs, nil
}

func (s *SubscriptionService) validatePrice(price decimal.Decimal) error {
	if price.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: price must be positive", apperrors.ErrValidation)
	}
	return nil
}

func (s *SubscriptionService) resolveCurrency(ctx context.Context, currencyCode string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(currencyCode))
	if _, err := s.currencyService.GetCurrencyByCode(ctx, code); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", fmt.Errorf("%w: currency code '%s'", apperrors.ErrUnsupportedCurrency, code)
		}
		return "", fmt.Errorf("failed to validate currency '%s': %w", code, err)
	}
	return code, nil
}

func validateReminderDays(days []int) error {
	for _, d := range days {
		if d <= 0 {
			return fmt.Errorf("%w: reminder intervals must be positive day counts", apperrors.ErrValidation)
		}
	}
	return nil
}
