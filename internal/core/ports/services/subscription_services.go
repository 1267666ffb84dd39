package services

import (
	"context"

	"github.com/subtrackhq/subtrack_backend/internal/core/domain"
	"github.com/subtrackhq/subtrack_backend/internal/dto"
)

// SubscriptionReaderSvc defines read operations for subscription data
type SubscriptionReaderSvc interface {
	// GetSubscriptionByID retrieves a subscription owned by the user.
	GetSubscriptionByID(ctx context.Context, userID, subscriptionID string) (*domain.Subscription, error)

	// ListSubscriptions retrieves all of a user's subscriptions.
	ListSubscriptions(ctx context.Context, userID string) ([]domain.Subscription, error)
}

// SubscriptionWriterSvc defines write operations for subscription data
type SubscriptionWriterSvc interface {
	// CreateSubscription validates and persists a new subscription.
	CreateSubscription(ctx context.Context, userID string, req dto.CreateSubscriptionRequest) (*domain.Subscription, error)

	// UpdateSubscription applies changes to a subscription, re-validating the
	// changed fields.
	UpdateSubscription(ctx context.Context, userID, subscriptionID string, req dto.UpdateSubscriptionRequest) (*domain.Subscription, error)

	// DeleteSubscription soft-deletes a subscription owned by the user.
	DeleteSubscription(ctx context.Context, userID, subscriptionID string) error
}

// SubscriptionSvcFacade combines all subscription-related service interfaces
type SubscriptionSvcFacade interface {
	SubscriptionReaderSvc
	SubscriptionWriterSvc
}
