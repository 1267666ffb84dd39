package repositories

import (
	"context"

	"github.com/subtrackhq/subtrack_backend/internal/core/domain"
)

// SubscriptionReader defines read operations for subscription data
type SubscriptionReader interface {
	// FindSubscriptionByID retrieves a subscription by its ID.
	FindSubscriptionByID(ctx context.Context, subscriptionID string) (*domain.Subscription, error)

	// ListSubscriptionsByUser retrieves all non-deleted subscriptions owned by a user.
	ListSubscriptionsByUser(ctx context.Context, userID string) ([]domain.Subscription, error)
}

// SubscriptionWriter defines write operations for subscription data
type SubscriptionWriter interface {
	// SaveSubscription persists a new subscription.
	SaveSubscription(ctx context.Context, sub domain.Subscription) error

	// UpdateSubscription persists changes to an existing subscription.
	UpdateSubscription(ctx context.Context, sub domain.Subscription) error

	// MarkSubscriptionDeleted soft-deletes a subscription.
	MarkSubscriptionDeleted(ctx context.Context, subscriptionID string, deletedBy string) error
}

// SubscriptionRepositoryFacade combines all subscription-related repository interfaces
type SubscriptionRepositoryFacade interface {
	SubscriptionReader
	SubscriptionWriter
}
