package services_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/subtrackhq/subtrack_backend/internal/core/domain"
	portsrepo "github.com/subtrackhq/subtrack_backend/internal/core/ports/repositories"
	portssvc "github.com/subtrackhq/subtrack_backend/internal/core/ports/services"
	"github.com/subtrackhq/subtrack_backend/internal/dto"
)

// --- Mock SubscriptionRepository ---

type MockSubscriptionRepository struct {
	mock.Mock
}

func (m *MockSubscriptionRepository) FindSubscriptionByID(ctx context.Context, subscriptionID string) (*domain.Subscription, error) {
	args := m.Called(ctx, subscriptionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) ListSubscriptionsByUser(ctx context.Context, userID string) ([]domain.Subscription, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) SaveSubscription(ctx context.Context, sub domain.Subscription) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *MockSubscriptionRepository) UpdateSubscription(ctx context.Context, sub domain.Subscription) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *MockSubscriptionRepository) MarkSubscriptionDeleted(ctx context.Context, subscriptionID string, deletedBy string) error {
	args := m.Called(ctx, subscriptionID, deletedBy)
	return args.Error(0)
}

var _ portsrepo.SubscriptionRepositoryFacade = (*MockSubscriptionRepository)(nil)

// --- Mock CurrencyService ---

type MockCurrencyService struct {
	mock.Mock
}

func (m *MockCurrencyService) GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	args := m.Called(ctx, currencyCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Currency), args.Error(1)
}

func (m *MockCurrencyService) CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, creatorUserID string) (*domain.Currency, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

var _ portssvc.CurrencySvcFacade = (*MockCurrencyService)(nil)

// --- Mock RatesService ---

type MockRatesService struct {
	mock.Mock
}

func (m *MockRatesService) LatestSnapshot(ctx context.Context, baseCode string, forceRefresh bool) (*domain.CurrencyRateSnapshot, error) {
	args := m.Called(ctx, baseCode, forceRefresh)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CurrencyRateSnapshot), args.Error(1)
}

var _ portssvc.RatesSvcFacade = (*MockRatesService)(nil)

// --- Mock SnapshotRepository ---

type MockSnapshotRepository struct {
	mock.Mock
}

func (m *MockSnapshotRepository) FindSnapshot(ctx context.Context, baseCode string, slot portsrepo.SnapshotSlot) (*domain.CurrencyRateSnapshot, error) {
	args := m.Called(ctx, baseCode, slot)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CurrencyRateSnapshot), args.Error(1)
}

func (m *MockSnapshotRepository) SaveSnapshot(ctx context.Context, snapshot domain.CurrencyRateSnapshot, slot portsrepo.SnapshotSlot) error {
	args := m.Called(ctx, snapshot, slot)
	return args.Error(0)
}

func (m *MockSnapshotRepository) SaveCurrentAndBackup(ctx context.Context, snapshot domain.CurrencyRateSnapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

var _ portsrepo.SnapshotRepositoryFacade = (*MockSnapshotRepository)(nil)

// --- Mock RateSource ---

type MockRateSource struct {
	mock.Mock
}

func (m *MockRateSource) FetchLatest(ctx context.Context, baseCode string) (*domain.CurrencyRateSnapshot, error) {
	args := m.Called(ctx, baseCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CurrencyRateSnapshot), args.Error(1)
}

var _ portsrepo.RateSource = (*MockRateSource)(nil)
