package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/subtrackhq/subtrack_backend/internal/apperrors"
	"github.com/subtrackhq/subtrack_backend/internal/core/domain"
	portsrepo "github.com/subtrackhq/subtrack_backend/internal/core/ports/repositories"
	"github.com/subtrackhq/subtrack_backend/internal/core/services"
)

type RatesServiceTestSuite struct {
	suite.Suite
	mockSnapRepo *MockSnapshotRepository
	mockSource   *MockRateSource
	mockCurrency *MockCurrencyService
	service      *services.RatesService
}

func (suite *RatesServiceTestSuite) SetupTest() {
	suite.mockSnapRepo = new(MockSnapshotRepository)
	suite.mockSource = new(MockRateSource)
	suite.mockCurrency = new(MockCurrencyService)
	suite.service = services.NewRatesService(suite.mockSnapRepo, suite.mockSource, suite.mockCurrency, 24*time.Hour)
}

func (suite *RatesServiceTestSuite) expectSupportedBase(code string) {
	suite.mockCurrency.On("GetCurrencyByCode", mock.Anything, code).
		Return(&domain.Currency{CurrencyCode: code}, nil)
}

func freshSnapshot(base string) *domain.CurrencyRateSnapshot {
	return &domain.CurrencyRateSnapshot{
		BaseCode:   base,
		Rates:      map[string]decimal.Decimal{"EUR": decimal.RequireFromString("0.92")},
		SourceDate: time.Now().Truncate(24 * time.Hour),
		FetchedAt:  time.Now(),
	}
}

func (suite *RatesServiceTestSuite) TestLatestSnapshot_FetchesOnColdStart() {
	ctx := context.Background()
	suite.expectSupportedBase("USD")
	fetched := freshSnapshot("USD")

	suite.mockSnapRepo.On("FindSnapshot", ctx, "USD", portsrepo.SlotCurrent).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockSource.On("FetchLatest", ctx, "USD").Return(fetched, nil).Once()
	suite.mockSnapRepo.On("SaveCurrentAndBackup", ctx, *fetched).Return(nil).Once()

	snapshot, err := suite.service.LatestSnapshot(ctx, "USD", false)

	suite.Require().NoError(err)
	suite.Equal(fetched, snapshot)
	suite.mockSnapRepo.AssertExpectations(suite.T())
	suite.mockSource.AssertExpectations(suite.T())
}

func (suite *RatesServiceTestSuite) TestLatestSnapshot_FreshCacheSkipsNetwork() {
	ctx := context.Background()
	suite.expectSupportedBase("USD")
	fetched := freshSnapshot("USD")

	suite.mockSnapRepo.On("FindSnapshot", ctx, "USD", portsrepo.SlotCurrent).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockSource.On("FetchLatest", ctx, "USD").Return(fetched, nil).Once()
	suite.mockSnapRepo.On("SaveCurrentAndBackup", ctx, *fetched).Return(nil).Once()

	first, err := suite.service.LatestSnapshot(ctx, "USD", false)
	suite.Require().NoError(err)

	// Second call inside the TTL serves the in-memory snapshot; FetchLatest is
	// limited to one call above, so a second hit would fail the suite.
	second, err := suite.service.LatestSnapshot(ctx, "USD", false)
	suite.Require().NoError(err)
	suite.Equal(first, second)
	suite.mockSource.AssertExpectations(suite.T())
}

func (suite *RatesServiceTestSuite) TestLatestSnapshot_FailedForcedRefreshFallsBackToCache() {
	ctx := context.Background()
	suite.expectSupportedBase("USD")
	fetched := freshSnapshot("USD")

	suite.mockSnapRepo.On("FindSnapshot", ctx, "USD", portsrepo.SlotCurrent).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockSource.On("FetchLatest", ctx, "USD").Return(fetched, nil).Once()
	suite.mockSnapRepo.On("SaveCurrentAndBackup", ctx, *fetched).Return(nil).Once()

	_, err := suite.service.LatestSnapshot(ctx, "USD", false)
	suite.Require().NoError(err)

	// The upstream goes away; a forced refresh must degrade to the cached
	// snapshot rather than fail.
	suite.mockSource.On("FetchLatest", ctx, "USD").Return(nil, errors.New("connection refused")).Once()

	snapshot, err := suite.service.LatestSnapshot(ctx, "USD", true)
	suite.Require().NoError(err)
	suite.Equal(fetched, snapshot)
	suite.mockSource.AssertExpectations(suite.T())
}

func (suite *RatesServiceTestSuite) TestLatestSnapshot_BackupSlotIsLastResort() {
	ctx := context.Background()
	suite.expectSupportedBase("USD")
	backup := freshSnapshot("USD")

	suite.mockSnapRepo.On("FindSnapshot", ctx, "USD", portsrepo.SlotCurrent).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockSource.On("FetchLatest", ctx, "USD").Return(nil, errors.New("timeout")).Once()
	suite.mockSnapRepo.On("FindSnapshot", ctx, "USD", portsrepo.SlotBackup).Return(backup, nil).Once()

	snapshot, err := suite.service.LatestSnapshot(ctx, "USD", false)

	suite.Require().NoError(err)
	suite.Equal(backup, snapshot)
	suite.mockSnapRepo.AssertExpectations(suite.T())
}

func (suite *RatesServiceTestSuite) TestLatestSnapshot_NothingObtainable() {
	ctx := context.Background()
	suite.expectSupportedBase("USD")

	suite.mockSnapRepo.On("FindSnapshot", ctx, "USD", portsrepo.SlotCurrent).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockSource.On("FetchLatest", ctx, "USD").Return(nil, errors.New("timeout")).Once()
	suite.mockSnapRepo.On("FindSnapshot", ctx, "USD", portsrepo.SlotBackup).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.LatestSnapshot(ctx, "USD", false)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrRateUnavailable)
}

func (suite *RatesServiceTestSuite) TestLatestSnapshot_PersistedCurrentServesWarmRestart() {
	ctx := context.Background()
	suite.expectSupportedBase("USD")
	persisted := freshSnapshot("USD")

	// A snapshot persisted by a previous process is still within the TTL.
	suite.mockSnapRepo.On("FindSnapshot", ctx, "USD", portsrepo.SlotCurrent).Return(persisted, nil).Once()

	snapshot, err := suite.service.LatestSnapshot(ctx, "USD", false)

	suite.Require().NoError(err)
	suite.Equal(persisted, snapshot)
	suite.mockSource.AssertNotCalled(suite.T(), "FetchLatest", mock.Anything, mock.Anything)
}

func (suite *RatesServiceTestSuite) TestLatestSnapshot_ExpiredPersistedSnapshotRefetches() {
	ctx := context.Background()
	suite.expectSupportedBase("USD")
	stale := freshSnapshot("USD")
	stale.FetchedAt = time.Now().Add(-48 * time.Hour)
	fetched := freshSnapshot("USD")

	suite.mockSnapRepo.On("FindSnapshot", ctx, "USD", portsrepo.SlotCurrent).Return(stale, nil).Once()
	suite.mockSource.On("FetchLatest", ctx, "USD").Return(fetched, nil).Once()
	suite.mockSnapRepo.On("SaveCurrentAndBackup", ctx, *fetched).Return(nil).Once()

	snapshot, err := suite.service.LatestSnapshot(ctx, "USD", false)

	suite.Require().NoError(err)
	suite.Equal(fetched, snapshot)
}

func (suite *RatesServiceTestSuite) TestLatestSnapshot_PersistFailureStillReturnsFetched() {
	ctx := context.Background()
	suite.expectSupportedBase("USD")
	fetched := freshSnapshot("USD")

	suite.mockSnapRepo.On("FindSnapshot", ctx, "USD", portsrepo.SlotCurrent).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockSource.On("FetchLatest", ctx, "USD").Return(fetched, nil).Once()
	suite.mockSnapRepo.On("SaveCurrentAndBackup", ctx, *fetched).Return(errors.New("disk full")).Once()

	snapshot, err := suite.service.LatestSnapshot(ctx, "USD", false)

	suite.Require().NoError(err)
	suite.Equal(fetched, snapshot)
}

func (suite *RatesServiceTestSuite) TestLatestSnapshot_UnsupportedBase() {
	ctx := context.Background()
	suite.mockCurrency.On("GetCurrencyByCode", mock.Anything, "XXX").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.LatestSnapshot(ctx, "XXX", false)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnsupportedCurrency)
	suite.mockSource.AssertNotCalled(suite.T(), "FetchLatest", mock.Anything, mock.Anything)
}

func (suite *RatesServiceTestSuite) TestLatestSnapshot_BaseCodeNormalized() {
	ctx := context.Background()
	suite.expectSupportedBase("USD")
	fetched := freshSnapshot("USD")

	suite.mockSnapRepo.On("FindSnapshot", ctx, "USD", portsrepo.SlotCurrent).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockSource.On("FetchLatest", ctx, "USD").Return(fetched, nil).Once()
	suite.mockSnapRepo.On("SaveCurrentAndBackup", ctx, *fetched).Return(nil).Once()

	snapshot, err := suite.service.LatestSnapshot(ctx, " usd ", false)

	suite.Require().NoError(err)
	suite.Equal("USD", snapshot.BaseCode)
}

func TestRatesServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RatesServiceTestSuite))
}
