package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/subtrackhq/subtrack_backend/internal/apperrors"
	"github.com/subtrackhq/subtrack_backend/internal/core/domain"
	"github.com/subtrackhq/subtrack_backend/internal/core/services"
	"github.com/subtrackhq/subtrack_backend/internal/dto"
)

type SubscriptionServiceTestSuite struct {
	suite.Suite
	mockRepo     *MockSubscriptionRepository
	mockCurrency *MockCurrencyService
	service      *services.SubscriptionService
}

func (suite *SubscriptionServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockSubscriptionRepository)
	suite.mockCurrency = new(MockCurrencyService)
	suite.service = services.NewSubscriptionService(suite.mockRepo, suite.mockCurrency)
}

func validCreateRequest() dto.CreateSubscriptionRequest {
	return dto.CreateSubscriptionRequest{
		Name:            "Netflix",
		Price:           decimal.RequireFromString("15.99"),
		CurrencyCode:    "USD",
		Cycle:           dto.BillingCycleInput{Kind: "MONTHLY"},
		LastBillingDate: time.Now().AddDate(0, 0, -10),
	}
}

func (suite *SubscriptionServiceTestSuite) expectSupportedCurrency(code string) {
	suite.mockCurrency.On("GetCurrencyByCode", mock.Anything, code).
		Return(&domain.Currency{CurrencyCode: code}, nil)
}

func (suite *SubscriptionServiceTestSuite) TestCreateSubscription_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	req := validCreateRequest()
	suite.expectSupportedCurrency("USD")

	suite.mockRepo.On("SaveSubscription", ctx, mock.MatchedBy(func(s domain.Subscription) bool {
		return s.UserID == userID &&
			s.Name == req.Name &&
			s.CurrencyCode == "USD" &&
			s.Cycle.Kind == domain.CycleMonthly &&
			s.CreatedBy == userID
	})).Return(nil).Once()

	sub, err := suite.service.CreateSubscription(ctx, userID, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(sub)
	suite.NotEmpty(sub.SubscriptionID)
	suite.True(req.Price.Equal(sub.Price))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *SubscriptionServiceTestSuite) TestCreateSubscription_NormalizesCurrencyAndLegacyCycle() {
	ctx := context.Background()
	userID := uuid.NewString()
	req := validCreateRequest()
	req.CurrencyCode = " usd "
	req.Cycle = dto.BillingCycleInput{Kind: "Monthly"}
	suite.expectSupportedCurrency("USD")

	suite.mockRepo.On("SaveSubscription", ctx, mock.MatchedBy(func(s domain.Subscription) bool {
		return s.CurrencyCode == "USD" && s.Cycle.Kind == domain.CycleMonthly
	})).Return(nil).Once()

	_, err := suite.service.CreateSubscription(ctx, userID, req)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *SubscriptionServiceTestSuite) TestCreateSubscription_RejectsNonPositivePrice() {
	ctx := context.Background()
	req := validCreateRequest()
	req.Price = decimal.Zero

	_, err := suite.service.CreateSubscription(ctx, uuid.NewString(), req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveSubscription", mock.Anything, mock.Anything)
}

func (suite *SubscriptionServiceTestSuite) TestCreateSubscription_RejectsUnsupportedCurrency() {
	ctx := context.Background()
	req := validCreateRequest()
	req.CurrencyCode = "XYZ"
	suite.mockCurrency.On("GetCurrencyByCode", mock.Anything, "XYZ").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.CreateSubscription(ctx, uuid.NewString(), req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnsupportedCurrency)
}

func (suite *SubscriptionServiceTestSuite) TestCreateSubscription_RejectsFutureLastBillingDate() {
	ctx := context.Background()
	req := validCreateRequest()
	req.LastBillingDate = time.Now().AddDate(0, 1, 0)
	suite.expectSupportedCurrency("USD")

	_, err := suite.service.CreateSubscription(ctx, uuid.NewString(), req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *SubscriptionServiceTestSuite) TestCreateSubscription_RejectsEndDateBeforeLastBilling() {
	ctx := context.Background()
	req := validCreateRequest()
	end := req.LastBillingDate.AddDate(0, 0, -1)
	req.EndDate = &end
	suite.expectSupportedCurrency("USD")

	_, err := suite.service.CreateSubscription(ctx, uuid.NewString(), req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *SubscriptionServiceTestSuite) TestCreateSubscription_RejectsInvalidCustomCycle() {
	ctx := context.Background()
	req := validCreateRequest()
	req.Cycle = dto.BillingCycleInput{Kind: "CUSTOM", Value: 0, Unit: "DAY"}
	suite.expectSupportedCurrency("USD")

	_, err := suite.service.CreateSubscription(ctx, uuid.NewString(), req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *SubscriptionServiceTestSuite) TestGetSubscriptionByID_EnforcesOwnership() {
	ctx := context.Background()
	owner := uuid.NewString()
	intruder := uuid.NewString()
	sub := &domain.Subscription{SubscriptionID: uuid.NewString(), UserID: owner}

	suite.mockRepo.On("FindSubscriptionByID", ctx, sub.SubscriptionID).Return(sub, nil).Twice()

	got, err := suite.service.GetSubscriptionByID(ctx, owner, sub.SubscriptionID)
	suite.Require().NoError(err)
	suite.Equal(sub.SubscriptionID, got.SubscriptionID)

	// A different user sees not-found, not forbidden.
	_, err = suite.service.GetSubscriptionByID(ctx, intruder, sub.SubscriptionID)
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *SubscriptionServiceTestSuite) TestUpdateSubscription_AppliesPartialChanges() {
	ctx := context.Background()
	userID := uuid.NewString()
	sub := &domain.Subscription{
		SubscriptionID:  uuid.NewString(),
		UserID:          userID,
		Name:            "Netflix",
		Price:           decimal.RequireFromString("15.99"),
		CurrencyCode:    "USD",
		Cycle:           domain.BillingCycle{Kind: domain.CycleMonthly},
		LastBillingDate: time.Now().AddDate(0, 0, -10),
	}
	newName := "Netflix Premium"
	newPrice := decimal.RequireFromString("19.99")
	req := dto.UpdateSubscriptionRequest{Name: &newName, Price: &newPrice}

	suite.mockRepo.On("FindSubscriptionByID", ctx, sub.SubscriptionID).Return(sub, nil).Once()
	suite.mockRepo.On("UpdateSubscription", ctx, mock.MatchedBy(func(s domain.Subscription) bool {
		return s.Name == newName && s.Price.Equal(newPrice) && s.CurrencyCode == "USD" && s.LastUpdatedBy == userID
	})).Return(nil).Once()

	updated, err := suite.service.UpdateSubscription(ctx, userID, sub.SubscriptionID, req)

	suite.Require().NoError(err)
	suite.Equal(newName, updated.Name)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *SubscriptionServiceTestSuite) TestUpdateSubscription_ClearEndDate() {
	ctx := context.Background()
	userID := uuid.NewString()
	end := time.Now().AddDate(0, 1, 0)
	sub := &domain.Subscription{
		SubscriptionID:  uuid.NewString(),
		UserID:          userID,
		Name:            "Spotify",
		Price:           decimal.RequireFromString("9.99"),
		CurrencyCode:    "USD",
		Cycle:           domain.BillingCycle{Kind: domain.CycleMonthly},
		LastBillingDate: time.Now().AddDate(0, 0, -5),
		EndDate:         &end,
	}
	req := dto.UpdateSubscriptionRequest{ClearEndDate: true}

	suite.mockRepo.On("FindSubscriptionByID", ctx, sub.SubscriptionID).Return(sub, nil).Once()
	suite.mockRepo.On("UpdateSubscription", ctx, mock.MatchedBy(func(s domain.Subscription) bool {
		return s.EndDate == nil
	})).Return(nil).Once()

	updated, err := suite.service.UpdateSubscription(ctx, userID, sub.SubscriptionID, req)

	suite.Require().NoError(err)
	suite.Nil(updated.EndDate)
}

func (suite *SubscriptionServiceTestSuite) TestDeleteSubscription_SoftDeletesOwned() {
	ctx := context.Background()
	userID := uuid.NewString()
	sub := &domain.Subscription{SubscriptionID: uuid.NewString(), UserID: userID}

	suite.mockRepo.On("FindSubscriptionByID", ctx, sub.SubscriptionID).Return(sub, nil).Once()
	suite.mockRepo.On("MarkSubscriptionDeleted", ctx, sub.SubscriptionID, userID).Return(nil).Once()

	err := suite.service.DeleteSubscription(ctx, userID, sub.SubscriptionID)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *SubscriptionServiceTestSuite) TestListSubscriptions_NilBecomesEmptySlice() {
	ctx := context.Background()
	userID := uuid.NewString()

	suite.mockRepo.On("ListSubscriptionsByUser", ctx, userID).Return([]domain.Subscription(nil), nil).Once()

	subs, err := suite.service.ListSubscriptions(ctx, userID)

	suite.Require().NoError(err)
	suite.NotNil(subs)
	suite.Empty(subs)
}

func TestSubscriptionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SubscriptionServiceTestSuite))
}
