package services

import (
	portsrepo "github.com/subtrackhq/subtrack_backend/internal/core/ports/repositories"
	portssvc "github.com/subtrackhq/subtrack_backend/internal/core/ports/services"
	"github.com/subtrackhq/subtrack_backend/pkg/config"
)

// NewServiceContainer wires all services over the repository provider.
func NewServiceContainer(repos portsrepo.RepositoryProvider, cfg *config.Config) *portssvc.ServiceContainer {
	userService := NewUserService(repos.UserRepo)
	currencyService := NewCurrencyService(repos.CurrencyRepo)
	subscriptionService := NewSubscriptionService(repos.SubscriptionRepo, currencyService)
	ratesService := NewRatesService(repos.SnapshotRepo, repos.RateSource, currencyService, cfg.RatesCacheTTL)
	spendingService := NewSpendingService(repos.SubscriptionRepo, ratesService)

	return &portssvc.ServiceContainer{
		User:         userService,
		Token:        NewTokenService(cfg, userService),
		GoogleOAuth:  NewGoogleOAuthHandlerService(cfg),
		Currency:     currencyService,
		Subscription: subscriptionService,
		Rates:        ratesService,
		Spending:     spendingService,
	}
}
