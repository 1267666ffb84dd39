package repositories

// RepositoryProvider bundles the repository facades the service layer needs.
type RepositoryProvider struct {
	SubscriptionRepo SubscriptionRepositoryFacade
	CurrencyRepo     CurrencyRepositoryFacade
	SnapshotRepo     SnapshotRepositoryFacade
	UserRepo         UserRepositoryFacade
	RateSource       RateSource
}
