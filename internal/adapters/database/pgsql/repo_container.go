package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/subtrackhq/subtrack_backend/internal/core/ports/repositories"
)

// NewRepositoryProvider wires all pgsql-backed repositories. The RateSource
// slot is filled separately by the caller, since it's an HTTP adapter.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		SubscriptionRepo: newPgxSubscriptionRepository(dbPool),
		CurrencyRepo:     newPgxCurrencyRepository(dbPool),
		SnapshotRepo:     newPgxSnapshotRepository(dbPool),
		UserRepo:         newPgxUserRepository(dbPool),
	}
}
