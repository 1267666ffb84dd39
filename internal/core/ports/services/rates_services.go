package services

import (
	"context"

	"github.com/subtrackhq/subtrack_backend/internal/core/domain"
)

// RatesSvcFacade serves exchange-rate snapshots for a base currency, with
// caching and fallback to stale or backup data when the upstream fetch
// fails.
type RatesSvcFacade interface {
	// LatestSnapshot returns the freshest snapshot obtainable for the base
	// currency. With forceRefresh false, a cached snapshot within the TTL is
	// returned without touching the network.
	LatestSnapshot(ctx context.Context, baseCode string, forceRefresh bool) (*domain.CurrencyRateSnapshot, error)
}
