package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/subtrackhq/subtrack_backend/internal/apperrors"
	"github.com/subtrackhq/subtrack_backend/internal/core/domain"
	portsrepo "github.com/subtrackhq/subtrack_backend/internal/core/ports/repositories"
	portssvc "github.com/subtrackhq/subtrack_backend/internal/core/ports/services"
	"github.com/subtrackhq/subtrack_backend/internal/middleware"
)

// RatesService serves exchange-rate snapshots with a per-base cache and a
// tiered fallback: fresh cache, network fetch, stale cache, persisted
// backup, and only then failure.
//
// Two slots are retained per base currency. The current slot holds the most
// recent snapshot regardless of how it was obtained; the backup slot is the
// last snapshot that came from a successful fetch and is only ever
// overwritten by another successful fetch.
type RatesService struct {
	snapshotRepo    portsrepo.SnapshotRepositoryFacade
	source          portsrepo.RateSource
	currencyService portssvc.CurrencySvcFacade
	ttl             time.Duration
	now             func() time.Time

	// mu serializes all cache reads and writes, so a fetch in progress can
	// never observe or leave a half-written slot.
	mu    sync.Mutex
	cache map[string]*domain.CurrencyRateSnapshot
}

// NewRatesService creates a new RatesService with the given snapshot TTL.
func NewRatesService(snapshotRepo portsrepo.SnapshotRepositoryFacade, source portsrepo.RateSource, currencyService portssvc.CurrencySvcFacade, ttl time.Duration) *RatesService {
	return &RatesService{
		snapshotRepo:    snapshotRepo,
		source:          source,
		currencyService: currencyService,
		ttl:             ttl,
		now:             time.Now,
		cache:           make(map[string]*domain.CurrencyRateSnapshot),
	}
}

// LatestSnapshot returns the freshest snapshot obtainable for the base
// currency. Without forceRefresh, a cached snapshot within the TTL is
// returned with no network call.
func (s *RatesService) LatestSnapshot(ctx context.Context, baseCode string, forceRefresh bool) (*domain.CurrencyRateSnapshot, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	base := strings.ToUpper(strings.TrimSpace(baseCode))
	if _, err := s.currencyService.GetCurrencyByCode(ctx, base); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: base currency '%s'", apperrors.ErrUnsupportedCurrency, base)
		}
		return nil, fmt.Errorf("failed to validate base currency '%s': %w", base, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.cache[base]
	if current == nil {
		current = s.loadSlot(ctx, base, portsrepo.SlotCurrent)
		if current != nil {
			s.cache[base] = current
		}
	}

	if !forceRefresh && current != nil && current.Age(s.now()) <= s.ttl {
		return current, nil
	}

	fetched, fetchErr := s.source.FetchLatest(ctx, base)
	if fetchErr == nil {
		if err := s.snapshotRepo.SaveCurrentAndBackup(ctx, *fetched); err != nil {
			// The snapshot is still usable this process lifetime; only its
			// durability is degraded.
			logger.Warn("Failed to persist rate snapshot", slog.String("base", base), slog.String("error", err.Error()))
		}
		s.cache[base] = fetched
		return fetched, nil
	}

	logger.Warn("Rate fetch failed, falling back to cache", slog.String("base", base), slog.String("error", fetchErr.Error()))

	// Stale-but-present beats nothing.
	if current != nil {
		return current, nil
	}

	if backup := s.loadSlot(ctx, base, portsrepo.SlotBackup); backup != nil {
		s.cache[base] = backup
		return backup, nil
	}

	return nil, fmt.Errorf("%w: %w", apperrors.ErrRateUnavailable, fetchErr)
}

func (s *RatesService) loadSlot(ctx context.Context, base string, slot portsrepo.SnapshotSlot) *domain.CurrencyRateSnapshot {
	snapshot, err := s.snapshotRepo.FindSnapshot(ctx, base, slot)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			middleware.GetLoggerFromCtx(ctx).Warn("Failed to load persisted rate snapshot",
				slog.String("base", base), slog.String("slot", string(slot)), slog.String("error", err.Error()))
		}
		return nil
	}
	return snapshot
}
