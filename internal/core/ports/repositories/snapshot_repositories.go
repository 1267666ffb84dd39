package repositories

import (
	"context"

	"github.com/subtrackhq/subtrack_backend/internal/core/domain"
)

// SnapshotSlot names the two snapshot slots the cache retains per base
// currency. The backup slot is only ever overwritten by a successful fetch;
// it is the last-known-good table, distinct from the possibly-expired
// current slot.
type SnapshotSlot string

const (
	SlotCurrent SnapshotSlot = "current"
	SlotBackup  SnapshotSlot = "backup"
)

// SnapshotReader defines read operations for persisted rate snapshots
type SnapshotReader interface {
	// FindSnapshot retrieves the snapshot stored in the given slot for a base currency.
	FindSnapshot(ctx context.Context, baseCode string, slot SnapshotSlot) (*domain.CurrencyRateSnapshot, error)
}

// SnapshotWriter defines write operations for persisted rate snapshots
type SnapshotWriter interface {
	// SaveSnapshot upserts a snapshot into the given slot.
	SaveSnapshot(ctx context.Context, snapshot domain.CurrencyRateSnapshot, slot SnapshotSlot) error

	// SaveCurrentAndBackup atomically writes a freshly fetched snapshot into
	// both slots.
	SaveCurrentAndBackup(ctx context.Context, snapshot domain.CurrencyRateSnapshot) error
}

// SnapshotRepositoryFacade combines all snapshot-related repository interfaces
type SnapshotRepositoryFacade interface {
	SnapshotReader
	SnapshotWriter
}

// RateSource fetches a fresh exchange-rate table from the external rate
// service for a base currency.
type RateSource interface {
	FetchLatest(ctx context.Context, baseCode string) (*domain.CurrencyRateSnapshot, error)
}
