package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/subtrackhq/subtrack_backend/internal/apperrors"
	"github.com/subtrackhq/subtrack_backend/internal/core/domain"
	portsrepo "github.com/subtrackhq/subtrack_backend/internal/core/ports/repositories"
)

// PgxSnapshotRepository persists exchange-rate snapshots, one row per
// (base currency, slot). The rates table is stored as jsonb.
type PgxSnapshotRepository struct {
	BaseRepository
}

func newPgxSnapshotRepository(db *pgxpool.Pool) *PgxSnapshotRepository {
	return &PgxSnapshotRepository{BaseRepository{Pool: db}}
}

var _ portsrepo.SnapshotRepositoryFacade = (*PgxSnapshotRepository)(nil)

const upsertSnapshotQuery = `
	INSERT INTO rate_snapshots (base_code, slot, rates, source_date, fetched_at)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (base_code, slot) DO UPDATE SET
		rates = EXCLUDED.rates,
		source_date = EXCLUDED.source_date,
		fetched_at = EXCLUDED.fetched_at
`

func (r *PgxSnapshotRepository) SaveSnapshot(ctx context.Context, snapshot domain.CurrencyRateSnapshot, slot portsrepo.SnapshotSlot) error {
	ratesJSON, err := json.Marshal(snapshot.Rates)
	if err != nil {
		return fmt.Errorf("error encoding snapshot rates: %w", err)
	}
	_, err = r.Pool.Exec(ctx, upsertSnapshotQuery,
		strings.ToUpper(snapshot.BaseCode), string(slot), ratesJSON, snapshot.SourceDate, snapshot.FetchedAt,
	)
	if err != nil {
		return fmt.Errorf("error upserting rate snapshot: %w", err)
	}
	return nil
}

// SaveCurrentAndBackup writes a freshly fetched snapshot into both slots in
// one transaction, so a crash between the writes cannot leave the backup
// newer than the current slot.
func (r *PgxSnapshotRepository) SaveCurrentAndBackup(ctx context.Context, snapshot domain.CurrencyRateSnapshot) error {
	ratesJSON, err := json.Marshal(snapshot.Rates)
	if err != nil {
		return fmt.Errorf("error encoding snapshot rates: %w", err)
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	base := strings.ToUpper(snapshot.BaseCode)
	for _, slot := range []portsrepo.SnapshotSlot{portsrepo.SlotCurrent, portsrepo.SlotBackup} {
		if _, err := tx.Exec(ctx, upsertSnapshotQuery,
			base, string(slot), ratesJSON, snapshot.SourceDate, snapshot.FetchedAt,
		); err != nil {
			return fmt.Errorf("error upserting rate snapshot slot %s: %w", slot, err)
		}
	}

	return r.Commit(ctx, tx)
}

func (r *PgxSnapshotRepository) FindSnapshot(ctx context.Context, baseCode string, slot portsrepo.SnapshotSlot) (*domain.CurrencyRateSnapshot, error) {
	query := `
		SELECT base_code, rates, source_date, fetched_at
		FROM rate_snapshots
		WHERE base_code = $1 AND slot = $2
	`
	var (
		snapshot  domain.CurrencyRateSnapshot
		ratesJSON []byte
	)
	err := r.Pool.QueryRow(ctx, query, strings.ToUpper(baseCode), string(slot)).Scan(
		&snapshot.BaseCode, &ratesJSON, &snapshot.SourceDate, &snapshot.FetchedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("error finding rate snapshot: %w", err)
	}

	rates := make(map[string]decimal.Decimal)
	if err := json.Unmarshal(ratesJSON, &rates); err != nil {
		return nil, fmt.Errorf("error decoding snapshot rates: %w", err)
	}
	snapshot.Rates = rates
	return &snapshot, nil
}
