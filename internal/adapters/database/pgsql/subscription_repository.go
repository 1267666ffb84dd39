package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/subtrackhq/subtrack_backend/internal/apperrors"
	"github.com/subtrackhq/subtrack_backend/internal/core/domain"
	portsrepo "github.com/subtrackhq/subtrack_backend/internal/core/ports/repositories"
)

// PgxSubscriptionRepository implements the subscription repository facade using pgxpool.
type PgxSubscriptionRepository struct {
	BaseRepository
}

func newPgxSubscriptionRepository(db *pgxpool.Pool) *PgxSubscriptionRepository {
	return &PgxSubscriptionRepository{BaseRepository{Pool: db}}
}

var _ portsrepo.SubscriptionRepositoryFacade = (*PgxSubscriptionRepository)(nil)

const subscriptionColumns = `
	subscription_id, user_id, name, price, currency_code,
	cycle_kind, cycle_value, cycle_unit,
	last_billing_date, end_date, trial_value, trial_unit,
	reminder_days, notes,
	created_at, created_by, last_updated_at, last_updated_by, deleted_at
`

func (r *PgxSubscriptionRepository) SaveSubscription(ctx context.Context, sub domain.Subscription) error {
	query := `
		INSERT INTO subscriptions (` + subscriptionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`
	_, err := r.Pool.Exec(ctx, query, subscriptionArgs(sub)...)
	if err != nil {
		return fmt.Errorf("error inserting subscription: %w", err)
	}
	return nil
}

func (r *PgxSubscriptionRepository) UpdateSubscription(ctx context.Context, sub domain.Subscription) error {
	query := `
		UPDATE subscriptions SET
			name = $2, price = $3, currency_code = $4,
			cycle_kind = $5, cycle_value = $6, cycle_unit = $7,
			last_billing_date = $8, end_date = $9, trial_value = $10, trial_unit = $11,
			reminder_days = $12, notes = $13,
			last_updated_at = $14, last_updated_by = $15
		WHERE subscription_id = $1 AND deleted_at IS NULL
	`
	trialValue, trialUnit := trialColumns(sub.TrialPeriod)
	tag, err := r.Pool.Exec(ctx, query,
		sub.SubscriptionID, sub.Name, sub.Price, sub.CurrencyCode,
		string(sub.Cycle.Kind), sub.Cycle.Value, string(sub.Cycle.Unit),
		sub.LastBillingDate, sub.EndDate, trialValue, trialUnit,
		reminderDaysToDB(sub.ReminderDays), sub.Notes,
		sub.LastUpdatedAt, sub.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("error updating subscription: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxSubscriptionRepository) MarkSubscriptionDeleted(ctx context.Context, subscriptionID string, deletedBy string) error {
	query := `
		UPDATE subscriptions
		SET deleted_at = $2, last_updated_at = $2, last_updated_by = $3
		WHERE subscription_id = $1 AND deleted_at IS NULL
	`
	tag, err := r.Pool.Exec(ctx, query, subscriptionID, time.Now(), deletedBy)
	if err != nil {
		return fmt.Errorf("error soft-deleting subscription: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxSubscriptionRepository) FindSubscriptionByID(ctx context.Context, subscriptionID string) (*domain.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE subscription_id = $1 AND deleted_at IS NULL`
	row := r.Pool.QueryRow(ctx, query, subscriptionID)
	sub, err := scanSubscription(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("error finding subscription: %w", err)
	}
	return sub, nil
}

func (r *PgxSubscriptionRepository) ListSubscriptionsByUser(ctx context.Context, userID string) ([]domain.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE user_id = $1 AND deleted_at IS NULL ORDER BY name, subscription_id`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []domain.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning subscription row: %w", err)
		}
		subs = append(subs, *sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subscription rows: %w", err)
	}
	return subs, nil
}

func subscriptionArgs(sub domain.Subscription) []any {
	trialValue, trialUnit := trialColumns(sub.TrialPeriod)
	return []any{
		sub.SubscriptionID, sub.UserID, sub.Name, sub.Price, sub.CurrencyCode,
		string(sub.Cycle.Kind), sub.Cycle.Value, string(sub.Cycle.Unit),
		sub.LastBillingDate, sub.EndDate, trialValue, trialUnit,
		reminderDaysToDB(sub.ReminderDays), sub.Notes,
		sub.CreatedAt, sub.CreatedBy, sub.LastUpdatedAt, sub.LastUpdatedBy, sub.DeletedAt,
	}
}

func trialColumns(trial *domain.TrialPeriod) (*int, *string) {
	if trial == nil {
		return nil, nil
	}
	unit := string(trial.Unit)
	value := trial.Value
	return &value, &unit
}

func reminderDaysToDB(days []int) []int32 {
	out := make([]int32, len(days))
	for i, d := range days {
		out[i] = int32(d)
	}
	return out
}

func scanSubscription(row pgx.Row) (*domain.Subscription, error) {
	var (
		sub          domain.Subscription
		cycleKind    string
		cycleUnit    string
		trialValue   *int
		trialUnit    *string
		reminderDays []int32
	)
	err := row.Scan(
		&sub.SubscriptionID, &sub.UserID, &sub.Name, &sub.Price, &sub.CurrencyCode,
		&cycleKind, &sub.Cycle.Value, &cycleUnit,
		&sub.LastBillingDate, &sub.EndDate, &trialValue, &trialUnit,
		&reminderDays, &sub.Notes,
		&sub.CreatedAt, &sub.CreatedBy, &sub.LastUpdatedAt, &sub.LastUpdatedBy, &sub.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	sub.Cycle.Kind = domain.CycleKind(cycleKind)
	sub.Cycle.Unit = domain.CycleUnit(cycleUnit)
	if trialValue != nil && trialUnit != nil {
		sub.TrialPeriod = &domain.TrialPeriod{Value: *trialValue, Unit: domain.CycleUnit(*trialUnit)}
	}
	if len(reminderDays) > 0 {
		sub.ReminderDays = make([]int, len(reminderDays))
		for i, d := range reminderDays {
			sub.ReminderDays[i] = int(d)
		}
	}
	return &sub, nil
}
