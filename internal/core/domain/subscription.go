package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Subscription is a recurring (or one-time, for lifetime cycles) paid service
// tracked for a user.
type Subscription struct {
	SubscriptionID  string          `json:"subscriptionID"` // Primary Key (UUID)
	UserID          string          `json:"userID"`         // Owner, FK -> User.userID
	Name            string          `json:"name"`
	Price           decimal.Decimal `json:"price"`        // Per cycle; one-time cost for lifetime
	CurrencyCode    string          `json:"currencyCode"` // FK -> Currency.currencyCode
	Cycle           BillingCycle    `json:"cycle"`
	LastBillingDate time.Time       `json:"lastBillingDate"`
	EndDate         *time.Time      `json:"endDate,omitempty"`
	TrialPeriod     *TrialPeriod    `json:"trialPeriod,omitempty"`
	ReminderDays    []int           `json:"reminderDays,omitempty"` // Days before renewal; consumed by the notifier
	Notes           string          `json:"notes,omitempty"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"` // Used for soft delete
}
