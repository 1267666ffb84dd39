package domain

import "github.com/shopspring/decimal"

// SpendingResult is the outcome of aggregating a set of subscriptions into a
// single base currency. Produced fresh on every aggregation, never persisted.
type SpendingResult struct {
	Total decimal.Decimal `json:"total"`
	// MissingCurrencyCodes lists currencies that could not be converted with
	// the snapshot used. Sorted for determinism. Their subscriptions are
	// excluded from Total rather than failing the whole aggregation.
	MissingCurrencyCodes []string `json:"missingCurrencyCodes"`
}
