package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CurrencyRateSnapshot is one fetched exchange-rate table for a base
// currency. Rates express "1 BaseCode = rate quote" and never contain
// BaseCode itself; identity conversion is short-circuited in Convert.
// Snapshots are immutable once built and superseded, never mutated.
type CurrencyRateSnapshot struct {
	BaseCode   string                     `json:"baseCode"`
	Rates      map[string]decimal.Decimal `json:"rates"`
	SourceDate time.Time                  `json:"sourceDate"` // Date the table was published upstream
	FetchedAt  time.Time                  `json:"fetchedAt"`  // Local fetch time
}

// Age returns how long ago the snapshot was fetched.
func (s *CurrencyRateSnapshot) Age(now time.Time) time.Duration {
	return now.Sub(s.FetchedAt)
}

// Rate looks up the quote rate for a (case-insensitive) currency code.
func (s *CurrencyRateSnapshot) Rate(code string) (decimal.Decimal, bool) {
	rate, ok := s.Rates[strings.ToUpper(code)]
	return rate, ok
}

// Convert converts amount from one currency to another through the
// snapshot's base. The second return is false when a required rate is
// missing or zero; callers must treat that as "unconvertible", not zero.
//
// The cross-currency case is computed as amount * rate(to) / rate(from) in
// one chained decimal expression so the intermediate value is never rounded
// on its own.
func (s *CurrencyRateSnapshot) Convert(amount decimal.Decimal, from, to string) (decimal.Decimal, bool) {
	from = strings.ToUpper(from)
	to = strings.ToUpper(to)
	base := strings.ToUpper(s.BaseCode)

	if from == to {
		return amount, true
	}

	switch {
	case from == base:
		toRate, ok := s.Rates[to]
		if !ok {
			return decimal.Decimal{}, false
		}
		return amount.Mul(toRate), true

	case to == base:
		fromRate, ok := s.Rates[from]
		if !ok || fromRate.IsZero() {
			return decimal.Decimal{}, false
		}
		return amount.Div(fromRate), true

	default:
		toRate, okTo := s.Rates[to]
		fromRate, okFrom := s.Rates[from]
		if !okTo || !okFrom || fromRate.IsZero() {
			return decimal.Decimal{}, false
		}
		return amount.Mul(toRate).Div(fromRate), true
	}
}
