package domain_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subtrackhq/subtrack_backend/internal/core/domain"
)

func usdSnapshot() *domain.CurrencyRateSnapshot {
	return &domain.CurrencyRateSnapshot{
		BaseCode: "USD",
		Rates: map[string]decimal.Decimal{
			"EUR": decimal.RequireFromString("0.92"),
			"JPY": decimal.RequireFromString("149.5"),
			"ZRO": decimal.Zero,
		},
		SourceDate: time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
		FetchedAt:  time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestConvert_Identity(t *testing.T) {
	s := usdSnapshot()
	amount := decimal.RequireFromString("42.42")

	got, ok := s.Convert(amount, "EUR", "EUR")
	require.True(t, ok)
	assert.True(t, amount.Equal(got))
}

func TestConvert_FromBase(t *testing.T) {
	s := usdSnapshot()

	got, ok := s.Convert(decimal.NewFromInt(100), "USD", "EUR")
	require.True(t, ok)
	assert.True(t, decimal.RequireFromString("92").Equal(got))
}

func TestConvert_ToBase(t *testing.T) {
	s := usdSnapshot()

	got, ok := s.Convert(decimal.NewFromInt(92), "EUR", "USD")
	require.True(t, ok)
	assert.True(t, decimal.NewFromInt(100).Equal(got))
}

func TestConvert_CrossCurrencySingleHop(t *testing.T) {
	s := usdSnapshot()

	got, ok := s.Convert(decimal.NewFromInt(100), "EUR", "JPY")
	require.True(t, ok)

	// Exactly 100 * 149.5 / 0.92, one chained expression through the base.
	want := decimal.NewFromInt(100).
		Mul(decimal.RequireFromString("149.5")).
		Div(decimal.RequireFromString("0.92"))
	assert.True(t, want.Equal(got), "want %s, got %s", want, got)
}

func TestConvert_RoundTripApproximatesIdentity(t *testing.T) {
	s := usdSnapshot()
	amount := decimal.RequireFromString("123.45")

	there, ok := s.Convert(amount, "EUR", "JPY")
	require.True(t, ok)
	back, ok := s.Convert(there, "JPY", "EUR")
	require.True(t, ok)

	tolerance := decimal.RequireFromString("0.0000001")
	assert.True(t, back.Sub(amount).Abs().LessThan(tolerance),
		"round trip drifted: %s -> %s", amount, back)
}

func TestConvert_MissingRateIsUnconvertible(t *testing.T) {
	s := usdSnapshot()

	_, ok := s.Convert(decimal.NewFromInt(10), "CHF", "USD")
	assert.False(t, ok)

	_, ok = s.Convert(decimal.NewFromInt(10), "USD", "CHF")
	assert.False(t, ok)

	_, ok = s.Convert(decimal.NewFromInt(10), "EUR", "CHF")
	assert.False(t, ok)
}

func TestConvert_ZeroRateIsUnconvertible(t *testing.T) {
	s := usdSnapshot()

	_, ok := s.Convert(decimal.NewFromInt(10), "ZRO", "USD")
	assert.False(t, ok)

	_, ok = s.Convert(decimal.NewFromInt(10), "ZRO", "JPY")
	assert.False(t, ok)
}

func TestConvert_CaseInsensitiveCodes(t *testing.T) {
	s := usdSnapshot()

	got, ok := s.Convert(decimal.NewFromInt(100), "usd", "eur")
	require.True(t, ok)
	assert.True(t, decimal.RequireFromString("92").Equal(got))
}

func TestAge(t *testing.T) {
	s := usdSnapshot()
	now := s.FetchedAt.Add(3 * time.Hour)
	assert.Equal(t, 3*time.Hour, s.Age(now))
}
