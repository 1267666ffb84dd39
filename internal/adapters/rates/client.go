package rates

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"encoding/json"

	"github.com/shopspring/decimal"
	"github.com/subtrackhq/subtrack_backend/internal/core/domain"
	portsrepo "github.com/subtrackhq/subtrack_backend/internal/core/ports/repositories"
)

// Client fetches exchange-rate tables from a frankfurter-style endpoint:
// GET <baseURL>/latest?from=<BASE> returning {"base", "date", "rates"}.
type Client struct {
	baseURL string
	http    *http.Client
	now     func() time.Time
}

// NewClient builds a rate client with a hard request timeout, so a hung
// fetch degrades into the cache fallback instead of blocking.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		now:     time.Now,
	}
}

var _ portsrepo.RateSource = (*Client)(nil)

// FetchLatest retrieves the latest rate table for the base currency.
func (c *Client) FetchLatest(ctx context.Context, baseCode string) (*domain.CurrencyRateSnapshot, error) {
	base := strings.ToUpper(strings.TrimSpace(baseCode))
	if len(base) != 3 {
		return nil, fmt.Errorf("invalid base currency code %q", baseCode)
	}

	url := fmt.Sprintf("%s/latest?from=%s", c.baseURL, base)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build rate request: %w", err)
	}
	req.Header.Set("User-Agent", "subtrack-backend/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rate fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("rate endpoint returned HTTP %d", resp.StatusCode)
	}

	var raw struct {
		Base  string                     `json:"base"`
		Date  string                     `json:"date"`
		Rates map[string]decimal.Decimal `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode rate response: %w", err)
	}
	if len(raw.Rates) == 0 {
		return nil, fmt.Errorf("rate endpoint returned no rates for %s", base)
	}

	sourceDate, err := time.Parse("2006-01-02", raw.Date)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rate date %q: %w", raw.Date, err)
	}

	rates := make(map[string]decimal.Decimal, len(raw.Rates))
	for code, rate := range raw.Rates {
		code = strings.ToUpper(code)
		if code == base {
			// The identity rate is implied; snapshots never store it.
			continue
		}
		rates[code] = rate
	}

	return &domain.CurrencyRateSnapshot{
		BaseCode:   base,
		Rates:      rates,
		SourceDate: sourceDate,
		FetchedAt:  c.now(),
	}, nil
}
