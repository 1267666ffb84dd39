package dto

import (
	"github.com/shopspring/decimal"
	"github.com/subtrackhq/subtrack_backend/internal/core/domain"
)

// SpendingReportResponse defines the API response for an aggregated spend total.
type SpendingReportResponse struct {
	BaseCurrencyCode string          `json:"baseCurrencyCode"`
	Total            decimal.Decimal `json:"total"`
	// MissingCurrencyCodes lists currencies excluded from the total because
	// no conversion path existed in the snapshot used.
	MissingCurrencyCodes []string `json:"missingCurrencyCodes"`
}

// ToSpendingReportResponse converts a domain.SpendingResult to its response DTO.
func ToSpendingReportResponse(baseCode string, result *domain.SpendingResult) SpendingReportResponse {
	missing := result.MissingCurrencyCodes
	if missing == nil {
		missing = []string{}
	}
	return SpendingReportResponse{
		BaseCurrencyCode:     baseCode,
		Total:                result.Total,
		MissingCurrencyCodes: missing,
	}
}
