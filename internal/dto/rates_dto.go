package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/subtrackhq/subtrack_backend/internal/core/domain"
)

// RateSnapshotResponse defines the API response for an exchange-rate snapshot.
type RateSnapshotResponse struct {
	BaseCode   string                     `json:"baseCode"`
	Rates      map[string]decimal.Decimal `json:"rates"`
	SourceDate time.Time                  `json:"sourceDate"`
	FetchedAt  time.Time                  `json:"fetchedAt"`
}

// ToRateSnapshotResponse converts a domain snapshot to its response DTO.
func ToRateSnapshotResponse(snapshot *domain.CurrencyRateSnapshot) RateSnapshotResponse {
	return RateSnapshotResponse{
		BaseCode:   snapshot.BaseCode,
		Rates:      snapshot.Rates,
		SourceDate: snapshot.SourceDate,
		FetchedAt:  snapshot.FetchedAt,
	}
}
