package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/subtrackhq/subtrack_backend/internal/apperrors"
	portssvc "github.com/subtrackhq/subtrack_backend/internal/core/ports/services"
	"github.com/subtrackhq/subtrack_backend/internal/dto"
	"github.com/subtrackhq/subtrack_backend/internal/middleware"
)

// ratesHandler handles HTTP requests related to exchange-rate snapshots.
type ratesHandler struct {
	ratesService portssvc.RatesSvcFacade
}

func newRatesHandler(rs portssvc.RatesSvcFacade) *ratesHandler {
	return &ratesHandler{ratesService: rs}
}

// registerRatesRoutes registers routes related to exchange rates.
func registerRatesRoutes(rg *gin.RouterGroup, ratesService portssvc.RatesSvcFacade) {
	h := newRatesHandler(ratesService)

	rates := rg.Group("/rates")
	{
		rates.GET("/latest", h.getLatestRates)
	}
}

// getLatestRates godoc
// @Summary Get the latest exchange-rate snapshot
// @Description Returns cached rates for the base currency, refreshing from the upstream provider when stale or when refresh=true
// @Tags rates
// @Produce  json
// @Param   base query string true "Base currency code (ISO 4217)"
// @Param   refresh query bool false "Force a refresh even if the cache is fresh"
// @Success 200 {object} dto.RateSnapshotResponse
// @Failure 400 {object} map[string]string "Invalid base currency"
// @Failure 502 {object} map[string]string "No rate data obtainable"
// @Security BearerAuth
// @Router /rates/latest [get]
func (h *ratesHandler) getLatestRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	base := strings.ToUpper(strings.TrimSpace(c.Query("base")))
	if base == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter 'base' is required"})
		return
	}
	forceRefresh, _ := strconv.ParseBool(c.DefaultQuery("refresh", "false"))

	snapshot, err := h.ratesService.LatestSnapshot(c.Request.Context(), base, forceRefresh)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrUnsupportedCurrency):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrRateUnavailable):
			logger.Warn("No exchange-rate data obtainable", slog.String("base", base), slog.String("error", err.Error()))
			c.JSON(http.StatusBadGateway, gin.H{"error": "Exchange rates temporarily unavailable"})
		default:
			logger.Error("Failed to get exchange rates", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get exchange rates"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToRateSnapshotResponse(snapshot))
}
