package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/subtrackhq/subtrack_backend/internal/apperrors"
	"github.com/subtrackhq/subtrack_backend/internal/core/domain"
	portssvc "github.com/subtrackhq/subtrack_backend/internal/core/ports/services"
	"github.com/subtrackhq/subtrack_backend/internal/dto"
	"github.com/subtrackhq/subtrack_backend/internal/middleware"
)

// spendingHandler handles HTTP requests related to spend aggregation.
type spendingHandler struct {
	spendingService portssvc.SpendingSvcFacade
}

func newSpendingHandler(ss portssvc.SpendingSvcFacade) *spendingHandler {
	return &spendingHandler{spendingService: ss}
}

// registerSpendingRoutes registers routes related to spending reports.
func registerSpendingRoutes(rg *gin.RouterGroup, spendingService portssvc.SpendingSvcFacade) {
	h := newSpendingHandler(spendingService)

	spending := rg.Group("/spending")
	{
		spending.GET("/monthly", h.getMonthlySpending)
		spending.GET("/lifetime", h.getLifetimeSpending)
	}
}

// getMonthlySpending godoc
// @Summary Get the user's normalized monthly spend
// @Description Sums the monthly-equivalent cost of all active subscriptions in the base currency. Currencies that could not be converted are listed separately.
// @Tags spending
// @Produce  json
// @Param   base query string true "Base currency code (ISO 4217)"
// @Success 200 {object} dto.SpendingReportResponse
// @Failure 400 {object} map[string]string "Invalid base currency"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /spending/monthly [get]
func (h *spendingHandler) getMonthlySpending(c *gin.Context) {
	h.report(c, h.spendingService.MonthlyOverview, "Failed to compute monthly spending")
}

// getLifetimeSpending godoc
// @Summary Get the user's total one-time spend
// @Description Sums the prices of lifetime subscriptions in the base currency.
// @Tags spending
// @Produce  json
// @Param   base query string true "Base currency code (ISO 4217)"
// @Success 200 {object} dto.SpendingReportResponse
// @Failure 400 {object} map[string]string "Invalid base currency"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /spending/lifetime [get]
func (h *spendingHandler) getLifetimeSpending(c *gin.Context) {
	h.report(c, h.spendingService.LifetimeOverview, "Failed to compute lifetime spending")
}

func (h *spendingHandler) report(c *gin.Context, overview func(ctx context.Context, userID, baseCode string) (*domain.SpendingResult, error), fallbackMsg string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	base := strings.ToUpper(strings.TrimSpace(c.Query("base")))
	if base == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter 'base' is required"})
		return
	}

	result, err := overview(c.Request.Context(), userID, base)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrUnsupportedCurrency):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrRateUnavailable):
			logger.Warn("Spending report degraded by unavailable rates", slog.String("base", base), slog.String("error", err.Error()))
			c.JSON(http.StatusBadGateway, gin.H{"error": "Exchange rates temporarily unavailable"})
		default:
			logger.Error(fallbackMsg, slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": fallbackMsg})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToSpendingReportResponse(base, result))
}
