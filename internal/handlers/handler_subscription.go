package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/subtrackhq/subtrack_backend/internal/apperrors"
	portssvc "github.com/subtrackhq/subtrack_backend/internal/core/ports/services"
	"github.com/subtrackhq/subtrack_backend/internal/dto"
	"github.com/subtrackhq/subtrack_backend/internal/middleware"
)

// subscriptionHandler handles HTTP requests related to subscriptions.
type subscriptionHandler struct {
	subscriptionService portssvc.SubscriptionSvcFacade
}

func newSubscriptionHandler(ss portssvc.SubscriptionSvcFacade) *subscriptionHandler {
	return &subscriptionHandler{subscriptionService: ss}
}

// registerSubscriptionRoutes registers routes related to subscriptions.
func registerSubscriptionRoutes(rg *gin.RouterGroup, subscriptionService portssvc.SubscriptionSvcFacade) {
	h := newSubscriptionHandler(subscriptionService)

	subs := rg.Group("/subscriptions")
	{
		subs.POST("", h.createSubscription)
		subs.GET("", h.listSubscriptions)
		subs.GET("/:id", h.getSubscription)
		subs.PUT("/:id", h.updateSubscription)
		subs.DELETE("/:id", h.deleteSubscription)
	}
}

// createSubscription godoc
// @Summary Create a new subscription
// @Description Adds a subscription for the authenticated user
// @Tags subscriptions
// @Accept  json
// @Produce  json
// @Param   subscription body dto.CreateSubscriptionRequest true "Subscription details"
// @Success 201 {object} dto.SubscriptionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /subscriptions [post]
func (h *subscriptionHandler) createSubscription(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateSubscription", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	sub, err := h.subscriptionService.CreateSubscription(c.Request.Context(), userID, req)
	if err != nil {
		respondSubscriptionError(c, err, "Failed to create subscription")
		return
	}

	c.JSON(http.StatusCreated, dto.ToSubscriptionResponse(sub, time.Now()))
}

// listSubscriptions godoc
// @Summary List the user's subscriptions
// @Tags subscriptions
// @Produce  json
// @Success 200 {array} dto.SubscriptionResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /subscriptions [get]
func (h *subscriptionHandler) listSubscriptions(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	subs, err := h.subscriptionService.ListSubscriptions(c.Request.Context(), userID)
	if err != nil {
		respondSubscriptionError(c, err, "Failed to list subscriptions")
		return
	}

	c.JSON(http.StatusOK, dto.ToListSubscriptionResponse(subs, time.Now()))
}

// getSubscription godoc
// @Summary Get a subscription by ID
// @Tags subscriptions
// @Produce  json
// @Param   id path string true "Subscription ID"
// @Success 200 {object} dto.SubscriptionResponse
// @Failure 404 {object} map[string]string "Not found"
// @Security BearerAuth
// @Router /subscriptions/{id} [get]
func (h *subscriptionHandler) getSubscription(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	sub, err := h.subscriptionService.GetSubscriptionByID(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondSubscriptionError(c, err, "Failed to get subscription")
		return
	}

	c.JSON(http.StatusOK, dto.ToSubscriptionResponse(sub, time.Now()))
}

// updateSubscription godoc
// @Summary Update a subscription
// @Tags subscriptions
// @Accept  json
// @Produce  json
// @Param   id path string true "Subscription ID"
// @Param   subscription body dto.UpdateSubscriptionRequest true "Fields to update"
// @Success 200 {object} dto.SubscriptionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Not found"
// @Security BearerAuth
// @Router /subscriptions/{id} [put]
func (h *subscriptionHandler) updateSubscription(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.UpdateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateSubscription", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	sub, err := h.subscriptionService.UpdateSubscription(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		respondSubscriptionError(c, err, "Failed to update subscription")
		return
	}

	c.JSON(http.StatusOK, dto.ToSubscriptionResponse(sub, time.Now()))
}

// deleteSubscription godoc
// @Summary Delete a subscription
// @Tags subscriptions
// @Param   id path string true "Subscription ID"
// @Success 204 "No content"
// @Failure 404 {object} map[string]string "Not found"
// @Security BearerAuth
// @Router /subscriptions/{id} [delete]
func (h *subscriptionHandler) deleteSubscription(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.subscriptionService.DeleteSubscription(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondSubscriptionError(c, err, "Failed to delete subscription")
		return
	}

	c.Status(http.StatusNoContent)
}

func respondSubscriptionError(c *gin.Context, err error, fallbackMsg string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	switch {
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrUnsupportedCurrency):
		logger.Warn("Subscription validation failed", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Subscription not found"})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	default:
		logger.Error(fallbackMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallbackMsg})
	}
}
