package handlers

import (
	"fintrack/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AnalyticsHandler struct {
	analytics *service.AnalyticsService
	logger    *zap.Logger
}

func NewAnalyticsHandler(analytics *service.AnalyticsService, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		analytics: analytics,
		logger:    logger,
	}
}

// Summary godoc
// @Summary Revenue, expense and count totals
// @Tags analytics
// @Produce json
// @Success 200 {object} dto.SummaryResponse
// @Failure 500 {object} map[string]string
// @Security Bearer
// @Router /transactions/analytics/summary [get]
func (h *AnalyticsHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.analytics.Summary(c.Context())
	if err != nil {
		h.logger.Error("Error computing summary", zap.Error(err))
		return internalError(c)
	}
	return c.JSON(summary)
}

// Category godoc
// @Summary Amount totals grouped by category
// @Tags analytics
// @Produce json
// @Success 200 {array} dto.CategoryValue
// @Failure 500 {object} map[string]string
// @Security Bearer
// @Router /transactions/analytics/category [get]
func (h *AnalyticsHandler) Category(c *fiber.Ctx) error {
	breakdown, err := h.analytics.CategoryBreakdown(c.Context())
	if err != nil {
		h.logger.Error("Error computing category breakdown", zap.Error(err))
		return internalError(c)
	}
	return c.JSON(breakdown)
}

// Trend godoc
// @Summary Monthly revenue/expense trend
// @Tags analytics
// @Produce json
// @Success 200 {array} dto.TrendPoint
// @Failure 500 {object} map[string]string
// @Security Bearer
// @Router /transactions/analytics/trend [get]
func (h *AnalyticsHandler) Trend(c *fiber.Ctx) error {
	trend, err := h.analytics.Trend(c.Context())
	if err != nil {
		h.logger.Error("Error computing trend", zap.Error(err))
		return internalError(c)
	}
	return c.JSON(trend)
}
