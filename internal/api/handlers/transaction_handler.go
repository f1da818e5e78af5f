package handlers

import (
	"errors"

	"fintrack/internal/service"
	"fintrack/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type TransactionHandler struct {
	transactions *service.TransactionService
	export       *service.ExportService
	logger       *zap.Logger
}

func NewTransactionHandler(transactions *service.TransactionService, export *service.ExportService, logger *zap.Logger) *TransactionHandler {
	return &TransactionHandler{
		transactions: transactions,
		export:       export,
		logger:       logger,
	}
}

// List godoc
// @Summary List transactions
// @Description Paginated, filterable, sortable transaction listing
// @Tags transactions
// @Produce json
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 10)"
// @Param category query string false "Exact category match"
// @Param status query string false "Exact status match"
// @Param user_id query string false "Exact user id match"
// @Param startDate query string false "Inclusive lower date bound"
// @Param endDate query string false "Inclusive upper date bound"
// @Param minAmount query number false "Inclusive lower amount bound"
// @Param maxAmount query number false "Inclusive upper amount bound"
// @Param sortBy query string false "Sort column (default date)"
// @Param order query string false "asc or desc (default desc)"
// @Param search query string false "Substring search over user_id, category, status"
// @Success 200 {object} dto.TransactionListResponse
// @Failure 500 {object} map[string]string
// @Security Bearer
// @Router /transactions [get]
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	filter, err := parseFilter(c)
	if err != nil {
		h.logger.Error("Error fetching transactions", zap.Error(err))
		return internalError(c)
	}

	resp, err := h.transactions.List(c.Context(), filter, parseListOptions(c))
	if err != nil {
		h.logger.Error("Error fetching transactions", zap.Error(err))
		return internalError(c)
	}

	return c.JSON(resp)
}

// Export godoc
// @Summary Export transactions as CSV
// @Description Exports the full filtered set with a selectable column subset
// @Tags transactions
// @Produce text/csv
// @Param columns query string false "Comma-separated column subset"
// @Success 200 {string} string "CSV document"
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Security Bearer
// @Router /transactions/export [get]
func (h *TransactionHandler) Export(c *fiber.Ctx) error {
	filter, err := parseFilter(c)
	if err != nil {
		return exportError(c, err)
	}

	callerID, _ := c.Locals(middleware.LocalUserID).(string)
	csvBody, err := h.export.CSV(c.Context(), callerID, filter, c.Query("columns"))
	if err != nil {
		var unknown *service.ErrUnknownColumn
		if errors.As(err, &unknown) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": unknown.Error(),
			})
		}
		h.logger.Error("Error exporting CSV", zap.Error(err))
		return exportError(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename=`+service.ExportFilename)
	return c.Send(csvBody)
}

func internalError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Internal Server Error",
	})
}

func exportError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Error exporting CSV",
		"error":   err.Error(),
	})
}
