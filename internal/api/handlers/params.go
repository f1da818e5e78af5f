package handlers

import (
	"fmt"
	"strconv"
	"time"

	"fintrack/internal/models"

	"github.com/gofiber/fiber/v2"
)

var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// parseFilter reads the optional filter fields off the query string. Empty
// parameters contribute no predicate; a date or amount that is present but
// unparseable is a parameter fault surfaced to the caller as a generic
// internal error.
func parseFilter(c *fiber.Ctx) (models.TransactionFilter, error) {
	f := models.TransactionFilter{
		Category: c.Query("category"),
		Status:   c.Query("status"),
		UserID:   c.Query("user_id"),
		Search:   c.Query("search"),
	}

	var err error
	if f.StartDate, err = parseDate(c.Query("startDate")); err != nil {
		return f, err
	}
	if f.EndDate, err = parseDate(c.Query("endDate")); err != nil {
		return f, err
	}
	if f.MinAmount, err = parseAmount(c.Query("minAmount")); err != nil {
		return f, err
	}
	if f.MaxAmount, err = parseAmount(c.Query("maxAmount")); err != nil {
		return f, err
	}

	return f, nil
}

// parseListOptions reads pagination and sorting. Non-numeric page or limit
// values default instead of failing.
func parseListOptions(c *fiber.Ctx) models.ListOptions {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	return models.ListOptions{
		Page:   page,
		Limit:  limit,
		SortBy: c.Query("sortBy", "date"),
		Order:  c.Query("order", "desc"),
	}
}

func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid date %q", value)
}

func parseAmount(value string) (*float64, error) {
	if value == "" {
		return nil, nil
	}
	amount, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q", value)
	}
	return &amount, nil
}
