package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"fintrack/internal/models"
	"fintrack/pkg/config"

	"go.uber.org/zap"
)

// ExportFilename is the suggested attachment name for CSV downloads.
const ExportFilename = "transactions.csv"

// ErrUnknownColumn is returned when the columns selector names a field that
// is not part of the transaction record.
type ErrUnknownColumn struct {
	Column string
}

func (e *ErrUnknownColumn) Error() string {
	return fmt.Sprintf("unknown column %q", e.Column)
}

// TransactionFinder is the subset of the transaction repository the export
// path needs: the full matching set, no pagination.
type TransactionFinder interface {
	FindAll(ctx context.Context, f models.TransactionFilter) ([]models.Transaction, error)
}

type ExportService struct {
	store  TransactionFinder
	scope  string
	logger *zap.Logger
}

func NewExportService(store TransactionFinder, cfg *config.ExportConfig, logger *zap.Logger) *ExportService {
	return &ExportService{
		store:  store,
		scope:  cfg.Scope,
		logger: logger,
	}
}

// CSV serializes every transaction matching the filter. columns is a
// comma-separated field subset, defaulting to all seven fields. Under
// caller scope the filter is pinned to the authenticated user regardless of
// any user_id it carries.
func (s *ExportService) CSV(ctx context.Context, callerID string, f models.TransactionFilter, columns string) ([]byte, error) {
	fields, err := selectColumns(columns)
	if err != nil {
		return nil, err
	}

	if s.scope == config.ScopeCaller {
		f.UserID = callerID
	}

	transactions, err := s.store.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(fields); err != nil {
		return nil, err
	}
	row := make([]string, len(fields))
	for _, tx := range transactions {
		for i, field := range fields {
			row[i] = fieldValue(tx, field)
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	s.logger.Info("CSV export generated",
		zap.Int("rows", len(transactions)),
		zap.Strings("columns", fields),
	)

	return buf.Bytes(), nil
}

func selectColumns(columns string) ([]string, error) {
	if columns == "" {
		return models.TransactionColumns(), nil
	}

	known := make(map[string]bool, 7)
	for _, c := range models.TransactionColumns() {
		known[c] = true
	}

	fields := strings.Split(columns, ",")
	for _, field := range fields {
		if !known[field] {
			return nil, &ErrUnknownColumn{Column: field}
		}
	}
	return fields, nil
}

func fieldValue(tx models.Transaction, field string) string {
	switch field {
	case "id":
		return strconv.FormatInt(tx.ID, 10)
	case "date":
		return tx.Date.Format(time.RFC3339)
	case "amount":
		return strconv.FormatFloat(tx.Amount, 'f', -1, 64)
	case "category":
		return tx.Category
	case "status":
		return tx.Status
	case "user_id":
		return tx.UserID
	case "user_profile":
		return tx.UserProfile
	}
	return ""
}
