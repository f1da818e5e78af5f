package service

import (
	"context"
	"encoding/csv"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"fintrack/internal/models"
	"fintrack/pkg/config"

	"go.uber.org/zap"
)

type fakeFinder struct {
	transactions []models.Transaction
	err          error
	gotFilter    models.TransactionFilter
}

func (f *fakeFinder) FindAll(_ context.Context, filter models.TransactionFilter) ([]models.Transaction, error) {
	f.gotFilter = filter
	return f.transactions, f.err
}

func exportFixture() []models.Transaction {
	return []models.Transaction{
		{
			ID:          1,
			Date:        time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC),
			Amount:      42.5,
			Category:    "Revenue",
			Status:      "Paid",
			UserID:      "user_001",
			UserProfile: "avatar_1.png",
		},
		{
			ID:          2,
			Date:        time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
			Amount:      100,
			Category:    "Expense",
			Status:      "Pending",
			UserID:      "user_002",
			UserProfile: "avatar_2.png",
		},
	}
}

func parseCSV(t *testing.T, body []byte) [][]string {
	t.Helper()
	records, err := csv.NewReader(strings.NewReader(string(body))).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV output: %v", err)
	}
	return records
}

func TestExportCSVDefaultColumns(t *testing.T) {
	store := &fakeFinder{transactions: exportFixture()}
	svc := NewExportService(store, &config.ExportConfig{Scope: config.ScopeGlobal}, zap.NewNop())

	body, err := svc.CSV(context.Background(), "caller", models.TransactionFilter{}, "")
	if err != nil {
		t.Fatalf("CSV() error = %v", err)
	}

	records := parseCSV(t, body)
	wantHeader := []string{"id", "date", "amount", "category", "status", "user_id", "user_profile"}
	if !reflect.DeepEqual(records[0], wantHeader) {
		t.Errorf("header = %v, want %v", records[0], wantHeader)
	}
	if len(records)-1 != len(store.transactions) {
		t.Errorf("got %d rows, want %d", len(records)-1, len(store.transactions))
	}

	wantFirst := []string{"1", "2024-03-15T10:00:00Z", "42.5", "Revenue", "Paid", "user_001", "avatar_1.png"}
	if !reflect.DeepEqual(records[1], wantFirst) {
		t.Errorf("row = %v, want %v", records[1], wantFirst)
	}
}

func TestExportCSVColumnSubset(t *testing.T) {
	store := &fakeFinder{transactions: exportFixture()}
	svc := NewExportService(store, &config.ExportConfig{Scope: config.ScopeGlobal}, zap.NewNop())

	body, err := svc.CSV(context.Background(), "caller", models.TransactionFilter{}, "date,amount")
	if err != nil {
		t.Fatalf("CSV() error = %v", err)
	}

	records := parseCSV(t, body)
	if !reflect.DeepEqual(records[0], []string{"date", "amount"}) {
		t.Errorf("header = %v, want [date amount]", records[0])
	}
	if len(records)-1 != 2 {
		t.Errorf("got %d rows, want 2", len(records)-1)
	}
	if !reflect.DeepEqual(records[2], []string{"2024-04-01T00:00:00Z", "100"}) {
		t.Errorf("row = %v", records[2])
	}
}

func TestExportCSVUnknownColumn(t *testing.T) {
	svc := NewExportService(&fakeFinder{}, &config.ExportConfig{Scope: config.ScopeGlobal}, zap.NewNop())

	_, err := svc.CSV(context.Background(), "caller", models.TransactionFilter{}, "date,password")
	var unknown *ErrUnknownColumn
	if !errors.As(err, &unknown) {
		t.Fatalf("error = %v, want ErrUnknownColumn", err)
	}
	if unknown.Column != "password" {
		t.Errorf("Column = %q, want password", unknown.Column)
	}
}

func TestExportCSVScope(t *testing.T) {
	tests := []struct {
		name       string
		scope      string
		filterUser string
		wantUser   string
	}{
		{"caller scope pins the caller", config.ScopeCaller, "", "caller-id"},
		{"caller scope overrides a supplied user_id", config.ScopeCaller, "someone-else", "caller-id"},
		{"global scope passes the filter through", config.ScopeGlobal, "someone-else", "someone-else"},
		{"global scope allows no user filter", config.ScopeGlobal, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeFinder{}
			svc := NewExportService(store, &config.ExportConfig{Scope: tt.scope}, zap.NewNop())

			_, err := svc.CSV(context.Background(), "caller-id", models.TransactionFilter{UserID: tt.filterUser}, "")
			if err != nil {
				t.Fatalf("CSV() error = %v", err)
			}
			if store.gotFilter.UserID != tt.wantUser {
				t.Errorf("store saw user_id %q, want %q", store.gotFilter.UserID, tt.wantUser)
			}
		})
	}
}

func TestExportCSVEmptySetStillHasHeader(t *testing.T) {
	svc := NewExportService(&fakeFinder{}, &config.ExportConfig{Scope: config.ScopeGlobal}, zap.NewNop())

	body, err := svc.CSV(context.Background(), "caller", models.TransactionFilter{}, "id,status")
	if err != nil {
		t.Fatalf("CSV() error = %v", err)
	}
	records := parseCSV(t, body)
	if len(records) != 1 {
		t.Fatalf("got %d records, want header only", len(records))
	}
}
