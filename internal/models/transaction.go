package models

import (
	"time"
)

type TransactionCategory = string

const (
	CategoryRevenue TransactionCategory = "Revenue"
	CategoryExpense TransactionCategory = "Expense"
)

// Well-known status values. The column is free text, so these are not
// enforced by the store.
const (
	StatusPaid    = "Paid"
	StatusPending = "Pending"
)

// Transaction is a single financial record. Rows are written only by the
// bulk loader; the API never mutates them. JSON names are part of the wire
// contract and must not change.
type Transaction struct {
	ID          int64     `json:"id" db:"id"`
	Date        time.Time `json:"date" db:"date"`
	Amount      float64   `json:"amount" db:"amount"`
	Category    string    `json:"category" db:"category"`
	Status      string    `json:"status" db:"status"`
	UserID      string    `json:"user_id" db:"user_id"`
	UserProfile string    `json:"user_profile" db:"user_profile"`
}

// TransactionColumns lists the exportable fields in their canonical order.
func TransactionColumns() []string {
	return []string{"id", "date", "amount", "category", "status", "user_id", "user_profile"}
}

// TransactionFilter narrows a transaction query. All supplied predicates AND
// together. Bounds are pointers so that a zero value is a real bound and nil
// means "not supplied".
type TransactionFilter struct {
	Category  string
	Status    string
	UserID    string
	StartDate *time.Time
	EndDate   *time.Time
	MinAmount *float64
	MaxAmount *float64
	Search    string
}

// ListOptions carries pagination and sorting for the list endpoint. Zero
// values mean "use defaults" (page 1, limit 10, date descending).
type ListOptions struct {
	Page   int
	Limit  int
	SortBy string
	Order  string
}

// CategorySum is one row of the per-category aggregate.
type CategorySum struct {
	Category string
	Total    float64
}

// MonthlyCategorySum is one row of the (year, month, category) aggregate,
// ordered ascending by year then month.
type MonthlyCategorySum struct {
	Year     int
	Month    int
	Category string
	Total    float64
}
