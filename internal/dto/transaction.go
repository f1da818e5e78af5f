package dto

import "fintrack/internal/models"

// TransactionListResponse is the paginated list payload. Total is computed
// independently of the page slice.
type TransactionListResponse struct {
	Page         int                  `json:"page"`
	Limit        int                  `json:"limit"`
	Total        int64                `json:"total"`
	TotalPages   int64                `json:"totalPages"`
	Transactions []models.Transaction `json:"transactions"`
}

type SummaryResponse struct {
	TotalRevenue     float64 `json:"totalRevenue"`
	TotalExpense     float64 `json:"totalExpense"`
	TransactionCount int64   `json:"transactionCount"`
}

type CategoryValue struct {
	Category string  `json:"category"`
	Value    float64 `json:"value"`
}

// TrendPoint is one month of the revenue/expense trend. Month is formatted
// as YYYY-MM with a zero-padded month.
type TrendPoint struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
	Expense float64 `json:"expense"`
}
