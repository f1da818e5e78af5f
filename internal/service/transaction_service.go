package service

import (
	"context"

	"fintrack/internal/dto"
	"fintrack/internal/models"

	"go.uber.org/zap"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

// TransactionLister is the subset of the transaction repository the list
// endpoint needs.
type TransactionLister interface {
	List(ctx context.Context, f models.TransactionFilter, opts models.ListOptions) ([]models.Transaction, int64, error)
}

type TransactionService struct {
	store  TransactionLister
	logger *zap.Logger
}

func NewTransactionService(store TransactionLister, logger *zap.Logger) *TransactionService {
	return &TransactionService{
		store:  store,
		logger: logger,
	}
}

// List returns one page of matching transactions with pagination metadata.
// Absent or nonsensical page/limit values fall back to page 1, limit 10.
func (s *TransactionService) List(ctx context.Context, f models.TransactionFilter, opts models.ListOptions) (*dto.TransactionListResponse, error) {
	if opts.Page < 1 {
		opts.Page = defaultPage
	}
	if opts.Limit < 1 {
		opts.Limit = defaultLimit
	}

	transactions, total, err := s.store.List(ctx, f, opts)
	if err != nil {
		return nil, err
	}
	if transactions == nil {
		transactions = []models.Transaction{}
	}

	return &dto.TransactionListResponse{
		Page:         opts.Page,
		Limit:        opts.Limit,
		Total:        total,
		TotalPages:   totalPages(total, opts.Limit),
		Transactions: transactions,
	}, nil
}

// totalPages is ceil(total/limit) without floating point.
func totalPages(total int64, limit int) int64 {
	if total == 0 {
		return 0
	}
	return (total + int64(limit) - 1) / int64(limit)
}
