package service

import (
	"context"
	"fmt"

	"fintrack/internal/dto"
	"fintrack/internal/models"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// TransactionAggregator is the subset of the transaction repository the
// analytics views need. All three views always aggregate over the full
// collection; they never see the list endpoint's filters.
type TransactionAggregator interface {
	SumByCategory(ctx context.Context, category string) (float64, error)
	Count(ctx context.Context) (int64, error)
	CategorySums(ctx context.Context) ([]models.CategorySum, error)
	MonthlyCategorySums(ctx context.Context) ([]models.MonthlyCategorySum, error)
}

type AnalyticsService struct {
	store  TransactionAggregator
	logger *zap.Logger
}

func NewAnalyticsService(store TransactionAggregator, logger *zap.Logger) *AnalyticsService {
	return &AnalyticsService{
		store:  store,
		logger: logger,
	}
}

// Summary computes the three headline totals. The aggregates are independent
// read-only queries, so they run concurrently.
func (s *AnalyticsService) Summary(ctx context.Context) (*dto.SummaryResponse, error) {
	var summary dto.SummaryResponse

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		revenue, err := s.store.SumByCategory(gctx, models.CategoryRevenue)
		summary.TotalRevenue = revenue
		return err
	})
	g.Go(func() error {
		expense, err := s.store.SumByCategory(gctx, models.CategoryExpense)
		summary.TotalExpense = expense
		return err
	})
	g.Go(func() error {
		count, err := s.store.Count(gctx)
		summary.TransactionCount = count
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &summary, nil
}

// CategoryBreakdown returns the amount total per distinct category present in
// the data.
func (s *AnalyticsService) CategoryBreakdown(ctx context.Context) ([]dto.CategoryValue, error) {
	sums, err := s.store.CategorySums(ctx)
	if err != nil {
		return nil, err
	}

	breakdown := make([]dto.CategoryValue, 0, len(sums))
	for _, sum := range sums {
		breakdown = append(breakdown, dto.CategoryValue{
			Category: sum.Category,
			Value:    sum.Total,
		})
	}
	return breakdown, nil
}

// Trend regroups the per-(year, month, category) sums into one point per
// month with revenue and expense side by side. A category with no rows in a
// month stays zero. Months arrive from the store in ascending order and keep
// that order here.
func (s *AnalyticsService) Trend(ctx context.Context) ([]dto.TrendPoint, error) {
	sums, err := s.store.MonthlyCategorySums(ctx)
	if err != nil {
		return nil, err
	}

	points := make([]dto.TrendPoint, 0)
	index := make(map[string]int)

	for _, sum := range sums {
		label := fmt.Sprintf("%04d-%02d", sum.Year, sum.Month)
		i, ok := index[label]
		if !ok {
			i = len(points)
			index[label] = i
			points = append(points, dto.TrendPoint{Month: label})
		}
		switch sum.Category {
		case models.CategoryRevenue:
			points[i].Revenue += sum.Total
		case models.CategoryExpense:
			points[i].Expense += sum.Total
		}
	}

	return points, nil
}
