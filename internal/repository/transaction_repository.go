package repository

import (
	"context"

	"fintrack/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var transactionColumns = []string{"id", "date", "amount", "category", "status", "user_id", "user_profile"}

type TransactionRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTransactionRepository(db *pgxpool.Pool, logger *zap.Logger) *TransactionRepository {
	return &TransactionRepository{
		db:     db,
		logger: logger,
	}
}

// List returns one page of transactions matching the filter plus the total
// match count. The count runs before pagination so it never depends on page
// or limit. opts must already be normalized (page and limit >= 1).
func (r *TransactionRepository) List(ctx context.Context, f models.TransactionFilter, opts models.ListOptions) ([]models.Transaction, int64, error) {
	countQuery := applyFilter(
		squirrel.Select("COUNT(*)").From("transactions"),
		f,
	).PlaceholderFormat(squirrel.Dollar)

	sql, args, err := countQuery.ToSql()
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := uint64((opts.Page - 1) * opts.Limit)
	query := applyFilter(
		squirrel.Select(transactionColumns...).From("transactions"),
		f,
	).
		OrderBy(orderClause(opts.SortBy, opts.Order)).
		Offset(offset).
		Limit(uint64(opts.Limit)).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err = query.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	transactions, err := scanTransactions(rows)
	if err != nil {
		return nil, 0, err
	}

	return transactions, total, nil
}

// FindAll returns every transaction matching the filter, unpaginated. The
// export path materializes this fully in memory, which is fine at current
// collection sizes.
func (r *TransactionRepository) FindAll(ctx context.Context, f models.TransactionFilter) ([]models.Transaction, error) {
	query := applyFilter(
		squirrel.Select(transactionColumns...).From("transactions"),
		f,
	).
		OrderBy("id ASC").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// SumByCategory returns the total amount of all transactions in one category,
// zero when the category has no rows.
func (r *TransactionRepository) SumByCategory(ctx context.Context, category string) (float64, error) {
	query := squirrel.Select("COALESCE(SUM(amount), 0)").
		From("transactions").
		Where(squirrel.Eq{"category": category}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}

	var total float64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// Count returns the unfiltered collection size.
func (r *TransactionRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM transactions").Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// CategorySums returns the amount total per distinct category, ordered by
// category name for deterministic output.
func (r *TransactionRepository) CategorySums(ctx context.Context) ([]models.CategorySum, error) {
	query := squirrel.Select("category", "SUM(amount) AS total").
		From("transactions").
		GroupBy("category").
		OrderBy("category ASC")

	sql, _, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sums []models.CategorySum
	for rows.Next() {
		var s models.CategorySum
		if err := rows.Scan(&s.Category, &s.Total); err != nil {
			return nil, err
		}
		sums = append(sums, s)
	}
	return sums, rows.Err()
}

// MonthlyCategorySums returns the amount total per (year, month, category),
// ascending by year then month.
func (r *TransactionRepository) MonthlyCategorySums(ctx context.Context) ([]models.MonthlyCategorySum, error) {
	query := squirrel.Select(
		"EXTRACT(YEAR FROM date)::int AS year",
		"EXTRACT(MONTH FROM date)::int AS month",
		"category",
		"SUM(amount) AS total",
	).
		From("transactions").
		GroupBy("year", "month", "category").
		OrderBy("year ASC", "month ASC")

	sql, _, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sums []models.MonthlyCategorySum
	for rows.Next() {
		var s models.MonthlyCategorySum
		if err := rows.Scan(&s.Year, &s.Month, &s.Category, &s.Total); err != nil {
			return nil, err
		}
		sums = append(sums, s)
	}
	return sums, rows.Err()
}

// InsertBatch bulk-inserts transactions. Only the loader writes this table.
func (r *TransactionRepository) InsertBatch(ctx context.Context, transactions []models.Transaction) error {
	if len(transactions) == 0 {
		return nil
	}

	builder := squirrel.Insert("transactions").
		Columns(transactionColumns...).
		PlaceholderFormat(squirrel.Dollar)

	for _, tx := range transactions {
		builder = builder.Values(tx.ID, tx.Date, tx.Amount, tx.Category, tx.Status, tx.UserID, tx.UserProfile)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

// Truncate removes all transactions before a fresh bulk load.
func (r *TransactionRepository) Truncate(ctx context.Context) error {
	_, err := r.db.Exec(ctx, "TRUNCATE transactions")
	return err
}

type pgxRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanTransactions(rows pgxRows) ([]models.Transaction, error) {
	var transactions []models.Transaction
	for rows.Next() {
		var tx models.Transaction
		if err := rows.Scan(
			&tx.ID, &tx.Date, &tx.Amount, &tx.Category, &tx.Status, &tx.UserID, &tx.UserProfile,
		); err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}
	return transactions, rows.Err()
}
