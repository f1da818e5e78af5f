package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// TokenRepository stores revoked bearer tokens. Expiry is checked at lookup
// time; PurgeExpired keeps the table from growing without bound.
type TokenRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTokenRepository(db *pgxpool.Pool, logger *zap.Logger) *TokenRepository {
	return &TokenRepository{
		db:     db,
		logger: logger,
	}
}

func (r *TokenRepository) Blacklist(ctx context.Context, token string, expiresAt time.Time) error {
	query := squirrel.Insert("blacklisted_tokens").
		Columns("token", "expires_at", "created_at").
		Values(token, expiresAt, time.Now()).
		Suffix("ON CONFLICT (token) DO NOTHING").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *TokenRepository) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	query := squirrel.Select("1").
		From("blacklisted_tokens").
		Where(squirrel.And{
			squirrel.Eq{"token": token},
			squirrel.Gt{"expires_at": time.Now()},
		}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return false, err
	}

	var one int
	err = r.db.QueryRow(ctx, sql, args...).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *TokenRepository) PurgeExpired(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, "DELETE FROM blacklisted_tokens WHERE expires_at <= now()")
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
