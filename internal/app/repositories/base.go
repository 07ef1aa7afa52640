package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/gamage-recruiters/platform/internal/db"
	"github.com/gamage-recruiters/platform/internal/pkg/logger"
)

type rowScanner interface {
	Scan(dest ...any) error
}

// baseRepository carries the connection and the squirrel builder shared by every repository
type baseRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

func newBaseRepository(database *db.PostgresDB) baseRepository {
	return baseRepository{
		db: database,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// exec builds and runs a write statement on the pool or the transaction bound to ctx
func (r baseRepository) exec(ctx context.Context, op string, q squirrel.Sqlizer) (pgconn.CommandTag, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		logger.Error().Err(err).Str("op", op).Msg("Error building SQL")
		return pgconn.CommandTag{}, fmt.Errorf("failed to build %s query: %w", op, err)
	}

	tag, err := r.db.Conn(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	return tag, nil
}

// queryRow builds a statement and returns its single row
func (r baseRepository) queryRow(ctx context.Context, op string, q squirrel.Sqlizer) (pgx.Row, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		logger.Error().Err(err).Str("op", op).Msg("Error building SQL")
		return nil, fmt.Errorf("failed to build %s query: %w", op, err)
	}
	return r.db.Conn(ctx).QueryRow(ctx, sql, args...), nil
}

// query builds a statement and returns its rows; callers close them
func (r baseRepository) query(ctx context.Context, op string, q squirrel.Sqlizer) (pgx.Rows, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		logger.Error().Err(err).Str("op", op).Msg("Error building SQL")
		return nil, fmt.Errorf("failed to build %s query: %w", op, err)
	}

	rows, err := r.db.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("op", op).Msg("Error executing query")
		return nil, fmt.Errorf("error executing %s query: %w", op, err)
	}
	return rows, nil
}

// count runs a SELECT COUNT(*) statement
func (r baseRepository) count(ctx context.Context, op string, q squirrel.SelectBuilder) (int64, error) {
	row, err := r.queryRow(ctx, op, q)
	if err != nil {
		return 0, err
	}

	var n int64
	if err := row.Scan(&n); err != nil {
		logger.Error().Err(err).Str("op", op).Msg("Error scanning count")
		return 0, fmt.Errorf("error counting for %s: %w", op, err)
	}
	return n, nil
}
