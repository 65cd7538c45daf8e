package store

import (
	"context"
	"database/sql"

	"go.uber.org/zap"
)

// QueryInterceptor is the database surface the sub-stores use. Wrapping the
// raw handle here gives every query debug logging without touching the
// individual store implementations.
type QueryInterceptor interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type loggingDB struct {
	db  *sql.DB
	log *zap.SugaredLogger
}

func newLoggingDB(db *sql.DB) *loggingDB {
	return &loggingDB{db: db, log: zap.S().Named("store")}
}

func (l *loggingDB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	l.log.Debugw("query row", "query", query)
	return l.db.QueryRowContext(ctx, query, args...)
}

func (l *loggingDB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	l.log.Debugw("query", "query", query)
	return l.db.QueryContext(ctx, query, args...)
}

func (l *loggingDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	l.log.Debugw("exec", "query", query)
	return l.db.ExecContext(ctx, query, args...)
}
