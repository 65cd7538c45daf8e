package store

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/dbforge/mssql-provision-agent/internal/models"
)

// ProvisionStore is the append-only audit trail of provisioning runs.
type ProvisionStore struct {
	db QueryInterceptor
}

func NewProvisionStore(db QueryInterceptor) *ProvisionStore {
	return &ProvisionStore{db: db}
}

// Insert appends one provisioning record.
func (s *ProvisionStore) Insert(ctx context.Context, rec models.ProvisionRecord) error {
	_, err := s.db.ExecContext(ctx, queryInsertProvision,
		rec.ID, rec.Database, string(rec.Outcome), rec.FileCount, rec.PerFileSizeMB,
		rec.LogSizeMB, rec.DataVolume, rec.LogVolume, rec.Error,
		rec.StartedAt, rec.FinishedAt)
	return err
}

// List returns provisioning records, newest first by default.
func (s *ProvisionStore) List(ctx context.Context, opts ...ListOption) ([]models.ProvisionRecord, error) {
	builder := sq.Select(
		"id", "database_name", "outcome", "file_count", "per_file_size_mb",
		"log_size_mb", "data_volume", "log_volume", "error", "started_at", "finished_at",
	).From("provisions")

	for _, opt := range opts {
		builder = opt(builder)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.ProvisionRecord
	for rows.Next() {
		var rec models.ProvisionRecord
		var outcome string
		err := rows.Scan(
			&rec.ID,
			&rec.Database,
			&outcome,
			&rec.FileCount,
			&rec.PerFileSizeMB,
			&rec.LogSizeMB,
			&rec.DataVolume,
			&rec.LogVolume,
			&rec.Error,
			&rec.StartedAt,
			&rec.FinishedAt,
		)
		if err != nil {
			return nil, err
		}
		rec.Outcome = models.ProvisionOutcome(outcome)
		records = append(records, rec)
	}

	return records, rows.Err()
}

// Count returns how many records match the given filters.
func (s *ProvisionStore) Count(ctx context.Context, opts ...ListOption) (int, error) {
	builder := sq.Select("COUNT(*)").From("provisions")

	for _, opt := range opts {
		builder = opt(builder)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}

type ListOption func(sq.SelectBuilder) sq.SelectBuilder

func ByIDs(ids ...string) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if len(ids) == 0 {
			return b
		}
		return b.Where(sq.Eq{"id": ids})
	}
}

func ByDatabases(databases ...string) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if len(databases) == 0 {
			return b
		}
		return b.Where(sq.Eq{"database_name": databases})
	}
}

func ByOutcomes(outcomes ...string) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if len(outcomes) == 0 {
			return b
		}
		return b.Where(sq.Eq{"outcome": outcomes})
	}
}

func ByStartedAfter(t time.Time) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Where(sq.GtOrEq{"started_at": t})
	}
}

func WithLimit(limit uint64) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Limit(limit)
	}
}

func WithOffset(offset uint64) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Offset(offset)
	}
}

type SortParam struct {
	Field string
	Desc  bool
}

var apiFieldToDBColumn = map[string]string{
	"database":   "database_name",
	"outcome":    "outcome",
	"startedAt":  "started_at",
	"finishedAt": "finished_at",
}

func WithDefaultSort() ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.OrderBy("started_at DESC", "id")
	}
}

func WithSort(sorts []SortParam) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		var orderClauses []string
		for _, s := range sorts {
			col, ok := apiFieldToDBColumn[s.Field]
			if !ok {
				continue
			}
			if s.Desc {
				orderClauses = append(orderClauses, col+" DESC")
			} else {
				orderClauses = append(orderClauses, col+" ASC")
			}
		}
		orderClauses = append(orderClauses, "id")
		return b.OrderBy(orderClauses...)
	}
}
