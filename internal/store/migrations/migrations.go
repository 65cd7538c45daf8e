// Package migrations creates and versions the agent's local tables. Applied
// versions are tracked in schema_migrations so Run is idempotent.
package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

type migration struct {
	version int
	stmt    string
}

var all = []migration{
	{
		version: 1,
		stmt: `
			CREATE TABLE IF NOT EXISTS credentials (
				id INTEGER PRIMARY KEY DEFAULT 1 CHECK (id = 1),
				host VARCHAR NOT NULL,
				port INTEGER NOT NULL,
				username VARCHAR NOT NULL,
				password VARCHAR NOT NULL,
				created_at TIMESTAMP DEFAULT now(),
				updated_at TIMESTAMP DEFAULT now()
			)`,
	},
	{
		version: 2,
		stmt: `
			CREATE TABLE IF NOT EXISTS provisions (
				id VARCHAR PRIMARY KEY,
				database_name VARCHAR NOT NULL,
				outcome VARCHAR NOT NULL,
				file_count INTEGER NOT NULL,
				per_file_size_mb BIGINT NOT NULL,
				log_size_mb BIGINT NOT NULL,
				data_volume VARCHAR,
				log_volume VARCHAR,
				error VARCHAR,
				started_at TIMESTAMP NOT NULL,
				finished_at TIMESTAMP NOT NULL
			)`,
	},
}

// Run applies all pending migrations.
func Run(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT now()
		)`); err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	log := zap.S().Named("migrations")
	for _, m := range all {
		var n int
		err := db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM schema_migrations WHERE version = ?", m.version).Scan(&n)
		if err != nil {
			return fmt.Errorf("failed to check migration %d: %w", m.version, err)
		}
		if n > 0 {
			continue
		}

		if _, err := db.ExecContext(ctx, m.stmt); err != nil {
			return fmt.Errorf("failed to apply migration %d: %w", m.version, err)
		}
		if _, err := db.ExecContext(ctx,
			"INSERT INTO schema_migrations (version) VALUES (?)", m.version); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", m.version, err)
		}
		log.Infow("applied migration", "version", m.version)
	}
	return nil
}
