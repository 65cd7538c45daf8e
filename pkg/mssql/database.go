package mssql

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dbforge/mssql-provision-agent/internal/models"
)

const defaultGrowthMB = 256

// DatabaseExists reports whether a database with the given name exists.
func (c *Client) DatabaseExists(ctx context.Context, name string) (bool, error) {
	var n int
	err := c.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sys.databases WHERE name = @p1", name).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check database %q: %w", name, err)
	}
	return n > 0, nil
}

// CreateDatabase creates the database with the planned file layout: one
// primary plus N-1 secondary data files of equal size, and the log file.
func (c *Client) CreateDatabase(ctx context.Context, spec models.DatabaseSpec, plan models.FilePlan) error {
	stmt := buildCreateDatabase(spec, plan)
	c.log.Debugw("create database", "database", spec.Name, "files", plan.FileCount)
	if _, err := c.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("failed to create database %q: %w", spec.Name, err)
	}
	return nil
}

// EnsureDirectories creates the given directories on the instance host.
// xp_create_subdir builds the whole path and succeeds when it already
// exists, so the call is idempotent. Empty paths are skipped.
func (c *Client) EnsureDirectories(ctx context.Context, paths ...string) error {
	for _, path := range paths {
		if path == "" {
			continue
		}
		c.log.Debugw("ensure directory", "path", path)
		if _, err := c.db.ExecContext(ctx, buildCreateSubdir(path)); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", path, err)
		}
	}
	return nil
}

func buildCreateSubdir(path string) string {
	return fmt.Sprintf("EXEC master.sys.xp_create_subdir %s", QuoteString(path))
}

// SetOwner transfers database ownership.
func (c *Client) SetOwner(ctx context.Context, database, owner string) error {
	stmt := fmt.Sprintf("ALTER AUTHORIZATION ON DATABASE::%s TO %s",
		QuoteName(database), QuoteName(owner))
	if _, err := c.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("failed to set owner of %q to %q: %w", database, owner, err)
	}
	return nil
}

// EnableQueryStore turns on Query Store in read-write mode.
func (c *Client) EnableQueryStore(ctx context.Context, database string) error {
	stmt := fmt.Sprintf(
		"ALTER DATABASE %s SET QUERY_STORE = ON (OPERATION_MODE = READ_WRITE)",
		QuoteName(database))
	if _, err := c.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("failed to enable query store on %q: %w", database, err)
	}
	return nil
}

// buildCreateDatabase renders the CREATE DATABASE statement. Data files are
// numbered _01.._NN; the first is the .mdf, the rest .ndf, the log .ldf.
func buildCreateDatabase(spec models.DatabaseSpec, plan models.FilePlan) string {
	growth := int64(defaultGrowthMB)
	if spec.GrowthMB != nil {
		growth = *spec.GrowthMB
	}

	var b strings.Builder
	fmt.Fprintf(&b, "CREATE DATABASE %s\nON PRIMARY\n", QuoteName(spec.Name))

	for i := 1; i <= plan.FileCount; i++ {
		ext := "ndf"
		if i == 1 {
			ext = "mdf"
		}
		logical := fmt.Sprintf("%s_%02d", spec.Name, i)
		physical := filepath.Join(spec.DataPath, fmt.Sprintf("%s.%s", logical, ext))
		fmt.Fprintf(&b, "( NAME = %s, FILENAME = %s, SIZE = %dMB, FILEGROWTH = %dMB )",
			QuoteString(logical), QuoteString(physical), plan.PerFileSizeMB, growth)
		if i < plan.FileCount {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}

	logical := spec.Name + "_log"
	physical := filepath.Join(spec.LogPath, logical+".ldf")
	fmt.Fprintf(&b, "LOG ON\n( NAME = %s, FILENAME = %s, SIZE = %dMB, FILEGROWTH = %dMB )",
		QuoteString(logical), QuoteString(physical), plan.LogSizeMB, growth)

	if spec.Collation != "" {
		fmt.Fprintf(&b, "\nCOLLATE %s", spec.Collation)
	}
	return b.String()
}
