package mssql

import (
	"context"
	"fmt"

	"github.com/dbforge/mssql-provision-agent/internal/models"
)

// execInDatabase runs a statement in the context of another database without
// a USE that would stick to the pooled connection: calling that database's
// sys.sp_executesql executes the batch there.
func (c *Client) execInDatabase(ctx context.Context, database, stmt string) error {
	wrapped := fmt.Sprintf("EXEC %s.sys.sp_executesql @stmt = %s",
		QuoteName(database), QuoteString(stmt))
	_, err := c.db.ExecContext(ctx, wrapped)
	return err
}

// EnsureLogin creates a server login if it does not exist.
func (c *Client) EnsureLogin(ctx context.Context, name, password string) (models.EnsureOutcome, error) {
	lookup := func(ctx context.Context) (bool, error) {
		var n int
		err := c.db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM sys.server_principals WHERE name = @p1", name).Scan(&n)
		return n > 0, err
	}
	create := func(ctx context.Context) error {
		stmt := fmt.Sprintf("CREATE LOGIN %s WITH PASSWORD = %s, CHECK_POLICY = ON",
			QuoteName(name), QuoteString(password))
		_, err := c.db.ExecContext(ctx, stmt)
		return err
	}
	outcome, err := Ensure(ctx, lookup, create)
	if err != nil {
		return "", fmt.Errorf("failed to ensure login %q: %w", name, err)
	}
	c.log.Debugw("ensure login", "login", name, "outcome", outcome)
	return outcome, nil
}

// EnsureUser creates a database user mapped to a login if it does not exist.
func (c *Client) EnsureUser(ctx context.Context, database, user, login string) (models.EnsureOutcome, error) {
	lookup := func(ctx context.Context) (bool, error) {
		var n int
		q := fmt.Sprintf(
			"SELECT COUNT(*) FROM %s.sys.database_principals WHERE name = @p1 AND type IN ('S', 'U')",
			QuoteName(database))
		err := c.db.QueryRowContext(ctx, q, user).Scan(&n)
		return n > 0, err
	}
	create := func(ctx context.Context) error {
		return c.execInDatabase(ctx, database,
			fmt.Sprintf("CREATE USER %s FOR LOGIN %s", QuoteName(user), QuoteName(login)))
	}
	outcome, err := Ensure(ctx, lookup, create)
	if err != nil {
		return "", fmt.Errorf("failed to ensure user %q in %q: %w", user, database, err)
	}
	c.log.Debugw("ensure user", "database", database, "user", user, "outcome", outcome)
	return outcome, nil
}

// EnsureRole creates a database role if it does not exist.
func (c *Client) EnsureRole(ctx context.Context, database, role string) (models.EnsureOutcome, error) {
	lookup := func(ctx context.Context) (bool, error) {
		var n int
		q := fmt.Sprintf(
			"SELECT COUNT(*) FROM %s.sys.database_principals WHERE name = @p1 AND type = 'R'",
			QuoteName(database))
		err := c.db.QueryRowContext(ctx, q, role).Scan(&n)
		return n > 0, err
	}
	create := func(ctx context.Context) error {
		return c.execInDatabase(ctx, database,
			fmt.Sprintf("CREATE ROLE %s", QuoteName(role)))
	}
	outcome, err := Ensure(ctx, lookup, create)
	if err != nil {
		return "", fmt.Errorf("failed to ensure role %q in %q: %w", role, database, err)
	}
	c.log.Debugw("ensure role", "database", database, "role", role, "outcome", outcome)
	return outcome, nil
}

// EnsureRoleMember adds a user to a role if not already a member.
func (c *Client) EnsureRoleMember(ctx context.Context, database, role, user string) (models.EnsureOutcome, error) {
	lookup := func(ctx context.Context) (bool, error) {
		var n int
		q := fmt.Sprintf(`
			SELECT COUNT(*)
			FROM %[1]s.sys.database_role_members AS rm
			JOIN %[1]s.sys.database_principals AS r ON r.principal_id = rm.role_principal_id
			JOIN %[1]s.sys.database_principals AS m ON m.principal_id = rm.member_principal_id
			WHERE r.name = @p1 AND m.name = @p2`, QuoteName(database))
		err := c.db.QueryRowContext(ctx, q, role, user).Scan(&n)
		return n > 0, err
	}
	create := func(ctx context.Context) error {
		return c.execInDatabase(ctx, database,
			fmt.Sprintf("ALTER ROLE %s ADD MEMBER %s", QuoteName(role), QuoteName(user)))
	}
	outcome, err := Ensure(ctx, lookup, create)
	if err != nil {
		return "", fmt.Errorf("failed to ensure %q in role %q of %q: %w", user, role, database, err)
	}
	c.log.Debugw("ensure role member", "database", database, "role", role, "user", user, "outcome", outcome)
	return outcome, nil
}
