// Package mssql is a thin administration client for SQL Server built on
// database/sql and the go-mssqldb driver. It carries out the side-effecting
// half of provisioning (create database, set owner, enable Query Store,
// ensure principals, query volume free space) while all planning arithmetic
// stays in pkg/layout.
package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	_ "github.com/microsoft/go-mssqldb"
	"go.uber.org/zap"
)

// Config holds the connection settings for one target instance.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Encrypt  bool

	// ConnectTimeout bounds a single connection attempt; MaxRetryTime bounds
	// the whole backoff sequence in Connect.
	ConnectTimeout time.Duration
	MaxRetryTime   time.Duration
}

// ConnString renders the config as a sqlserver:// URL.
func (c Config) ConnString() string {
	q := url.Values{}
	q.Set("app name", "mssql-provision-agent")
	if c.ConnectTimeout > 0 {
		q.Set("dial timeout", fmt.Sprintf("%d", int(c.ConnectTimeout.Seconds())))
	}
	if !c.Encrypt {
		q.Set("encrypt", "disable")
	}
	u := url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		RawQuery: q.Encode(),
	}
	return u.String()
}

// Client is an open administrative connection to one SQL Server instance.
type Client struct {
	db  *sql.DB
	log *zap.SugaredLogger
}

// Connect opens a connection to the instance and verifies it with a ping,
// retrying transient failures with exponential backoff up to cfg.MaxRetryTime.
func Connect(ctx context.Context, cfg Config) (*Client, error) {
	db, err := sql.Open("sqlserver", cfg.ConnString())
	if err != nil {
		return nil, fmt.Errorf("failed to open connection to %s:%d: %w", cfg.Host, cfg.Port, err)
	}

	maxRetry := cfg.MaxRetryTime
	if maxRetry <= 0 {
		maxRetry = 30 * time.Second
	}

	ping := func() (struct{}, error) {
		return struct{}{}, db.PingContext(ctx)
	}
	if _, err := backoff.Retry(ctx, ping,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxElapsedTime(maxRetry),
	); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to reach %s:%d: %w", cfg.Host, cfg.Port, err)
	}

	c := &Client{
		db:  db,
		log: zap.S().Named("mssql"),
	}
	if version, err := c.ServerVersion(ctx); err == nil {
		c.log.Infow("connected", "host", cfg.Host, "port", cfg.Port, "version", firstLine(version))
	}
	return c, nil
}

func firstLine(s string) string {
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		return s[:i]
	}
	return s
}

// NewClient wraps an already-open handle. Used by tests.
func NewClient(db *sql.DB) *Client {
	return &Client{db: db, log: zap.S().Named("mssql")}
}

func (c *Client) Close() error {
	return c.db.Close()
}

// ServerVersion returns the instance's @@VERSION string.
func (c *Client) ServerVersion(ctx context.Context) (string, error) {
	var version string
	if err := c.db.QueryRowContext(ctx, "SELECT @@VERSION").Scan(&version); err != nil {
		return "", fmt.Errorf("failed to query server version: %w", err)
	}
	return version, nil
}
