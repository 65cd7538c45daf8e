// Package store implements the data access layer for the provision agent.
//
// The agent keeps its local state in DuckDB: the target instance credentials
// and an append-only audit trail of provisioning runs.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                         Store (facade)                          │
//	├────────────────────────────────┬────────────────────────────────┤
//	│        CredentialsStore        │         ProvisionStore         │
//	│              ▼                 │              ▼                 │
//	│          credentials           │           provisions           │
//	└────────────────────────────────┴────────────────────────────────┘
//
// Tables are created by migrations.Run (internal/store/migrations), which
// tracks applied versions in schema_migrations.
//
// # CredentialsStore
//
// Persists the target instance connection settings in a single-row table
// with a CHECK (id = 1) constraint and the upsert pattern
// INSERT ... ON CONFLICT (id) DO UPDATE. A missing record surfaces as a
// ResourceNotFoundError; the caller falls back to static configuration.
//
// # ProvisionStore
//
// Appends one record per provisioning run (planned layout, target volumes,
// outcome, error text, timing). List and Count use the functional options
// pattern; each ListOption modifies a squirrel.SelectBuilder and options
// combine freely:
//
//	records, err := store.Provisions().List(ctx,
//	    store.ByDatabases("Sales"),
//	    store.ByOutcomes("created"),
//	    store.WithSort([]store.SortParam{{Field: "startedAt", Desc: true}}),
//	    store.WithLimit(50),
//	)
//
// Sort fields map API names to columns (database, outcome, startedAt,
// finishedAt); the record id is always appended as a tie-breaker for stable
// ordering.
//
// # QueryInterceptor
//
// All database operations go through a QueryInterceptor that debug-logs
// every query, keeping SQL visibility out of the individual stores.
package store
