// Package config defines the configuration structure for the provision agent.
//
// Configuration is organized into logical sections (Server, Agent, Instance,
// Provisioning, Auth) plus top-level logging settings, and is populated ONCE
// at startup: defaults via struct tags, then an optional config file, then
// MSSQLPROV_* environment overrides, then Validate. Nothing downstream
// re-checks optional fields; what reaches the services is already typed and
// normalized.
//
// # Server Configuration
//
//	┌───────────┬─────────┬────────────────────────────────────────┐
//	│ Field     │ Default │ Description                            │
//	├───────────┼─────────┼────────────────────────────────────────┤
//	│ Mode      │ "dev"   │ Server mode: "prod" or "dev"           │
//	│ HTTPPort  │ 8000    │ HTTP server listen port                │
//	└───────────┴─────────┴────────────────────────────────────────┘
//
// # Agent Configuration
//
//	┌────────────┬─────────┬────────────────────────────────────────┐
//	│ Field      │ Default │ Description                            │
//	├────────────┼─────────┼────────────────────────────────────────┤
//	│ NumWorkers │ 3       │ Number of scheduler workers            │
//	│ DataFolder │ "."     │ Path to audit storage (DuckDB)         │
//	└────────────┴─────────┴────────────────────────────────────────┘
//
// # Instance Configuration
//
//	┌────────────────┬─────────────┬──────────────────────────────────┐
//	│ Field          │ Default     │ Description                      │
//	├────────────────┼─────────────┼──────────────────────────────────┤
//	│ Host           │ "localhost" │ SQL Server host                  │
//	│ Port           │ 1433        │ SQL Server TCP port              │
//	│ User           │ ""          │ Login name (required)            │
//	│ Password       │ ""          │ Login password                   │
//	│ Encrypt        │ false       │ Require an encrypted connection  │
//	│ ConnectTimeout │ 15s         │ Single connection attempt bound  │
//	│ MaxRetryTime   │ 30s         │ Whole backoff sequence bound     │
//	└────────────────┴─────────────┴──────────────────────────────────┘
//
// # Provisioning Configuration
//
// Size fields are literals in the <digits><unit> grammar with unit MB, GB or
// TB; they are normalized to megabytes during Validate.
//
//	┌──────────────────┬──────────────────────┬───────────────────────────────┐
//	│ Field            │ Default              │ Description                   │
//	├──────────────────┼──────────────────────┼───────────────────────────────┤
//	│ PerFileThreshold │ "10GB"               │ Per-data-file size ceiling    │
//	│ DefaultLogSize   │ "1GB"                │ Log size when spec omits one  │
//	│ Growth           │ "256MB"              │ File growth increment         │
//	│ MarginPercent    │ 10                   │ Free-space safety margin      │
//	│ DataPath         │ /var/opt/mssql/data  │ Data file directory           │
//	│ LogPath          │ /var/opt/mssql/log   │ Log file directory            │
//	│ LoginPassword    │ ""                   │ Password for ensured logins   │
//	└──────────────────┴──────────────────────┴───────────────────────────────┘
//
// # Authentication Configuration
//
//	┌───────────┬─────────┬────────────────────────────────────────┐
//	│ Field     │ Default │ Description                            │
//	├───────────┼─────────┼────────────────────────────────────────┤
//	│ Enabled   │ false   │ Enable JWT bearer authentication       │
//	│ JWTSecret │ ""      │ HMAC secret for token verification     │
//	└───────────┴─────────┴────────────────────────────────────────┘
package config
