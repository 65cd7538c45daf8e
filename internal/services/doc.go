// Package services implements the business logic layer for the
// mssql-provision-agent.
//
// This package contains services that act as intermediaries between HTTP
// handlers and the lower layers (store, instance client, layout math). Each
// service encapsulates specific domain logic and manages its own state where
// applicable.
//
// # Service Dependency Graph
//
//	Handlers (HTTP endpoints)
//	    │
//	    ▼
//	Services Layer
//	    ├── Planner ──────────► layout, config defaults
//	    ├── Provisioner ──────► Planner, Principals, Store, Scheduler, Admin connection
//	    ├── Principals ───────► Admin connection
//	    └── History ──────────► Store
//
// # Planner
//
// Planner turns a DatabaseSpec into a ProvisionPlan: it fills in configured
// defaults, computes the data file layout, and derives the space requirements
// with the configured safety margin. It also evaluates a plan against the
// instance's reported volumes, resolving file paths to mount points by
// longest-prefix match.
//
// # Provisioner
//
// Provisioner runs a provisioning request end to end, asynchronously through
// the shared scheduler.
//
// State Machine:
//
//	┌───────┐    ┌────────────┐    ┌──────────────┐    ┌───────────┐
//	│ Ready │───►│ Connecting │───►│ Provisioning │───►│ Completed │
//	└───────┘    └────────────┘    └──────────────┘    └───────────┘
//	                   │                  │
//	                   ▼                  ▼
//	              ┌─────────────────────────┐
//	              │          Error          │
//	              └─────────────────────────┘
//
// Key behaviors:
//   - Only one run can be in flight at a time (returns ProvisionInProgressError otherwise)
//   - An existing database short-circuits to the AlreadyPresent outcome and is never touched
//   - Space checks run before CREATE DATABASE; a failed check aborts with InsufficientSpaceError
//   - Data and log directories are created on the host (xp_create_subdir) before CREATE DATABASE
//   - Every run, successful or not, is recorded in the provisions audit trail
//   - Completed and Error both allow a subsequent Start
//
// # Principals
//
// Principals derives the conventional login, user, and role names for a
// database's access levels and applies them idempotently against the
// instance. The owner level receives a login only; ownership itself is
// granted by the provisioner through ALTER AUTHORIZATION.
//
// # History
//
// History is a thin read layer over the provisions audit trail with
// filtering, sorting, and paging.
package services
