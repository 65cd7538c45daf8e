// Package handlers implements the HTTP API layer for the
// mssql-provision-agent.
//
// Handlers delegate business logic to the services layer and focus on
// request validation, parameter parsing, error mapping to HTTP status
// codes, and model-to-API conversion.
//
// # API Endpoints
//
//	┌────────┬─────────────────┬──────────────────────────────────────────────┐
//	│ Method │ Endpoint        │ Description                                  │
//	├────────┼─────────────────┼──────────────────────────────────────────────┤
//	│ POST   │ /databases      │ Start provisioning a database (202 Accepted) │
//	│ POST   │ /databases/plan │ Dry-run: layout and space checks only        │
//	│ GET    │ /provisions     │ List recorded runs (filter, sort, paginate)  │
//	│ GET    │ /provisions/:id │ Fetch one recorded run                       │
//	│ GET    │ /status         │ Current provisioner state                    │
//	│ PUT    │ /credentials    │ Store instance credentials (204 No Content)  │
//	│ DELETE │ /credentials    │ Remove stored instance credentials           │
//	└────────┴─────────────────┴──────────────────────────────────────────────┘
//
// # Error Mapping
//
//	┌──────────────────────────┬─────────────────────────────┐
//	│ Condition                │ Status                      │
//	├──────────────────────────┼─────────────────────────────┤
//	│ Malformed body or sizes  │ 400 Bad Request             │
//	│ Unknown provision ID     │ 404 Not Found               │
//	│ Run already in flight    │ 409 Conflict                │
//	│ Plan rejected (layout,   │ 422 Unprocessable Entity    │
//	│ margin, unknown volume)  │                             │
//	│ Anything else            │ 500 Internal Server Error   │
//	└──────────────────────────┴─────────────────────────────┘
//
// Provisioning itself is asynchronous: POST /databases answers 202 with the
// run ID and the outcome lands in the audit trail, observable through
// GET /provisions and GET /status.
package handlers
