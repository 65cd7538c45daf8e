// Package server provides the HTTP server for the mssql-provision-agent.
//
// The server uses the Gin web framework and supports two modes of operation:
// development (Gin debug mode) and production (Gin release mode).
//
// # Middleware Stack
//
// The server applies these middleware to all routes:
//
// Logger Middleware (Logger):
//   - Logs request start: method, path, query, IP, user-agent
//   - Logs request end: all above + status code, latency
//   - Errors logged separately if present
//   - Uses zap structured logging with the "http" logger name
//
// Recovery Middleware (ginzap.RecoveryWithZap):
//   - Recovers from panics in handlers
//   - Logs panic details with stack trace
//   - Returns 500 Internal Server Error
//
// JWT Middleware (JWTAuth, /api/v1 only, when auth is enabled):
//   - Requires an Authorization: Bearer header
//   - Validates HMAC-signed tokens against the configured secret
//   - Returns 401 Unauthorized otherwise
//
// # Server Lifecycle
//
// Creation:
//
//	srv := server.New(cfg, func(router *gin.RouterGroup) {
//	    router.POST("/databases", handler.CreateDatabase)
//	})
//
// The RegisterHandlerFn callback receives a RouterGroup prefixed with
// /api/v1. The unauthenticated /health endpoint is always registered.
//
// Starting:
//
//	// Blocks until error or shutdown
//	err := srv.Start()
//
// Stopping:
//
//	srv.Stop(ctx)
//
// Performs graceful shutdown, waiting for in-flight requests to complete.
package server
