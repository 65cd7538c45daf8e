package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dbforge/mssql-provision-agent/internal/config"
)

// RegisterHandlerFn wires the API handlers into the /api/v1 router group.
type RegisterHandlerFn func(router *gin.RouterGroup)

// Server is the agent's HTTP front end.
type Server struct {
	cfg  *config.Configuration
	http *http.Server
	log  *zap.SugaredLogger
}

// New builds the server with the middleware stack and the /api/v1 routes.
func New(cfg *config.Configuration, registerHandlers RegisterHandlerFn) *Server {
	if cfg.Server.Mode == "prod" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.Use(Logger())
	router.Use(ginzap.RecoveryWithZap(zap.L().Named("http"), true))

	api := router.Group("/api/v1")
	if cfg.Auth.Enabled {
		api.Use(JWTAuth(cfg.Auth.JWTSecret))
	}
	registerHandlers(api)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	return &Server{
		cfg: cfg,
		http: &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Server.HTTPPort),
			Handler: router,
		},
		log: zap.S().Named("server"),
	}
}

// Start serves until the listener fails or Stop is called. It blocks.
func (s *Server) Start() error {
	s.log.Infow("starting HTTP server", "addr", s.http.Addr, "mode", s.cfg.Server.Mode)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop shuts the server down gracefully, waiting for in-flight requests.
func (s *Server) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	s.log.Info("shutting down HTTP server")
	return s.http.Shutdown(ctx)
}
