package cmd

import (
	"context"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dbforge/mssql-provision-agent/internal/config"
	"github.com/dbforge/mssql-provision-agent/internal/handlers"
	"github.com/dbforge/mssql-provision-agent/internal/server"
	"github.com/dbforge/mssql-provision-agent/internal/services"
	"github.com/dbforge/mssql-provision-agent/internal/store"
	"github.com/dbforge/mssql-provision-agent/internal/store/migrations"
	"github.com/dbforge/mssql-provision-agent/pkg/errors"
	"github.com/dbforge/mssql-provision-agent/pkg/mssql"
	"github.com/dbforge/mssql-provision-agent/pkg/scheduler"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the provisioning agent's HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		return runServe(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(ctx context.Context) error {
	log := zap.S().Named("agent")

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	sched := scheduler.New(cfg.Agent.NumWorkers)
	defer sched.Close()

	connect := buildConnect(cfg, st)
	planner := services.NewPlanner(cfg.Provisioning)
	principals := services.NewPrincipals(cfg.Provisioning.LoginPassword)
	provisioner := services.NewProvisioner(planner, principals, connect, sched, st)
	history := services.NewHistory(st)

	h := handlers.New(planner, provisioner, history, st, connect)
	srv := server.New(cfg, func(router *gin.RouterGroup) {
		router.POST("/databases", h.CreateDatabase)
		router.POST("/databases/plan", h.PlanDatabase)
		router.GET("/provisions", h.GetProvisions)
		router.GET("/provisions/:id", h.GetProvision)
		router.GET("/status", h.GetStatus)
		router.PUT("/credentials", h.PutCredentials)
		router.DELETE("/credentials", h.DeleteCredentials)
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info("shutdown signal received")
		return srv.Stop(context.Background())
	}
}

func openStore(ctx context.Context) (*store.Store, error) {
	path := filepath.Join(cfg.Agent.DataFolder, "agent.db")
	db, err := store.NewDB(path)
	if err != nil {
		return nil, err
	}
	if err := migrations.Run(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return store.NewStore(db), nil
}

// buildConnect resolves the instance credentials on every call: a record
// saved in the store overrides the static configuration, so credentials can
// be rotated without restarting the agent.
func buildConnect(cfg *config.Configuration, st *store.Store) services.ConnectFunc {
	return func(ctx context.Context) (services.Admin, error) {
		conn := mssql.Config{
			Host:           cfg.Instance.Host,
			Port:           cfg.Instance.Port,
			User:           cfg.Instance.User,
			Password:       cfg.Instance.Password,
			Encrypt:        cfg.Instance.Encrypt,
			ConnectTimeout: cfg.Instance.ConnectTimeout,
			MaxRetryTime:   cfg.Instance.MaxRetryTime,
		}

		creds, err := st.Credentials().Get(ctx)
		switch {
		case err == nil:
			conn.Host = creds.Host
			conn.Port = creds.Port
			conn.User = creds.User
			conn.Password = creds.Password
		case !errors.IsResourceNotFoundError(err):
			return nil, err
		}

		return mssql.Connect(ctx, conn)
	}
}
