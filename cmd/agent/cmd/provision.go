package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dbforge/mssql-provision-agent/internal/models"
	"github.com/dbforge/mssql-provision-agent/internal/services"
	"github.com/dbforge/mssql-provision-agent/pkg/scheduler"
)

var provisionManifest string

var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Provision databases directly, without the HTTP API",
	Long: `Provision one database (--name/--data-size and friends, as in plan)
or every database in a manifest (--manifest), sequentially. Each run is
recorded in the agent's audit trail like API-driven runs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		return runProvision(ctx)
	},
}

func init() {
	rootCmd.AddCommand(provisionCmd)
	provisionCmd.Flags().StringVar(&planName, "name", "", "database name")
	provisionCmd.Flags().StringVar(&planDataSize, "data-size", "", "expected data size, e.g. 200GB")
	provisionCmd.Flags().StringVar(&planLogSize, "log-size", "", "log size, e.g. 20GB")
	provisionCmd.Flags().StringVar(&planPerFileSize, "per-file-size", "", "fixed per-file size instead of the even split")
	provisionCmd.Flags().StringVar(&provisionManifest, "manifest", "", "path to an .xlsx manifest")
}

func runProvision(ctx context.Context) error {
	planManifest = provisionManifest
	specs, err := planSpecs()
	if err != nil {
		return err
	}

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	sched := scheduler.New(1)
	defer sched.Close()

	planner := services.NewPlanner(cfg.Provisioning)
	principals := services.NewPrincipals(cfg.Provisioning.LoginPassword)
	connect := buildConnect(cfg, st)
	provisioner := services.NewProvisioner(planner, principals, connect, sched, st)

	failed := 0
	for _, spec := range specs {
		if err := provisionOne(ctx, provisioner, spec); err != nil {
			color.Red("%s: %v", spec.Name, err)
			failed++
			continue
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d databases failed", failed, len(specs))
	}
	return nil
}

func provisionOne(ctx context.Context, provisioner *services.Provisioner, spec models.DatabaseSpec) error {
	if _, err := provisioner.Start(spec); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(200 * time.Millisecond):
		}

		status := provisioner.Status()
		switch status.State {
		case models.ProvisionerStateCompleted:
			color.Green("%s: provisioned", spec.Name)
			return nil
		case models.ProvisionerStateError:
			return status.Error
		}
	}
}
