package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dbforge/mssql-provision-agent/internal/manifest"
	"github.com/dbforge/mssql-provision-agent/internal/models"
	"github.com/dbforge/mssql-provision-agent/internal/services"
	"github.com/dbforge/mssql-provision-agent/pkg/layout"
	"github.com/dbforge/mssql-provision-agent/pkg/mssql"
	"github.com/dbforge/mssql-provision-agent/pkg/sizeunit"
)

var (
	planName        string
	planDataSize    string
	planLogSize     string
	planPerFileSize string
	planManifest    string
	planCheck       bool
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the layout a database would get, without creating anything",
	Long: `Compute the data file layout and space requirements for one database
(--name/--data-size) or for every database in a manifest (--manifest).

With --check the agent connects to the instance and verifies each target
volume has enough free space, margin included.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		specs, err := planSpecs()
		if err != nil {
			return err
		}

		var volumes []models.StorageVolume
		if planCheck {
			client, err := mssql.Connect(cmd.Context(), instanceConfig())
			if err != nil {
				return err
			}
			defer client.Close()
			if volumes, err = client.QueryVolumes(cmd.Context()); err != nil {
				return err
			}
		}

		planner := services.NewPlanner(cfg.Provisioning)
		for _, spec := range specs {
			if err := printPlan(planner, spec, volumes); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
	planCmd.Flags().StringVar(&planName, "name", "", "database name")
	planCmd.Flags().StringVar(&planDataSize, "data-size", "", "expected data size, e.g. 200GB")
	planCmd.Flags().StringVar(&planLogSize, "log-size", "", "log size, e.g. 20GB")
	planCmd.Flags().StringVar(&planPerFileSize, "per-file-size", "", "fixed per-file size instead of the even split")
	planCmd.Flags().StringVar(&planManifest, "manifest", "", "path to an .xlsx manifest")
	planCmd.Flags().BoolVar(&planCheck, "check", false, "connect and verify free space")
}

func planSpecs() ([]models.DatabaseSpec, error) {
	if planManifest != "" {
		return readManifest(planManifest)
	}
	if planName == "" || planDataSize == "" {
		return nil, fmt.Errorf("either --manifest or both --name and --data-size are required")
	}

	spec := models.DatabaseSpec{Name: planName}
	var err error
	if spec.DataSizeMB, err = sizeunit.Parse(planDataSize); err != nil {
		return nil, fmt.Errorf("invalid --data-size: %w", err)
	}
	if planLogSize != "" {
		if spec.LogSizeMB, err = sizeunit.Parse(planLogSize); err != nil {
			return nil, fmt.Errorf("invalid --log-size: %w", err)
		}
	}
	if planPerFileSize != "" {
		perFile, err := sizeunit.Parse(planPerFileSize)
		if err != nil {
			return nil, fmt.Errorf("invalid --per-file-size: %w", err)
		}
		spec.PerFileSizeMB = &perFile
	}
	return []models.DatabaseSpec{spec}, nil
}

func printPlan(planner *services.Planner, spec models.DatabaseSpec, volumes []models.StorageVolume) error {
	plan, err := planner.BuildPlan(spec)
	if err != nil {
		return fmt.Errorf("%s: %w", spec.Name, err)
	}

	bold := color.New(color.Bold)
	bold.Printf("%s\n", plan.Spec.Name)
	fmt.Printf("  data files:     %d x %s\n", plan.Files.FileCount, sizeunit.FormatHuman(plan.Files.PerFileSizeMB))
	fmt.Printf("  log file:       %s\n", sizeunit.FormatHuman(plan.Files.LogSizeMB))
	fmt.Printf("  data volume:    %s (needs %dMB)\n", plan.Requirements.DataVolume, plan.Requirements.DataMB)
	fmt.Printf("  log volume:     %s (needs %dMB)\n", plan.Requirements.LogVolume, plan.Requirements.LogMB)

	if volumes == nil {
		fmt.Println()
		return nil
	}

	checks, err := planner.CheckSpace(plan, volumes)
	if err != nil {
		return fmt.Errorf("%s: %w", spec.Name, err)
	}
	for _, c := range checks {
		verdict := color.GreenString("ok")
		if !c.Sufficient {
			verdict = color.RedString("insufficient")
		}
		fmt.Printf("  %-14s  required %dMB, available %dMB  [%s]\n",
			c.Volume, c.RequiredMB, c.AvailableMB, verdict)
	}
	if !layout.Sufficient(checks) {
		fmt.Println()
		return fmt.Errorf("%s: not enough free space", spec.Name)
	}
	fmt.Println()
	return nil
}

func instanceConfig() mssql.Config {
	return mssql.Config{
		Host:           cfg.Instance.Host,
		Port:           cfg.Instance.Port,
		User:           cfg.Instance.User,
		Password:       cfg.Instance.Password,
		Encrypt:        cfg.Instance.Encrypt,
		ConnectTimeout: cfg.Instance.ConnectTimeout,
		MaxRetryTime:   cfg.Instance.MaxRetryTime,
	}
}

func readManifest(path string) ([]models.DatabaseSpec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return manifest.Read(f)
}
