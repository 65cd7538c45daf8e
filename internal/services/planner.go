package services

import (
	"fmt"
	"strings"

	"github.com/dbforge/mssql-provision-agent/internal/config"
	"github.com/dbforge/mssql-provision-agent/internal/models"
	"github.com/dbforge/mssql-provision-agent/pkg/layout"
)

// Planner composes the pure planning primitives into a provisioning plan:
// normalize the spec against configured defaults, derive the file layout,
// and compute the space requirements each target volume must satisfy.
type Planner struct {
	defaults config.Provisioning
}

func NewPlanner(defaults config.Provisioning) *Planner {
	return &Planner{defaults: defaults}
}

// BuildPlan fills the spec's optional fields from the configured defaults
// and derives the physical layout. No I/O; safe for dry-run use.
func (p *Planner) BuildPlan(spec models.DatabaseSpec) (models.ProvisionPlan, error) {
	if spec.Name == "" {
		return models.ProvisionPlan{}, fmt.Errorf("database name is required")
	}
	if spec.DataSizeMB <= 0 {
		return models.ProvisionPlan{}, fmt.Errorf("data size must be positive, got %dMB", spec.DataSizeMB)
	}
	if spec.LogSizeMB == 0 {
		spec.LogSizeMB = p.defaults.DefaultLogSizeMB()
	}
	if spec.DataPath == "" {
		spec.DataPath = p.defaults.DataPath
	}
	if spec.LogPath == "" {
		spec.LogPath = p.defaults.LogPath
	}
	if spec.GrowthMB == nil {
		growth := p.defaults.GrowthMB()
		spec.GrowthMB = &growth
	}

	fileCount, err := layout.PlanFileCount(spec.DataSizeMB, p.defaults.PerFileThresholdMB())
	if err != nil {
		return models.ProvisionPlan{}, err
	}

	var perFileMB int64
	if spec.PerFileSizeMB != nil {
		// Fixed per-file size from the spec wins over the even split.
		perFileMB = *spec.PerFileSizeMB
	} else {
		perFileMB, err = layout.PlanPerFileSize(spec.DataSizeMB, fileCount)
		if err != nil {
			return models.ProvisionPlan{}, err
		}
	}

	dataMB, err := layout.RequiredSpace(fileCount, perFileMB, p.defaults.MarginPercent)
	if err != nil {
		return models.ProvisionPlan{}, err
	}
	logMB, err := layout.RequiredLogSpace(spec.LogSizeMB, p.defaults.MarginPercent)
	if err != nil {
		return models.ProvisionPlan{}, err
	}

	return models.ProvisionPlan{
		Spec: spec,
		Files: models.FilePlan{
			FileCount:     fileCount,
			PerFileSizeMB: perFileMB,
			LogSizeMB:     spec.LogSizeMB,
		},
		Requirements: layout.Requirements{
			DataVolume: spec.DataPath,
			DataMB:     dataMB,
			LogVolume:  spec.LogPath,
			LogMB:      logMB,
		},
	}, nil
}

// CheckSpace resolves the plan's file paths to the instance's volumes and
// evaluates the sufficiency policy: independent checks for distinct volumes,
// one combined check when data and log land on the same volume. A path that
// resolves to no reported volume fails with VolumeNotFoundError.
func (p *Planner) CheckSpace(plan models.ProvisionPlan, volumes []models.StorageVolume) ([]layout.Check, error) {
	byMount := make(map[string]layout.Volume, len(volumes))
	for _, v := range volumes {
		byMount[v.MountPoint] = layout.Volume{
			Name:        v.MountPoint,
			AvailableMB: v.AvailableMB,
			TotalMB:     v.TotalMB,
		}
	}

	dataVol, ok := resolveVolume(plan.Requirements.DataVolume, volumes)
	if !ok {
		return nil, &layout.VolumeNotFoundError{Volume: plan.Requirements.DataVolume}
	}
	logVol, ok := resolveVolume(plan.Requirements.LogVolume, volumes)
	if !ok {
		return nil, &layout.VolumeNotFoundError{Volume: plan.Requirements.LogVolume}
	}

	return layout.Evaluate(layout.Requirements{
		DataVolume: dataVol,
		DataMB:     plan.Requirements.DataMB,
		LogVolume:  logVol,
		LogMB:      plan.Requirements.LogMB,
	}, byMount)
}

// resolveVolume maps a file path to the mount point hosting it, taking the
// longest mount point that prefixes the path so nested mounts win.
func resolveVolume(path string, volumes []models.StorageVolume) (string, bool) {
	best := ""
	for _, v := range volumes {
		if strings.HasPrefix(path, v.MountPoint) && len(v.MountPoint) > len(best) {
			best = v.MountPoint
		}
	}
	return best, best != ""
}
