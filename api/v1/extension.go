package v1

import (
	"fmt"

	"github.com/dbforge/mssql-provision-agent/internal/models"
	"github.com/dbforge/mssql-provision-agent/pkg/layout"
	"github.com/dbforge/mssql-provision-agent/pkg/sizeunit"
)

// ToSpec parses the request's size literals and builds the internal spec.
// This is the only place request payloads cross into typed models.
func (r CreateDatabaseRequest) ToSpec() (models.DatabaseSpec, error) {
	spec := models.DatabaseSpec{
		Name:       r.Name,
		Owner:      r.Owner,
		Collation:  r.Collation,
		DataPath:   r.DataPath,
		LogPath:    r.LogPath,
		QueryStore: r.QueryStore,
	}

	var err error
	if spec.DataSizeMB, err = sizeunit.Parse(r.DataSize); err != nil {
		return models.DatabaseSpec{}, fmt.Errorf("invalid dataSize: %w", err)
	}
	if r.LogSize != "" {
		if spec.LogSizeMB, err = sizeunit.Parse(r.LogSize); err != nil {
			return models.DatabaseSpec{}, fmt.Errorf("invalid logSize: %w", err)
		}
	}
	if r.PerFileSize != "" {
		perFile, err := sizeunit.Parse(r.PerFileSize)
		if err != nil {
			return models.DatabaseSpec{}, fmt.Errorf("invalid perFileSize: %w", err)
		}
		spec.PerFileSizeMB = &perFile
	}
	if r.Growth != "" {
		growth, err := sizeunit.Parse(r.Growth)
		if err != nil {
			return models.DatabaseSpec{}, fmt.Errorf("invalid growth: %w", err)
		}
		spec.GrowthMB = &growth
	}
	return spec, nil
}

// NewPlanResponse converts a provisioning plan, with optional space checks
// from a live instance.
func NewPlanResponse(plan models.ProvisionPlan, checks []layout.Check) PlanResponse {
	resp := PlanResponse{
		Database: plan.Spec.Name,
		Files: FilePlan{
			FileCount:     plan.Files.FileCount,
			PerFileSize:   sizeunit.FormatHuman(plan.Files.PerFileSizeMB),
			PerFileSizeMB: plan.Files.PerFileSizeMB,
			LogSizeMB:     plan.Files.LogSizeMB,
		},
		DataVolume: plan.Requirements.DataVolume,
		RequiredMB: plan.Requirements.DataMB,
		LogVolume:  plan.Requirements.LogVolume,
		LogMB:      plan.Requirements.LogMB,
	}
	if checks != nil {
		for _, c := range checks {
			resp.SpaceChecks = append(resp.SpaceChecks, SpaceCheck{
				Volume:      c.Volume,
				RequiredMB:  c.RequiredMB,
				AvailableMB: c.AvailableMB,
				Sufficient:  c.Sufficient,
			})
		}
		sufficient := layout.Sufficient(checks)
		resp.Sufficient = &sufficient
	}
	return resp
}

// NewProvisionFromModel converts a recorded run to its API shape.
func NewProvisionFromModel(rec models.ProvisionRecord) Provision {
	return Provision{
		ID:            rec.ID,
		Database:      rec.Database,
		Outcome:       string(rec.Outcome),
		FileCount:     rec.FileCount,
		PerFileSizeMB: rec.PerFileSizeMB,
		LogSizeMB:     rec.LogSizeMB,
		DataVolume:    rec.DataVolume,
		LogVolume:     rec.LogVolume,
		Error:         rec.Error,
		StartedAt:     rec.StartedAt,
		FinishedAt:    rec.FinishedAt,
	}
}

// NewStatusFromModel converts the provisioner status to its API shape.
func NewStatusFromModel(status models.ProvisionerStatus) Status {
	s := Status{
		State:    string(status.State),
		Database: status.Database,
	}
	if status.Error != nil {
		s.Error = status.Error.Error()
	}
	return s
}
