package models

import (
	"time"

	"github.com/dbforge/mssql-provision-agent/pkg/layout"
)

// ProvisionerState represents the current state of the Provisioner.
type ProvisionerState string

const (
	// ProvisionerStateReady - waiting for a provisioning request
	ProvisionerStateReady ProvisionerState = "ready"
	// ProvisionerStateConnecting - connecting to the target instance
	ProvisionerStateConnecting ProvisionerState = "connecting"
	// ProvisionerStateProvisioning - creating the database and principals
	ProvisionerStateProvisioning ProvisionerState = "provisioning"
	// ProvisionerStateCompleted - last run finished successfully
	ProvisionerStateCompleted ProvisionerState = "completed"
	// ProvisionerStateError - last run failed, a new run may be started
	ProvisionerStateError ProvisionerState = "error"
)

// ProvisionerStatus holds the current Provisioner state and the last error.
type ProvisionerStatus struct {
	State    ProvisionerState
	Database string
	Error    error
}

// ProvisionOutcome is the terminal result of one provisioning run.
type ProvisionOutcome string

const (
	ProvisionOutcomeCreated        ProvisionOutcome = "created"
	ProvisionOutcomeAlreadyPresent ProvisionOutcome = "already-present"
	ProvisionOutcomeFailed         ProvisionOutcome = "failed"
)

// ProvisionRecord is one row of the provisioning audit trail.
type ProvisionRecord struct {
	ID            string
	Database      string
	Outcome       ProvisionOutcome
	FileCount     int
	PerFileSizeMB int64
	LogSizeMB     int64
	DataVolume    string
	LogVolume     string
	Error         string
	StartedAt     time.Time
	FinishedAt    time.Time
}

// ProvisionPlan bundles the planned layout with the space requirements the
// target volumes must satisfy (margins already applied).
type ProvisionPlan struct {
	Spec         DatabaseSpec
	Files        FilePlan
	Requirements layout.Requirements
}
