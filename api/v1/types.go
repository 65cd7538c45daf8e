// Package v1 defines the agent's HTTP API surface: request payloads,
// response payloads, and their conversions from the internal models.
package v1

import "time"

// CreateDatabaseRequest asks the agent to provision one database. Sizes are
// literals in the form "<number><MB|GB|TB>". Omitted fields fall back to the
// agent's configured defaults.
type CreateDatabaseRequest struct {
	Name        string `json:"name" binding:"required"`
	DataSize    string `json:"dataSize" binding:"required"`
	LogSize     string `json:"logSize,omitempty"`
	PerFileSize string `json:"perFileSize,omitempty"`
	Growth      string `json:"growth,omitempty"`
	Owner       string `json:"owner,omitempty"`
	Collation   string `json:"collation,omitempty"`
	DataPath    string `json:"dataPath,omitempty"`
	LogPath     string `json:"logPath,omitempty"`
	QueryStore  bool   `json:"queryStore,omitempty"`
}

// CreateDatabaseResponse acknowledges an accepted provisioning request.
type CreateDatabaseResponse struct {
	ID       string `json:"id"`
	Database string `json:"database"`
}

// FilePlan is the physical data file layout for a database.
type FilePlan struct {
	FileCount     int    `json:"fileCount"`
	PerFileSize   string `json:"perFileSize"`
	PerFileSizeMB int64  `json:"perFileSizeMB"`
	LogSizeMB     int64  `json:"logSizeMB"`
}

// SpaceCheck is the sufficiency verdict for one volume.
type SpaceCheck struct {
	Volume      string `json:"volume"`
	RequiredMB  int64  `json:"requiredMB"`
	AvailableMB int64  `json:"availableMB"`
	Sufficient  bool   `json:"sufficient"`
}

// PlanResponse is the dry-run answer: the layout the agent would create and,
// when the instance is reachable, the space checks it would have to pass.
type PlanResponse struct {
	Database    string       `json:"database"`
	Files       FilePlan     `json:"files"`
	DataVolume  string       `json:"dataVolume"`
	RequiredMB  int64        `json:"requiredMB"`
	LogVolume   string       `json:"logVolume"`
	LogMB       int64        `json:"logMB"`
	SpaceChecks []SpaceCheck `json:"spaceChecks,omitempty"`
	Sufficient  *bool        `json:"sufficient,omitempty"`
}

// Provision is one recorded provisioning run.
type Provision struct {
	ID            string    `json:"id"`
	Database      string    `json:"database"`
	Outcome       string    `json:"outcome"`
	FileCount     int       `json:"fileCount"`
	PerFileSizeMB int64     `json:"perFileSizeMB"`
	LogSizeMB     int64     `json:"logSizeMB"`
	DataVolume    string    `json:"dataVolume"`
	LogVolume     string    `json:"logVolume"`
	Error         string    `json:"error,omitempty"`
	StartedAt     time.Time `json:"startedAt"`
	FinishedAt    time.Time `json:"finishedAt"`
}

// ProvisionList is a page of recorded runs.
type ProvisionList struct {
	Provisions []Provision `json:"provisions"`
	Total      int         `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
}

// Status reports the provisioner's current state.
type Status struct {
	State    string `json:"state"`
	Database string `json:"database,omitempty"`
	Error    string `json:"error,omitempty"`
}

// CredentialsRequest replaces the stored connection credentials for the
// target instance. Port defaults to 1433 when omitted.
type CredentialsRequest struct {
	Host     string `json:"host" binding:"required"`
	Port     int    `json:"port,omitempty"`
	User     string `json:"user" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Error is the uniform error payload.
type Error struct {
	Error string `json:"error"`
}
