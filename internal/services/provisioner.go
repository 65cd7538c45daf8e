package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dbforge/mssql-provision-agent/internal/models"
	"github.com/dbforge/mssql-provision-agent/internal/store"
	srvErrors "github.com/dbforge/mssql-provision-agent/pkg/errors"
	"github.com/dbforge/mssql-provision-agent/pkg/scheduler"
)

// Admin is the administration surface the provisioner needs from the target
// instance. *mssql.Client implements it; tests substitute a fake.
type Admin interface {
	PrincipalAdmin
	DatabaseExists(ctx context.Context, name string) (bool, error)
	EnsureDirectories(ctx context.Context, paths ...string) error
	CreateDatabase(ctx context.Context, spec models.DatabaseSpec, plan models.FilePlan) error
	SetOwner(ctx context.Context, database, owner string) error
	EnableQueryStore(ctx context.Context, database string) error
	QueryVolumes(ctx context.Context) ([]models.StorageVolume, error)
	Close() error
}

// ConnectFunc opens an admin connection to the target instance.
type ConnectFunc func(ctx context.Context) (Admin, error)

// Provisioner runs database provisioning end to end: connect, plan, check
// space, create, set ownership, enable Query Store, apply principals, and
// record the run. One run at a time; state is observable while it runs.
type Provisioner struct {
	planner    *Planner
	principals *Principals
	connect    ConnectFunc
	scheduler  *scheduler.Scheduler
	store      *store.Store
	log        *zap.SugaredLogger

	mu     sync.Mutex
	status models.ProvisionerStatus
}

func NewProvisioner(planner *Planner, principals *Principals, connect ConnectFunc, s *scheduler.Scheduler, st *store.Store) *Provisioner {
	return &Provisioner{
		planner:    planner,
		principals: principals,
		connect:    connect,
		scheduler:  s,
		store:      st,
		log:        zap.S().Named("provisioner"),
		status:     models.ProvisionerStatus{State: models.ProvisionerStateReady},
	}
}

// Status returns the current provisioner state.
func (p *Provisioner) Status() models.ProvisionerStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// Start begins provisioning the database asynchronously and returns the
// provision record ID. Only one run may be in flight; a second Start fails
// with ProvisionInProgressError.
func (p *Provisioner) Start(spec models.DatabaseSpec) (string, error) {
	p.mu.Lock()
	switch p.status.State {
	case models.ProvisionerStateConnecting, models.ProvisionerStateProvisioning:
		inFlight := p.status.Database
		p.mu.Unlock()
		return "", srvErrors.NewProvisionInProgressError(inFlight)
	}
	p.status = models.ProvisionerStatus{State: models.ProvisionerStateConnecting, Database: spec.Name}
	p.mu.Unlock()

	id := uuid.NewString()
	p.scheduler.Submit(func(ctx context.Context) (any, error) {
		p.run(ctx, id, spec)
		return nil, nil
	})
	return id, nil
}

func (p *Provisioner) run(ctx context.Context, id string, spec models.DatabaseSpec) {
	started := time.Now().UTC()

	plan, err := p.planner.BuildPlan(spec)
	if err != nil {
		p.finish(ctx, id, models.ProvisionPlan{Spec: spec}, models.ProvisionOutcomeFailed, started, err)
		return
	}

	admin, err := p.connect(ctx)
	if err != nil {
		p.finish(ctx, id, plan, models.ProvisionOutcomeFailed, started, err)
		return
	}
	defer admin.Close()

	p.setState(models.ProvisionerStateProvisioning, spec.Name)

	outcome, err := p.provision(ctx, admin, plan)
	p.finish(ctx, id, plan, outcome, started, err)
}

func (p *Provisioner) provision(ctx context.Context, admin Admin, plan models.ProvisionPlan) (models.ProvisionOutcome, error) {
	spec := plan.Spec

	exists, err := admin.DatabaseExists(ctx, spec.Name)
	if err != nil {
		return models.ProvisionOutcomeFailed, err
	}
	if exists {
		p.log.Infow("database already present, leaving it untouched", "database", spec.Name)
		return models.ProvisionOutcomeAlreadyPresent, nil
	}

	volumes, err := admin.QueryVolumes(ctx)
	if err != nil {
		return models.ProvisionOutcomeFailed, err
	}
	checks, err := p.planner.CheckSpace(plan, volumes)
	if err != nil {
		return models.ProvisionOutcomeFailed, err
	}
	for _, c := range checks {
		if !c.Sufficient {
			return models.ProvisionOutcomeFailed,
				srvErrors.NewInsufficientSpaceError(c.Volume, c.RequiredMB, c.AvailableMB)
		}
	}

	if err := admin.EnsureDirectories(ctx, spec.DataPath, spec.LogPath); err != nil {
		return models.ProvisionOutcomeFailed, err
	}

	if err := admin.CreateDatabase(ctx, spec, plan.Files); err != nil {
		return models.ProvisionOutcomeFailed, err
	}
	p.log.Infow("database created",
		"database", spec.Name,
		"files", plan.Files.FileCount,
		"per_file_mb", plan.Files.PerFileSizeMB,
		"log_mb", plan.Files.LogSizeMB)

	if _, err := p.principals.Apply(ctx, admin, spec.Name); err != nil {
		return models.ProvisionOutcomeFailed, err
	}

	owner := spec.Owner
	if owner == "" {
		owner = LoginName(spec.Name, models.AccessLevelOwner)
	}
	if err := admin.SetOwner(ctx, spec.Name, owner); err != nil {
		return models.ProvisionOutcomeFailed, err
	}

	if spec.QueryStore {
		if err := admin.EnableQueryStore(ctx, spec.Name); err != nil {
			return models.ProvisionOutcomeFailed, err
		}
	}

	return models.ProvisionOutcomeCreated, nil
}

func (p *Provisioner) setState(state models.ProvisionerState, database string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status = models.ProvisionerStatus{State: state, Database: database}
}

// finish records the run in the audit trail and settles the state machine.
func (p *Provisioner) finish(ctx context.Context, id string, plan models.ProvisionPlan, outcome models.ProvisionOutcome, started time.Time, runErr error) {
	rec := models.ProvisionRecord{
		ID:            id,
		Database:      plan.Spec.Name,
		Outcome:       outcome,
		FileCount:     plan.Files.FileCount,
		PerFileSizeMB: plan.Files.PerFileSizeMB,
		LogSizeMB:     plan.Files.LogSizeMB,
		DataVolume:    plan.Requirements.DataVolume,
		LogVolume:     plan.Requirements.LogVolume,
		StartedAt:     started,
		FinishedAt:    time.Now().UTC(),
	}
	if runErr != nil {
		rec.Error = runErr.Error()
		p.log.Errorw("provisioning failed", "database", plan.Spec.Name, "error", runErr)
	}
	if err := p.store.Provisions().Insert(ctx, rec); err != nil {
		p.log.Errorw("failed to record provisioning run", "id", id, "error", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if runErr != nil {
		p.status = models.ProvisionerStatus{State: models.ProvisionerStateError, Database: plan.Spec.Name, Error: runErr}
		return
	}
	p.status = models.ProvisionerStatus{State: models.ProvisionerStateCompleted, Database: plan.Spec.Name}
}
