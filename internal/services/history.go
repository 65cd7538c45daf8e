package services

import (
	"context"
	"time"

	"github.com/dbforge/mssql-provision-agent/internal/models"
	"github.com/dbforge/mssql-provision-agent/internal/store"
	srvErrors "github.com/dbforge/mssql-provision-agent/pkg/errors"
)

// HistoryListParams narrows and pages the provisioning audit trail.
type HistoryListParams struct {
	Databases    []string
	Outcomes     []string
	StartedAfter *time.Time
	Sort         []store.SortParam
	Limit        uint64
	Offset       uint64
}

// History serves read access to recorded provisioning runs.
type History struct {
	store *store.Store
}

func NewHistory(st *store.Store) *History {
	return &History{store: st}
}

// Get returns one recorded run by its ID.
func (h *History) Get(ctx context.Context, id string) (models.ProvisionRecord, error) {
	records, err := h.store.Provisions().List(ctx, store.ByIDs(id))
	if err != nil {
		return models.ProvisionRecord{}, err
	}
	if len(records) == 0 {
		return models.ProvisionRecord{}, srvErrors.NewProvisionNotFoundError(id)
	}
	return records[0], nil
}

// List returns the matching records plus the total count before paging.
func (h *History) List(ctx context.Context, params HistoryListParams) ([]models.ProvisionRecord, int, error) {
	filters := []store.ListOption{
		store.ByDatabases(params.Databases...),
		store.ByOutcomes(params.Outcomes...),
	}
	if params.StartedAfter != nil {
		filters = append(filters, store.ByStartedAfter(*params.StartedAfter))
	}

	total, err := h.store.Provisions().Count(ctx, filters...)
	if err != nil {
		return nil, 0, err
	}

	opts := filters
	if len(params.Sort) > 0 {
		opts = append(opts, store.WithSort(params.Sort))
	} else {
		opts = append(opts, store.WithDefaultSort())
	}
	if params.Limit > 0 {
		opts = append(opts, store.WithLimit(params.Limit))
	}
	if params.Offset > 0 {
		opts = append(opts, store.WithOffset(params.Offset))
	}

	records, err := h.store.Provisions().List(ctx, opts...)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}
