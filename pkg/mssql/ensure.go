package mssql

import (
	"context"

	"github.com/dbforge/mssql-provision-agent/internal/models"
)

// LookupFunc reports whether the entity already exists.
type LookupFunc func(ctx context.Context) (bool, error)

// CreateFunc creates the entity.
type CreateFunc func(ctx context.Context) error

// Ensure is the idempotent-apply primitive behind every principal operation:
// look the entity up, create it only if absent, and report which happened.
// Lookup errors and create errors both propagate unchanged.
func Ensure(ctx context.Context, lookup LookupFunc, create CreateFunc) (models.EnsureOutcome, error) {
	exists, err := lookup(ctx)
	if err != nil {
		return "", err
	}
	if exists {
		return models.EnsureOutcomeAlreadyPresent, nil
	}
	if err := create(ctx); err != nil {
		return "", err
	}
	return models.EnsureOutcomeCreated, nil
}
