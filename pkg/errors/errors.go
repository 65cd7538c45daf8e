// Package errors defines the typed errors shared across the agent's service
// and storage layers. Handlers and callers branch on error kind through the
// Is* helpers instead of matching message strings.
package errors

import (
	"errors"
	"fmt"
)

// ResourceNotFoundError reports a missing stored resource.
type ResourceNotFoundError struct {
	Resource string
}

func (e *ResourceNotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

func NewCredentialsNotFoundError() *ResourceNotFoundError {
	return &ResourceNotFoundError{Resource: "credentials"}
}

func NewProvisionNotFoundError(id string) *ResourceNotFoundError {
	return &ResourceNotFoundError{Resource: fmt.Sprintf("provision %q", id)}
}

func IsResourceNotFoundError(err error) bool {
	var e *ResourceNotFoundError
	return errors.As(err, &e)
}

// ProvisionInProgressError reports that a provisioning run is already in
// flight; only one run is allowed at a time.
type ProvisionInProgressError struct {
	Database string
}

func (e *ProvisionInProgressError) Error() string {
	return fmt.Sprintf("provisioning of %q already in progress", e.Database)
}

func NewProvisionInProgressError(database string) *ProvisionInProgressError {
	return &ProvisionInProgressError{Database: database}
}

func IsProvisionInProgressError(err error) bool {
	var e *ProvisionInProgressError
	return errors.As(err, &e)
}

// InsufficientSpaceError reports a failed free-space check on one volume.
type InsufficientSpaceError struct {
	Volume      string
	RequiredMB  int64
	AvailableMB int64
}

func (e *InsufficientSpaceError) Error() string {
	return fmt.Sprintf("insufficient space on %s: need %dMB, have %dMB",
		e.Volume, e.RequiredMB, e.AvailableMB)
}

func NewInsufficientSpaceError(volume string, requiredMB, availableMB int64) *InsufficientSpaceError {
	return &InsufficientSpaceError{Volume: volume, RequiredMB: requiredMB, AvailableMB: availableMB}
}

func IsInsufficientSpaceError(err error) bool {
	var e *InsufficientSpaceError
	return errors.As(err, &e)
}
