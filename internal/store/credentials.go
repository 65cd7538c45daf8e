package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dbforge/mssql-provision-agent/internal/models"
	srvErrors "github.com/dbforge/mssql-provision-agent/pkg/errors"
)

// CredentialsStore persists the target instance credentials in a
// single-row table.
type CredentialsStore struct {
	db QueryInterceptor
}

func NewCredentialsStore(db QueryInterceptor) *CredentialsStore {
	return &CredentialsStore{db: db}
}

// Get retrieves the stored credentials.
func (s *CredentialsStore) Get(ctx context.Context) (*models.InstanceCredentials, error) {
	row := s.db.QueryRowContext(ctx, queryGetCredentials)

	var creds models.InstanceCredentials
	err := row.Scan(&creds.Host, &creds.Port, &creds.User, &creds.Password,
		&creds.CreatedAt, &creds.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, srvErrors.NewCredentialsNotFoundError()
	}
	if err != nil {
		return nil, err
	}
	return &creds, nil
}

// Save stores or updates the credentials (upsert).
func (s *CredentialsStore) Save(ctx context.Context, creds *models.InstanceCredentials) error {
	_, err := s.db.ExecContext(ctx, queryUpsertCredentials,
		creds.Host, creds.Port, creds.User, creds.Password)
	return err
}

// Delete removes the stored credentials.
func (s *CredentialsStore) Delete(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, queryDeleteCredentials)
	return err
}
