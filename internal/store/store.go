package store

import "database/sql"

// Store provides access to all storage repositories.
type Store struct {
	db          *sql.DB
	credentials *CredentialsStore
	provisions  *ProvisionStore
}

func NewStore(db *sql.DB) *Store {
	intercepted := newLoggingDB(db)
	return &Store{
		db:          db,
		credentials: NewCredentialsStore(intercepted),
		provisions:  NewProvisionStore(intercepted),
	}
}

func (s *Store) Credentials() *CredentialsStore {
	return s.credentials
}

func (s *Store) Provisions() *ProvisionStore {
	return s.provisions
}

func (s *Store) Close() error {
	return s.db.Close()
}
