package store

// Credentials queries
const (
	queryGetCredentials = `
		SELECT host, port, username, password, created_at, updated_at
		FROM credentials WHERE id = 1`

	queryUpsertCredentials = `
		INSERT INTO credentials (id, host, port, username, password, updated_at)
		VALUES (1, ?, ?, ?, ?, now())
		ON CONFLICT (id) DO UPDATE SET
			host = EXCLUDED.host,
			port = EXCLUDED.port,
			username = EXCLUDED.username,
			password = EXCLUDED.password,
			updated_at = now()`

	queryDeleteCredentials = `DELETE FROM credentials WHERE id = 1`
)

// Provision queries
const (
	queryInsertProvision = `
		INSERT INTO provisions (
			id, database_name, outcome, file_count, per_file_size_mb, log_size_mb,
			data_volume, log_volume, error, started_at, finished_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
)
