package iocache

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/cardiorisk/cardiorisk/internal/contract"
	"github.com/cardiorisk/cardiorisk/schema"
	"github.com/go-sql-driver/mysql" // MySQL driver
)

// ModelStoreImpl keeps encoded model bundles in a key/value table.
type ModelStoreImpl struct {
	db        *sql.DB
	tableName string
	backend   schema.DatabaseBackend
	connStr   string
}

var _ contract.ModelStore = &ModelStoreImpl{} // Compile-time check

// NewModelStore initializes and returns a new ModelStore based on the backend type.
func NewModelStore(tableName string, backend schema.DatabaseBackend, connStr string) (contract.ModelStore, error) {
	// Validate table name to prevent SQL injection
	if err := validateTableName(tableName); err != nil {
		return nil, err
	}

	if backend == schema.NoneBackend {
		// Return a no-op store for a disabled registry
		return &ModelStoreImpl{tableName: tableName, backend: backend, connStr: connStr}, nil
	}

	db, err := openDatabase(backend, connStr, contract.GetModelDBFilePath())
	if err != nil {
		return nil, err
	}

	query := getCreateModelTableQuery(tableName, backend)
	if _, err := db.Exec(query); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", tableName, err)
	}

	return &ModelStoreImpl{
		db:        db,
		tableName: tableName,
		backend:   backend,
		connStr:   connStr,
	}, nil
}

// getCreateModelTableQuery returns the CREATE TABLE query for the given backend.
func getCreateModelTableQuery(tableName string, backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(tableName, backend)
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				model_name VARCHAR(255) PRIMARY KEY,
				model_value LONGBLOB NOT NULL,
				model_version INT NOT NULL,
				model_timestamp BIGINT NOT NULL
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				model_name TEXT PRIMARY KEY,
				model_value BYTEA NOT NULL,
				model_version INTEGER NOT NULL,
				model_timestamp BIGINT NOT NULL
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				model_name TEXT PRIMARY KEY,
				model_value BLOB NOT NULL,
				model_version INTEGER NOT NULL,
				model_timestamp INTEGER NOT NULL
			);
		`, quotedTableName)
	}
}

// Get retrieves a bundle by registry name.
func (ms *ModelStoreImpl) Get(name string) ([]byte, int, int64, error) {
	// Return not found error for NoneBackend
	if ms.backend == schema.NoneBackend || ms.db == nil {
		return nil, 0, 0, sql.ErrNoRows
	}

	var value []byte
	var version int
	var ts int64

	quotedTableName := quoteTableName(ms.tableName, ms.backend)
	query := fmt.Sprintf(`SELECT model_value, model_version, model_timestamp FROM %s WHERE model_name = %s`,
		quotedTableName, placeholders(ms.backend, 1)[0])
	row := ms.db.QueryRow(query, name)

	if err := row.Scan(&value, &version, &ts); err != nil {
		return nil, 0, 0, err
	}
	return value, version, ts, nil
}

// Set inserts or replaces a bundle under a registry name.
func (ms *ModelStoreImpl) Set(name string, value []byte, version int, timestamp int64) error {
	// Nothing could be read back from NoneBackend
	if ms.backend == schema.NoneBackend || ms.db == nil {
		return schema.ErrRegistryDisabled
	}

	_, err := ms.db.Exec(ms.getUpsertQuery(), name, value, version, timestamp)
	return err
}

// getUpsertQuery returns the UPSERT query for the backend.
func (ms *ModelStoreImpl) getUpsertQuery() string {
	quotedTableName := quoteTableName(ms.tableName, ms.backend)
	switch ms.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (model_name, model_value, model_version, model_timestamp) VALUES (?, ?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE model_value = new.model_value, model_version = new.model_version, model_timestamp = new.model_timestamp`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (model_name, model_value, model_version, model_timestamp) VALUES ($1, $2, $3, $4)
			ON CONFLICT (model_name) DO UPDATE SET model_value = EXCLUDED.model_value, model_version = EXCLUDED.model_version, model_timestamp = EXCLUDED.model_timestamp`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`INSERT OR REPLACE INTO %s (model_name, model_value, model_version, model_timestamp) VALUES (?, ?, ?, ?)`, quotedTableName)
	}
}

// List returns the registered models ordered by name.
func (ms *ModelStoreImpl) List() ([]schema.ModelEntry, error) {
	if ms.backend == schema.NoneBackend || ms.db == nil {
		return nil, nil
	}

	quotedTableName := quoteTableName(ms.tableName, ms.backend)
	query := fmt.Sprintf(`SELECT model_name, model_version, model_timestamp, LENGTH(model_value) FROM %s ORDER BY model_name`, quotedTableName)
	rows, err := ms.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []schema.ModelEntry
	for rows.Next() {
		var e schema.ModelEntry
		if err := rows.Scan(&e.Name, &e.Version, &e.Timestamp, &e.Size); err != nil {
			return nil, fmt.Errorf("failed to scan model entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating models: %w", err)
	}
	return entries, nil
}

// Close closes the underlying DB connection.
func (ms *ModelStoreImpl) Close() error {
	if ms.db != nil {
		return ms.db.Close()
	}
	return nil
}

// GetStatus returns status information about the model registry.
func (ms *ModelStoreImpl) GetStatus() (schema.ModelStoreStatus, error) {
	status := schema.ModelStoreStatus{
		Backend:   string(ms.backend),
		Connected: ms.db != nil,
	}

	if ms.backend == schema.NoneBackend || ms.db == nil {
		return status, nil
	}

	quotedTableName := quoteTableName(ms.tableName, ms.backend)

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedTableName)
	if err := ms.db.QueryRow(countQuery).Scan(&status.TotalModels); err != nil {
		return status, fmt.Errorf("failed to get total models: %w", err)
	}

	if status.TotalModels == 0 {
		return status, nil
	}

	var lastTs, oldestTs int64
	rangeQuery := fmt.Sprintf("SELECT MAX(model_timestamp), MIN(model_timestamp) FROM %s", quotedTableName)
	if err := ms.db.QueryRow(rangeQuery).Scan(&lastTs, &oldestTs); err != nil {
		return status, fmt.Errorf("failed to get entry times: %w", err)
	}
	status.LastEntryTime = time.Unix(lastTs, 0)
	status.OldestEntryTime = time.Unix(oldestTs, 0)

	// Estimate table size (approximate)
	switch ms.backend {
	case schema.SQLiteBackend:
		sizeQuery := "SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()"
		if err := ms.db.QueryRow(sizeQuery).Scan(&status.TableSizeBytes); err != nil {
			status.TableSizeBytes = 0
		}
	case schema.MySQLBackend:
		// Fallback rough estimate if information_schema query fails
		status.TableSizeBytes = ms.fallbackSize(status.TotalModels)
		cfg, err := mysql.ParseDSN(ms.connStr)
		if err != nil || cfg.DBName == "" {
			break
		}
		sizeQuery := "SELECT data_length + index_length FROM information_schema.tables WHERE table_schema = ? AND table_name = ?"
		if err := ms.db.QueryRow(sizeQuery, cfg.DBName, ms.tableName).Scan(&status.TableSizeBytes); err != nil {
			status.TableSizeBytes = ms.fallbackSize(status.TotalModels)
		}
	case schema.PostgreSQLBackend:
		if err := ms.db.QueryRow("SELECT pg_total_relation_size($1)", ms.tableName).Scan(&status.TableSizeBytes); err != nil {
			status.TableSizeBytes = ms.fallbackSize(status.TotalModels)
		}
	}

	return status, nil
}

// fallbackSize sums the stored bundle sizes.
func (ms *ModelStoreImpl) fallbackSize(count int) int64 {
	var total sql.NullInt64
	query := fmt.Sprintf("SELECT SUM(LENGTH(model_value)) FROM %s", quoteTableName(ms.tableName, ms.backend))
	if err := ms.db.QueryRow(query).Scan(&total); err != nil || !total.Valid {
		return int64(count) * 100_000
	}
	return total.Int64
}
