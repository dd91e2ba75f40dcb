package iocache

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/cardiorisk/cardiorisk/internal/contract"
	"github.com/cardiorisk/cardiorisk/schema"
)

// Table names for assessment history.
const (
	assessmentsTable = "cardiorisk_assessments"
	modelsTable      = "cardiorisk_models"
)

// HistoryStoreImpl implements the HistoryStore interface.
type HistoryStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.HistoryStore = &HistoryStoreImpl{} // Compile-time check

// NewHistoryStore creates a new HistoryStore with the specified backend.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (*HistoryStoreImpl, error) {
	if backend == schema.NoneBackend {
		// Return a no-op store for disabled tracking
		return &HistoryStoreImpl{backend: backend}, nil
	}

	db, err := openDatabase(backend, connStr, contract.GetHistoryDBFilePath())
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(getCreateAssessmentsQuery(backend)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", assessmentsTable, err)
	}

	return &HistoryStoreImpl{db: db, backend: backend}, nil
}

// getCreateAssessmentsQuery returns the CREATE TABLE query for cardiorisk_assessments.
// It matches the first migration of each backend.
func getCreateAssessmentsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(assessmentsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				assessment_id CHAR(36) PRIMARY KEY,
				model_id VARCHAR(64) NOT NULL,
				assessed_at DATETIME(6) NOT NULL,
				source VARCHAR(16) NOT NULL,
				inputs TEXT NOT NULL,
				probability DOUBLE NOT NULL,
				percent DOUBLE NOT NULL,
				tier VARCHAR(16) NOT NULL
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				assessment_id TEXT PRIMARY KEY,
				model_id TEXT NOT NULL,
				assessed_at TIMESTAMPTZ NOT NULL,
				source TEXT NOT NULL,
				inputs TEXT NOT NULL,
				probability DOUBLE PRECISION NOT NULL,
				percent DOUBLE PRECISION NOT NULL,
				tier TEXT NOT NULL
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				assessment_id TEXT PRIMARY KEY,
				model_id TEXT NOT NULL,
				assessed_at TEXT NOT NULL,
				source TEXT NOT NULL,
				inputs TEXT NOT NULL,
				probability REAL NOT NULL,
				percent REAL NOT NULL,
				tier TEXT NOT NULL
			);
		`, quotedTableName)
	}
}

// RecordAssessment stores one completed assessment.
func (hs *HistoryStoreImpl) RecordAssessment(record schema.AssessmentRecord) error {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil
	}

	query := fmt.Sprintf(`INSERT INTO %s (assessment_id, model_id, assessed_at, source, inputs, probability, percent, tier)
		VALUES (%s)`, quoteTableName(assessmentsTable, hs.backend), strings.Join(placeholders(hs.backend, 8), ", "))

	_, err := hs.db.Exec(query,
		record.AssessmentID, record.ModelID, formatTime(record.AssessedAt, hs.backend), record.Source,
		record.Inputs, record.Probability, record.Percent, record.Tier,
	)
	if err != nil {
		return fmt.Errorf("failed to insert assessment: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (hs *HistoryStoreImpl) Close() error {
	if hs.db != nil {
		return hs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the history store.
func (hs *HistoryStoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:    string(hs.backend),
		Connected:  hs.db != nil,
		TierCounts: make(map[schema.RiskTier]int),
		TableSizes: make(map[string]int64),
	}

	if hs.backend == schema.NoneBackend || hs.db == nil {
		return status, nil
	}

	quotedTableName := quoteTableName(assessmentsTable, hs.backend)

	if err := hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedTableName)).Scan(&status.TotalAssessments); err != nil {
		return status, fmt.Errorf("failed to get total assessments: %w", err)
	}
	status.TableSizes[assessmentsTable] = int64(status.TotalAssessments)

	if status.TotalAssessments > 0 {
		lastQuery := fmt.Sprintf("SELECT assessment_id, assessed_at FROM %s ORDER BY assessed_at DESC LIMIT 1", quotedTableName)
		var lastID string
		lastAt, err := hs.scanTime(hs.db.QueryRow(lastQuery), &lastID)
		if err != nil {
			return status, fmt.Errorf("failed to get last assessment: %w", err)
		}
		status.LastAssessmentID = lastID
		status.LastAssessedAt = lastAt

		oldestQuery := fmt.Sprintf("SELECT assessed_at FROM %s ORDER BY assessed_at ASC LIMIT 1", quotedTableName)
		oldestAt, err := hs.scanTime(hs.db.QueryRow(oldestQuery))
		if err != nil {
			return status, fmt.Errorf("failed to get oldest assessment: %w", err)
		}
		status.OldestAssessedAt = oldestAt

		tierQuery := fmt.Sprintf("SELECT tier, COUNT(*) FROM %s GROUP BY tier", quotedTableName)
		rows, err := hs.db.Query(tierQuery)
		if err != nil {
			return status, fmt.Errorf("failed to count tiers: %w", err)
		}
		defer func() { _ = rows.Close() }()
		for rows.Next() {
			var tier string
			var count int
			if err := rows.Scan(&tier, &count); err != nil {
				return status, fmt.Errorf("failed to scan tier count: %w", err)
			}
			status.TierCounts[schema.RiskTier(tier)] = count
		}
		if err := rows.Err(); err != nil {
			return status, fmt.Errorf("error iterating tier counts: %w", err)
		}
	}

	// Migration state is only present once the history was migrated
	var version int64
	var dirty bool
	versionQuery := "SELECT version, dirty FROM schema_migrations LIMIT 1"
	if err := hs.db.QueryRow(versionQuery).Scan(&version, &dirty); err == nil {
		status.SchemaVersion = uint(version)
		status.SchemaDirty = dirty
	}

	return status, nil
}

// scanTime scans the leading columns into dest and the last column as a timestamp.
func (hs *HistoryStoreImpl) scanTime(row *sql.Row, dest ...any) (time.Time, error) {
	switch hs.backend {
	case schema.SQLiteBackend:
		var raw string
		if err := row.Scan(append(dest, &raw)...); err != nil {
			return time.Time{}, err
		}
		return time.Parse(time.RFC3339Nano, raw)
	default: // MySQL and PostgreSQL store as native datetime
		var t time.Time
		if err := row.Scan(append(dest, &t)...); err != nil {
			return time.Time{}, err
		}
		return t, nil
	}
}

// GetAllAssessments retrieves every recorded assessment in time order.
func (hs *HistoryStoreImpl) GetAllAssessments() ([]schema.AssessmentRecord, error) {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT assessment_id, model_id, assessed_at, source, inputs, probability, percent, tier
		FROM %s ORDER BY assessed_at, assessment_id`, quoteTableName(assessmentsTable, hs.backend))

	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query assessments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.AssessmentRecord
	for rows.Next() {
		var r schema.AssessmentRecord
		switch hs.backend {
		case schema.SQLiteBackend:
			var assessedAt string
			if err := rows.Scan(&r.AssessmentID, &r.ModelID, &assessedAt, &r.Source, &r.Inputs, &r.Probability, &r.Percent, &r.Tier); err != nil {
				return nil, fmt.Errorf("failed to scan assessment: %w", err)
			}
			t, err := time.Parse(time.RFC3339Nano, assessedAt)
			if err != nil {
				return nil, fmt.Errorf("failed to parse assessed_at: %w", err)
			}
			r.AssessedAt = t
		default: // MySQL and PostgreSQL
			if err := rows.Scan(&r.AssessmentID, &r.ModelID, &r.AssessedAt, &r.Source, &r.Inputs, &r.Probability, &r.Percent, &r.Tier); err != nil {
				return nil, fmt.Errorf("failed to scan assessment: %w", err)
			}
		}
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assessments: %w", err)
	}
	return results, nil
}
