package iocache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/cardiorisk/cardiorisk/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateHistory_NoneBackend(t *testing.T) {
	_, err := MigrateHistory(schema.NoneBackend, "", -1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migrations are not supported for NoneBackend")
}

func TestMigrateHistory_SQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")

	result, err := MigrateHistory(schema.SQLiteBackend, dbPath, -1)
	require.NoError(t, err)
	assert.True(t, result.Changed)
	assert.Equal(t, uint(0), result.FromVersion)
	assert.Equal(t, uint(2), result.ToVersion)

	// Running again is a no-op
	result, err = MigrateHistory(schema.SQLiteBackend, dbPath, -1)
	require.NoError(t, err)
	assert.False(t, result.Changed)
	assert.Equal(t, uint(2), result.ToVersion)
	assert.Contains(t, result.String(), "No migration needed")

	result, err = MigrateHistory(schema.SQLiteBackend, dbPath, 1)
	require.NoError(t, err)
	assert.Equal(t, uint(1), result.ToVersion)

	result, err = MigrateHistory(schema.SQLiteBackend, dbPath, 0)
	require.NoError(t, err)
	assert.Equal(t, uint(0), result.ToVersion)

	result, err = MigrateHistory(schema.SQLiteBackend, dbPath, 2)
	require.NoError(t, err)
	assert.Contains(t, result.String(), "Successfully migrated from version 0 to version 2")
}

func TestMigrateHistory_StoreReportsVersion(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")

	_, err := MigrateHistory(schema.SQLiteBackend, dbPath, -1)
	require.NoError(t, err)

	store, err := NewHistoryStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	require.NoError(t, store.RecordAssessment(sampleRecord("a1", time.Now(), schema.ModerateRisk)))
	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, uint(2), status.SchemaVersion)
	assert.False(t, status.SchemaDirty)
	assert.Equal(t, 1, status.TotalAssessments)
}
