package iocache

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/cardiorisk/cardiorisk/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetGlobals(t *testing.T) {
	t.Helper()
	initOnce = sync.Once{}
	closeOnce = sync.Once{}
	Manager = &StoreManager{}
}

func sampleRecord(id string, at time.Time, tier schema.RiskTier) schema.AssessmentRecord {
	return schema.AssessmentRecord{
		AssessmentID: id,
		ModelID:      "model-1",
		AssessedAt:   at,
		Source:       string(schema.CLISource),
		Inputs:       `{"Age":"55"}`,
		Probability:  0.42,
		Percent:      42,
		Tier:         string(tier),
	}
}

func TestInitStores(t *testing.T) {
	t.Run("sqlite setup", func(t *testing.T) {
		resetGlobals(t)
		dir := t.TempDir()
		modelsPath := filepath.Join(dir, "models.db")
		historyPath := filepath.Join(dir, "history.db")

		err := InitStores(schema.SQLiteBackend, modelsPath, schema.SQLiteBackend, historyPath)
		require.NoError(t, err)
		assert.NotNil(t, Manager.GetModelStore())
		assert.NotNil(t, Manager.GetHistoryStore())

		CloseStores()
		CloseStores() // safe to call twice

		_, err = os.Stat(modelsPath)
		assert.NoError(t, err, "model database file should be created")
		_, err = os.Stat(historyPath)
		assert.NoError(t, err, "history database file should be created")
	})

	t.Run("idempotent setup", func(t *testing.T) {
		resetGlobals(t)
		dir := t.TempDir()
		path := filepath.Join(dir, "models.db")

		require.NoError(t, InitStores(schema.SQLiteBackend, path, schema.NoneBackend, ""))
		first := Manager.GetModelStore()
		require.NoError(t, InitStores(schema.SQLiteBackend, path, schema.NoneBackend, ""))
		assert.Same(t, first, Manager.GetModelStore())
		CloseStores()
	})

	t.Run("empty backends are disabled", func(t *testing.T) {
		resetGlobals(t)
		require.NoError(t, InitStores("", "", "", ""))

		status, err := Manager.GetModelStore().GetStatus()
		require.NoError(t, err)
		assert.Equal(t, string(schema.NoneBackend), status.Backend)
		assert.False(t, status.Connected)
		CloseStores()
	})

	t.Run("unsupported backend", func(t *testing.T) {
		resetGlobals(t)
		err := InitStores("oracle", "", schema.NoneBackend, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to initialize model registry")
	})
}

func TestModelStore_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models.db")
	store, err := NewModelStore(modelsTable, schema.SQLiteBackend, path)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	_, _, _, err = store.Get("missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	require.NoError(t, store.Set("prod", []byte("bundle-v1"), 1, 1000))
	require.NoError(t, store.Set("prod", []byte("bundle-v2!"), 2, 2000))
	require.NoError(t, store.Set("canary", []byte("c"), 1, 1500))

	value, version, ts, err := store.Get("prod")
	require.NoError(t, err)
	assert.Equal(t, []byte("bundle-v2!"), value)
	assert.Equal(t, 2, version)
	assert.Equal(t, int64(2000), ts)

	entries, err := store.List()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "canary", entries[0].Name)
	assert.Equal(t, "prod", entries[1].Name)
	assert.Equal(t, len("bundle-v2!"), entries[1].Size)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, 2, status.TotalModels)
	assert.Equal(t, time.Unix(2000, 0), status.LastEntryTime)
	assert.Equal(t, time.Unix(1500, 0), status.OldestEntryTime)
	assert.Greater(t, status.TableSizeBytes, int64(0))
}

func TestModelStore_InvalidTableName(t *testing.T) {
	_, err := NewModelStore("models; DROP TABLE x", schema.SQLiteBackend, ":memory:")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid table name")
}

func TestModelStore_None(t *testing.T) {
	store, err := NewModelStore(modelsTable, schema.NoneBackend, "")
	require.NoError(t, err)

	assert.ErrorIs(t, store.Set("x", []byte("y"), 1, 1), schema.ErrRegistryDisabled)
	_, _, _, err = store.Get("x")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	entries, err := store.List()
	assert.NoError(t, err)
	assert.Empty(t, entries)
	assert.NoError(t, store.Close())
}

func TestHistoryStore_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := NewHistoryStore(schema.SQLiteBackend, path)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 0, status.TotalAssessments)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.RecordAssessment(sampleRecord("a1", base, schema.LowRisk)))
	require.NoError(t, store.RecordAssessment(sampleRecord("a2", base.Add(time.Minute), schema.HighRisk)))
	require.NoError(t, store.RecordAssessment(sampleRecord("a3", base.Add(2*time.Minute), schema.HighRisk)))

	status, err = store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 3, status.TotalAssessments)
	assert.Equal(t, "a3", status.LastAssessmentID)
	assert.True(t, status.LastAssessedAt.Equal(base.Add(2*time.Minute)))
	assert.True(t, status.OldestAssessedAt.Equal(base))
	assert.Equal(t, 1, status.TierCounts[schema.LowRisk])
	assert.Equal(t, 2, status.TierCounts[schema.HighRisk])
	assert.Equal(t, 0, status.TierCounts[schema.ModerateRisk])

	records, err := store.GetAllAssessments()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "a1", records[0].AssessmentID)
	assert.Equal(t, `{"Age":"55"}`, records[0].Inputs)
	assert.True(t, records[0].AssessedAt.Equal(base))

	// Primary key rejects a duplicate id
	assert.Error(t, store.RecordAssessment(sampleRecord("a1", base, schema.LowRisk)))
}

func TestHistoryStore_SQLiteSubSecondOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := NewHistoryStore(schema.SQLiteBackend, path)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	base := time.Date(2026, 3, 1, 13, 10, 5, 0, time.UTC)
	require.NoError(t, store.RecordAssessment(sampleRecord("z0", base, schema.LowRisk)))
	require.NoError(t, store.RecordAssessment(sampleRecord("m1", base.Add(100*time.Millisecond), schema.LowRisk)))
	require.NoError(t, store.RecordAssessment(sampleRecord("a2", base.Add(120*time.Millisecond), schema.LowRisk)))

	records, err := store.GetAllAssessments()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "z0", records[0].AssessmentID)
	assert.Equal(t, "m1", records[1].AssessmentID)
	assert.Equal(t, "a2", records[2].AssessmentID)
	assert.True(t, records[1].AssessedAt.Equal(base.Add(100*time.Millisecond)))

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "a2", status.LastAssessmentID)
	assert.True(t, status.LastAssessedAt.Equal(base.Add(120*time.Millisecond)))
	assert.True(t, status.OldestAssessedAt.Equal(base))
}

func TestHistoryStore_None(t *testing.T) {
	store, err := NewHistoryStore(schema.NoneBackend, "")
	require.NoError(t, err)

	assert.NoError(t, store.RecordAssessment(sampleRecord("a1", time.Now(), schema.LowRisk)))
	records, err := store.GetAllAssessments()
	assert.NoError(t, err)
	assert.Empty(t, records)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)
}

func TestClearStores(t *testing.T) {
	t.Run("sqlite removes file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "models.db")
		store, err := NewModelStore(modelsTable, schema.SQLiteBackend, path)
		require.NoError(t, err)
		require.NoError(t, store.Close())

		require.NoError(t, ClearModels(schema.SQLiteBackend, path, ""))
		_, err = os.Stat(path)
		assert.True(t, os.IsNotExist(err))

		// Missing file is not an error
		assert.NoError(t, ClearHistory(schema.SQLiteBackend, path, ""))
	})

	t.Run("none is a no-op", func(t *testing.T) {
		assert.NoError(t, ClearModels(schema.NoneBackend, "", ""))
	})

	t.Run("sqlite needs a path", func(t *testing.T) {
		assert.Error(t, ClearHistory(schema.SQLiteBackend, "", ""))
	})

	t.Run("unsupported backend", func(t *testing.T) {
		assert.Error(t, ClearModels("oracle", "", ""))
	})
}

func TestPlaceholdersAndQuoting(t *testing.T) {
	assert.Equal(t, []string{"$1", "$2"}, placeholders(schema.PostgreSQLBackend, 2))
	assert.Equal(t, []string{"?", "?", "?"}, placeholders(schema.MySQLBackend, 3))
	assert.Equal(t, "`t`", quoteTableName("t", schema.MySQLBackend))
	assert.Equal(t, `"t"`, quoteTableName("t", schema.SQLiteBackend))
	assert.Equal(t, `"t"`, quoteTableName("t", schema.PostgreSQLBackend))
}
