package contract

import (
	"path/filepath"
	"testing"

	"github.com/cardiorisk/cardiorisk/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		Workers:   4,
		Precision: 1,
		Output:    "text",
		Color:     "yes",
	}
}

func TestProcessAndValidate(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		expectError bool
	}{
		{name: "valid minimal config", mutate: func(*ConfigRawInput) {}},
		{name: "zero workers", mutate: func(in *ConfigRawInput) { in.Workers = 0 }, expectError: true},
		{name: "precision too high", mutate: func(in *ConfigRawInput) { in.Precision = 3 }, expectError: true},
		{name: "parquet is not a report format", mutate: func(in *ConfigRawInput) { in.Output = "parquet" }, expectError: true},
		{name: "uppercase output accepted", mutate: func(in *ConfigRawInput) { in.Output = "JSON" }},
		{name: "bad color", mutate: func(in *ConfigRawInput) { in.Color = "maybe" }, expectError: true},
		{name: "bad source", mutate: func(in *ConfigRawInput) { in.Source = "fax" }, expectError: true},
		{name: "bad backend", mutate: func(in *ConfigRawInput) { in.HistoryBackend = "oracle" }, expectError: true},
		{name: "mysql without connection", mutate: func(in *ConfigRawInput) { in.ModelBackend = "mysql" }, expectError: true},
		{
			name: "same sqlite file for both stores",
			mutate: func(in *ConfigRawInput) {
				in.ModelBackend = "sqlite"
				in.HistoryBackend = "sqlite"
				in.ModelDBConnect = filepath.Join(dir, "one.db")
				in.HistoryDBConnect = filepath.Join(dir, "one.db")
			},
			expectError: true,
		},
		{
			name: "separate sqlite files",
			mutate: func(in *ConfigRawInput) {
				in.ModelBackend = "sqlite"
				in.HistoryBackend = "sqlite"
				in.ModelDBConnect = filepath.Join(dir, "models.db")
				in.HistoryDBConnect = filepath.Join(dir, "history.db")
			},
		},
		{name: "model ref without registry", mutate: func(in *ConfigRawInput) { in.ModelRef = "prod" }, expectError: true},
		{name: "register without registry", mutate: func(in *ConfigRawInput) { in.Register = "prod" }, expectError: true},
		{name: "negative trees", mutate: func(in *ConfigRawInput) { in.Trees = -1 }, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(input)
			cfg := &Config{}
			err := ProcessAndValidate(cfg, input)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestProcessAndValidateDefaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, validInput()))

	assert.Equal(t, schema.DefaultModelFile, cfg.ModelPath)
	assert.Equal(t, schema.DefaultModelFile, cfg.TrainOut)
	assert.Equal(t, schema.DefaultListenAddr, cfg.ListenAddr)
	assert.Equal(t, schema.DefaultTrees, cfg.Trees)
	assert.Empty(t, cfg.Source)
	assert.Equal(t, schema.NoneBackend, cfg.ModelBackend)
	assert.Equal(t, schema.NoneBackend, cfg.HistoryBackend)
	assert.Equal(t, schema.TextOut, cfg.Output)
	assert.True(t, cfg.UseColors)
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		backend schema.DatabaseBackend
		conn    string
		wantErr bool
	}{
		{schema.SQLiteBackend, "", false},
		{schema.NoneBackend, "", false},
		{schema.MySQLBackend, "user:pass@tcp(localhost:3306)/cardio", false},
		{schema.MySQLBackend, "user:pass@localhost/cardio", true},
		{schema.MySQLBackend, "user:pass@tcp(localhost:3306)", true},
		{schema.PostgreSQLBackend, "host=localhost dbname=cardio", false},
		{schema.PostgreSQLBackend, "dbname=cardio", true},
		{schema.PostgreSQLBackend, "host=localhost", true},
		{schema.PostgreSQLBackend, "", true},
	}
	for _, tt := range tests {
		t.Run(string(tt.backend)+"/"+tt.conn, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.conn)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseBackend(t *testing.T) {
	b, err := ParseBackend("")
	require.NoError(t, err)
	assert.Equal(t, schema.NoneBackend, b)

	b, err = ParseBackend(" PostgreSQL ")
	require.NoError(t, err)
	assert.Equal(t, schema.PostgreSQLBackend, b)

	_, err = ParseBackend("redis")
	assert.Error(t, err)
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{Workers: 2, Source: schema.BatchSource}
	clone := cfg.Clone()
	clone.Workers = 8
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, schema.BatchSource, clone.Source)
}

func TestConfigSourceOr(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, schema.BatchSource, cfg.SourceOr(schema.BatchSource))

	cfg.Source = schema.HTTPSource
	assert.Equal(t, schema.HTTPSource, cfg.SourceOr(schema.BatchSource))
}
