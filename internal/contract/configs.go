package contract

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/cardiorisk/cardiorisk/schema"
)

// Default values for configuration.
const (
	DefaultPrecision = schema.DefaultPrecision
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// Config holds the validated runtime configuration.
type Config struct {
	ModelPath string // Model bundle on disk
	ModelRef  string // Registry name, takes precedence over ModelPath

	// Patient holds the clinical fields of a single assessment, keyed by field name
	Patient schema.RawInput

	Workers    int
	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Source     schema.Source // Empty means the surface decides
	UseColors  bool

	ModelBackend   schema.DatabaseBackend
	ModelDBConnect string // Please use env var as this is plaintext

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	ListenAddr string

	// Training settings
	DataPath    string
	TrainOut    string
	Register    string
	Trees       int
	Seed        int64
	MaxFeatures int
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	PathArg string

	// --- Fields from rootCmd.PersistentFlags() ---
	Model            string `mapstructure:"model"`
	ModelRef         string `mapstructure:"model-ref"`
	Workers          int    `mapstructure:"workers"`
	Precision        int    `mapstructure:"precision"`
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	Source           string `mapstructure:"source"`
	Color            string `mapstructure:"color"`
	ModelBackend     string `mapstructure:"model-backend"`
	ModelDBConnect   string `mapstructure:"model-db-connect"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`

	// --- Fields from serveCmd.Flags() ---
	Listen string `mapstructure:"listen"`

	// --- Fields from trainCmd.Flags() ---
	Out         string `mapstructure:"out"`
	Register    string `mapstructure:"register"`
	Trees       int    `mapstructure:"trees"`
	Seed        int64  `mapstructure:"seed"`
	MaxFeatures int    `mapstructure:"max-features"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// SourceOr returns the configured source, or fallback when none was given.
func (c *Config) SourceOr(fallback schema.Source) schema.Source {
	if c.Source == "" {
		return fallback
	}
	return c.Source
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	return processTrainInputs(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// ParseBackend normalizes a backend name. An empty name means the store is disabled.
func ParseBackend(name string) (schema.DatabaseBackend, error) {
	if strings.TrimSpace(name) == "" {
		return schema.NoneBackend, nil
	}
	backend := schema.DatabaseBackend(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", fmt.Errorf("invalid backend '%s'. must be sqlite, mysql, postgresql, none", name)
	}
	return backend, nil
}

// validateBackendConfigs validates model registry and history backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	var err error

	// --- Model Registry Validation ---
	if cfg.ModelBackend, err = ParseBackend(input.ModelBackend); err != nil {
		return fmt.Errorf("model registry: %w", err)
	}
	cfg.ModelDBConnect = input.ModelDBConnect
	if err := ValidateDatabaseConnectionString(cfg.ModelBackend, cfg.ModelDBConnect); err != nil {
		return err
	}

	// --- History Backend Validation ---
	if cfg.HistoryBackend, err = ParseBackend(input.HistoryBackend); err != nil {
		return fmt.Errorf("history: %w", err)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	if err := ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return err
	}

	// Both stores create their own tables, but two SQLite stores must not share a file
	if cfg.ModelBackend == schema.SQLiteBackend && cfg.HistoryBackend == schema.SQLiteBackend {
		modelPath := cfg.ModelDBConnect
		if modelPath == "" {
			modelPath = GetModelDBFilePath()
		}
		historyPath := cfg.HistoryDBConnect
		if historyPath == "" {
			historyPath = GetHistoryDBFilePath()
		}
		if modelPath == historyPath {
			return fmt.Errorf("model registry and history must use different SQLite database files. Both resolve to %q", modelPath)
		}
	}

	if cfg.ModelRef != "" && cfg.ModelBackend == schema.NoneBackend {
		return fmt.Errorf("--model-ref %q needs a model registry backend", cfg.ModelRef)
	}
	return nil
}

// validateSimpleInputs processes and validates the scalar fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.ModelPath = strings.TrimSpace(input.Model)
	cfg.ModelRef = strings.TrimSpace(input.ModelRef)
	cfg.OutputFile = input.OutputFile
	cfg.ListenAddr = input.Listen
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = schema.DefaultListenAddr
	}
	if cfg.ModelPath == "" {
		cfg.ModelPath = schema.DefaultModelFile
	}

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Workers Validation ---
	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	// --- 2. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json", input.Output)
	}

	// --- 3. Source Validation ---
	cfg.Source = schema.Source(strings.ToLower(input.Source))
	if _, ok := schema.ValidSources[cfg.Source]; cfg.Source != "" && !ok {
		return fmt.Errorf("invalid source '%s'. must be cli, batch, mcp, http", input.Source)
	}

	return nil
}

// processTrainInputs handles the train command settings.
func processTrainInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.DataPath = input.PathArg
	cfg.TrainOut = input.Out
	if cfg.TrainOut == "" {
		cfg.TrainOut = schema.DefaultModelFile
	}
	cfg.Register = strings.TrimSpace(input.Register)
	if cfg.Register != "" && cfg.ModelBackend == schema.NoneBackend {
		return fmt.Errorf("--register %q needs a model registry backend", cfg.Register)
	}

	cfg.Trees = input.Trees
	if cfg.Trees == 0 {
		cfg.Trees = schema.DefaultTrees
	}
	if cfg.Trees < 1 {
		return fmt.Errorf("trees must be at least 1 (received %d)", input.Trees)
	}
	cfg.Seed = input.Seed
	if input.MaxFeatures < 0 {
		return fmt.Errorf("max-features cannot be negative (received %d)", input.MaxFeatures)
	}
	cfg.MaxFeatures = input.MaxFeatures
	return nil
}
