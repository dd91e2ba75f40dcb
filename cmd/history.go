package cmd

import (
	"fmt"

	"github.com/cardiorisk/cardiorisk/internal/contract"
	"github.com/cardiorisk/cardiorisk/internal/iocache"
	"github.com/cardiorisk/cardiorisk/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// historyConfig reads and validates the history backend settings.
func historyConfig() (schema.DatabaseBackend, string, error) {
	if err := loadConfigFile(); err != nil {
		return "", "", err
	}

	// Handle empty backend as NoneBackend
	backend, err := contract.ParseBackend(viper.GetString("history-backend"))
	if err != nil {
		return "", "", err
	}
	connStr := viper.GetString("history-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// historySetup loads minimal configuration needed for history operations.
func historySetup() error {
	backend, connStr, err := historyConfig()
	if err != nil {
		return err
	}

	// Initialize stores with the loaded config (no registry for history commands)
	if err := iocache.InitStores(schema.NoneBackend, "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize history: %w", err)
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")

	return nil
}

// historySetupWrapper wraps historySetup to provide PreRunE for history commands.
func historySetupWrapper(_ *cobra.Command, _ []string) error {
	return historySetup()
}

// historyMigrateSetup loads minimal configuration needed for migrate operations.
// This is a specialized setup that does NOT initialize stores or create tables,
// allowing migrations to run on a fresh database.
func historyMigrateSetup() error {
	backend, connStr, err := historyConfig()
	if err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetHistoryDBFilePath()
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr

	return nil
}

// historyMigrateSetupWrapper wraps historyMigrateSetup to provide PreRunE for migrate command.
func historyMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return historyMigrateSetup()
}

// historyCmd focused on assessment history management.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage the assessment history and exports",
	Long: `Manage the history of assessments made by every surface (CLI, batch, MCP, HTTP).

When enabled with --history-backend, each assessment stores:
- Assessment id, model id, time and source
- The raw input fields as JSON
- Probability, percent and tier

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled, default)

Subcommands:
  status  - Show history statistics
  export  - Export history to Parquet
  clear   - Remove all history
  migrate - Run database schema migrations

Examples:
  # Check history status
  cardiorisk history status --history-backend sqlite

  # Export for analysis in pandas/DuckDB
  cardiorisk history export --history-backend sqlite --output-file history.parquet`,
}

// historyClearCmd clears the history.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded assessments",
	Long: `Delete all recorded assessments.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  cardiorisk history export --output-file backup.parquet
  cardiorisk history clear`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		iocache.CloseStores()
		if err := iocache.ClearHistory(cfg.HistoryBackend, contract.GetHistoryDBFilePath(), cfg.HistoryDBConnect); err != nil {
			contract.LogFatal("Failed to clear history", err)
		}
		fmt.Println("Assessment history cleared successfully.")
	},
}

// historyStatusCmd shows history status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display history statistics and connection details",
	Long: `Show detailed information about the assessment history.

Displays:
- Backend type and connection status
- Total assessments and the count per tier
- Last and oldest assessment timestamps
- Schema version and table sizes

Examples:
  cardiorisk history status`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetHistoryStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		iocache.PrintHistoryStatus(status)
	},
}

// historyExportCmd exports history to a Parquet file.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export recorded assessments to Parquet",
	Long: `Export all recorded assessments to a single Parquet file for use with
analytics tools such as DuckDB, pandas or Spark.

Requires: --output-file parameter

Examples:
  cardiorisk history export --output-file history.parquet
  duckdb -c "SELECT tier, count(*) FROM read_parquet('history.parquet') GROUP BY tier"`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteHistoryExport(cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export history", err)
		}
	},
}

// historyMigrateCmd runs database migrations for the history store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the assessment history store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  cardiorisk history migrate

  # Migrate to specific version
  cardiorisk history migrate --target-version 1

  # Rollback to initial state
  cardiorisk history migrate --target-version 0`,
	PreRunE: historyMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		result, err := iocache.MigrateHistory(cfg.HistoryBackend, cfg.HistoryDBConnect, targetVersion)
		if err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
		fmt.Println(result)
	},
}
