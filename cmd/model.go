package cmd

import (
	"fmt"

	"github.com/cardiorisk/cardiorisk/core"
	"github.com/cardiorisk/cardiorisk/internal/contract"
	"github.com/cardiorisk/cardiorisk/internal/iocache"
	"github.com/cardiorisk/cardiorisk/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// modelSetup loads minimal configuration needed for registry operations.
// This is used by commands that need registry access without full shared setup.
func modelSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get registry-related config values
	backend, err := contract.ParseBackend(viper.GetString("model-backend"))
	if err != nil {
		return err
	}
	connStr := viper.GetString("model-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// Initialize the registry with the loaded config (no history for model commands)
	if err := iocache.InitStores(backend, connStr, schema.NoneBackend, ""); err != nil {
		return fmt.Errorf("failed to initialize model registry: %w", err)
	}

	cfg.ModelBackend = backend
	cfg.ModelDBConnect = connStr

	return nil
}

// modelSetupWrapper wraps modelSetup to provide PreRunE for model commands.
func modelSetupWrapper(_ *cobra.Command, _ []string) error {
	return modelSetup()
}

// modelCmd focused on model registry management.
//
// Note: Model subcommands use minimal initialization (modelSetup) instead of
// the full sharedSetup used by assessment commands.
var modelCmd = &cobra.Command{
	Use:   "model",
	Short: "Manage the registry of trained models",
	Long: `Manage the registry that stores trained model bundles by name.

Models are registered with 'cardiorisk train --register NAME' and loaded with
'--model-ref NAME'. Registering under an existing name bumps its version.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status - Show registry statistics and connection info
  list   - List registered models
  clear  - Remove all registered models

Examples:
  # Check registry status
  cardiorisk model status

  # List models
  cardiorisk model list`,
}

// modelStatusCmd shows registry status.
var modelStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display registry statistics and connection details",
	Long: `Show detailed information about the model registry.

Displays:
- Backend type and connection status
- Total number of registered models
- Last and oldest registration timestamps
- Registry table size

Examples:
  cardiorisk model status`,
	PreRunE: modelSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetModelStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get model registry status", err)
		}
		iocache.PrintModelStoreStatus(status)
	},
}

// modelListCmd lists registered models.
var modelListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered models with their versions",
	Long: `List every registered model with its version, model id, registration time
and bundle size.

Examples:
  cardiorisk model list`,
	PreRunE: modelSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		entries, err := core.ListModels(iocache.Manager.GetModelStore())
		if err != nil {
			contract.LogFatal("Failed to list models", err)
		}
		iocache.PrintModelList(entries)
	},
}

// modelClearCmd clears the registry.
var modelClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all registered models",
	Long: `Delete all registered models from the configured backend.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the registry table

Model bundle files written with --out are not touched.

Examples:
  cardiorisk model clear`,
	PreRunE: modelSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		iocache.CloseStores()
		if err := iocache.ClearModels(cfg.ModelBackend, contract.GetModelDBFilePath(), cfg.ModelDBConnect); err != nil {
			contract.LogFatal("Failed to clear model registry", err)
		}
		fmt.Println("Model registry cleared successfully.")
	},
}
