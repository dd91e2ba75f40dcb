// Package cmd defines the command-line interface for cardiorisk.
package cmd

import (
	"github.com/cardiorisk/cardiorisk/internal/contract"
	"github.com/cardiorisk/cardiorisk/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(modelCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(serveCmd)

	// Add the model subcommands to the parent model command
	modelCmd.AddCommand(modelStatusCmd)
	modelCmd.AddCommand(modelListCmd)
	modelCmd.AddCommand(modelClearCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("model", schema.DefaultModelFile, "Path to the trained model bundle")
	rootCmd.PersistentFlags().String("model-ref", "", "Name of a registered model to load instead of --model")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal places for probabilities beyond the percent (1 or 2)")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().String("source", "", "Source recorded with each assessment: cli, batch, mcp or http (defaults to the command)")
	rootCmd.PersistentFlags().String("model-backend", string(schema.SQLiteBackend), "Model registry backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("model-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("history-backend", "", "Assessment history backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for assessment history")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored tier labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind one flag per clinical field of predictCmd to Viper
	for _, f := range schema.Fields {
		predictCmd.Flags().String(f.Flag, "", f.Label+". "+f.Hint)
	}
	if err := viper.BindPFlags(predictCmd.Flags()); err != nil {
		contract.LogFatal("Error binding predict flags", err)
	}

	// Bind all flags of trainCmd to Viper
	trainCmd.Flags().String("out", schema.DefaultModelFile, "Path to write the trained model bundle")
	trainCmd.Flags().String("register", "", "Also register the model under this name")
	trainCmd.Flags().Int("trees", schema.DefaultTrees, "Number of trees in the forest")
	trainCmd.Flags().Int64("seed", schema.DefaultSeed, "Random seed for bootstrap and feature sampling")
	trainCmd.Flags().Int("max-features", 0, "Candidate features per split (0 = sqrt of the column count)")
	if err := viper.BindPFlags(trainCmd.Flags()); err != nil {
		contract.LogFatal("Error binding train flags", err)
	}

	// Bind all flags of serveCmd to Viper
	serveCmd.Flags().String("listen", schema.DefaultListenAddr, "Address for the HTTP server to listen on")
	if err := viper.BindPFlags(serveCmd.Flags()); err != nil {
		contract.LogFatal("Error binding serve flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
