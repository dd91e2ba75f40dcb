package cmd

import (
	"github.com/cardiorisk/cardiorisk/core"
	"github.com/spf13/cobra"
)

// schemaCmd prints the feature columns of a model.
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Show the feature columns of a model with their fitted ranges.",
	Long: `Print the ordered feature columns the model was trained on, with the
minimum and maximum seen for each column during training.

Examples:
  cardiorisk schema --model model.crm
  cardiorisk schema --model-ref heart --output json`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: runExecutor("Cannot describe model", core.ExecuteSchema),
}
