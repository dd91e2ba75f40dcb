package cmd

import (
	"github.com/cardiorisk/cardiorisk/core"
	"github.com/spf13/cobra"
)

// trainCmd fits a model on a labelled CSV.
var trainCmd = &cobra.Command{
	Use:   "train <heart.csv>",
	Short: "Train a risk model on a labelled dataset.",
	Long: `Fit a random forest on a CSV with the eleven clinical fields and a
HeartDisease column (0 or 1).

Rows with a RestingBP or Cholesterol of 0 are treated as missing measurements
and dropped. Categorical fields are one-hot encoded using the values observed
in the data, and every column is min-max scaled to [0, 1].

Training is deterministic for a given --seed, whatever the number of workers.

Examples:
  # Train with the defaults (100 trees, seed 42)
  cardiorisk train heart.csv --out model.crm

  # Train and register the model under a name
  cardiorisk train heart.csv --register heart`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: runExecutor("Cannot train model", core.ExecuteTrain),
}
