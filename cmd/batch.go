package cmd

import (
	"github.com/cardiorisk/cardiorisk/core"
	"github.com/spf13/cobra"
)

// batchCmd assesses every row of a CSV file.
var batchCmd = &cobra.Command{
	Use:   "batch <patients.csv>",
	Short: "Assess every patient in a CSV file.",
	Long: `Assess many patients at once. The CSV needs a header row with the eleven
clinical field names (Age, Sex, ChestPainType, RestingBP, Cholesterol, FastingBS,
RestingECG, MaxHR, ExerciseAngina, Oldpeak, ST_Slope). Extra columns are ignored.

Rows are assessed concurrently and reported in input order. A row that fails
validation reports its error in place; the other rows are still assessed.

Examples:
  # Print a table of results
  cardiorisk batch patients.csv

  # Write CSV results with two extra decimals of probability
  cardiorisk batch patients.csv --output csv --precision 2 --output-file results.csv`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: runExecutor("Cannot run batch assessment", core.ExecuteBatch),
}
