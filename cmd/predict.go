package cmd

import (
	"github.com/cardiorisk/cardiorisk/core"
	"github.com/cardiorisk/cardiorisk/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// patientFromFlags collects the clinical fields set by flag, env or config file.
// Fields left empty are omitted and reported as missing by validation.
func patientFromFlags() schema.RawInput {
	raw := make(schema.RawInput, len(schema.Fields))
	for _, f := range schema.Fields {
		if v := viper.GetString(f.Flag); v != "" {
			raw[f.Name] = v
		}
	}
	return raw
}

// predictCmd assesses a single patient.
var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Assess the heart-disease risk of one patient.",
	Long: `Estimate the probability of heart disease for one patient and classify it.

All eleven clinical fields are required:
  --age, --sex, --chest-pain-type, --resting-bp, --cholesterol, --fasting-bs,
  --resting-ecg, --max-hr, --exercise-angina, --oldpeak, --st-slope

Tiers:
- Low      probability below 20%
- Moderate probability from 20% up to 50%
- High     probability of 50% or more

Examples:
  # Assess with the default model bundle
  cardiorisk predict --age 55 --sex M --chest-pain-type ATA --resting-bp 130 \
    --cholesterol 250 --fasting-bs 0 --resting-ecg Normal --max-hr 150 \
    --exercise-angina N --oldpeak 1.0 --st-slope Flat

  # Use a registered model and emit JSON
  cardiorisk predict --model-ref heart --output json ...`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := sharedSetup(rootCtx, cmd, args); err != nil {
			return err
		}
		cfg.Patient = patientFromFlags()
		return nil
	},
	Run: runExecutor("Cannot assess patient", core.ExecutePredict),
}
