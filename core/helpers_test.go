package core

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cardiorisk/cardiorisk/schema"
	"github.com/stretchr/testify/require"
)

var datasetHeader = []string{
	"Age", "Sex", "ChestPainType", "RestingBP", "Cholesterol", "FastingBS",
	"RestingECG", "MaxHR", "ExerciseAngina", "Oldpeak", "ST_Slope", "HeartDisease",
}

// syntheticRow returns a deterministic patient and its label. Patients over
// 45 with chest pain ASY or exercise angina are labelled as diseased.
func syntheticRow(i int) (schema.RawInput, int) {
	age := 30 + (i*7)%45
	chestPain := []string{"ATA", "NAP", "ASY", "TA"}[i%4]
	angina := []string{"Y", "N"}[(i/2)%2]
	raw := schema.RawInput{
		schema.FieldAge:            fmt.Sprint(age),
		schema.FieldSex:            []string{"M", "F"}[i%2],
		schema.FieldChestPainType:  chestPain,
		schema.FieldRestingBP:      fmt.Sprint(110 + (i*3)%50),
		schema.FieldCholesterol:    fmt.Sprint(180 + (i*11)%120),
		schema.FieldFastingBS:      fmt.Sprint((i / 3) % 2),
		schema.FieldRestingECG:     []string{"Normal", "ST", "LVH"}[i%3],
		schema.FieldMaxHR:          fmt.Sprint(100 + (i*13)%90),
		schema.FieldExerciseAngina: angina,
		schema.FieldOldpeak:        fmt.Sprintf("%.1f", float64((i*5)%30)/10),
		schema.FieldSTSlope:        []string{"Up", "Flat", "Down"}[(i/5)%3],
	}
	label := 0
	if age > 45 && (chestPain == "ASY" || angina == "Y") {
		label = 1
	}
	return raw, label
}

// syntheticCSV renders n synthetic rows as a training CSV.
func syntheticCSV(n int, labelled bool) string {
	var sb strings.Builder
	header := datasetHeader
	if !labelled {
		header = header[:len(header)-1]
	}
	sb.WriteString(strings.Join(header, ","))
	sb.WriteString("\n")
	for i := range n {
		raw, label := syntheticRow(i)
		values := make([]string, 0, len(header))
		for _, name := range header {
			if name == schema.FieldHeartDisease {
				values = append(values, fmt.Sprint(label))
				continue
			}
			values = append(values, raw[name])
		}
		sb.WriteString(strings.Join(values, ","))
		sb.WriteString("\n")
	}
	return sb.String()
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func syntheticDataset(t *testing.T, n int) *Dataset {
	t.Helper()
	ds, err := ReadDataset(strings.NewReader(syntheticCSV(n, true)))
	require.NoError(t, err)
	return ds
}

// trainSmall fits a small deterministic model for tests.
func trainSmall(t *testing.T) *Model {
	t.Helper()
	m, err := Train(t.Context(), syntheticDataset(t, 120), TrainOptions{Trees: 15, Seed: 42, Workers: 4})
	require.NoError(t, err)
	return m
}

// examplePatient is a complete valid input.
func examplePatient() schema.RawInput {
	return schema.RawInput{
		schema.FieldAge:            "55",
		schema.FieldSex:            "M",
		schema.FieldChestPainType:  "ATA",
		schema.FieldRestingBP:      "130",
		schema.FieldCholesterol:    "250",
		schema.FieldFastingBS:      "0",
		schema.FieldRestingECG:     "Normal",
		schema.FieldMaxHR:          "150",
		schema.FieldExerciseAngina: "N",
		schema.FieldOldpeak:        "1.0",
		schema.FieldSTSlope:        "Flat",
	}
}

// fullColumns is the column layout of a model trained on every category.
var fullColumns = []string{
	"Age", "RestingBP", "Cholesterol", "FastingBS", "MaxHR", "Oldpeak",
	"Sex_F", "Sex_M",
	"ChestPainType_ASY", "ChestPainType_ATA", "ChestPainType_NAP", "ChestPainType_TA",
	"RestingECG_LVH", "RestingECG_Normal", "RestingECG_ST",
	"ExerciseAngina_N", "ExerciseAngina_Y",
	"ST_Slope_Down", "ST_Slope_Flat", "ST_Slope_Up",
}

func mustSchema(t *testing.T, columns []string) *FeatureSchema {
	t.Helper()
	fs, err := NewFeatureSchema(columns)
	require.NoError(t, err)
	return fs
}
