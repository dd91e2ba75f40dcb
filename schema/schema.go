// Package schema has the shared models, enums and errors for all parts of cardiorisk.
package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// Field names of a clinical assessment, exactly as they appear in the
// training data header and on every inference surface.
const (
	FieldAge            = "Age"
	FieldSex            = "Sex"
	FieldChestPainType  = "ChestPainType"
	FieldRestingBP      = "RestingBP"
	FieldCholesterol    = "Cholesterol"
	FieldFastingBS      = "FastingBS"
	FieldRestingECG     = "RestingECG"
	FieldMaxHR          = "MaxHR"
	FieldExerciseAngina = "ExerciseAngina"
	FieldOldpeak        = "Oldpeak"
	FieldSTSlope        = "ST_Slope"

	// FieldHeartDisease is the training target column (1 = disease present).
	FieldHeartDisease = "HeartDisease"
)

// FieldKind describes how a raw field is parsed and encoded.
type FieldKind string

// All field kinds.
const (
	IntKind         FieldKind = "int"         // base-10 integer, passed through
	FloatKind       FieldKind = "float"       // finite float, passed through
	BinaryKind      FieldKind = "binary"      // integer restricted to 0 or 1, passed through
	CategoricalKind FieldKind = "categorical" // expanded into <field>_<value> indicator columns
)

// FieldSpec describes one input field.
type FieldSpec struct {
	Name   string    `json:"name"`
	Kind   FieldKind `json:"kind"`
	Label  string    `json:"label"`
	Hint   string    `json:"hint"`
	Flag   string    `json:"-"`                // CLI flag name
	Values []string  `json:"values,omitempty"` // known values for binary and categorical fields
}

// Fields lists the eleven input fields in form order.
var Fields = []FieldSpec{
	{Name: FieldAge, Flag: "age", Kind: IntKind, Label: "Age (years)", Hint: "Example: 45 (age in years)"},
	{Name: FieldSex, Flag: "sex", Kind: CategoricalKind, Label: "Sex", Hint: "M - male, F - female", Values: []string{"M", "F"}},
	{Name: FieldChestPainType, Flag: "chest-pain-type", Kind: CategoricalKind, Label: "Chest Pain Type", Hint: "ATA - atypical angina, NAP - non-anginal pain, ASY - asymptomatic, TA - typical angina", Values: []string{"ATA", "NAP", "ASY", "TA"}},
	{Name: FieldRestingBP, Flag: "resting-bp", Kind: IntKind, Label: "Blood Pressure (mmHg)", Hint: "Example: 120 (systolic blood pressure in mmHg)"},
	{Name: FieldCholesterol, Flag: "cholesterol", Kind: IntKind, Label: "Cholesterol (mg/dl)", Hint: "Example: 200 (cholesterol level in mg/dl)"},
	{Name: FieldFastingBS, Flag: "fasting-bs", Kind: BinaryKind, Label: "Fasting Blood Sugar", Hint: "0 - blood sugar <120 mg/dl, 1 - blood sugar >120 mg/dl", Values: []string{"0", "1"}},
	{Name: FieldRestingECG, Flag: "resting-ecg", Kind: CategoricalKind, Label: "Resting ECG Result", Hint: "Normal - normal, ST - ST segment abnormality, LVH - left ventricular hypertrophy", Values: []string{"Normal", "ST", "LVH"}},
	{Name: FieldMaxHR, Flag: "max-hr", Kind: IntKind, Label: "Maximum Heart Rate", Hint: "Example: 150 (maximum heart rate)"},
	{Name: FieldExerciseAngina, Flag: "exercise-angina", Kind: CategoricalKind, Label: "Exercise-Induced Angina", Hint: "Y - yes, N - no", Values: []string{"Y", "N"}},
	{Name: FieldOldpeak, Flag: "oldpeak", Kind: FloatKind, Label: "ST Depression", Hint: "Example: 1.5 (ST segment depression)"},
	{Name: FieldSTSlope, Flag: "st-slope", Kind: CategoricalKind, Label: "ST Slope", Hint: "Up - upsloping, Flat - flat, Down - downsloping", Values: []string{"Up", "Flat", "Down"}},
}

// CategoricalFields is the one-hot expansion order used at training time.
var CategoricalFields = []string{FieldSex, FieldChestPainType, FieldRestingECG, FieldExerciseAngina, FieldSTSlope}

// fieldIndex maps a field name to its spec.
var fieldIndex = func() map[string]FieldSpec {
	m := make(map[string]FieldSpec, len(Fields))
	for _, f := range Fields {
		m[f.Name] = f
	}
	return m
}()

// LookupField returns the spec of a named field.
func LookupField(name string) (FieldSpec, bool) {
	f, ok := fieldIndex[name]
	return f, ok
}

// IsCategorical reports whether the named field is one-hot encoded.
func IsCategorical(name string) bool {
	f, ok := fieldIndex[name]
	return ok && f.Kind == CategoricalKind
}

// IndicatorColumn returns the synthetic one-hot column name for a field value.
func IndicatorColumn(field, value string) string {
	return field + "_" + value
}

// RawInput maps a field name to its raw, unparsed value.
type RawInput map[string]string

// Clone returns a copy of the input.
func (r RawInput) Clone() RawInput {
	out := make(RawInput, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// RawInputFromAny converts a decoded JSON object into a RawInput.
// Numbers are rendered without exponent so "55" and 55 encode identically.
// Nil values are skipped and therefore reported as missing by validation.
func RawInputFromAny(m map[string]any) RawInput {
	out := make(RawInput, len(m))
	for k, v := range m {
		switch val := v.(type) {
		case nil:
			continue
		case string:
			out[k] = val
		case float64:
			out[k] = strconv.FormatFloat(val, 'f', -1, 64)
		case float32:
			out[k] = strconv.FormatFloat(float64(val), 'f', -1, 32)
		case int:
			out[k] = strconv.Itoa(val)
		case int64:
			out[k] = strconv.FormatInt(val, 10)
		case bool:
			if val {
				out[k] = "1"
			} else {
				out[k] = "0"
			}
		default:
			out[k] = strings.TrimSpace(fmt.Sprint(val))
		}
	}
	return out
}
