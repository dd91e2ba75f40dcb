package core

import (
	"errors"
	"fmt"
	"math"

	"github.com/cardiorisk/cardiorisk/schema"
)

// Scaler transforms an encoded vector into model space.
type Scaler interface {
	Transform(vec []float64) ([]float64, error)
}

// ProbabilityModel returns the positive-class probability for a scaled vector.
type ProbabilityModel interface {
	PositiveProbability(vec []float64) (float64, error)
}

// RiskClassifier runs the encode, scale, classify and tier pipeline.
// It holds no mutable state and can be shared across goroutines.
type RiskClassifier struct {
	schema *FeatureSchema
	scaler Scaler
	model  ProbabilityModel
}

// NewRiskClassifier wires a fitted schema, scaler and model together.
// Missing parts surface as a PredictionError from Predict.
func NewRiskClassifier(fs *FeatureSchema, scaler Scaler, model ProbabilityModel) *RiskClassifier {
	return &RiskClassifier{schema: fs, scaler: scaler, model: model}
}

// Schema returns the feature schema the classifier encodes against.
func (c *RiskClassifier) Schema() *FeatureSchema { return c.schema }

// Predict returns the risk result for one raw input.
// Input problems are returned as *schema.ValidationError and pipeline
// failures as *schema.PredictionError.
func (c *RiskClassifier) Predict(raw schema.RawInput) (schema.RiskResult, error) {
	if c.schema == nil {
		return schema.RiskResult{}, &schema.PredictionError{Stage: schema.StageScale, Cause: schema.ErrModelNotLoaded}
	}
	vec, err := Encode(raw, c.schema)
	if err != nil {
		return schema.RiskResult{}, err
	}
	if c.scaler == nil {
		return schema.RiskResult{}, &schema.PredictionError{Stage: schema.StageScale, Cause: schema.ErrModelNotLoaded}
	}
	scaled, err := c.scaler.Transform(vec)
	if err != nil {
		return schema.RiskResult{}, &schema.PredictionError{Stage: schema.StageScale, Cause: err}
	}
	if c.model == nil {
		return schema.RiskResult{}, &schema.PredictionError{Stage: schema.StageClassify, Cause: schema.ErrModelNotLoaded}
	}
	p, err := c.model.PositiveProbability(scaled)
	if err != nil {
		return schema.RiskResult{}, &schema.PredictionError{Stage: schema.StageClassify, Cause: err}
	}
	if math.IsNaN(p) || p < 0 || p > 1 {
		return schema.RiskResult{}, &schema.PredictionError{
			Stage: schema.StageClassify,
			Cause: fmt.Errorf("probability %v outside [0,1]", p),
		}
	}
	return NewRiskResult(p), nil
}

// Assess predicts and also reports unseen categorical values as warnings.
func (c *RiskClassifier) Assess(raw schema.RawInput) (schema.RiskResult, []string, error) {
	res, err := c.Predict(raw)
	if err != nil {
		return res, nil, err
	}
	var warnings []string
	for _, u := range UnknownCategories(raw, c.schema) {
		warnings = append(warnings, "unseen category "+u+" was encoded as all zeros")
	}
	return res, warnings, nil
}

// errNoRows is returned by batch helpers when there is nothing to assess.
var errNoRows = errors.New("no rows to assess")
