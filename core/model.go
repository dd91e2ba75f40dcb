package core

import (
	"fmt"

	"github.com/cardiorisk/cardiorisk/internal/artifact"
	"github.com/cardiorisk/cardiorisk/schema"
)

// Model is a fitted schema, scaler and forest with their metadata.
type Model struct {
	Info   schema.ModelInfo
	Schema *FeatureSchema
	Scaler *MinMaxScaler
	Forest *Forest
}

// Classifier returns a RiskClassifier backed by the model.
func (m *Model) Classifier() *RiskClassifier {
	return NewRiskClassifier(m.Schema, m.Scaler, m.Forest)
}

// Bundle converts the model to its storage form.
func (m *Model) Bundle() *artifact.Bundle {
	b := &artifact.Bundle{
		ModelID:   m.Info.ModelID,
		TrainedAt: m.Info.TrainedAt,
		Trees:     m.Info.Trees,
		Seed:      m.Info.Seed,
		Rows:      m.Info.Rows,
		Accuracy:  m.Info.Accuracy,
		Columns:   m.Schema.Columns(),
		Min:       append([]float64(nil), m.Scaler.Min...),
		Max:       append([]float64(nil), m.Scaler.Max...),
		Forest:    make([]artifact.TreeNodes, len(m.Forest.Trees)),
	}
	for i, t := range m.Forest.Trees {
		b.Forest[i] = artifact.TreeNodes{
			Feature:   toInt32(t.Feature),
			Threshold: append([]float64(nil), t.Threshold...),
			Left:      toInt32(t.Left),
			Right:     toInt32(t.Right),
			Value:     append([]float64(nil), t.Value...),
		}
	}
	return b
}

// ModelFromBundle rebuilds and validates a model from its storage form.
func ModelFromBundle(b *artifact.Bundle) (*Model, error) {
	if err := b.Check(); err != nil {
		return nil, err
	}
	fs, err := NewFeatureSchema(b.Columns)
	if err != nil {
		return nil, err
	}
	scaler, err := NewMinMaxScaler(b.Min, b.Max)
	if err != nil {
		return nil, err
	}
	forest := &Forest{NFeatures: fs.Len(), Trees: make([]Tree, len(b.Forest))}
	for i, t := range b.Forest {
		forest.Trees[i] = Tree{
			Feature:   toInt(t.Feature),
			Threshold: t.Threshold,
			Left:      toInt(t.Left),
			Right:     toInt(t.Right),
			Value:     t.Value,
		}
	}
	if err := forest.Validate(); err != nil {
		return nil, fmt.Errorf("invalid forest: %w", err)
	}
	return &Model{
		Info: schema.ModelInfo{
			ModelID:     b.ModelID,
			TrainedAt:   b.TrainedAt,
			Trees:       len(b.Forest),
			Seed:        b.Seed,
			Rows:        b.Rows,
			Columns:     fs.Columns(),
			Fingerprint: fs.Fingerprint(),
			Accuracy:    b.Accuracy,
		},
		Schema: fs,
		Scaler: scaler,
		Forest: forest,
	}, nil
}

// LoadModelFile reads a model bundle from disk.
func LoadModelFile(path string) (*Model, error) {
	b, err := artifact.Load(path)
	if err != nil {
		return nil, err
	}
	return ModelFromBundle(b)
}

// SaveModelFile writes a model bundle to disk.
func SaveModelFile(path string, m *Model) error {
	return artifact.Save(path, m.Bundle())
}

func toInt32(in []int) []int32 {
	out := make([]int32, len(in))
	for i, v := range in {
		out[i] = int32(v)
	}
	return out
}

func toInt(in []int32) []int {
	out := make([]int, len(in))
	for i, v := range in {
		out[i] = int(v)
	}
	return out
}
