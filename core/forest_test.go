package core

import (
	"math"
	"testing"

	"github.com/cardiorisk/cardiorisk/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stump splits on feature 0 at 0.5.
func stump(left, right float64) Tree {
	return Tree{
		Feature:   []int{0, leafFeature, leafFeature},
		Threshold: []float64{0.5, 0, 0},
		Left:      []int{1, leafFeature, leafFeature},
		Right:     []int{2, leafFeature, leafFeature},
		Value:     []float64{0.5, left, right},
	}
}

func TestForest_PositiveProbability(t *testing.T) {
	f := &Forest{NFeatures: 2, Trees: []Tree{stump(0, 1), stump(0.2, 0.6)}}
	require.NoError(t, f.Validate())

	p, err := f.PositiveProbability([]float64{0.5, 0}) // <= goes left
	require.NoError(t, err)
	assert.InDelta(t, 0.1, p, 1e-12)

	p, err = f.PositiveProbability([]float64{0.51, 0})
	require.NoError(t, err)
	assert.InDelta(t, 0.8, p, 1e-12)

	_, err = f.PositiveProbability([]float64{1})
	assert.Error(t, err)
}

func TestForest_NotLoaded(t *testing.T) {
	var f *Forest
	_, err := f.PositiveProbability([]float64{1})
	assert.ErrorIs(t, err, schema.ErrModelNotLoaded)
	assert.ErrorIs(t, f.Validate(), schema.ErrModelNotLoaded)
	assert.ErrorIs(t, (&Forest{NFeatures: 1}).Validate(), schema.ErrModelNotLoaded)
}

func TestTree_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Tree)
	}{
		{"no nodes", func(tr *Tree) { *tr = Tree{} }},
		{"ragged arrays", func(tr *Tree) { tr.Value = tr.Value[:2] }},
		{"value out of range", func(tr *Tree) { tr.Value[1] = 1.5 }},
		{"NaN value", func(tr *Tree) { tr.Value[2] = math.NaN() }},
		{"NaN threshold", func(tr *Tree) { tr.Threshold[0] = math.NaN() }},
		{"feature out of range", func(tr *Tree) { tr.Feature[0] = 7 }},
		{"child before parent", func(tr *Tree) { tr.Left[0] = 0 }},
		{"child past end", func(tr *Tree) { tr.Right[0] = 9 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := stump(0, 1)
			tt.mutate(&tr)
			assert.Error(t, tr.validate(2))
		})
	}
	tr := stump(0, 1)
	assert.NoError(t, tr.validate(2))
	assert.Equal(t, 3, tr.Nodes())
}

func TestGini(t *testing.T) {
	assert.Equal(t, 0.0, gini(0, 0))
	assert.Equal(t, 0.0, gini(4, 4))
	assert.Equal(t, 0.5, gini(4, 2))
	assert.InDelta(t, 0.25, weightedGini(2, 1, 2, 0), 1e-12)
}
