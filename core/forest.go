package core

import (
	"errors"
	"fmt"
	"math"

	"github.com/cardiorisk/cardiorisk/schema"
)

// leafFeature marks a node without a split.
const leafFeature = -1

// Tree is a fitted binary decision tree stored as parallel node arrays.
// Node 0 is the root. Samples with x[Feature] <= Threshold go Left.
// Value holds the positive-class fraction of the training samples that reached the node.
type Tree struct {
	Feature   []int
	Threshold []float64
	Left      []int
	Right     []int
	Value     []float64
}

// Nodes returns the number of nodes.
func (t *Tree) Nodes() int { return len(t.Feature) }

func (t *Tree) addNode() int {
	t.Feature = append(t.Feature, leafFeature)
	t.Threshold = append(t.Threshold, 0)
	t.Left = append(t.Left, leafFeature)
	t.Right = append(t.Right, leafFeature)
	t.Value = append(t.Value, 0)
	return len(t.Feature) - 1
}

func (t *Tree) predict(x []float64) float64 {
	n := 0
	for t.Feature[n] != leafFeature {
		if x[t.Feature[n]] <= t.Threshold[n] {
			n = t.Left[n]
		} else {
			n = t.Right[n]
		}
	}
	return t.Value[n]
}

// validate checks that every path from the root terminates inside the arrays.
func (t *Tree) validate(nFeatures int) error {
	n := len(t.Feature)
	if n == 0 {
		return errors.New("tree has no nodes")
	}
	if len(t.Threshold) != n || len(t.Left) != n || len(t.Right) != n || len(t.Value) != n {
		return errors.New("tree node arrays differ in length")
	}
	for i := range n {
		if v := t.Value[i]; math.IsNaN(v) || v < 0 || v > 1 {
			return fmt.Errorf("node %d has value %v outside [0,1]", i, v)
		}
		if t.Feature[i] == leafFeature {
			continue
		}
		if t.Feature[i] < 0 || t.Feature[i] >= nFeatures {
			return fmt.Errorf("node %d splits on feature %d of %d", i, t.Feature[i], nFeatures)
		}
		if math.IsNaN(t.Threshold[i]) {
			return fmt.Errorf("node %d has a NaN threshold", i)
		}
		// children are always stored after their parent
		if t.Left[i] <= i || t.Left[i] >= n || t.Right[i] <= i || t.Right[i] >= n {
			return fmt.Errorf("node %d has invalid children %d/%d", i, t.Left[i], t.Right[i])
		}
	}
	return nil
}

// Forest averages the positive-class fraction over its trees.
type Forest struct {
	NFeatures int
	Trees     []Tree
}

// Validate checks the structure of every tree.
func (f *Forest) Validate() error {
	if f == nil || len(f.Trees) == 0 {
		return schema.ErrModelNotLoaded
	}
	for i := range f.Trees {
		if err := f.Trees[i].validate(f.NFeatures); err != nil {
			return fmt.Errorf("tree %d: %w", i, err)
		}
	}
	return nil
}

// PositiveProbability returns the mean leaf value reached by x across all trees.
func (f *Forest) PositiveProbability(x []float64) (float64, error) {
	if f == nil || len(f.Trees) == 0 {
		return 0, schema.ErrModelNotLoaded
	}
	if len(x) != f.NFeatures {
		return 0, fmt.Errorf("vector has %d columns, forest expects %d", len(x), f.NFeatures)
	}
	var sum float64
	for i := range f.Trees {
		sum += f.Trees[i].predict(x)
	}
	return sum / float64(len(f.Trees)), nil
}
