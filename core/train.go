package core

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"
	"slices"
	"time"

	"github.com/cardiorisk/cardiorisk/schema"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// TrainOptions holds the forest settings. Zero values fall back to defaults.
type TrainOptions struct {
	Trees           int   // number of trees (default 100)
	Seed            int64 // base seed; tree i draws from its own stream
	MaxFeatures     int   // candidate features per split (default sqrt of column count)
	MinSamplesSplit int   // smallest node that may be split (default 2)
	Workers         int   // trees grown in parallel (default GOMAXPROCS)
}

// DefaultTrainOptions returns the settings the bundled model is trained with.
func DefaultTrainOptions() TrainOptions {
	return TrainOptions{Trees: schema.DefaultTrees, Seed: schema.DefaultSeed, MinSamplesSplit: 2}
}

func (o TrainOptions) withDefaults(nFeatures int) TrainOptions {
	if o.Trees <= 0 {
		o.Trees = schema.DefaultTrees
	}
	if o.MaxFeatures <= 0 {
		o.MaxFeatures = max(1, int(math.Sqrt(float64(nFeatures))))
	}
	o.MaxFeatures = min(o.MaxFeatures, nFeatures)
	if o.MinSamplesSplit < 2 {
		o.MinSamplesSplit = 2
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	return o
}

// Train derives the feature schema, fits the scaler and grows the forest.
// The result only depends on the dataset and the options, never on scheduling.
func Train(ctx context.Context, ds *Dataset, opts TrainOptions) (*Model, error) {
	if ds == nil || len(ds.Rows) == 0 {
		return nil, errors.New("dataset has no rows")
	}
	if len(ds.Labels) != len(ds.Rows) {
		return nil, fmt.Errorf("dataset has %d rows but %d labels", len(ds.Rows), len(ds.Labels))
	}
	fs, err := DeriveSchema(ds)
	if err != nil {
		return nil, err
	}
	matrix := make([][]float64, len(ds.Rows))
	for i, raw := range ds.Rows {
		vec, err := Encode(raw, fs)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		matrix[i] = vec
	}
	scaler, err := FitMinMax(matrix)
	if err != nil {
		return nil, err
	}
	for i, vec := range matrix {
		if matrix[i], err = scaler.Transform(vec); err != nil {
			return nil, err
		}
	}

	opts = opts.withDefaults(fs.Len())
	forest, err := growForest(ctx, matrix, ds.Labels, opts)
	if err != nil {
		return nil, err
	}

	correct := 0
	for i, vec := range matrix {
		p, err := forest.PositiveProbability(vec)
		if err != nil {
			return nil, err
		}
		if (p >= 0.5) == (ds.Labels[i] == 1) {
			correct++
		}
	}

	return &Model{
		Info: schema.ModelInfo{
			ModelID:     uuid.NewString(),
			TrainedAt:   time.Now().UTC(),
			Trees:       opts.Trees,
			Seed:        opts.Seed,
			Rows:        len(ds.Rows),
			Columns:     fs.Columns(),
			Fingerprint: fs.Fingerprint(),
			Accuracy:    float64(correct) / float64(len(ds.Rows)),
		},
		Schema: fs,
		Scaler: scaler,
		Forest: forest,
	}, nil
}

// growForest fits opts.Trees trees on bootstrap samples using a bounded worker pool.
func growForest(ctx context.Context, x [][]float64, y []int, opts TrainOptions) (*Forest, error) {
	forest := &Forest{NFeatures: len(x[0]), Trees: make([]Tree, opts.Trees)}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i := range opts.Trees {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rng := rand.New(rand.NewPCG(uint64(opts.Seed), uint64(i)+1))
			b := &treeBuilder{
				x:           x,
				y:           y,
				maxFeatures: opts.MaxFeatures,
				minSplit:    opts.MinSamplesSplit,
				rng:         rng,
			}
			samples := make([]int, len(x))
			for s := range samples {
				samples[s] = rng.IntN(len(x))
			}
			b.build(samples)
			forest.Trees[i] = b.tree
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return forest, nil
}

// treeBuilder grows one fully developed CART tree with Gini impurity.
type treeBuilder struct {
	x           [][]float64
	y           []int
	maxFeatures int
	minSplit    int
	rng         *rand.Rand
	tree        Tree
}

func (b *treeBuilder) build(samples []int) int {
	node := b.tree.addNode()
	pos := 0
	for _, s := range samples {
		pos += b.y[s]
	}
	b.tree.Value[node] = float64(pos) / float64(len(samples))
	if pos == 0 || pos == len(samples) || len(samples) < b.minSplit {
		return node
	}
	feature, threshold, ok := b.bestSplit(samples, pos)
	if !ok {
		return node
	}
	var left, right []int
	for _, s := range samples {
		if b.x[s][feature] <= threshold {
			left = append(left, s)
		} else {
			right = append(right, s)
		}
	}
	b.tree.Feature[node] = feature
	b.tree.Threshold[node] = threshold
	l := b.build(left)
	r := b.build(right)
	b.tree.Left[node] = l
	b.tree.Right[node] = r
	return node
}

// bestSplit scans features in random order until maxFeatures non-constant
// ones were evaluated, and returns the split with the lowest weighted Gini.
func (b *treeBuilder) bestSplit(samples []int, pos int) (int, float64, bool) {
	n := len(samples)
	sorted := make([]int, n)
	bestFeature, bestThreshold, bestImpurity := -1, 0.0, math.Inf(1)
	visited := 0
	for _, f := range b.rng.Perm(len(b.x[0])) {
		if visited >= b.maxFeatures {
			break
		}
		copy(sorted, samples)
		slices.SortFunc(sorted, func(i, j int) int { return cmp.Compare(b.x[i][f], b.x[j][f]) })
		if b.x[sorted[0]][f] == b.x[sorted[n-1]][f] {
			continue
		}
		visited++
		leftN, leftPos := 0, 0
		for i := 0; i < n-1; i++ {
			leftN++
			leftPos += b.y[sorted[i]]
			v, next := b.x[sorted[i]][f], b.x[sorted[i+1]][f]
			if v == next {
				continue
			}
			imp := weightedGini(leftN, leftPos, n-leftN, pos-leftPos)
			if imp < bestImpurity {
				bestImpurity = imp
				bestFeature = f
				bestThreshold = v + (next-v)/2
				if bestThreshold >= next {
					bestThreshold = v
				}
			}
		}
	}
	return bestFeature, bestThreshold, bestFeature >= 0
}

func gini(n, pos int) float64 {
	if n == 0 {
		return 0
	}
	p := float64(pos) / float64(n)
	return 1 - p*p - (1-p)*(1-p)
}

func weightedGini(nl, pl, nr, pr int) float64 {
	total := float64(nl + nr)
	return (float64(nl)*gini(nl, pl) + float64(nr)*gini(nr, pr)) / total
}
