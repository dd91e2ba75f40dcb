package core

import (
	"context"

	"github.com/cardiorisk/cardiorisk/schema"
	"golang.org/x/sync/errgroup"
)

// AssessBatch runs the classifier over rows with at most workers goroutines.
// Items keep the input order. A row that fails carries its error and does
// not stop the others; only context cancellation aborts the batch.
func AssessBatch(ctx context.Context, c *RiskClassifier, rows []schema.RawInput, workers int) ([]schema.BatchItem, error) {
	if len(rows) == 0 {
		return nil, errNoRows
	}
	items := make([]schema.BatchItem, len(rows))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i, raw := range rows {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := schema.BatchItem{Row: i + 1, Input: raw}
			res, warnings, err := c.Assess(raw)
			if err != nil {
				item.Err = err
			} else {
				item.Result = &res
				item.Warnings = warnings
			}
			items[i] = item
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}
