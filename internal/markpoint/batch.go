package markpoint

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// DetectBatch runs Detect on every grid using at most workers goroutines.
//
// Results are indexed like grids and are identical to sequential calls. The first
// failure cancels the remaining work and is returned with the grid index; no
// partial results are returned. workers <= 0 means one worker per grid.
func DetectBatch(ctx context.Context, grids []*Grid, opts DetectOptions, workers int) ([][]MarkingPoint, error) {
	results := make([][]MarkingPoint, len(grids))

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	for idx, grid := range grids {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			points, err := Detect(grid, opts)
			if err != nil {
				return fmt.Errorf("grid %d: %w", idx, err)
			}
			results[idx] = points
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
