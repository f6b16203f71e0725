package kdtree

import (
	"context"
	"fmt"

	"github.com/viant/geokdtree/internal/kd/batch"
)

// ClosestPointBatch answers queries in parallel. Results are aligned with
// queries; the first failing query or a cancelled ctx aborts the batch.
func (t *Tree) ClosestPointBatch(ctx context.Context, queries [][]float64) ([]ClosestPointResult, error) {
	out := make([]ClosestPointResult, len(queries))
	err := batch.Run(ctx, len(queries), func(i int) error {
		res, err := t.ClosestPointWithDistance(queries[i])
		if err != nil {
			return fmt.Errorf("kdtree: query %d: %w", i, err)
		}
		out[i] = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
