package geo

import (
	"context"
	"fmt"

	"github.com/viant/geokdtree/internal/kd/batch"
)

// ClosestIdxBatch answers queries in parallel on the shared immutable tree.
// Results are aligned with queries; the first failing query or a cancelled
// ctx aborts the batch.
func (t *Tree) ClosestIdxBatch(ctx context.Context, queries []LatLon) ([]IdxResult, error) {
	out := make([]IdxResult, len(queries))
	err := batch.Run(ctx, len(queries), func(i int) error {
		res, err := t.ClosestIdxWithDistance(queries[i])
		if err != nil {
			return fmt.Errorf("geo: query %d: %w", i, err)
		}
		out[i] = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
