package kd

import (
	"fmt"
	"slices"

	"github.com/viant/geokdtree/index"
	"github.com/viant/geokdtree/kdtree"
)

// Index answers exact nearest-neighbour queries by squared Euclidean distance
// through a KD-tree.
type Index struct {
	ids  []string
	tree *kdtree.Tree
	opts []kdtree.Option
}

// New returns an empty index; opts are applied on every Build.
func New(opts ...kdtree.Option) *Index {
	return &Index{opts: opts}
}

// Build constructs the tree over points. An empty build resets the index.
func (i *Index) Build(ids []string, points [][]float64) error {
	if len(ids) != len(points) {
		return fmt.Errorf("kd: ids and points length mismatch: %d != %d", len(ids), len(points))
	}
	if len(ids) == 0 {
		i.ids, i.tree = nil, nil
		return nil
	}
	t, err := kdtree.New(points, i.opts...)
	if err != nil {
		return fmt.Errorf("kd: %w", err)
	}
	i.ids = slices.Clone(ids)
	i.tree = t
	return nil
}

// Nearest returns the id of the closest point and its squared distance.
func (i *Index) Nearest(query []float64) (string, float64, error) {
	if i.tree == nil {
		return "", 0, index.ErrEmptyTree
	}
	res, err := i.tree.ClosestPointWithDistance(query)
	if err != nil {
		return "", 0, err
	}
	return i.ids[res.Index], res.Distance, nil
}

// Len returns the number of indexed points.
func (i *Index) Len() int { return i.tree.Len() }

var _ index.Index = (*Index)(nil)
