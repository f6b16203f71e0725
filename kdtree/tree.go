package kdtree

import (
	"fmt"
	"math"
	"slices"

	"github.com/viant/geokdtree/internal/kd/tree"
)

// MaxPoints is the largest number of points New accepts.
const MaxPoints = tree.MaxPoints

// Tree is an immutable KD-tree over points of a fixed dimension count.
// The zero value is an empty tree; querying it returns ErrEmptyTree.
type Tree struct {
	tree       *tree.Tree[struct{}]
	dimensions int
}

// ClosestPointResult is the nearest stored point, its original input
// position and its squared Euclidean distance to the query.
type ClosestPointResult struct {
	Point    []float64
	Index    int
	Distance float64
}

// New builds a tree from points. The dimension count is taken from the first
// point; every other point must have the same length and finite coordinates.
// The input is copied, so callers may reuse it afterwards.
func New(points [][]float64, opts ...Option) (*Tree, error) {
	o := NewOptions(opts...)
	if len(points) == 0 {
		return nil, fmt.Errorf("kdtree: cannot build from empty point list: %w", ErrInvalidInput)
	}
	if err := checkCount(len(points)); err != nil {
		return nil, err
	}
	dim := len(points[0])
	if dim == 0 {
		return nil, fmt.Errorf("kdtree: points have no dimensions: %w", ErrInvalidInput)
	}
	kps := make([]tree.Point, len(points))
	for i, p := range points {
		if len(p) != dim {
			return nil, &DimensionMismatchError{Expected: dim, Actual: len(p), Index: i}
		}
		if err := checkFinite(p); err != nil {
			return nil, fmt.Errorf("kdtree: point %d: %w", i, err)
		}
		kps[i] = tree.NewPoint(i, slices.Clone(p)...)
	}
	t := &Tree{tree: tree.Build[struct{}](kps, dim, nil), dimensions: dim}
	o.Logger.Debug("kdtree built",
		"count", t.tree.Len(),
		"dimensions", dim,
		"depth", t.tree.Depth(),
	)
	return t, nil
}

func checkCount(n int) error {
	if n > MaxPoints {
		return fmt.Errorf("kdtree: %d points exceed the limit of %d: %w", n, MaxPoints, ErrInvalidInput)
	}
	return nil
}

func checkFinite(p []float64) error {
	for axis, v := range p {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("non-finite coordinate %v on axis %d: %w", v, axis, ErrInvalidInput)
		}
	}
	return nil
}

// ClosestPoint returns a copy of the stored point nearest to query.
func (t *Tree) ClosestPoint(query []float64) ([]float64, error) {
	res, err := t.ClosestPointWithDistance(query)
	if err != nil {
		return nil, err
	}
	return res.Point, nil
}

// ClosestPointWithDistance returns the stored point nearest to query along
// with its squared distance.
func (t *Tree) ClosestPointWithDistance(query []float64) (ClosestPointResult, error) {
	if t.Len() == 0 {
		return ClosestPointResult{}, ErrEmptyTree
	}
	if len(query) != t.dimensions {
		return ClosestPointResult{}, &DimensionMismatchError{Expected: t.dimensions, Actual: len(query), Index: -1}
	}
	if err := checkFinite(query); err != nil {
		return ClosestPointResult{}, fmt.Errorf("kdtree: query: %w", err)
	}
	n, ok := t.tree.Nearest(query)
	if !ok {
		return ClosestPointResult{}, ErrEmptyTree
	}
	return ClosestPointResult{
		Point:    slices.Clone(n.Point.Coords),
		Index:    n.Point.Index(),
		Distance: n.Distance,
	}, nil
}

// Points returns copies of all stored points in tree pre-order.
func (t *Tree) Points() [][]float64 {
	if t.Len() == 0 {
		return nil
	}
	out := make([][]float64, 0, t.tree.Len())
	t.tree.Walk(func(n *tree.Node, _ int) bool {
		out = append(out, slices.Clone(n.Point().Coords))
		return true
	})
	return out
}

// Dimensions returns the dimension count fixed at construction.
func (t *Tree) Dimensions() int {
	if t == nil {
		return 0
	}
	return t.dimensions
}

// Len returns the number of stored points.
func (t *Tree) Len() int {
	if t == nil || t.tree == nil {
		return 0
	}
	return t.tree.Len()
}

// Depth returns the number of tree levels.
func (t *Tree) Depth() int {
	if t == nil || t.tree == nil {
		return 0
	}
	return t.tree.Depth()
}
