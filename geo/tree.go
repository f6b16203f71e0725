package geo

import (
	"fmt"
	"math"
	"slices"

	"github.com/viant/geokdtree/internal/kd/tree"
	"github.com/viant/geokdtree/kdtree"
	"github.com/viant/geokdtree/vector"
)

// axisCount is fixed: x, y and z. The input position is never a split axis.
const axisCount = 3

// LatLon is a geographic coordinate in degrees.
type LatLon = vector.LatLon

// Tree is an immutable geographic KD-tree. The zero value is an empty tree.
type Tree struct {
	tree *tree.Tree[LatLon]
}

// IdxResult is the original input position of the nearest point and its
// squared chord distance to the query on the unit sphere.
type IdxResult struct {
	Idx      int
	Distance float64
}

// Km converts the squared chord distance into great-circle kilometres.
func (r IdxResult) Km() float64 { return vector.ChordToKm(r.Distance) }

// New builds a tree over latitude/longitude pairs in degrees. Results refer
// to points by their position in this slice.
func New(points []LatLon, opts ...kdtree.Option) (*Tree, error) {
	o := kdtree.NewOptions(opts...)
	if len(points) == 0 {
		return nil, fmt.Errorf("geo: cannot build from empty point list: %w", ErrInvalidInput)
	}
	if err := checkCount(len(points)); err != nil {
		return nil, err
	}
	kps := make([]tree.Point, len(points))
	for i, p := range points {
		if !finite(p) {
			return nil, &CoordinateError{Index: i, Point: p}
		}
		xyz := vector.LatLonToXYZ(p.Lat, p.Lon)
		kps[i] = tree.NewPoint(i, xyz[:]...)
	}
	t := &Tree{tree: tree.Build(kps, axisCount, slices.Clone(points))}
	o.Logger.Debug("geo kdtree built",
		"count", t.tree.Len(),
		"depth", t.tree.Depth(),
	)
	return t, nil
}

func checkCount(n int) error {
	if n > kdtree.MaxPoints {
		return fmt.Errorf("geo: %d points exceed the limit of %d: %w", n, kdtree.MaxPoints, ErrInvalidInput)
	}
	return nil
}

func finite(p LatLon) bool {
	return !math.IsNaN(p.Lat) && !math.IsInf(p.Lat, 0) &&
		!math.IsNaN(p.Lon) && !math.IsInf(p.Lon, 0)
}

// ClosestIdx returns the input position of the point nearest to query.
func (t *Tree) ClosestIdx(query LatLon) (int, error) {
	res, err := t.ClosestIdxWithDistance(query)
	if err != nil {
		return 0, err
	}
	return res.Idx, nil
}

// ClosestIdxWithDistance returns the input position of the point nearest to
// query and the squared chord distance between them.
func (t *Tree) ClosestIdxWithDistance(query LatLon) (IdxResult, error) {
	n, err := t.nearest(query)
	if err != nil {
		return IdxResult{}, err
	}
	return IdxResult{Idx: n.Point.Index(), Distance: n.Distance}, nil
}

// ClosestPoint returns the original latitude/longitude pair nearest to query.
func (t *Tree) ClosestPoint(query LatLon) (LatLon, error) {
	n, err := t.nearest(query)
	if err != nil {
		return LatLon{}, err
	}
	return t.tree.Value(n.Point), nil
}

func (t *Tree) nearest(query LatLon) (tree.Neighbor, error) {
	if t.Len() == 0 {
		return tree.Neighbor{}, ErrEmptyTree
	}
	if !finite(query) {
		return tree.Neighbor{}, &CoordinateError{Index: -1, Point: query}
	}
	xyz := vector.LatLonToXYZ(query.Lat, query.Lon)
	n, ok := t.tree.Nearest(xyz[:])
	if !ok {
		return tree.Neighbor{}, ErrEmptyTree
	}
	return n, nil
}

// Point returns the original pair stored at input position idx.
func (t *Tree) Point(idx int) (LatLon, bool) {
	if idx < 0 || idx >= t.Len() {
		return LatLon{}, false
	}
	return t.tree.ValueAt(idx), true
}

// Len returns the number of stored points.
func (t *Tree) Len() int {
	if t == nil || t.tree == nil {
		return 0
	}
	return t.tree.Len()
}
