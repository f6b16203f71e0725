package geokdtree

import (
	"github.com/viant/geokdtree/geo"
	"github.com/viant/geokdtree/kdtree"
)

type (
	// KDTree is an immutable KD-tree over k-dimensional points.
	KDTree = kdtree.Tree
	// GeoKDTree is an immutable KD-tree over latitude/longitude pairs.
	GeoKDTree = geo.Tree
	// LatLon is a geographic coordinate in degrees.
	LatLon = geo.LatLon
	// ClosestPointResult is a KDTree query result.
	ClosestPointResult = kdtree.ClosestPointResult
	// IdxResult is a GeoKDTree query result.
	IdxResult = geo.IdxResult
	// Option configures tree construction.
	Option = kdtree.Option
)

var (
	// ErrInvalidInput is returned for empty or malformed input.
	ErrInvalidInput = kdtree.ErrInvalidInput
	// ErrEmptyTree is returned when a tree with no root is queried.
	ErrEmptyTree = kdtree.ErrEmptyTree
)

// WithLogger sets the logger used to report tree construction.
var WithLogger = kdtree.WithLogger

// NewKDTree builds a KD-tree from points of equal length.
func NewKDTree(points [][]float64, opts ...Option) (*KDTree, error) {
	return kdtree.New(points, opts...)
}

// NewGeoKDTree builds a geographic KD-tree from latitude/longitude pairs.
func NewGeoKDTree(points []LatLon, opts ...Option) (*GeoKDTree, error) {
	return geo.New(points, opts...)
}
