package index

import "github.com/viant/geokdtree/kdtree"

// ErrEmptyTree is returned by Nearest on an index built from no points.
var ErrEmptyTree = kdtree.ErrEmptyTree

// Index defines an id-keyed exact nearest-neighbour index with a simple
// build-once lifecycle.
type Index interface {
	// Build constructs the index from the given ids and points.
	// ids and points must have the same length. Building from no points
	// yields an empty index.
	Build(ids []string, points [][]float64) error

	// Nearest returns the id of the stored point closest to query and its
	// distance. The distance metric is defined by the implementation.
	Nearest(query []float64) (id string, distance float64, err error)

	// Len returns the number of indexed points.
	Len() int
}
