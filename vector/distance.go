package vector

import (
	"fmt"

	"github.com/viant/geokdtree/internal/kd/tree"
)

// SquaredDistance computes the squared Euclidean distance between two vectors
// over their first axisCount components. It returns an error if either vector
// is shorter than axisCount.
func SquaredDistance(p1, p2 []float64, axisCount int) (float64, error) {
	if axisCount < 0 {
		return 0, fmt.Errorf("vector: negative axis count %d", axisCount)
	}
	if len(p1) < axisCount || len(p2) < axisCount {
		return 0, fmt.Errorf("vector: squared distance over %d axes with vectors of length %d and %d", axisCount, len(p1), len(p2))
	}
	return tree.SquaredDistance(p1, p2, axisCount), nil
}

// SquaredDistance3D computes the squared Euclidean distance over x, y and z,
// ignoring any further components such as an embedded index.
func SquaredDistance3D(p1, p2 []float64) (float64, error) {
	if len(p1) < 3 || len(p2) < 3 {
		return 0, fmt.Errorf("vector: 3D squared distance with vectors of length %d and %d", len(p1), len(p2))
	}
	return tree.SquaredDistance3D(p1, p2), nil
}
