package bruteforce

import (
	"fmt"
	"math"
	"slices"

	"github.com/viant/geokdtree/index"
	"github.com/viant/geokdtree/vector"
)

// Index is a brute-force index using squared Euclidean distance.
type Index struct {
	ids    []string
	points [][]float64
	dim    int
}

// Build loads ids and points, copying both.
func (i *Index) Build(ids []string, points [][]float64) error {
	if len(ids) != len(points) {
		return fmt.Errorf("bruteforce: ids and points length mismatch: %d != %d", len(ids), len(points))
	}
	if len(ids) == 0 {
		i.ids, i.points, i.dim = nil, nil, 0
		return nil
	}
	dim := len(points[0])
	if dim == 0 {
		return fmt.Errorf("bruteforce: points have no dimensions")
	}
	for j := range points {
		if len(points[j]) != dim {
			return fmt.Errorf("bruteforce: inconsistent point dims %d vs %d", len(points[j]), dim)
		}
	}
	i.ids = slices.Clone(ids)
	i.points = make([][]float64, len(points))
	for j, p := range points {
		i.points[j] = slices.Clone(p)
	}
	i.dim = dim
	return nil
}

// Nearest scans all points and returns the first one at minimum squared
// distance.
func (i *Index) Nearest(query []float64) (string, float64, error) {
	if len(i.points) == 0 {
		return "", 0, index.ErrEmptyTree
	}
	if len(query) != i.dim {
		return "", 0, fmt.Errorf("bruteforce: query dim %d != index dim %d", len(query), i.dim)
	}
	best := -1
	bestDist := math.Inf(1)
	for j, p := range i.points {
		d, err := vector.SquaredDistance(query, p, i.dim)
		if err != nil {
			return "", 0, err
		}
		if best == -1 || d < bestDist {
			best, bestDist = j, d
		}
	}
	return i.ids[best], bestDist, nil
}

// Len returns the number of indexed points.
func (i *Index) Len() int { return len(i.points) }

var _ index.Index = (*Index)(nil)
