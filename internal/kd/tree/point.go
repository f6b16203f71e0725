package tree

import "math"

// MaxPoints is the largest number of points a tree can address. Input
// positions and arena node ids are stored as int32.
const MaxPoints = math.MaxInt32

// Point represents a stored coordinate vector and the position it had in the
// caller's input.
type Point struct {
	index  int32
	Coords []float64
}

// Index returns the original 0-based input position of the point.
func (p *Point) Index() int {
	if p == nil {
		return -1
	}
	return int(p.index)
}

// NewPoint constructs a point for the given input position and coordinates.
// index must be in [0, MaxPoints].
func NewPoint(index int, coords ...float64) Point {
	return Point{index: int32(index), Coords: coords}
}
