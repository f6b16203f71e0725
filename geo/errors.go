package geo

import (
	"fmt"

	"github.com/viant/geokdtree/kdtree"
)

var (
	// ErrInvalidInput is returned for an empty point list or a non-finite
	// coordinate.
	ErrInvalidInput = kdtree.ErrInvalidInput

	// ErrEmptyTree is returned when a tree with no root is queried.
	ErrEmptyTree = kdtree.ErrEmptyTree
)

// CoordinateError reports a non-finite latitude or longitude. Index is the
// input position, or -1 for a query.
//
// It unwraps to ErrInvalidInput.
type CoordinateError struct {
	Index int
	Point LatLon
}

func (e *CoordinateError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("geo: query (%v, %v) is not finite", e.Point.Lat, e.Point.Lon)
	}
	return fmt.Sprintf("geo: point %d (%v, %v) is not finite", e.Index, e.Point.Lat, e.Point.Lon)
}

func (e *CoordinateError) Unwrap() error { return ErrInvalidInput }
