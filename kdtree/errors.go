package kdtree

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned when a tree is built from an empty or
	// malformed point list, or queried with a malformed point.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyTree is returned when a tree with no root is queried.
	ErrEmptyTree = errors.New("tree is empty")
)

// DimensionMismatchError indicates a point whose length differs from the
// tree dimension count. Index is the offending input position, or -1 for a
// query point.
//
// It unwraps to ErrInvalidInput.
type DimensionMismatchError struct {
	Expected int
	Actual   int
	Index    int
}

func (e *DimensionMismatchError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("kdtree: query has %d dimensions, expected %d", e.Actual, e.Expected)
	}
	return fmt.Sprintf("kdtree: point %d has %d dimensions, expected %d", e.Index, e.Actual, e.Expected)
}

func (e *DimensionMismatchError) Unwrap() error { return ErrInvalidInput }
