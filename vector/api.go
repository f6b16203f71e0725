package vector

import (
	"context"
)

// Point is an identified coordinate vector held by a Store.
type Point struct {
	// ID is the logical identifier of the point; it must be non-empty.
	ID string

	// Coords holds the point components. All points in a store share the
	// same length.
	Coords []float64
}

// Match is the result of a nearest-point lookup.
type Match struct {
	ID string

	// Distance is the squared Euclidean distance to the query.
	Distance float64
}

// Store defines the application-level point store API. Implementations keep
// points in SQLite and answer exact nearest-point queries through a KD-tree.
type Store interface {
	// AddPoints inserts or replaces points and returns their IDs.
	AddPoints(ctx context.Context, points []Point) ([]string, error)

	// Nearest returns the stored point closest to query.
	Nearest(ctx context.Context, query []float64) (Match, error)

	// Remove deletes the point with the given ID.
	Remove(ctx context.Context, id string) error
}
