package tree

// Neighbor describes the nearest stored point found for a query.
type Neighbor struct {
	Point    *Point
	Distance float64
}
