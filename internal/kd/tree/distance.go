package tree

// DistanceFunc computes the squared distance between two coordinate vectors.
// Implementations may read only a leading subset of the components.
type DistanceFunc func(p1, p2 []float64) float64

// SquaredDistance returns the squared Euclidean distance over the first
// axisCount components. Both vectors must have at least axisCount components.
func SquaredDistance(p1, p2 []float64, axisCount int) float64 {
	var sum float64
	for i := 0; i < axisCount; i++ {
		d := p1[i] - p2[i]
		sum += d * d
	}
	return sum
}

// SquaredDistance3D returns the squared Euclidean distance over x, y and z.
func SquaredDistance3D(p1, p2 []float64) float64 {
	dx := p1[0] - p2[0]
	dy := p1[1] - p2[1]
	dz := p1[2] - p2[2]
	return dx*dx + dy*dy + dz*dz
}

// Distance resolves the kernel used for the given axis count.
func Distance(axisCount int) DistanceFunc {
	if axisCount == 3 {
		return SquaredDistance3D
	}
	return func(p1, p2 []float64) float64 {
		return SquaredDistance(p1, p2, axisCount)
	}
}
