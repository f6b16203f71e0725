// Package kdtree provides an exact nearest-neighbour index over a static set of
// points with a fixed number of dimensions.
//
// A Tree is built once with New from a non-empty list of equal-length
// coordinate vectors using median splits on depth-cycled axes, and is read-only
// afterwards: any number of goroutines may query it without synchronization.
// Queries run a branch-and-bound search and always return the true nearest
// point under squared Euclidean distance.
package kdtree
