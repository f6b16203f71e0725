// Package geokdtree is the entry point to exact nearest-neighbour search over
// fixed point sets: a KD-tree for k-dimensional points and a geographic
// KD-tree that projects latitude/longitude pairs onto the unit sphere.
//
// The trees themselves live in the kdtree and geo packages; this package
// re-exports their constructors and offers slog logger helpers.
package geokdtree
