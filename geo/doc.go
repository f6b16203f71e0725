// Package geo provides nearest-point lookups over latitude/longitude pairs.
//
// Each pair is projected onto the unit sphere and indexed by a 3-dimensional
// KD-tree, tagged with its position in the caller's input. Squared chord
// distance between unit-sphere points grows monotonically with great-circle
// distance, so the exact Euclidean nearest neighbour is also the angularly
// closest point, and no trigonometry runs at query time beyond projecting the
// query itself.
package geo
