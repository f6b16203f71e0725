// Package index defines a minimal abstraction for exact nearest-neighbour
// indexes keyed by string ids. Implementations in this module include a
// brute-force baseline and adapters over the KD-tree packages.
package index
