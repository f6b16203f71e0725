// Package bruteforce provides an exact index that answers nearest-neighbour
// queries by scanning every point. It serves as the reference the tree
// indexes are checked against.
package bruteforce
