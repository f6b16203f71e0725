// Package kd adapts kdtree.Tree to the id-keyed index.Index interface.
package kd
