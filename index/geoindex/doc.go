// Package geoindex adapts geo.Tree to the id-keyed index.Index interface.
// Points and queries are given as [lat, lon] in degrees and distances are
// squared chord lengths on the unit sphere.
package geoindex
