// Package vector holds the numeric helpers shared by the tree packages and a
// SQLite-backed point store. It includes:
//   - squared Euclidean distance over a leading axis range, and its 3D form
//   - latitude/longitude projection onto the unit sphere
//   - great-circle conversions between chord length, angle and kilometres
//   - coordinate BLOB encoding and the PointStore over a points table
package vector
