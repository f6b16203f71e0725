// Package geoutil provides a nearest-place API on top of a SQLite places
// table. A geographic KD-tree is built from the table on first use and kept
// until the table version, maintained by triggers, moves on.
//
// Typical use:
//
//	ix, _ := geoutil.NewIndex(db, "places")
//	_ = ix.EnsureSchema(ctx)
//	_ = ix.UpsertPlaces(ctx, []geoutil.Place{{ID: "sf", Name: "San Francisco", Lat: 37.77, Lon: -122.42}})
//	m, _ := ix.Nearest(ctx, 47.6, -122.3)
package geoutil
