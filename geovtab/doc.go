// Package geovtab implements the geo_nearest SQLite virtual table. Each table
// is bound to a places table and answers MATCH 'lat,lon' with the single
// nearest place:
//
//	CREATE VIRTUAL TABLE near USING geo_nearest(places);
//	-- geovtab.Sync(ctx, db, "places") from Go
//	SELECT id, name, distance, km FROM near WHERE query MATCH '47.6,-122.3';
//
// Lookups run against the tree loaded by Sync and never issue SQL from inside
// the statement, so they work on a single connection. Trees are cached per
// places table; SELECT geo_invalidate('places') forces the next Sync to
// reload.
package geovtab
