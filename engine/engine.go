package engine

import (
	"database/sql"

	_ "modernc.org/sqlite" // register pure-Go SQLite driver
)

// Open opens a SQLite database using the modernc.org/sqlite driver with the
// distance functions registered, so kd_sqdist, geo_sqchord and geo_km are
// available on every connection of the returned pool.
//
// For file-based databases, pass a path like "./places.sqlite". For in-memory
// databases, pass ":memory:".
func Open(dsn string) (*sql.DB, error) {
	if err := RegisterFunctions(); err != nil {
		return nil, err
	}
	return sql.Open("sqlite", dsn)
}
