package geovtab

import (
	"context"
	"database/sql"
	"sync"

	"github.com/viant/geokdtree/geoutil"
	"github.com/viant/geokdtree/kdtree"
)

// sharedCache holds one place index per places table. The geo_nearest module
// is process-wide, so tables resolve their places by name.
var sharedCache = struct {
	mu      sync.Mutex
	opts    []kdtree.Option
	byTable map[string]*geoutil.Index
}{byTable: make(map[string]*geoutil.Index)}

// getIndex returns the cached index for table, replacing it when it was
// bound to a different database.
func getIndex(db *sql.DB, table string) (*geoutil.Index, error) {
	sharedCache.mu.Lock()
	defer sharedCache.mu.Unlock()
	if ix := sharedCache.byTable[table]; ix != nil && ix.DB == db {
		return ix, nil
	}
	ix, err := geoutil.NewIndex(db, table, sharedCache.opts...)
	if err != nil {
		return nil, err
	}
	sharedCache.byTable[table] = ix
	return ix, nil
}

func lookupIndex(table string) *geoutil.Index {
	sharedCache.mu.Lock()
	defer sharedCache.mu.Unlock()
	return sharedCache.byTable[table]
}

// Sync loads the places table into the tree served by geo_nearest, rereading
// it only when the table changed since the previous Sync. geo_nearest never
// queries the database itself, so call Sync after writes to publish them.
func Sync(ctx context.Context, db *sql.DB, table string) error {
	ix, err := getIndex(db, table)
	if err != nil {
		return err
	}
	return ix.Refresh(ctx)
}

// InvalidateCache marks the cached tree for the places table stale so the
// next Sync reloads it, and returns how many trees were marked.
func InvalidateCache(table string) int {
	ix := lookupIndex(table)
	if ix == nil {
		return 0
	}
	ix.Invalidate()
	return 1
}
