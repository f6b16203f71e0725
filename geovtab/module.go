package geovtab

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"sync"

	sqlite "modernc.org/sqlite"
	"modernc.org/sqlite/vtab"

	"github.com/viant/geokdtree/geo"
	"github.com/viant/geokdtree/geoutil"
	"github.com/viant/geokdtree/kdtree"
)

// Module implements vtab.Module for geo_nearest.
type Module struct{}

// Table represents a single geo_nearest virtual table instance.
type Table struct {
	places string
}

// Cursor holds at most one nearest-place row.
type Cursor struct {
	table *Table
	query string
	rows  []row
	pos   int
}

type row struct {
	id       string
	name     string
	distance float64
	km       float64
}

const (
	idxScan = iota
	idxMatch
)

const (
	colQuery = iota
	colID
	colName
	colDistance
	colKm
)

var registerInvalidateOnce sync.Once

// Register registers the geo_nearest module and the geo_invalidate(table)
// scalar function for new connections. Call it before db opens its first
// connection. opts configure the trees built by Sync.
func Register(db *sql.DB, opts ...kdtree.Option) error {
	if err := vtab.RegisterModule(db, "geo_nearest", &Module{}); err != nil {
		if !strings.Contains(err.Error(), "already registered") {
			return err
		}
	}
	sharedCache.mu.Lock()
	sharedCache.opts = opts
	sharedCache.mu.Unlock()
	var err error
	registerInvalidateOnce.Do(func() {
		err = sqlite.RegisterScalarFunction("geo_invalidate", 1, invalidateFunc)
	})
	return err
}

// invalidateFunc implements SQL scalar geo_invalidate(table TEXT) → INT.
func invalidateFunc(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	if len(args) != 1 {
		return int64(0), nil
	}
	switch v := args[0].(type) {
	case string:
		return int64(InvalidateCache(v)), nil
	case []byte:
		return int64(InvalidateCache(string(v))), nil
	default:
		return int64(0), nil
	}
}

// Create initializes a geo_nearest table bound to the places table named in
// its arguments.
func (m *Module) Create(ctx vtab.Context, args []string) (vtab.Table, error) {
	return m.connect(ctx, args)
}

// Connect attaches to an existing geo_nearest table.
func (m *Module) Connect(ctx vtab.Context, args []string) (vtab.Table, error) {
	return m.connect(ctx, args)
}

func (m *Module) connect(ctx vtab.Context, args []string) (vtab.Table, error) {
	if len(args) < 4 {
		return nil, fmt.Errorf("geo_nearest: expected places table argument, got %d args", len(args))
	}
	if err := ctx.EnableConstraintSupport(); err != nil {
		return nil, fmt.Errorf("geo_nearest: EnableConstraintSupport failed: %w", err)
	}
	places := strings.Trim(strings.TrimSpace(args[3]), `'"`)
	if places == "" {
		return nil, fmt.Errorf("geo_nearest: places table name is empty")
	}
	if err := ctx.Declare(fmt.Sprintf("CREATE TABLE %s(query HIDDEN, id TEXT, name TEXT, distance REAL, km REAL)", args[2])); err != nil {
		return nil, err
	}
	return &Table{places: places}, nil
}

// BestIndex pushes down MATCH on the hidden query column.
func (t *Table) BestIndex(info *vtab.IndexInfo) error {
	info.IdxNum = idxScan
	for i := range info.Constraints {
		c := &info.Constraints[i]
		if !c.Usable {
			continue
		}
		if c.Column == colQuery && c.Op == vtab.OpMATCH {
			c.ArgIndex = 0
			c.Omit = true
			info.IdxNum = idxMatch
			break
		}
	}
	return nil
}

// Open allocates a new cursor.
func (t *Table) Open() (vtab.Cursor, error) { return &Cursor{table: t}, nil }

// Disconnect cleans up per-connection resources.
func (t *Table) Disconnect() error { return nil }

// Destroy drops nothing; the places table is owned by the caller.
func (t *Table) Destroy() error { return nil }

// Filter answers MATCH from the tree loaded by Sync. Without MATCH the table
// is empty.
func (c *Cursor) Filter(idxNum int, _ string, vals []vtab.Value) error {
	c.rows, c.pos, c.query = nil, 0, ""
	if idxNum != idxMatch || len(vals) == 0 || vals[0] == nil {
		return nil
	}
	q, err := decodeMatchArg(vals[0])
	if err != nil {
		return err
	}
	c.query = fmt.Sprintf("%v,%v", q.Lat, q.Lon)

	ix := lookupIndex(c.table.places)
	if ix == nil {
		return fmt.Errorf("geo_nearest: %s: %w", c.table.places, geoutil.ErrNotLoaded)
	}
	m, err := ix.Cached(q.Lat, q.Lon)
	if errors.Is(err, geo.ErrEmptyTree) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("geo_nearest: %s: %w", c.table.places, err)
	}
	c.rows = []row{{id: m.ID, name: m.Name, distance: m.Distance, km: m.Km}}
	return nil
}

// Next advances the cursor.
func (c *Cursor) Next() error {
	if c.pos < len(c.rows) {
		c.pos++
	}
	return nil
}

// Eof reports end-of-rows.
func (c *Cursor) Eof() bool { return c.pos >= len(c.rows) }

// Column returns the value of a column in the current row.
func (c *Cursor) Column(col int) (vtab.Value, error) {
	if c.pos < 0 || c.pos >= len(c.rows) {
		return nil, fmt.Errorf("geo_nearest: Column out of range (pos=%d,len=%d)", c.pos, len(c.rows))
	}
	r := c.rows[c.pos]
	switch col {
	case colQuery:
		return c.query, nil
	case colID:
		return r.id, nil
	case colName:
		return r.name, nil
	case colDistance:
		return r.distance, nil
	case colKm:
		return r.km, nil
	}
	return nil, fmt.Errorf("geo_nearest: unsupported column %d", col)
}

// Rowid returns the current row position.
func (c *Cursor) Rowid() (int64, error) { return int64(c.pos + 1), nil }

// Close releases resources.
func (c *Cursor) Close() error { c.rows = nil; c.pos = 0; return nil }
