package geoutil

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/viant/geokdtree/geo"
	"github.com/viant/geokdtree/kdtree"
)

// ErrNotLoaded is returned by Cached before the first successful load.
var ErrNotLoaded = errors.New("geoutil: places not loaded")

// Place is a named geographic point stored in a places table.
type Place struct {
	ID   string
	Name string
	Lat  float64
	Lon  float64
}

// Match represents a nearest-place hit.
type Match struct {
	Place
	// Distance is the squared chord length on the unit sphere.
	Distance float64
	// Km is the great-circle distance in kilometres.
	Km float64
}

// Index answers nearest-place queries over a single places table.
type Index struct {
	DB    *sql.DB
	Table string

	opts   []kdtree.Option
	logger *slog.Logger

	mu      sync.Mutex
	ready   bool
	loaded  bool
	stale   bool
	version int64
	tree    *geo.Tree
	places  []Place
}

// NewIndex constructs an Index for the given table. Table names are
// interpolated into SQL, so only plain or schema-qualified identifiers are
// accepted.
func NewIndex(db *sql.DB, table string, opts ...kdtree.Option) (*Index, error) {
	if db == nil {
		return nil, fmt.Errorf("geoutil: db is nil")
	}
	if err := validateTable(table); err != nil {
		return nil, err
	}
	return &Index{
		DB:     db,
		Table:  table,
		opts:   opts,
		logger: kdtree.NewOptions(opts...).Logger,
	}, nil
}

// EnsureSchema creates the places table, the version table and the version
// triggers if they do not exist.
func (ix *Index) EnsureSchema(ctx context.Context) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.ensureSchema(ctx)
}

func (ix *Index) ensureSchema(ctx context.Context) error {
	if ix.ready {
		return nil
	}
	stmts := append([]string{PlacesTableDDL(ix.Table), VersionTableDDL(ix.Table)}, VersionTriggers(ix.Table)...)
	for _, stmt := range stmts {
		if _, err := ix.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("geoutil: ensure schema for %s: %w", ix.Table, err)
		}
	}
	ix.ready = true
	return nil
}

// UpsertPlaces inserts or updates places in a single transaction.
func (ix *Index) UpsertPlaces(ctx context.Context, places []Place) error {
	if len(places) == 0 {
		return nil
	}
	if err := ix.EnsureSchema(ctx); err != nil {
		return err
	}
	tx, err := ix.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`
INSERT INTO %s(id, name, lat, lon)
VALUES (?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  name = excluded.name,
  lat = excluded.lat,
  lon = excluded.lon`, ix.Table))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, p := range places {
		if p.ID == "" {
			return fmt.Errorf("geoutil: place %d has no id", i)
		}
		if !finite(p.Lat) || !finite(p.Lon) {
			return &geo.CoordinateError{Index: i, Point: geo.LatLon{Lat: p.Lat, Lon: p.Lon}}
		}
		if _, err := stmt.ExecContext(ctx, p.ID, p.Name, p.Lat, p.Lon); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	ix.Invalidate()
	return nil
}

// DeletePlaces removes places with the given ids in a single transaction.
func (ix *Index) DeletePlaces(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	tx, err := ix.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = ?", ix.Table))
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, id := range ids {
		if _, err := stmt.ExecContext(ctx, id); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	ix.Invalidate()
	return nil
}

// Invalidate marks the cached tree stale so the next load rereads the table.
// Cached keeps serving the previous tree until then.
func (ix *Index) Invalidate() {
	ix.mu.Lock()
	ix.stale = true
	ix.mu.Unlock()
}

// Refresh reloads the tree if the table changed since the last load.
func (ix *Index) Refresh(ctx context.Context) error {
	_, _, err := ix.snapshot(ctx)
	return err
}

// Cached answers from the last loaded tree without touching the database.
// It returns ErrNotLoaded before the first Refresh or Nearest call and
// geo.ErrEmptyTree when the table was empty at load time.
func (ix *Index) Cached(lat, lon float64) (Match, error) {
	ix.mu.Lock()
	tree, places, loaded := ix.tree, ix.places, ix.loaded
	ix.mu.Unlock()
	if !loaded {
		return Match{}, ErrNotLoaded
	}
	return nearest(tree, places, lat, lon)
}

// Nearest returns the place closest to (lat, lon). It returns
// geo.ErrEmptyTree when the table has no rows.
func (ix *Index) Nearest(ctx context.Context, lat, lon float64) (Match, error) {
	tree, places, err := ix.snapshot(ctx)
	if err != nil {
		return Match{}, err
	}
	return nearest(tree, places, lat, lon)
}

func nearest(tree *geo.Tree, places []Place, lat, lon float64) (Match, error) {
	if tree == nil {
		return Match{}, geo.ErrEmptyTree
	}
	res, err := tree.ClosestIdxWithDistance(geo.LatLon{Lat: lat, Lon: lon})
	if err != nil {
		return Match{}, err
	}
	return Match{Place: places[res.Idx], Distance: res.Distance, Km: res.Km()}, nil
}

// Len returns the number of places in the current tree, loading it if needed.
func (ix *Index) Len(ctx context.Context) (int, error) {
	_, places, err := ix.snapshot(ctx)
	return len(places), err
}

// snapshot returns the cached tree, rebuilding it when the table version
// differs from the one it was built at.
func (ix *Index) snapshot(ctx context.Context) (*geo.Tree, []Place, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if err := ix.ensureSchema(ctx); err != nil {
		return nil, nil, err
	}
	version, err := ix.currentVersion(ctx)
	if err != nil {
		return nil, nil, err
	}
	if ix.loaded && !ix.stale && version == ix.version {
		return ix.tree, ix.places, nil
	}
	places, err := ix.load(ctx)
	if err != nil {
		return nil, nil, err
	}
	var tree *geo.Tree
	if len(places) > 0 {
		coords := make([]geo.LatLon, len(places))
		for i, p := range places {
			coords[i] = geo.LatLon{Lat: p.Lat, Lon: p.Lon}
		}
		if tree, err = geo.New(coords, ix.opts...); err != nil {
			return nil, nil, fmt.Errorf("geoutil: build %s: %w", ix.Table, err)
		}
	}
	ix.tree, ix.places, ix.version, ix.loaded, ix.stale = tree, places, version, true, false
	ix.logger.Debug("places tree rebuilt", "table", ix.Table, "count", len(places), "version", version)
	return tree, places, nil
}

func (ix *Index) currentVersion(ctx context.Context) (int64, error) {
	var v int64
	err := ix.DB.QueryRowContext(ctx,
		`SELECT COALESCE((SELECT version FROM `+versionTableFor(ix.Table)+` WHERE table_name = ?), 0)`, ix.Table).Scan(&v)
	return v, err
}

func (ix *Index) load(ctx context.Context) ([]Place, error) {
	rows, err := ix.DB.QueryContext(ctx, fmt.Sprintf("SELECT id, COALESCE(name, ''), lat, lon FROM %s ORDER BY rowid", ix.Table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Place
	for rows.Next() {
		var p Place
		if err := rows.Scan(&p.ID, &p.Name, &p.Lat, &p.Lon); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
