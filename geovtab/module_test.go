package geovtab

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/geokdtree/engine"
	"github.com/viant/geokdtree/geoutil"
)

var cityPlaces = []geoutil.Place{
	{ID: "la", Name: "Los Angeles", Lat: 34.0522, Lon: -118.2437},
	{ID: "ny", Name: "New York", Lat: 40.7128, Lon: -74.0060},
	{ID: "sf", Name: "San Francisco", Lat: 37.7749, Lon: -122.4194},
	{ID: "lon", Name: "London", Lat: 51.5074, Lon: -0.1278},
	{ID: "par", Name: "Paris", Lat: 48.8566, Lon: 2.3522},
}

// setup opens a file database with the module registered before its first
// connection, loads cityPlaces and creates the near virtual table. The pool is
// pinned to one connection since modules are installed per connection.
func setup(t *testing.T, name string) *sql.DB {
	t.Helper()
	db, err := engine.Open(filepath.Join(t.TempDir(), name+".sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	db.SetMaxOpenConns(1)
	require.NoError(t, Register(db))
	_, err = db.Exec(`PRAGMA journal_mode=WAL; PRAGMA busy_timeout=5000;`)
	require.NoError(t, err)

	ix, err := geoutil.NewIndex(db, "places")
	require.NoError(t, err)
	require.NoError(t, ix.UpsertPlaces(context.Background(), cityPlaces))

	if _, err := db.Exec(`CREATE VIRTUAL TABLE near USING geo_nearest(places)`); err != nil {
		if strings.Contains(err.Error(), "no such module") {
			t.Skipf("skipping: geo_nearest is not installed on this connection (%v)", err)
		}
		t.Fatalf("CREATE VIRTUAL TABLE near failed: %v", err)
	}
	return db
}

type result struct {
	id       string
	name     string
	distance float64
	km       float64
}

func queryNear(t *testing.T, db *sql.DB, table, match string) ([]result, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	rows, err := db.QueryContext(ctx, `SELECT id, name, distance, km FROM `+table+` WHERE query MATCH ?`, match)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []result
	for rows.Next() {
		var r result
		if err := rows.Scan(&r.id, &r.name, &r.distance, &r.km); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// TestGeoNearest must stay the first test in the package: it needs the first
// connection the process opens.
func TestGeoNearest(t *testing.T) {
	ctx := context.Background()
	db := setup(t, "near")
	require.NoError(t, Sync(ctx, db, "places"))

	t.Run("Match", func(t *testing.T) {
		got, err := queryNear(t, db, "near", "47.6062,-122.3321")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "sf", got[0].id)
		assert.Equal(t, "San Francisco", got[0].name)
		assert.Greater(t, got[0].distance, 0.0)
		assert.InDelta(t, 1093, got[0].km, 5)

		got, err = queryNear(t, db, "near", "[52.52, 13.405]")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "par", got[0].id)
	})

	t.Run("NoMatch", func(t *testing.T) {
		var n int64
		require.NoError(t, db.QueryRow(`SELECT count(*) FROM near`).Scan(&n))
		assert.Equal(t, int64(0), n)
	})

	t.Run("BadMatch", func(t *testing.T) {
		_, err := queryNear(t, db, "near", "not a point")
		assert.Error(t, err)
	})

	t.Run("SyncPublishesWrites", func(t *testing.T) {
		_, err := db.Exec(`INSERT INTO places(id, name, lat, lon) VALUES('ber', 'Berlin', 52.52, 13.405)`)
		require.NoError(t, err)
		got, err := queryNear(t, db, "near", "52.52,13.405")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "par", got[0].id)

		require.NoError(t, Sync(ctx, db, "places"))
		got, err = queryNear(t, db, "near", "52.52,13.405")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "ber", got[0].id)
		assert.Equal(t, 0.0, got[0].distance)
	})

	t.Run("Invalidate", func(t *testing.T) {
		var n int64
		require.NoError(t, db.QueryRow(`SELECT geo_invalidate('places')`).Scan(&n))
		assert.Equal(t, int64(1), n)
		require.NoError(t, db.QueryRow(`SELECT geo_invalidate('missing')`).Scan(&n))
		assert.Equal(t, int64(0), n)

		got, err := queryNear(t, db, "near", "52.52,13.405")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "ber", got[0].id)
		require.NoError(t, Sync(ctx, db, "places"))
	})

	t.Run("NotSynced", func(t *testing.T) {
		_, err := db.Exec(`CREATE VIRTUAL TABLE far USING geo_nearest(other_places)`)
		require.NoError(t, err)
		_, err = queryNear(t, db, "far", "0,0")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not loaded")
	})

	t.Run("EmptyPlaces", func(t *testing.T) {
		empty, err := geoutil.NewIndex(db, "empty_places")
		require.NoError(t, err)
		require.NoError(t, empty.EnsureSchema(ctx))
		_, err = db.Exec(`CREATE VIRTUAL TABLE nowhere USING geo_nearest(empty_places)`)
		require.NoError(t, err)
		require.NoError(t, Sync(ctx, db, "empty_places"))
		got, err := queryNear(t, db, "nowhere", "0,0")
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestDecodeMatchArg(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		lat     float64
		lon     float64
		wantErr bool
	}{
		{name: "CSV", in: "47.6, -122.3", lat: 47.6, lon: -122.3},
		{name: "JSON", in: "[1.5, 2]", lat: 1.5, lon: 2},
		{name: "Bytes", in: []byte("0,0")},
		{name: "Empty", in: "  ", wantErr: true},
		{name: "OneValue", in: "1", wantErr: true},
		{name: "ThreeValues", in: "1,2,3", wantErr: true},
		{name: "NotANumber", in: "a,b", wantErr: true},
		{name: "BadJSON", in: "[1,", wantErr: true},
		{name: "WrongType", in: int64(3), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeMatchArg(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.lat, got.Lat)
			assert.Equal(t, tt.lon, got.Lon)
		})
	}
}

func TestInvalidateCache(t *testing.T) {
	a, err := engine.Open(":memory:")
	require.NoError(t, err)
	defer a.Close()
	b, err := engine.Open(":memory:")
	require.NoError(t, err)
	defer b.Close()

	first, err := getIndex(a, "cache_test_places")
	require.NoError(t, err)
	again, err := getIndex(a, "cache_test_places")
	require.NoError(t, err)
	assert.Same(t, first, again)
	assert.Same(t, first, lookupIndex("cache_test_places"))

	rebound, err := getIndex(b, "cache_test_places")
	require.NoError(t, err)
	assert.NotSame(t, first, rebound)
	assert.Same(t, rebound, lookupIndex("cache_test_places"))

	_, err = getIndex(a, "bad name")
	assert.Error(t, err)

	assert.Equal(t, 1, InvalidateCache("cache_test_places"))
	assert.Equal(t, 0, InvalidateCache("missing_table"))
}
