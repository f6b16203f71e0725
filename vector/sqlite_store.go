package vector

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/viant/geokdtree/index"
	"github.com/viant/geokdtree/index/kd"
	"github.com/viant/geokdtree/kdtree"
)

// PointStore is a Store that keeps points in a SQLite table and answers
// nearest-point queries with a KD-tree rebuilt lazily after writes made
// through the store.
type PointStore struct {
	db     *sql.DB
	logger *slog.Logger

	mu    sync.Mutex
	index index.Index
	stale bool
}

// NewPointStore creates a SQLite-backed Store. It ensures the points schema
// exists in the provided database.
func NewPointStore(ctx context.Context, db *sql.DB, opts ...kdtree.Option) (*PointStore, error) {
	if db == nil {
		return nil, fmt.Errorf("vector: db is nil")
	}
	if err := EnsureSchema(ctx, db); err != nil {
		return nil, err
	}
	return &PointStore{
		db:     db,
		logger: kdtree.NewOptions(opts...).Logger,
		index:  kd.New(opts...),
		stale:  true,
	}, nil
}

// AddPoints inserts or replaces points in a single transaction. Every point
// must have the dimension count of the points already stored and finite
// coordinates; otherwise nothing is written and the error wraps
// kdtree.ErrInvalidInput.
func (s *PointStore) AddPoints(ctx context.Context, points []Point) ([]string, error) {
	if len(points) == 0 {
		return nil, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO points(id, coords) VALUES(?, ?)`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	dim, err := storedDimensions(ctx, tx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(points))
	for i, p := range points {
		if p.ID == "" {
			return nil, fmt.Errorf("vector: Point.ID must be set")
		}
		if len(p.Coords) == 0 {
			return nil, fmt.Errorf("vector: point %q has no coordinates: %w", p.ID, kdtree.ErrInvalidInput)
		}
		if dim == 0 {
			dim = len(p.Coords)
		}
		if len(p.Coords) != dim {
			return nil, fmt.Errorf("vector: point %q: %w", p.ID,
				&kdtree.DimensionMismatchError{Expected: dim, Actual: len(p.Coords), Index: i})
		}
		for axis, v := range p.Coords {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("vector: point %q: non-finite coordinate %v on axis %d: %w", p.ID, v, axis, kdtree.ErrInvalidInput)
			}
		}
		blob, err := EncodeCoords(p.Coords)
		if err != nil {
			return nil, err
		}
		if _, err := stmt.ExecContext(ctx, p.ID, blob); err != nil {
			return nil, err
		}
		ids = append(ids, p.ID)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	s.invalidate()
	return ids, nil
}

// storedDimensions returns the dimension count of the stored points, or 0
// when the table is empty.
func storedDimensions(ctx context.Context, tx *sql.Tx) (int, error) {
	var n int
	err := tx.QueryRowContext(ctx, `SELECT length(coords) FROM points ORDER BY rowid LIMIT 1`).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return n / 8, nil
}

// Nearest returns the stored point closest to query by squared Euclidean
// distance. It returns index.ErrEmptyTree when the table has no points.
func (s *PointStore) Nearest(ctx context.Context, query []float64) (Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stale {
		if err := s.rebuild(ctx); err != nil {
			return Match{}, err
		}
	}
	id, dist, err := s.index.Nearest(query)
	if err != nil {
		return Match{}, err
	}
	return Match{ID: id, Distance: dist}, nil
}

// Remove deletes a point by ID.
func (s *PointStore) Remove(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("vector: Remove called with empty id")
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM points WHERE id = ?`, id); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

// Invalidate marks the cached tree stale, for writes made outside the store.
func (s *PointStore) Invalidate() { s.invalidate() }

func (s *PointStore) invalidate() {
	s.mu.Lock()
	s.stale = true
	s.mu.Unlock()
}

// rebuild loads every row and rebuilds the index; the caller holds mu.
func (s *PointStore) rebuild(ctx context.Context) error {
	rows, err := s.db.QueryContext(ctx, `SELECT id, coords FROM points ORDER BY rowid`)
	if err != nil {
		return err
	}
	defer rows.Close()

	var ids []string
	var coords [][]float64
	for rows.Next() {
		var id string
		var blob []byte
		if err := rows.Scan(&id, &blob); err != nil {
			return err
		}
		c, err := DecodeCoords(blob)
		if err != nil {
			return fmt.Errorf("vector: point %q: %w", id, err)
		}
		ids = append(ids, id)
		coords = append(coords, c)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if err := s.index.Build(ids, coords); err != nil {
		return err
	}
	s.stale = false
	s.logger.Debug("point index rebuilt", "count", len(ids))
	return nil
}

// Ensure PointStore satisfies the Store interface.
var _ Store = (*PointStore)(nil)
