package kdtree

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomPoints(r *rand.Rand, n, dim int) [][]float64 {
	out := make([][]float64, n)
	for i := range out {
		p := make([]float64, dim)
		for j := range p {
			p[j] = r.NormFloat64() * 50
		}
		out[i] = p
	}
	return out
}

func sqDist(a, b []float64) float64 {
	var s float64
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return s
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name   string
		points [][]float64
	}{
		{"Nil", nil},
		{"Empty", [][]float64{}},
		{"ZeroDimensions", [][]float64{{}, {}}},
		{"Mismatch", [][]float64{{1, 2}, {3}}},
		{"NaN", [][]float64{{1, 2}, {math.NaN(), 0}}},
		{"Inf", [][]float64{{math.Inf(-1), 2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := New(tt.points)
			assert.Nil(t, tr)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestCheckCount(t *testing.T) {
	if math.MaxInt == math.MaxInt32 {
		t.Skip("int cannot exceed the point limit")
	}
	assert.NoError(t, checkCount(1))
	assert.NoError(t, checkCount(MaxPoints))
	n := MaxPoints
	assert.ErrorIs(t, checkCount(n+1), ErrInvalidInput)
}

func TestNew_MismatchDetails(t *testing.T) {
	_, err := New([][]float64{{1, 2}, {3, 4}, {5, 6, 7}})
	var dm *DimensionMismatchError
	require.ErrorAs(t, err, &dm)
	assert.Equal(t, 2, dm.Expected)
	assert.Equal(t, 3, dm.Actual)
	assert.Equal(t, 2, dm.Index)
	assert.Equal(t, "kdtree: point 2 has 3 dimensions, expected 2", dm.Error())
}

func TestClosestPoint_Example(t *testing.T) {
	tr, err := New([][]float64{{0, 0}, {10, 10}, {1, 1}})
	require.NoError(t, err)

	got, err := tr.ClosestPoint([]float64{0.9, 0.9})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1}, got)

	res, err := tr.ClosestPointWithDistance([]float64{0.9, 0.9})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1}, res.Point)
	assert.Equal(t, 2, res.Index)
	assert.InDelta(t, 0.02, res.Distance, 1e-12)
}

func TestClosestPoint_Line(t *testing.T) {
	// points on y = x + 1 at growing scales
	for _, n := range []int{10, 100, 1000, 10000} {
		points := make([][]float64, n)
		for i := range points {
			points[i] = []float64{float64(i), float64(i + 1)}
		}
		tr, err := New(points)
		require.NoError(t, err)
		got, err := tr.ClosestPoint([]float64{5, 5.5})
		require.NoError(t, err)
		assert.Equal(t, []float64{5, 6}, got, "n=%d", n)
	}
}

func TestClosestPoint_SinglePoint(t *testing.T) {
	tr, err := New([][]float64{{3, -4, 5}})
	require.NoError(t, err)

	res, err := tr.ClosestPointWithDistance([]float64{3, -4, 5})
	require.NoError(t, err)
	assert.Equal(t, []float64{3, -4, 5}, res.Point)
	assert.Equal(t, 0.0, res.Distance)

	res, err = tr.ClosestPointWithDistance([]float64{100, 100, 100})
	require.NoError(t, err)
	assert.Equal(t, []float64{3, -4, 5}, res.Point)
}

func TestClosestPoint_MatchesBruteForce(t *testing.T) {
	r := rand.New(rand.NewPCG(42, 99))
	for _, dim := range []int{1, 2, 3, 6} {
		points := randomPoints(r, 800, dim)
		tr, err := New(points)
		require.NoError(t, err)
		for q := 0; q < 100; q++ {
			query := randomPoints(r, 1, dim)[0]
			res, err := tr.ClosestPointWithDistance(query)
			require.NoError(t, err)
			for _, p := range points {
				assert.LessOrEqual(t, res.Distance, sqDist(query, p)+1e-9)
			}
			assert.Equal(t, points[res.Index], res.Point)
		}
	}
}

func TestClosestPoint_Deterministic(t *testing.T) {
	points := randomPoints(rand.New(rand.NewPCG(5, 6)), 300, 3)
	tr, err := New(points)
	require.NoError(t, err)
	query := []float64{1, 2, 3}
	first, err := tr.ClosestPointWithDistance(query)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := tr.ClosestPointWithDistance(query)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestClosestPoint_Errors(t *testing.T) {
	var empty Tree
	_, err := empty.ClosestPoint([]float64{1})
	assert.ErrorIs(t, err, ErrEmptyTree)

	var nilTree *Tree
	_, err = nilTree.ClosestPointWithDistance([]float64{1})
	assert.ErrorIs(t, err, ErrEmptyTree)

	tr, err := New([][]float64{{1, 2}})
	require.NoError(t, err)
	_, err = tr.ClosestPoint([]float64{1, 2, 3})
	var dm *DimensionMismatchError
	require.ErrorAs(t, err, &dm)
	assert.Equal(t, -1, dm.Index)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = tr.ClosestPoint([]float64{math.NaN(), 0})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPoints_Multiset(t *testing.T) {
	points := randomPoints(rand.New(rand.NewPCG(8, 9)), 123, 2)
	points = append(points, slices.Clone(points[0]), slices.Clone(points[1]))
	tr, err := New(points)
	require.NoError(t, err)
	assert.Equal(t, len(points), tr.Len())
	assert.Equal(t, 2, tr.Dimensions())

	key := func(p []float64) string { return fmt.Sprint(p) }
	want := map[string]int{}
	for _, p := range points {
		want[key(p)]++
	}
	got := map[string]int{}
	for _, p := range tr.Points() {
		got[key(p)]++
	}
	assert.Equal(t, want, got)
}

func TestNew_CopiesInput(t *testing.T) {
	points := [][]float64{{0, 0}, {5, 5}}
	tr, err := New(points)
	require.NoError(t, err)
	points[1][0] = -100

	got, err := tr.ClosestPoint([]float64{5, 5})
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 5}, got)

	got[0] = 42
	again, err := tr.ClosestPoint([]float64{5, 5})
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 5}, again)
}

func TestNew_Logger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	_, err := New([][]float64{{1}, {2}, {3}}, WithLogger(logger))
	require.NoError(t, err)
	out := buf.String()
	assert.True(t, strings.Contains(out, "kdtree built"), out)
	assert.Contains(t, out, "count=3")
	assert.Contains(t, out, "dimensions=1")
}

func TestClosestPointBatch(t *testing.T) {
	r := rand.New(rand.NewPCG(10, 20))
	points := randomPoints(r, 500, 3)
	queries := randomPoints(r, 64, 3)
	tr, err := New(points)
	require.NoError(t, err)

	got, err := tr.ClosestPointBatch(context.Background(), queries)
	require.NoError(t, err)
	require.Len(t, got, len(queries))
	for i, q := range queries {
		want, err := tr.ClosestPointWithDistance(q)
		require.NoError(t, err)
		assert.Equal(t, want, got[i])
	}

	queries[10] = []float64{1}
	_, err = tr.ClosestPointBatch(context.Background(), queries)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "query 10")
}
