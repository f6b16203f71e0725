package kd

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/geokdtree/index"
	"github.com/viant/geokdtree/kdtree"
)

func TestIndex_Nearest(t *testing.T) {
	idx := New()
	require.NoError(t, idx.Build([]string{"a", "b", "c"}, [][]float64{{0, 0}, {10, 10}, {1, 1}}))
	assert.Equal(t, 3, idx.Len())

	id, dist, err := idx.Nearest([]float64{0.9, 0.9})
	require.NoError(t, err)
	assert.Equal(t, "c", id)
	assert.InDelta(t, 0.02, dist, 1e-12)
}

func TestIndex_Rebuild(t *testing.T) {
	idx := New()
	require.NoError(t, idx.Build([]string{"a"}, [][]float64{{0}}))
	require.NoError(t, idx.Build([]string{"x", "y"}, [][]float64{{5}, {7}}))
	id, _, err := idx.Nearest([]float64{6.9})
	require.NoError(t, err)
	assert.Equal(t, "y", id)

	require.NoError(t, idx.Build(nil, nil))
	_, _, err = idx.Nearest([]float64{0})
	assert.ErrorIs(t, err, index.ErrEmptyTree)
}

func TestIndex_Errors(t *testing.T) {
	idx := New()
	err := idx.Build([]string{"a", "b"}, [][]float64{{1, 2}, {1}})
	assert.ErrorIs(t, err, kdtree.ErrInvalidInput)

	require.NoError(t, idx.Build([]string{"a"}, [][]float64{{1, 2}}))
	_, _, err = idx.Nearest([]float64{1})
	var dm *kdtree.DimensionMismatchError
	assert.ErrorAs(t, err, &dm)
}

func TestIndex_Logger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	idx := New(kdtree.WithLogger(logger))
	require.NoError(t, idx.Build([]string{"a", "b"}, [][]float64{{1}, {2}}))
	assert.Contains(t, buf.String(), "kdtree built")
}
