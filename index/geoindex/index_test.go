package geoindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/geokdtree/geo"
	"github.com/viant/geokdtree/index"
)

func TestIndex_Nearest(t *testing.T) {
	idx := New()
	ids := []string{"la", "ny", "sf", "london", "paris"}
	points := [][]float64{
		{34.0522, -118.2437},
		{40.7128, -74.0060},
		{37.7749, -122.4194},
		{51.5074, -0.1278},
		{48.8566, 2.3522},
	}
	require.NoError(t, idx.Build(ids, points))
	assert.Equal(t, 5, idx.Len())

	id, dist, err := idx.Nearest([]float64{47.6062, -122.3321})
	require.NoError(t, err)
	assert.Equal(t, "sf", id)
	assert.Greater(t, dist, 0.0)
}

func TestIndex_Errors(t *testing.T) {
	idx := New()
	_, _, err := idx.Nearest([]float64{0, 0})
	assert.ErrorIs(t, err, index.ErrEmptyTree)

	err = idx.Build([]string{"a"}, [][]float64{{1, 2, 3}})
	assert.ErrorIs(t, err, geo.ErrInvalidInput)

	assert.Error(t, idx.Build([]string{"a", "b"}, [][]float64{{1, 2}}))

	require.NoError(t, idx.Build([]string{"a"}, [][]float64{{1, 2}}))
	_, _, err = idx.Nearest([]float64{1})
	assert.ErrorIs(t, err, geo.ErrInvalidInput)
}
