package geoindex

import (
	"fmt"
	"slices"

	"github.com/viant/geokdtree/geo"
	"github.com/viant/geokdtree/index"
	"github.com/viant/geokdtree/kdtree"
)

// Index is a geographic nearest-neighbour index keyed by id.
type Index struct {
	ids  []string
	tree *geo.Tree
	opts []kdtree.Option
}

// New returns an empty index; opts are applied on every Build.
func New(opts ...kdtree.Option) *Index {
	return &Index{opts: opts}
}

// Build constructs the tree over [lat, lon] points.
func (i *Index) Build(ids []string, points [][]float64) error {
	if len(ids) != len(points) {
		return fmt.Errorf("geoindex: ids and points length mismatch: %d != %d", len(ids), len(points))
	}
	if len(ids) == 0 {
		i.ids, i.tree = nil, nil
		return nil
	}
	coords := make([]geo.LatLon, len(points))
	for j, p := range points {
		ll, err := toLatLon(p)
		if err != nil {
			return fmt.Errorf("geoindex: point %d: %w", j, err)
		}
		coords[j] = ll
	}
	t, err := geo.New(coords, i.opts...)
	if err != nil {
		return fmt.Errorf("geoindex: %w", err)
	}
	i.ids = slices.Clone(ids)
	i.tree = t
	return nil
}

// Nearest returns the id of the closest place and its squared chord distance.
func (i *Index) Nearest(query []float64) (string, float64, error) {
	if i.tree == nil {
		return "", 0, index.ErrEmptyTree
	}
	ll, err := toLatLon(query)
	if err != nil {
		return "", 0, fmt.Errorf("geoindex: query: %w", err)
	}
	res, err := i.tree.ClosestIdxWithDistance(ll)
	if err != nil {
		return "", 0, err
	}
	return i.ids[res.Idx], res.Distance, nil
}

// Len returns the number of indexed points.
func (i *Index) Len() int { return i.tree.Len() }

func toLatLon(p []float64) (geo.LatLon, error) {
	if len(p) != 2 {
		return geo.LatLon{}, fmt.Errorf("expected [lat, lon], got %d values: %w", len(p), geo.ErrInvalidInput)
	}
	return geo.LatLon{Lat: p[0], Lon: p[1]}, nil
}

var _ index.Index = (*Index)(nil)
