package geovtab

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"modernc.org/sqlite/vtab"

	"github.com/viant/geokdtree/geo"
)

// decodeMatchArg parses a MATCH argument given as 'lat,lon' or '[lat, lon]'.
func decodeMatchArg(v vtab.Value) (geo.LatLon, error) {
	var s string
	switch val := v.(type) {
	case string:
		s = val
	case []byte:
		s = string(val)
	default:
		return geo.LatLon{}, fmt.Errorf("geo_nearest: expected MATCH arg as TEXT, got %T", v)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return geo.LatLon{}, fmt.Errorf("geo_nearest: MATCH string is empty")
	}
	var values []float64
	if strings.HasPrefix(s, "[") {
		if err := json.Unmarshal([]byte(s), &values); err != nil {
			return geo.LatLon{}, fmt.Errorf("geo_nearest: invalid MATCH list %q: %w", s, err)
		}
	} else {
		for _, p := range strings.Split(s, ",") {
			p = strings.TrimSpace(p)
			f, err := strconv.ParseFloat(p, 64)
			if err != nil {
				return geo.LatLon{}, fmt.Errorf("geo_nearest: invalid MATCH float %q: %w", p, err)
			}
			values = append(values, f)
		}
	}
	if len(values) != 2 {
		return geo.LatLon{}, fmt.Errorf("geo_nearest: MATCH must hold lat,lon, got %d values", len(values))
	}
	return geo.LatLon{Lat: values[0], Lon: values[1]}, nil
}
