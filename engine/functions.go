package engine

import (
	"database/sql/driver"
	"fmt"
	"math"
	"sync"

	sqlite "modernc.org/sqlite"

	"github.com/viant/geokdtree/vector"
)

var registerOnce sync.Once

// RegisterFunctions registers kd_sqdist, geo_sqchord and geo_km with the
// driver so they are available on connections opened after this call.
// Existing open connections will not see new functions.
func RegisterFunctions() error {
	var err error
	registerOnce.Do(func() {
		for _, f := range []struct {
			name  string
			nArgs int32
			impl  func(*sqlite.FunctionContext, []driver.Value) (driver.Value, error)
		}{
			{"kd_sqdist", 2, kdSqDistImpl},
			{"geo_sqchord", 4, geoSqChordImpl},
			{"geo_km", 4, geoKmImpl},
		} {
			if err = sqlite.RegisterDeterministicScalarFunction(f.name, f.nArgs, f.impl); err != nil {
				err = fmt.Errorf("engine: register %s: %w", f.name, err)
				return
			}
		}
	})
	return err
}

func asCoords(arg driver.Value) ([]float64, error) {
	switch v := arg.(type) {
	case nil:
		return nil, nil
	case []byte:
		return vector.DecodeCoords(v)
	default:
		return nil, fmt.Errorf("kd_sqdist: unsupported argument type %T for coords; want BLOB", arg)
	}
}

func asFloat(name string, arg driver.Value) (float64, bool, error) {
	switch v := arg.(type) {
	case nil:
		return 0, false, nil
	case float64:
		return v, true, nil
	case int64:
		return float64(v), true, nil
	default:
		return 0, false, fmt.Errorf("%s: unsupported argument type %T; want REAL", name, arg)
	}
}

func kdSqDistImpl(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("kd_sqdist: expected 2 arguments, got %d", len(args))
	}
	a, err := asCoords(args[0])
	if err != nil {
		return nil, err
	}
	b, err := asCoords(args[1])
	if err != nil {
		return nil, err
	}
	if a == nil || b == nil {
		return nil, nil
	}
	if len(a) != len(b) {
		return nil, fmt.Errorf("kd_sqdist: dim mismatch %d vs %d", len(a), len(b))
	}
	return vector.SquaredDistance(a, b, len(a))
}

// latLonPair decodes four numeric arguments, reporting false when any is NULL.
func latLonPair(name string, args []driver.Value) (p1, p2 vector.LatLon, ok bool, err error) {
	if len(args) != 4 {
		return p1, p2, false, fmt.Errorf("%s: expected 4 arguments, got %d", name, len(args))
	}
	var v [4]float64
	for i, arg := range args {
		f, set, err := asFloat(name, arg)
		if err != nil || !set {
			return p1, p2, false, err
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return p1, p2, false, fmt.Errorf("%s: argument %d is not finite", name, i+1)
		}
		v[i] = f
	}
	return vector.LatLon{Lat: v[0], Lon: v[1]}, vector.LatLon{Lat: v[2], Lon: v[3]}, true, nil
}

func geoSqChordImpl(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	p1, p2, ok, err := latLonPair("geo_sqchord", args)
	if err != nil || !ok {
		return nil, err
	}
	a := vector.LatLonToXYZ(p1.Lat, p1.Lon)
	b := vector.LatLonToXYZ(p2.Lat, p2.Lon)
	return vector.SquaredDistance3D(a[:], b[:])
}

func geoKmImpl(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	p1, p2, ok, err := latLonPair("geo_km", args)
	if err != nil || !ok {
		return nil, err
	}
	return vector.Haversine(p1.Lat, p1.Lon, p2.Lat, p2.Lon), nil
}
