package io

import (
	"fmt"
	"os"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"

	"github.com/phil-mansfield/gridconv"
)

// MetersPerDegree converts geographic lon/lat axes to meters.
const MetersPerDegree = 111139.0

// VarNames names the axes and field of a NetCDF source.
type VarNames struct {
	X, Y, Z string
}

var (
	// XYZNames is the layout written by GMT and by most projected grids.
	XYZNames = VarNames{"x", "y", "z"}
	// LonLatNames is the layout of GEBCO-style geographic grids.
	LonLatNames = VarNames{"lon", "lat", "elevation"}
)

// NetCDFReader reads sources from NetCDF classic (CDF-1 and CDF-2) files.
// NetCDF-4 files must first be converted, e.g. with
// nccopy -k classic in.nc out.nc.
type NetCDFReader struct {
	// Names overrides variable lookup. When nil, XYZNames is tried first and
	// LonLatNames second.
	Names *VarNames
}

// ReadSource implements gridconv.SourceReader.
func (r NetCDFReader) ReadSource(fname string) (*gridconv.Source, error) {
	file, err := os.Open(fname)
	if err != nil { return nil, err }
	defer file.Close()

	f, err := cdf.Open(file)
	if err != nil { return nil, fmt.Errorf("%s: opening NetCDF: %w", fname, err) }

	names, scale := XYZNames, 1.0
	if r.Names != nil {
		names = *r.Names
	} else if len(f.Header.Lengths(XYZNames.X)) == 0 {
		names, scale = LonLatNames, MetersPerDegree
	}

	xs, err := readAxis(f, names.X)
	if err != nil { return nil, fmt.Errorf("%s: %w", fname, err) }
	ys, err := readAxis(f, names.Y)
	if err != nil { return nil, fmt.Errorf("%s: %w", fname, err) }

	if scale != 1 {
		for i := range xs { xs[i] *= scale }
		for i := range ys { ys[i] *= scale }
	}

	dims := f.Header.Lengths(names.Z)
	if len(dims) == 0 {
		return nil, fmt.Errorf(
			"%s: %w '%s'", fname, gridconv.ErrMissingVariable, names.Z,
		)
	} else if len(dims) != 2 {
		return nil, fmt.Errorf(
			"%s: %w: '%s' has %d dimensions", fname, gridconv.ErrShape,
			names.Z, len(dims),
		)
	}

	vals, err := readVariable(f, names.Z)
	if err != nil { return nil, fmt.Errorf("%s: %w", fname, err) }

	z := sparse.ZerosDense(dims...)
	copy(z.Elements, vals)

	return gridconv.NewSource(fname, xs, ys, z)
}

func readAxis(f *cdf.File, name string) ([]float64, error) {
	dims := f.Header.Lengths(name)
	if len(dims) == 0 {
		return nil, fmt.Errorf("%w '%s'", gridconv.ErrMissingVariable, name)
	} else if len(dims) != 1 {
		return nil, fmt.Errorf(
			"%w: axis '%s' has %d dimensions", gridconv.ErrShape,
			name, len(dims),
		)
	}
	return readVariable(f, name)
}

// readVariable reads an entire numeric variable and converts it to float64.
func readVariable(f *cdf.File, name string) ([]float64, error) {
	r := f.Reader(name, nil, nil)
	buf := r.Zero(-1)
	switch buf.(type) {
	case []float64, []float32, []int32, []int16, []int8:
	default:
		return nil, fmt.Errorf(
			"variable '%s' has non-numeric type %T", name, buf,
		)
	}
	if _, err := r.Read(buf); err != nil {
		return nil, fmt.Errorf("reading '%s': %w", name, err)
	}

	var out []float64
	switch xs := buf.(type) {
	case []float64:
		out = xs
	case []float32:
		out = make([]float64, len(xs))
		for i := range xs { out[i] = float64(xs[i]) }
	case []int32:
		out = make([]float64, len(xs))
		for i := range xs { out[i] = float64(xs[i]) }
	case []int16:
		out = make([]float64, len(xs))
		for i := range xs { out[i] = float64(xs[i]) }
	case []int8:
		out = make([]float64, len(xs))
		for i := range xs { out[i] = float64(xs[i]) }
	}
	return out, nil
}
