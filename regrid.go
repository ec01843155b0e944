/*
Package gridconv resamples gridded geophysical fields (bathymetry, seafloor
displacement) onto a target grid by nearest-cell lookup.

A target is written as a set of overrides on top of the source: any field of
TargetSpec left nil is inherited from the source grid. Target cells whose
centers fall outside the source domain are zero-filled.
*/
package gridconv

import (
	"fmt"
	"math"

	"github.com/phil-mansfield/gridconv/geom"
)

// TargetSpec describes the requested output grid. Nil fields inherit the
// corresponding source value: Nx and Ny the source cell counts, OriginX and
// OriginY the source's lower-left corner, Width and Height the source extent.
// A zero count or extent also inherits; a zero origin does not.
type TargetSpec struct {
	Nx, Ny           *int
	OriginX, OriginY *float64
	Width, Height    *float64
}

// Result is the outcome of a single resampling.
type Result struct {
	Grid geom.Grid
	// Vals is a row-major [Ny][Nx] buffer. Cells outside the source are 0.
	Vals []float32
	// ZeroFilled counts cells whose centers fell outside the source domain.
	ZeroFilled int
}

// Summary gives the physical extent of the resolved target grid.
type Summary struct {
	XMin, XMax, YMin, YMax float64
}

// Int and Float return pointers to their arguments for use in TargetSpec
// literals.
func Int(n int) *int           { return &n }
func Float(x float64) *float64 { return &x }

// Resolve merges spec with the geometry of src. The returned grid has been
// checked for degeneracy.
func Resolve(spec *TargetSpec, src *geom.Grid) (*geom.Grid, error) {
	nx, ny := src.Nx, src.Ny
	origin := src.Origin
	width, height := src.Width(), src.Height()

	if spec != nil {
		if spec.Nx != nil && *spec.Nx != 0 { nx = *spec.Nx }
		if spec.Ny != nil && *spec.Ny != 0 { ny = *spec.Ny }
		if spec.OriginX != nil { origin[0] = *spec.OriginX }
		if spec.OriginY != nil { origin[1] = *spec.OriginY }
		if spec.Width != nil && *spec.Width != 0 { width = *spec.Width }
		if spec.Height != nil && *spec.Height != 0 { height = *spec.Height }
	}

	if math.IsNaN(width) || math.IsNaN(height) {
		return nil, fmt.Errorf(
			"%w: domain is %g x %g", geom.ErrDegenerate, width, height,
		)
	}

	g := geom.NewGrid(nx, ny, origin, width, height)
	if err := g.Check(); err != nil { return nil, err }
	return g, nil
}

// Resample maps src onto the grid described by spec. Each target cell takes
// the value of the source cell nearest to its center, with no interpolation.
func Resample(src *Source, spec *TargetSpec) (*Result, error) {
	sg := src.Grid()
	if sg == nil {
		return nil, fmt.Errorf("%s: %w", src.Name, geom.ErrDegenerate)
	}

	tg, err := Resolve(spec, sg)
	if err != nil { return nil, fmt.Errorf("resolving target: %w", err) }

	res := &Result{Grid: *tg, Vals: make([]float32, tg.Len())}
	for idx := range res.Vals {
		x, y := tg.Center(tg.Coords(idx))
		si, sj := sg.NearestCell(x, y)
		if sidx, ok := sg.IdxCheck(si, sj); ok {
			res.Vals[idx] = float32(src.Z.Elements[sidx])
		} else {
			res.ZeroFilled++
		}
	}

	return res, nil
}

// Summary returns the physical extent of the result's grid.
func (res *Result) Summary() Summary {
	b := res.Grid.Bounds()
	return Summary{
		XMin: b.Min[0], XMax: b.Max[0],
		YMin: b.Min[1], YMax: b.Max[1],
	}
}

// At returns the value of target cell (i, j).
func (res *Result) At(i, j int) float32 {
	return res.Vals[res.Grid.Idx(i, j)]
}
