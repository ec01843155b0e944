package gridconv

import (
	"errors"
	"fmt"

	"github.com/ctessum/sparse"

	"github.com/phil-mansfield/gridconv/geom"
)

var (
	// ErrMissingVariable is returned when a source file lacks an axis or the
	// field itself.
	ErrMissingVariable = errors.New("missing variable")
	// ErrShape is returned when the field's shape doesn't match its axes.
	ErrShape = errors.New("field shape does not match axes")
)

// Source is a scalar field sampled at the centers of a regular grid. X and Y
// hold cell-center coordinates in meters and Z is indexed as Z.Get(j, i),
// i.e. [y][x].
type Source struct {
	Name string
	X, Y []float64
	Z    *sparse.DenseArray

	grid *geom.Grid
}

// SourceReader is anything which can load a Source from a named file.
type SourceReader interface {
	ReadSource(fname string) (*Source, error)
}

// NewSource checks that z has shape [len(ys)][len(xs)] and that the axes
// describe a usable grid.
func NewSource(name string, xs, ys []float64, z *sparse.DenseArray) (*Source, error) {
	if xs == nil {
		return nil, fmt.Errorf("%s: %w 'x'", name, ErrMissingVariable)
	} else if ys == nil {
		return nil, fmt.Errorf("%s: %w 'y'", name, ErrMissingVariable)
	} else if z == nil {
		return nil, fmt.Errorf("%s: %w 'z'", name, ErrMissingVariable)
	}

	if len(z.Shape) != 2 || z.Shape[0] != len(ys) || z.Shape[1] != len(xs) {
		return nil, fmt.Errorf(
			"%s: %w: field is %v, axes are %d x %d",
			name, ErrShape, z.Shape, len(ys), len(xs),
		)
	}

	g, err := geom.FromAxes(xs, ys)
	if err != nil { return nil, fmt.Errorf("%s: %w", name, err) }

	return &Source{Name: name, X: xs, Y: ys, Z: z, grid: g}, nil
}

// Grid returns the source's derived geometry.
func (src *Source) Grid() *geom.Grid { return src.grid }

// At returns the value of cell (i, j).
func (src *Source) At(i, j int) float64 {
	return src.Z.Elements[src.grid.Idx(i, j)]
}
