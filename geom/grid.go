package geom

import (
	"errors"
	"fmt"
	"math"
)

// ErrDegenerate is returned for grids that have no cells or no extent.
var ErrDegenerate = errors.New("degenerate grid geometry")

// Grid describes a regular 2D grid of cells. Origin is the lower-left corner
// of the first cell, and Cell holds the physical width of a cell along each
// axis. Values are stored row-major: y is the row and x is the fastest
// varying index.
type Grid struct {
	Nx, Ny int
	Origin [2]float64
	Cell   [2]float64
}

// Bounds is an axis-aligned physical rectangle.
type Bounds struct {
	Min, Max [2]float64
}

// NewGrid returns a new Grid covering width x height starting at origin.
func NewGrid(nx, ny int, origin [2]float64, width, height float64) *Grid {
	g := &Grid{}
	g.Init(nx, ny, origin, width, height)
	return g
}

// Init initializes a Grid instance.
func (g *Grid) Init(nx, ny int, origin [2]float64, width, height float64) {
	g.Nx, g.Ny = nx, ny
	g.Origin = origin
	g.Cell[0] = width / float64(nx)
	g.Cell[1] = height / float64(ny)
}

// FromAxes derives a Grid from a pair of cell-center coordinate axes. The
// spacing is taken from the first two entries of each axis and the origin is
// the first center stepped back by half a cell.
func FromAxes(xs, ys []float64) (*Grid, error) {
	if len(xs) < 2 || len(ys) < 2 {
		return nil, fmt.Errorf(
			"%w: axes need at least two points, have %d x %d",
			ErrDegenerate, len(xs), len(ys),
		)
	}

	g := &Grid{Nx: len(xs), Ny: len(ys)}
	g.Cell[0] = xs[1] - xs[0]
	g.Cell[1] = ys[1] - ys[0]
	g.Origin[0] = xs[0] - g.Cell[0]/2
	g.Origin[1] = ys[0] - g.Cell[1]/2

	if err := g.Check(); err != nil { return nil, err }
	return g, nil
}

// Check returns an error if the grid would divide by zero or produce
// non-finite coordinates.
func (g *Grid) Check() error {
	if g.Nx <= 0 || g.Ny <= 0 {
		return fmt.Errorf("%w: %d x %d cells", ErrDegenerate, g.Nx, g.Ny)
	}
	for i := 0; i < 2; i++ {
		if !(g.Cell[i] > 0) || math.IsInf(g.Cell[i], 0) {
			return fmt.Errorf(
				"%w: cell size %g along axis %d", ErrDegenerate, g.Cell[i], i,
			)
		} else if math.IsNaN(g.Origin[i]) || math.IsInf(g.Origin[i], 0) {
			return fmt.Errorf(
				"%w: origin %g along axis %d", ErrDegenerate, g.Origin[i], i,
			)
		}
	}
	return nil
}

// Len returns the number of cells in the grid.
func (g *Grid) Len() int { return g.Nx * g.Ny }

// Width returns the physical extent of the grid along x.
func (g *Grid) Width() float64 { return g.Cell[0] * float64(g.Nx) }

// Height returns the physical extent of the grid along y.
func (g *Grid) Height() float64 { return g.Cell[1] * float64(g.Ny) }

// Idx returns the row-major index of cell (i, j).
func (g *Grid) Idx(i, j int) int { return i + j*g.Nx }

// IdxCheck returns an index and true if the given cell is inside the grid and
// false otherwise.
func (g *Grid) IdxCheck(i, j int) (idx int, ok bool) {
	if !g.BoundsCheck(i, j) {
		return -1, false
	}
	return g.Idx(i, j), true
}

// BoundsCheck returns true if the given cell is within the Grid.
func (g *Grid) BoundsCheck(i, j int) bool {
	return 0 <= i && i < g.Nx && 0 <= j && j < g.Ny
}

// Coords returns the cell of a row-major index.
func (g *Grid) Coords(idx int) (i, j int) {
	return idx % g.Nx, idx / g.Nx
}

// Center returns the physical position of the center of cell (i, j).
func (g *Grid) Center(i, j int) (x, y float64) {
	x = g.Origin[0] + (float64(i)+0.5)*g.Cell[0]
	y = g.Origin[1] + (float64(j)+0.5)*g.Cell[1]
	return x, y
}

// NearestCell maps a physical position to the cell whose center is closest to
// it. Ties on exact half-cell boundaries round to the even index. The result
// may lie outside the grid; use BoundsCheck before indexing.
func (g *Grid) NearestCell(x, y float64) (i, j int) {
	i = int(math.RoundToEven((x-g.Origin[0])/g.Cell[0] - 0.5))
	j = int(math.RoundToEven((y-g.Origin[1])/g.Cell[1] - 0.5))
	return i, j
}

// Bounds returns the physical rectangle covered by the grid.
func (g *Grid) Bounds() Bounds {
	return Bounds{
		Min: g.Origin,
		Max: [2]float64{g.Origin[0] + g.Width(), g.Origin[1] + g.Height()},
	}
}

// Contains returns true if b2 lies entirely inside b.
func (b Bounds) Contains(b2 Bounds) bool {
	for i := 0; i < 2; i++ {
		if b2.Min[i] < b.Min[i] || b2.Max[i] > b.Max[i] {
			return false
		}
	}
	return true
}

// Intersect returns true if the two rectangles overlap.
func (b Bounds) Intersect(b2 Bounds) bool {
	for i := 0; i < 2; i++ {
		if b2.Max[i] <= b.Min[i] || b.Max[i] <= b2.Min[i] {
			return false
		}
	}
	return true
}

func (b Bounds) String() string {
	return fmt.Sprintf(
		"[%g, %g] x [%g, %g]", b.Min[0], b.Max[0], b.Min[1], b.Max[1],
	)
}
