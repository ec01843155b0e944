package io

import (
	"fmt"
	"sort"

	"github.com/ctessum/sparse"
	"github.com/phil-mansfield/table"

	"github.com/phil-mansfield/gridconv"
)

// TableReader reads sources from whitespace-separated text tables where
// every line gives one point (e.g. GMT's grd2xyz output). The points must lie
// on a regular lattice, but may be in any order and the lattice may have
// holes, which are left at zero.
type TableReader struct {
	// Columns holds the x, y and z column indices. When nil, the first three
	// columns are used.
	Columns []int
}

// ReadSource implements gridconv.SourceReader.
func (r TableReader) ReadSource(fname string) (*gridconv.Source, error) {
	colIdxs := r.Columns
	if colIdxs == nil { colIdxs = []int{0, 1, 2} }
	if len(colIdxs) != 3 {
		return nil, fmt.Errorf(
			"%s: need exactly 3 column indices, got %d", fname, len(colIdxs),
		)
	}

	cols, err := table.ReadTable(fname, colIdxs, nil)
	if err != nil { return nil, fmt.Errorf("%s: %w", fname, err) }
	px, py, pz := cols[0], cols[1], cols[2]
	if len(px) == 0 {
		return nil, fmt.Errorf(
			"%s: %w: table has no rows", fname, gridconv.ErrMissingVariable,
		)
	}

	xs, ys := uniqueSorted(px), uniqueSorted(py)
	xIdx, yIdx := indexOf(xs), indexOf(ys)

	z := sparse.ZerosDense(len(ys), len(xs))
	for k := range pz {
		i, j := xIdx[px[k]], yIdx[py[k]]
		z.Elements[i+j*len(xs)] = pz[k]
	}

	return gridconv.NewSource(fname, xs, ys, z)
}

func uniqueSorted(xs []float64) []float64 {
	out := append([]float64{}, xs...)
	sort.Float64s(out)

	n := 0
	for i := range out {
		if i == 0 || out[i] != out[n-1] {
			out[n] = out[i]
			n++
		}
	}
	return out[:n]
}

func indexOf(xs []float64) map[float64]int {
	m := make(map[float64]int, len(xs))
	for i, x := range xs { m[x] = i }
	return m
}
