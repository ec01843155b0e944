package io

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/phil-mansfield/gridconv/geom"
)

/*
The binary grid format read by the simulation is:
    |-- 1 --||-- 2 --||-- 3 --||-- 4 --||-- 5 --||-- 6 --||-- ... 7 ... --|

    1 - (uint32) Number of cells along x.
    2 - (uint32) Number of cells along y.
    3, 4 - (float64) x and y of the grid's lower-left corner, i.e. the outer
           edge of cell (0, 0), not its center. Cell (i, j) is centered at
           (originX + (i + 0.5)*cellX, originY + (j + 0.5)*cellY).
    5, 6 - (float64) Cell width along x and y.
    7 - ([]float32) Row-major payload of nx * ny values. x varies fastest.

Everything is little endian and there is no padding.
*/

var end = binary.LittleEndian

// HeaderSize is the size in bytes of an encoded GridHeader.
const HeaderSize = 40

// ErrBadHeader is returned when a grid file's header is inconsistent with
// the file it's in.
var ErrBadHeader = errors.New("bad grid header")

// GridHeader describes the geometry of a binary grid file.
type GridHeader struct {
	Nx, Ny           uint32
	OriginX, OriginY float64
	CellX, CellY     float64
}

// readChunk is the number of payload values ReadGrid allocates at a time, so
// that a corrupt header can't request more memory than the stream holds.
const readChunk = 1 << 20

// NewGridHeader returns the header corresponding to g. ErrBadHeader is
// returned if g's cell counts don't fit in the header's fields.
func NewGridHeader(g *geom.Grid) (GridHeader, error) {
	if g.Nx < 0 || g.Ny < 0 ||
		uint64(g.Nx) > math.MaxUint32 || uint64(g.Ny) > math.MaxUint32 {
		return GridHeader{}, fmt.Errorf(
			"%w: %d x %d cells can't be stored", ErrBadHeader, g.Nx, g.Ny,
		)
	}

	return GridHeader{
		Nx: uint32(g.Nx), Ny: uint32(g.Ny),
		OriginX: g.Origin[0], OriginY: g.Origin[1],
		CellX: g.Cell[0], CellY: g.Cell[1],
	}, nil
}

// Grid returns the geometry described by hd.
func (hd *GridHeader) Grid() *geom.Grid {
	return &geom.Grid{
		Nx: int(hd.Nx), Ny: int(hd.Ny),
		Origin: [2]float64{hd.OriginX, hd.OriginY},
		Cell: [2]float64{hd.CellX, hd.CellY},
	}
}

// Count returns the number of values in the payload.
func (hd *GridHeader) Count() int { return int(hd.Nx) * int(hd.Ny) }

// WriteGrid writes a header followed by its payload.
func WriteGrid(wr io.Writer, hd *GridHeader, vals []float32) error {
	if hd.Count() != len(vals) {
		return fmt.Errorf(
			"%w: header describes %d x %d cells, but %d values were given",
			ErrBadHeader, hd.Nx, hd.Ny, len(vals),
		)
	}

	if err := binary.Write(wr, end, hd); err != nil { return err }
	return binary.Write(wr, end, vals)
}

// ReadGridHeader reads the header at the start of rd.
func ReadGridHeader(rd io.Reader) (*GridHeader, error) {
	hd := &GridHeader{}
	if err := binary.Read(rd, end, hd); err != nil {
		return nil, fmt.Errorf("reading grid header: %w", err)
	}
	return hd, nil
}

// ReadGrid reads a header and the payload that follows it.
func ReadGrid(rd io.Reader) (*GridHeader, []float32, error) {
	hd, err := ReadGridHeader(rd)
	if err != nil { return nil, nil, err }

	n := hd.Count()
	if n < 0 {
		return nil, nil, fmt.Errorf(
			"%w: %d x %d cells", ErrBadHeader, hd.Nx, hd.Ny,
		)
	}
	vals := make([]float32, 0, min(n, readChunk))
	for len(vals) < n {
		buf := make([]float32, min(n-len(vals), readChunk))
		if err := binary.Read(rd, end, buf); err != nil {
			return nil, nil, fmt.Errorf("reading grid payload: %w", err)
		}
		vals = append(vals, buf...)
	}
	return hd, vals, nil
}

// ReadGridFile reads the grid file at fname, checking that the file is
// exactly as long as its header says.
func ReadGridFile(fname string) (*GridHeader, []float32, error) {
	f, err := os.Open(fname)
	if err != nil { return nil, nil, err }
	defer f.Close()

	info, err := f.Stat()
	if err != nil { return nil, nil, err }

	hd, err := ReadGridHeader(f)
	if err != nil { return nil, nil, fmt.Errorf("%s: %w", fname, err) }

	if size := int64(HeaderSize) + 4*int64(hd.Count()); size != info.Size() {
		return nil, nil, fmt.Errorf(
			"%s: %w: %d x %d cells need %d bytes, file has %d",
			fname, ErrBadHeader, hd.Nx, hd.Ny, size, info.Size(),
		)
	}

	vals := make([]float32, hd.Count())
	if err := binary.Read(bufio.NewReader(f), end, vals); err != nil {
		return nil, nil, fmt.Errorf("%s: reading grid payload: %w", fname, err)
	}
	return hd, vals, nil
}

// WriteGridFile writes a grid to fname. The grid is written to a temporary
// file in the same directory and renamed into place, so fname is never left
// half-written.
func WriteGridFile(fname string, hd *GridHeader, vals []float32) (err error) {
	dir, base := filepath.Split(fname)
	if dir == "" { dir = "." }

	f, err := os.CreateTemp(dir, "."+base+".tmp*")
	if err != nil { return err }
	tmp := f.Name()

	defer func() {
		if err != nil { os.Remove(tmp) }
	}()

	// CreateTemp files are 0600.
	if err = f.Chmod(0644); err != nil {
		f.Close()
		return err
	}

	wr := bufio.NewWriter(f)
	if err = WriteGrid(wr, hd, vals); err != nil {
		f.Close()
		return err
	}
	if err = wr.Flush(); err != nil {
		f.Close()
		return err
	}
	if err = f.Close(); err != nil { return err }

	return os.Rename(tmp, fname)
}
