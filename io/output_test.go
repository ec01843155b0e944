package io

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/gridconv/geom"
)

func TestHeaderSize(t *testing.T) {
	assert.Equal(t, HeaderSize, binary.Size(GridHeader{}))
}

func TestWriteGridLayout(t *testing.T) {
	hd := &GridHeader{2, 1, -500e3, -450e3, 2000, 1500}
	buf := &bytes.Buffer{}
	require.NoError(t, WriteGrid(buf, hd, []float32{-3.5, 12}))

	b := buf.Bytes()
	require.Len(t, b, HeaderSize+2*4)

	le := binary.LittleEndian
	assert.Equal(t, uint32(2), le.Uint32(b[0:]))
	assert.Equal(t, uint32(1), le.Uint32(b[4:]))
	assert.Equal(t, -500e3, math.Float64frombits(le.Uint64(b[8:])))
	assert.Equal(t, -450e3, math.Float64frombits(le.Uint64(b[16:])))
	assert.Equal(t, 2000.0, math.Float64frombits(le.Uint64(b[24:])))
	assert.Equal(t, 1500.0, math.Float64frombits(le.Uint64(b[32:])))
	assert.Equal(t, float32(-3.5), math.Float32frombits(le.Uint32(b[40:])))
	assert.Equal(t, float32(12), math.Float32frombits(le.Uint32(b[44:])))
}

func TestGridRoundTrip(t *testing.T) {
	g := geom.NewGrid(3, 2, [2]float64{-1234.5, 6789.25}, 3*0.1, 2*1e5)
	hd, err := NewGridHeader(g)
	require.NoError(t, err)
	vals := []float32{1, -2, 3.25, 0, 5e10, -6}

	buf := &bytes.Buffer{}
	require.NoError(t, WriteGrid(buf, &hd, vals))

	hd2, vals2, err := ReadGrid(buf)
	require.NoError(t, err)
	assert.Equal(t, hd, *hd2)
	assert.Equal(t, vals, vals2)
	assert.Equal(t, g, hd2.Grid())
}

func TestWriteGridCountMismatch(t *testing.T) {
	hd := &GridHeader{Nx: 3, Ny: 3}
	err := WriteGrid(&bytes.Buffer{}, hd, make([]float32, 8))
	assert.True(t, errors.Is(err, ErrBadHeader))
}

func TestGridFileRoundTrip(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "bath.bin")
	hd := &GridHeader{4, 2, 0, 0, 1, 1}
	vals := []float32{1, 2, 3, 4, 5, 6, 7, 8}

	require.NoError(t, WriteGridFile(fname, hd, vals))

	info, err := os.Stat(fname)
	require.NoError(t, err)
	assert.Equal(t, int64(HeaderSize+4*8), info.Size())
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())

	hd2, vals2, err := ReadGridFile(fname)
	require.NoError(t, err)
	assert.Equal(t, hd, hd2)
	assert.Equal(t, vals, vals2)
}

func TestWriteGridFileFailureLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	fname := filepath.Join(dir, "bath.bin")

	err := WriteGridFile(fname, &GridHeader{Nx: 2, Ny: 2}, make([]float32, 3))
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestReadGridFileTruncated(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "bath.bin")
	buf := &bytes.Buffer{}
	require.NoError(t, WriteGrid(buf, &GridHeader{2, 2, 0, 0, 1, 1}, make([]float32, 4)))
	require.NoError(t, os.WriteFile(fname, buf.Bytes()[:buf.Len()-4], 0644))

	_, _, err := ReadGridFile(fname)
	assert.True(t, errors.Is(err, ErrBadHeader))
}

func TestNewGridHeaderOverflow(t *testing.T) {
	g := &geom.Grid{Nx: math.MaxUint32 + 1, Ny: 1, Cell: [2]float64{1, 1}}
	_, err := NewGridHeader(g)
	assert.True(t, errors.Is(err, ErrBadHeader))

	g.Nx, g.Ny = 1, math.MaxUint32+1
	_, err = NewGridHeader(g)
	assert.True(t, errors.Is(err, ErrBadHeader))

	g.Nx, g.Ny = math.MaxUint32, 1
	hd, err := NewGridHeader(g)
	require.NoError(t, err)
	assert.Equal(t, uint32(math.MaxUint32), hd.Nx)
}

func TestReadGridLyingHeader(t *testing.T) {
	buf := &bytes.Buffer{}
	hd := &GridHeader{math.MaxUint32, 16, 0, 0, 1, 1}
	require.NoError(t, binary.Write(buf, binary.LittleEndian, hd))
	require.NoError(t, binary.Write(buf, binary.LittleEndian, make([]float32, 16)))

	_, _, err := ReadGrid(buf)
	assert.Error(t, err)

	// Payloads longer than one chunk are read completely.
	n := readChunk + 3
	vals := make([]float32, n)
	for i := range vals { vals[i] = float32(i % 1000) }
	hd = &GridHeader{uint32(n), 1, 0, 0, 1, 1}

	buf.Reset()
	require.NoError(t, WriteGrid(buf, hd, vals))
	_, vals2, err := ReadGrid(buf)
	require.NoError(t, err)
	assert.Equal(t, vals, vals2)
}
