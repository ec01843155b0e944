package io

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ctessum/cdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/gridconv"
)

type ncVar struct {
	name string
	dims []string
	vals interface{}
}

// writeNetCDF writes a NetCDF classic file with the given dimensions and
// variables.
func writeNetCDF(
	t *testing.T, fname string, dims []string, lengths []int, vars []ncVar,
) {
	h := cdf.NewHeader(dims, lengths)
	for _, v := range vars {
		var zero interface{}
		switch v.vals.(type) {
		case []float64:
			zero = float64(0)
		case []float32:
			zero = float32(0)
		case []int32:
			zero = int32(0)
		case []int16:
			zero = int16(0)
		case []int8:
			zero = int8(0)
		case string:
			zero = ""
		default:
			t.Fatalf("unsupported fixture type %T", v.vals)
		}
		h.AddVariable(v.name, v.dims, zero)
	}
	h.Define()

	ff, err := os.Create(fname)
	require.NoError(t, err)
	defer ff.Close()

	f, err := cdf.Create(ff, h)
	require.NoError(t, err)

	for _, v := range vars {
		w := f.Writer(v.name, nil, nil)
		_, err := w.Write(v.vals)
		require.NoError(t, err)
	}
}

func TestNetCDFReader(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "bath.nc")
	writeNetCDF(t, fname, []string{"y", "x"}, []int{2, 4}, []ncVar{
		{"x", []string{"x"}, []float64{0.5, 1.5, 2.5, 3.5}},
		{"y", []string{"y"}, []float64{0.5, 1.5}},
		{"z", []string{"y", "x"}, []float32{1, 2, 3, 4, 5, 6, 7, 8}},
	})

	src, err := NetCDFReader{}.ReadSource(fname)
	require.NoError(t, err)

	assert.Equal(t, []float64{0.5, 1.5, 2.5, 3.5}, src.X)
	assert.Equal(t, []float64{0.5, 1.5}, src.Y)
	assert.Equal(t, []int{2, 4}, src.Z.Shape)
	assert.Equal(t, 3.0, src.At(2, 0))
	assert.Equal(t, 5.0, src.At(0, 1))

	res, err := gridconv.Resample(src, &gridconv.TargetSpec{
		Nx: gridconv.Int(2), Width: gridconv.Float(4),
	})
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 3, 5, 7}, res.Vals)
}

func TestNetCDFReaderLonLat(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "displ.nc")
	writeNetCDF(t, fname, []string{"lat", "lon"}, []int{2, 3}, []ncVar{
		{"lon", []string{"lon"}, []float64{1, 2, 3}},
		{"lat", []string{"lat"}, []float64{-1, 0}},
		{"elevation", []string{"lat", "lon"}, []int16{-10, -20, -30, 4, 5, 6}},
	})

	src, err := NetCDFReader{}.ReadSource(fname)
	require.NoError(t, err)

	assert.Equal(t, []float64{
		MetersPerDegree, 2 * MetersPerDegree, 3 * MetersPerDegree,
	}, src.X)
	assert.Equal(t, []float64{-MetersPerDegree, 0}, src.Y)
	assert.Equal(t, [2]float64{MetersPerDegree, MetersPerDegree}, src.Grid().Cell)
	assert.Equal(t, -30.0, src.At(2, 0))
	assert.Equal(t, 4.0, src.At(0, 1))
}

func TestNetCDFReaderNames(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "custom.nc")
	writeNetCDF(t, fname, []string{"northing", "easting"}, []int{2, 2}, []ncVar{
		{"easting", []string{"easting"}, []float64{10, 20}},
		{"northing", []string{"northing"}, []float64{10, 20}},
		{"depth", []string{"northing", "easting"}, []float64{1, 2, 3, 4}},
	})

	r := NetCDFReader{Names: &VarNames{"easting", "northing", "depth"}}
	src, err := r.ReadSource(fname)
	require.NoError(t, err)
	assert.Equal(t, [2]float64{5, 5}, src.Grid().Origin)
}

func TestNetCDFReaderMissingField(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "bad.nc")
	writeNetCDF(t, fname, []string{"y", "x"}, []int{2, 2}, []ncVar{
		{"x", []string{"x"}, []float64{0, 1}},
		{"y", []string{"y"}, []float64{0, 1}},
	})

	_, err := NetCDFReader{}.ReadSource(fname)
	assert.True(t, errors.Is(err, gridconv.ErrMissingVariable), "err = %v", err)
	assert.Contains(t, err.Error(), fname)
}

func TestNetCDFReaderMissingFile(t *testing.T) {
	_, err := NetCDFReader{}.ReadSource(filepath.Join(t.TempDir(), "none.nc"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestNetCDFReaderIntegerTypes(t *testing.T) {
	table := []interface{}{
		[]int32{1, -2, 3, 100000},
		[]int8{1, -2, 3, 100},
	}
	expected := [][]float64{{1, -2, 3, 100000}, {1, -2, 3, 100}}

	for i, z := range table {
		fname := filepath.Join(t.TempDir(), "int.nc")
		writeNetCDF(t, fname, []string{"y", "x"}, []int{2, 2}, []ncVar{
			{"x", []string{"x"}, []float64{0, 1}},
			{"y", []string{"y"}, []float64{0, 1}},
			{"z", []string{"y", "x"}, z},
		})

		src, err := NetCDFReader{}.ReadSource(fname)
		require.NoError(t, err, "%d) %T", i, z)
		assert.Equal(t, expected[i], src.Z.Elements, "%d) %T", i, z)
	}
}

func TestNetCDFReaderNonNumeric(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "char.nc")
	writeNetCDF(t, fname, []string{"y", "x"}, []int{2, 2}, []ncVar{
		{"x", []string{"x"}, []float64{0, 1}},
		{"y", []string{"y"}, []float64{0, 1}},
		{"z", []string{"y", "x"}, "abcd"},
	})

	_, err := NetCDFReader{}.ReadSource(fname)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'z'")
}
