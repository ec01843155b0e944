package io

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/phil-mansfield/gridconv"
)

// ReaderFor returns a SourceReader for fname based on its extension.
func ReaderFor(fname string) (gridconv.SourceReader, error) {
	switch strings.ToLower(filepath.Ext(fname)) {
	case ".nc", ".cdf", ".grd":
		return NetCDFReader{}, nil
	case ".xyz", ".txt", ".dat":
		return TableReader{}, nil
	}
	return nil, fmt.Errorf(
		"Unrecognized source format for '%s'. Supported extensions are " +
			".nc, .cdf, .grd, .xyz, .txt, and .dat.", fname,
	)
}

// ReadSource reads fname with the reader chosen by ReaderFor.
func ReadSource(fname string) (*gridconv.Source, error) {
	r, err := ReaderFor(fname)
	if err != nil { return nil, err }
	return r.ReadSource(fname)
}
