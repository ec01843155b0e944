// Package preview summarizes and plots converted grids so that a conversion
// can be sanity checked before it is handed to the simulation.
package preview

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Stats summarizes the values of a grid.
type Stats struct {
	Min, Max, Mean float64
	// Zeros counts cells which are exactly zero, i.e. which have no data.
	Zeros int
	// Land counts cells above sea level.
	Land int
}

// NewStats computes the statistics of vals.
func NewStats(vals []float32) Stats {
	if len(vals) == 0 {
		return Stats{Min: math.NaN(), Max: math.NaN(), Mean: math.NaN()}
	}

	xs := make([]float64, len(vals))
	st := Stats{}
	for i, v := range vals {
		xs[i] = float64(v)
		if v == 0 {
			st.Zeros++
		} else if v > 0 {
			st.Land++
		}
	}

	st.Min, st.Max = floats.Min(xs), floats.Max(xs)
	st.Mean = floats.Sum(xs) / float64(len(xs))
	return st
}
