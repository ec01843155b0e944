package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/phil-mansfield/gridconv"
	"github.com/phil-mansfield/gridconv/geom"
	"github.com/phil-mansfield/gridconv/io"
	"github.com/phil-mansfield/gridconv/preview"
)

// convertGrid runs a single conversion: read, resample, write. Nothing is
// written if any stage fails.
func convertGrid(log *zap.Logger, con *io.GridConfig) (*gridconv.Result, error) {
	log.Info("Processing",
		zap.String("grid", con.Name),
		zap.String("input", con.Input), zap.String("output", con.Output),
	)

	src, err := io.ReadSource(con.Input)
	if err != nil { return nil, fmt.Errorf("reading source: %w", err) }

	sg := src.Grid()
	log.Debug("Source grid",
		zap.Int("nx", sg.Nx), zap.Int("ny", sg.Ny),
		zap.Float64("dx", sg.Cell[0]), zap.Float64("dy", sg.Cell[1]),
		zap.Stringer("bounds", sg.Bounds()),
	)

	res, err := gridconv.Resample(src, con.TargetSpec())
	if err != nil { return nil, fmt.Errorf("%s: %w", con.Input, err) }

	g, sum := &res.Grid, res.Summary()
	log.Info("Grid configuration",
		zap.Float64("x_min", sum.XMin), zap.Float64("x_max", sum.XMax),
		zap.Float64("y_min", sum.YMin), zap.Float64("y_max", sum.YMax),
		zap.String("cell", fmt.Sprintf(
			"(%.2f, %.2f) km", g.Cell[0]/1000, g.Cell[1]/1000)),
		zap.String("dimensions", fmt.Sprintf("%d x %d cells", g.Nx, g.Ny)),
	)
	if res.ZeroFilled > 0 {
		log.Debug("Target cells outside source domain were zero-filled",
			zap.Int("cells", res.ZeroFilled), zap.Int("total", g.Len()),
		)
	}

	hd, err := io.NewGridHeader(g)
	if err != nil { return nil, fmt.Errorf("%s: %w", con.Output, err) }
	if err := io.WriteGridFile(con.Output, &hd, res.Vals); err != nil {
		return nil, fmt.Errorf("writing output %s: %w", con.Output, err)
	}

	st := preview.NewStats(res.Vals)
	log.Info("Wrote grid",
		zap.String("output", con.Output),
		zap.Float64("min", st.Min), zap.Float64("max", st.Max),
		zap.Float64("mean", st.Mean), zap.Int("no_data", st.Zeros),
	)

	return res, nil
}

// convertScenario converts a scenario's grids in order and checks that the
// displacement lies inside the bathymetry, which the simulation requires.
func convertScenario(log *zap.Logger, s *io.Scenario) ([]*gridconv.Result, error) {
	log.Info("Scenario", zap.String("name", s.Name),
		zap.String("description", s.Description))

	grids := s.Grids()
	out := make([]*gridconv.Result, len(grids))
	for i, con := range grids {
		res, err := convertGrid(log, con)
		if err != nil { return nil, err }
		out[i] = res
	}

	if len(out) == 2 {
		checkOverlap(log, out[0].Grid.Bounds(), out[1].Grid.Bounds())
	}

	return out, nil
}

// checkOverlap logs an error if the displacement misses the bathymetry
// entirely and a warning if it only partly overlaps it.
func checkOverlap(log *zap.Logger, bath, displ geom.Bounds) {
	fields := []zap.Field{
		zap.Stringer("bathymetry", bath), zap.Stringer("displacement", displ),
	}
	switch {
	case !bath.Intersect(displ):
		log.Error("Displacement domain does not overlap bathymetry domain",
			fields...)
	case !bath.Contains(displ):
		log.Warn("Displacement domain extends past bathymetry domain",
			fields...)
	}
}
