package preview

import (
	"fmt"

	plt "github.com/phil-mansfield/pyplot"

	"github.com/phil-mansfield/gridconv/geom"
)

// Transect returns the x centers and values of row j of a row-major grid.
func Transect(g *geom.Grid, vals []float32, j int) (xs, zs []float64) {
	xs, zs = make([]float64, g.Nx), make([]float64, g.Nx)
	for i := 0; i < g.Nx; i++ {
		xs[i], _ = g.Center(i, j)
		zs[i] = float64(vals[g.Idx(i, j)])
	}
	return xs, zs
}

// PlotTransect plots row j of the grid to fname. A negative j selects the
// middle row. The plot is only rendered once plt.Execute is called.
func PlotTransect(
	g *geom.Grid, vals []float32, j int, title, fname string,
) error {
	if j < 0 { j = g.Ny / 2 }
	if j >= g.Ny {
		return fmt.Errorf(
			"Preview row %d is outside the grid, which has %d rows.", j, g.Ny,
		)
	}

	xs, zs := Transect(g, vals, j)
	for i := range xs { xs[i] /= 1000 } // m -> km
	_, y := g.Center(0, j)

	plt.Figure(plt.FigSize(10, 4))
	plt.Plot(xs, zs, "k", plt.LW(2))
	plt.Plot([]float64{xs[0], xs[len(xs)-1]}, []float64{0, 0}, "b")

	plt.Title(fmt.Sprintf("%s: y = %.1f km (row %d)", title, y/1000, j))
	plt.XLabel(`$x$ [km]`, plt.FontSize(16))
	plt.YLabel(`$z$ [m]`, plt.FontSize(16))
	plt.XLim(xs[0], xs[len(xs)-1])
	plt.Grid(plt.Axis("y"))
	plt.SaveFig(fname)

	return nil
}

// Render executes all pending plots.
func Render() { plt.Execute() }
