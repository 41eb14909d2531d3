package plot

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"strconv"

	"gonum.org/v1/gonum/mat"
	gplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
)

// matrixGrid adapts a square matrix to plotter.GridXYZ. Row 0 is drawn at
// the top.
type matrixGrid struct {
	m mat.Matrix
}

func (g matrixGrid) Dims() (c, r int) {
	r, c = g.m.Dims()
	return c, r
}

func (g matrixGrid) Z(c, r int) float64 {
	rows, _ := g.m.Dims()
	return g.m.At(rows-1-r, c)
}

func (g matrixGrid) X(c int) float64 { return float64(c) }

func (g matrixGrid) Y(r int) float64 { return float64(r) }

// Heatmap draws m as a grid of cells colored on a -1..1 scale, each cell
// annotated with its value. NaN cells are drawn grey.
func (p *ChartPlotter) Heatmap(w io.Writer, labels []string, m mat.Matrix, opts Options) error {
	if err := opts.validate(); err != nil {
		return err
	}

	rows, cols := m.Dims()
	if rows == 0 || cols == 0 {
		return ErrNoData
	}
	if rows != cols || len(labels) != rows {
		return fmt.Errorf("%w: %d labels for a %dx%d matrix", ErrInvalidOptions, len(labels), rows, cols)
	}

	grid := matrixGrid{m: m}
	hm := plotter.NewHeatMap(grid, palette.Heat(12, 1))
	hm.Min, hm.Max = -1, 1
	hm.NaN = color.Gray{Y: 200}

	annotations := plotter.XYLabels{
		XYs:    make(plotter.XYs, 0, rows*cols),
		Labels: make([]string, 0, rows*cols),
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			v := grid.Z(c, r)
			label := "NaN"
			if !math.IsNaN(v) {
				label = strconv.FormatFloat(v, 'f', 2, 64)
			}
			annotations.XYs = append(annotations.XYs, plotter.XY{X: grid.X(c), Y: grid.Y(r)})
			annotations.Labels = append(annotations.Labels, label)
		}
	}
	values, err := plotter.NewLabels(annotations)
	if err != nil {
		return fmt.Errorf("failed to create labels: %w", err)
	}
	for i := range values.TextStyle {
		values.TextStyle[i].XAlign = text.XCenter
		values.TextStyle[i].YAlign = text.YCenter
	}

	xTicks := make([]gplot.Tick, cols)
	yTicks := make([]gplot.Tick, rows)
	for i, name := range labels {
		xTicks[i] = gplot.Tick{Value: float64(i), Label: name}
		yTicks[rows-1-i] = gplot.Tick{Value: float64(rows - 1 - i), Label: name}
	}

	pl := gplot.New()
	pl.Title.Text = opts.Title
	pl.Add(hm, values)
	pl.X.Tick.Marker = gplot.ConstantTicks(xTicks)
	pl.Y.Tick.Marker = gplot.ConstantTicks(yTicks)
	pl.X.Tick.Label.Rotation = math.Pi / 4
	pl.X.Tick.Label.XAlign = text.XRight

	wt, err := pl.WriterTo(pixels(opts.Width), pixels(opts.Height), "png")
	if err != nil {
		return fmt.Errorf("failed to render heatmap: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write heatmap: %w", err)
	}
	return nil
}

// pixels converts a pixel count to a length at the PNG backend's 96 DPI.
func pixels(n int) vg.Length {
	return vg.Length(n) * vg.Inch / 96
}
