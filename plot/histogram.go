package plot

import (
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"

	"github.com/wcharczuk/go-chart/v2"
)

// Bin is one histogram bucket covering [Lower, Upper). The last bin also
// includes its upper edge.
type Bin struct {
	Lower float64
	Upper float64
	Count int
}

// Bins splits values into n equal-width bins between their minimum and
// maximum. NaN values are skipped.
func Bins(values []float64, n int) []Bin {
	observed := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			observed = append(observed, v)
		}
	}
	if len(observed) == 0 || n <= 0 {
		return nil
	}

	lo, hi := slices.Min(observed), slices.Max(observed)
	if lo == hi {
		// a single value gets one unit-wide bin centered on it
		return []Bin{{Lower: lo - 0.5, Upper: hi + 0.5, Count: len(observed)}}
	}

	width := (hi - lo) / float64(n)
	bins := make([]Bin, n)
	for i := range bins {
		bins[i].Lower = lo + float64(i)*width
		bins[i].Upper = lo + float64(i+1)*width
	}
	bins[n-1].Upper = hi

	for _, v := range observed {
		i := int((v - lo) / width)
		if i >= n {
			i = n - 1
		}
		bins[i].Count++
	}
	return bins
}

// ChartPlotter is the default Plotter.
type ChartPlotter struct{}

// NewChartPlotter creates a Plotter rendering PNG images.
func NewChartPlotter() *ChartPlotter {
	return &ChartPlotter{}
}

// Histogram draws values as a bar chart of equal-width bins.
func (p *ChartPlotter) Histogram(w io.Writer, values []float64, opts Options) error {
	if err := opts.validate(); err != nil {
		return err
	}

	bins := Bins(values, opts.Bins)
	if len(bins) == 0 {
		return ErrNoData
	}

	bars := make([]chart.Value, len(bins))
	maxCount := 0
	for i, b := range bins {
		bars[i] = chart.Value{
			Label: strconv.FormatFloat(b.Lower, 'g', 4, 64),
			Value: float64(b.Count),
		}
		maxCount = max(maxCount, b.Count)
	}

	barWidth := max(4, opts.Width/(2*len(bars)+2))
	graph := chart.BarChart{
		Title:      opts.Title,
		Width:      opts.Width,
		Height:     opts.Height,
		BarWidth:   barWidth,
		BarSpacing: barWidth / 2,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10}},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: float64(maxCount)},
		},
		Bars: bars,
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render histogram: %w", err)
	}
	return nil
}
