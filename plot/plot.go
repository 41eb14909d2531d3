// Package plot renders dataset charts as PNG images.
//
// Histograms are drawn with go-chart and correlation heatmaps with
// gonum/plot. Both write the encoded image to an io.Writer.
package plot

import (
	"errors"
	"io"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrNoData is returned when there is nothing to draw.
	ErrNoData = errors.New("no data to plot")

	// ErrInvalidOptions is returned for non-positive sizes or bin counts.
	ErrInvalidOptions = errors.New("invalid plot options")
)

// Default image size in pixels and histogram bin count.
const (
	DefaultWidth  = 640
	DefaultHeight = 480
	DefaultBins   = 10
)

// Options control how a chart is drawn.
type Options struct {
	Title  string
	Width  int // pixels
	Height int // pixels
	Bins   int
}

// Option is a functional option for chart rendering.
type Option func(*Options)

// WithTitle sets the chart title.
func WithTitle(title string) Option {
	return func(o *Options) {
		o.Title = title
	}
}

// WithSize sets the image size in pixels.
func WithSize(width, height int) Option {
	return func(o *Options) {
		o.Width = width
		o.Height = height
	}
}

// WithBins sets the number of histogram bins.
func WithBins(n int) Option {
	return func(o *Options) {
		o.Bins = n
	}
}

// DefaultOptions returns Options with default values.
func DefaultOptions() Options {
	return Options{
		Width:  DefaultWidth,
		Height: DefaultHeight,
		Bins:   DefaultBins,
	}
}

// Apply returns the default options with opts applied in order.
func Apply(opts ...Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o Options) validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return errors.Join(ErrInvalidOptions, errors.New("size must be positive"))
	}
	if o.Bins <= 0 {
		return errors.Join(ErrInvalidOptions, errors.New("bins must be positive"))
	}
	return nil
}

// Plotter draws dataset charts.
type Plotter interface {
	// Histogram draws the distribution of values.
	Histogram(w io.Writer, values []float64, opts Options) error

	// Heatmap draws a square matrix with one label per row and column.
	Heatmap(w io.Writer, labels []string, m mat.Matrix, opts Options) error
}
