package godataset

import (
	"fmt"
	"io"
	"slices"

	"github.com/BrobridgeOrg/go-dataset/plot"
	"github.com/BrobridgeOrg/go-dataset/table"
)

// PlotHistogram draws the distribution of the observed values of a numeric
// column. The title defaults to the column name.
func (d *Dataset) PlotHistogram(w io.Writer, column string, opts ...plot.Option) error {
	idx, err := table.ColumnIndex(d.current, column)
	if err != nil {
		return err
	}

	col := d.current.Column(idx)
	if !table.IsNumeric(col.DataType()) {
		return &table.UnsupportedTypeError{
			Column:    column,
			Type:      col.DataType().String(),
			Operation: "histogram",
		}
	}

	options := plot.Apply(append([]plot.Option{plot.WithTitle(column)}, opts...)...)
	if err := d.config.Plotter.Histogram(w, table.ObservedFloat64s(col.Data()), options); err != nil {
		return fmt.Errorf("failed to plot histogram of %s: %w", column, err)
	}
	return nil
}

// CorrelationOption configures PlotCorrelationMatrix.
type CorrelationOption func(*correlationConfig)

type correlationConfig struct {
	columns  []string
	excluded []string
	plotOpts []plot.Option
}

// WithColumns selects the columns to correlate instead of every numeric
// column.
func WithColumns(columns ...string) CorrelationOption {
	return func(c *correlationConfig) {
		c.columns = columns
	}
}

// WithExcludedColumns leaves columns out of the matrix.
func WithExcludedColumns(columns ...string) CorrelationOption {
	return func(c *correlationConfig) {
		c.excluded = append(c.excluded, columns...)
	}
}

// WithPlotOptions passes rendering options to the plotter.
func WithPlotOptions(opts ...plot.Option) CorrelationOption {
	return func(c *correlationConfig) {
		c.plotOpts = append(c.plotOpts, opts...)
	}
}

// PlotCorrelationMatrix draws the correlation matrix of the selected
// columns as an annotated heatmap.
func (d *Dataset) PlotCorrelationMatrix(w io.Writer, opts ...CorrelationOption) error {
	cfg := correlationConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	for _, name := range slices.Concat(cfg.columns, cfg.excluded) {
		if _, err := table.ColumnIndex(d.current, name); err != nil {
			return err
		}
	}

	columns := cfg.columns
	if columns == nil {
		columns = d.NumericColumns()
	}
	columns = slices.DeleteFunc(slices.Clone(columns), func(name string) bool {
		return slices.Contains(cfg.excluded, name)
	})

	corr, err := table.Correlation(d.current, columns)
	if err != nil {
		return err
	}

	options := plot.Apply(append([]plot.Option{plot.WithTitle("Correlation matrix")}, cfg.plotOpts...)...)
	if err := d.config.Plotter.Heatmap(w, corr.Columns, corr.Values, options); err != nil {
		return fmt.Errorf("failed to plot correlation matrix: %w", err)
	}
	return nil
}
