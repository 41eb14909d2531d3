package godataset

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/BrobridgeOrg/go-dataset/table"
)

// Info returns the shape, column types and non-missing counts.
func (d *Dataset) Info() *table.Info {
	return table.InfoOf(d.current)
}

// PrintInfo sends Info to the report sink.
func (d *Dataset) PrintInfo() error {
	return d.config.ReportSink.ReportInfo(d.Info())
}

// Head returns the first n rows. The caller must release the result.
func (d *Dataset) Head(n int64) arrow.Table {
	return table.Head(d.current, n)
}

// Describe summarizes the numeric columns.
func (d *Dataset) Describe() ([]table.Summary, error) {
	summaries := table.Describe(d.current)
	if len(summaries) == 0 {
		return nil, fmt.Errorf("%w: no numeric columns", ErrNoColumns)
	}
	return summaries, nil
}

// NumericColumns returns the names of integer and floating point columns.
func (d *Dataset) NumericColumns() []string {
	return table.NumericColumns(d.current)
}

// CategoricalColumns returns the names of string, boolean and dictionary
// columns.
func (d *Dataset) CategoricalColumns() []string {
	return table.CategoricalColumns(d.current)
}

// Correlation computes Pearson coefficients between the named columns, or
// between all numeric columns when none are named.
func (d *Dataset) Correlation(columns ...string) (*table.CorrelationMatrix, error) {
	if len(columns) == 0 {
		columns = d.NumericColumns()
	}
	return table.Correlation(d.current, columns)
}
