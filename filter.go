package godataset

import (
	"github.com/BrobridgeOrg/go-dataset/table"
)

// Filter keeps the rows matching expr.
func (d *Dataset) Filter(expr *table.Expression) error {
	filtered, err := table.Filter(d.current, expr, d.config.Allocator)
	if err != nil {
		return err
	}

	before := d.current.NumRows()
	d.replaceCurrent(filtered)

	d.logger.Debug("rows filtered",
		"filter", expr.String(),
		"rows", filtered.NumRows(),
		"removed", before-filtered.NumRows(),
	)
	return nil
}

// DropMissingRows removes the rows with a missing value in any of the named
// columns, or in any column when none are named.
func (d *Dataset) DropMissingRows(columns ...string) error {
	if len(columns) == 0 {
		columns = table.ColumnNames(d.current)
	}
	return d.Filter(table.NoneMissing(columns...))
}
