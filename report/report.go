// Package report renders dataset diagnostics for people to read.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/BrobridgeOrg/go-dataset/table"
)

// Sink receives diagnostics produced by a dataset.
type Sink interface {
	// ReportNaNStatistics receives the columns with missing values, ordered
	// by descending missing fraction, and the columns recommended for
	// deletion.
	ReportNaNStatistics(stats []table.ColumnStat, flagged []string) error

	// ReportInfo receives the shape and column types of a table.
	ReportInfo(info *table.Info) error
}

// TextSink writes plain text tables.
type TextSink struct {
	out io.Writer
}

// NewTextSink creates a sink writing to out.
func NewTextSink(out io.Writer) *TextSink {
	return &TextSink{out: out}
}

func (s *TextSink) newTable(header ...string) *tablewriter.Table {
	t := tablewriter.NewWriter(s.out)
	t.SetHeader(header)
	t.SetAutoFormatHeaders(false)
	t.SetAutoWrapText(false)
	return t
}

// ReportNaNStatistics writes one row per column and then the deletion
// recommendation.
func (s *TextSink) ReportNaNStatistics(stats []table.ColumnStat, flagged []string) error {
	if len(stats) > 0 {
		t := s.newTable("Column", "Null count", "Null fraction")
		for _, st := range stats {
			t.Append([]string{
				st.Name,
				strconv.FormatInt(st.NullCount, 10),
				strconv.FormatFloat(st.NullFraction, 'f', 4, 64),
			})
		}
		t.Render()
	}

	_, err := fmt.Fprintf(s.out, "Recommended to delete following columns: %v\n", flagged)
	return err
}

// ReportInfo writes the table shape followed by one row per column.
func (s *TextSink) ReportInfo(info *table.Info) error {
	if _, err := fmt.Fprintf(s.out, "%d rows x %d columns\n", info.Rows, len(info.Columns)); err != nil {
		return err
	}

	t := s.newTable("#", "Column", "Non-null", "Type")
	for i, c := range info.Columns {
		t.Append([]string{
			strconv.Itoa(i),
			c.Name,
			strconv.FormatInt(c.NonNull, 10),
			c.Type.String(),
		})
	}
	t.Render()
	return nil
}

// Discard is a Sink that drops everything.
var Discard Sink = discard{}

type discard struct{}

func (discard) ReportNaNStatistics([]table.ColumnStat, []string) error { return nil }

func (discard) ReportInfo(*table.Info) error { return nil }
