package export

import (
	"encoding/csv"
	"io"

	"github.com/fwojciec/comprof"
)

// Ensure CSVExporter implements comprof.Exporter at compile time.
var _ comprof.Exporter = (*CSVExporter)(nil)

// CSVExporter writes the run's records with a fixed header: the 22 schema
// fields in canonical order plus a trailing error column for failure rows.
// Absent fields are empty cells.
type CSVExporter struct{}

// NewCSVExporter creates a new CSVExporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Header returns the CSV column names.
func Header() []string {
	fields := comprof.Fields()
	header := make([]string, 0, len(fields)+1)
	for _, fs := range fields {
		header = append(header, string(fs.Name))
	}
	return append(header, "error")
}

// Export writes the header and one row per outcome, in run order.
func (e *CSVExporter) Export(w io.Writer, result *comprof.RunResult) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header()); err != nil {
		return err
	}

	fields := comprof.Fields()
	for _, outcome := range result.Outcomes {
		row := make([]string, 0, len(fields)+1)
		if outcome.Succeeded() {
			for _, fs := range fields {
				v, _ := fieldString(outcome.Record, fs.Name)
				row = append(row, v)
			}
			row = append(row, "")
		} else {
			for _, fs := range fields {
				if fs.Name == comprof.FieldCompanyProfile {
					row = append(row, outcome.Locator)
				} else {
					row = append(row, "")
				}
			}
			row = append(row, outcome.ErrorText())
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
