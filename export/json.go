package export

import (
	"encoding/json"
	"io"

	"github.com/fwojciec/comprof"
)

// Ensure JSONExporter implements comprof.Exporter at compile time.
var _ comprof.Exporter = (*JSONExporter)(nil)

// JSONExporter writes the run's records as an indented JSON array. Absent
// fields are emitted as null, never as placeholder strings.
type JSONExporter struct{}

// NewJSONExporter creates a new JSONExporter.
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

// failureRow is the skeleton emitted for a failed target.
type failureRow struct {
	CompanyName    *string `json:"company_name"`
	CompanyProfile string  `json:"company_profile"`
	Error          string  `json:"error"`
}

// Export writes one JSON array element per outcome, in run order.
func (e *JSONExporter) Export(w io.Writer, result *comprof.RunResult) error {
	rows := make([]any, 0, len(result.Outcomes))
	for _, outcome := range result.Outcomes {
		if outcome.Succeeded() {
			rows = append(rows, outcome.Record)
			continue
		}
		rows = append(rows, failureRow{
			CompanyProfile: outcome.Locator,
			Error:          outcome.ErrorText(),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(rows)
}
