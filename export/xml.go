package export

import (
	"io"

	"github.com/beevik/etree"
	"github.com/fwojciec/comprof"
)

// Ensure XMLExporter implements comprof.Exporter at compile time.
var _ comprof.Exporter = (*XMLExporter)(nil)

// XMLExporter writes the run's records as a <companies> tree with one
// <company> element per outcome. Absent fields are empty elements.
type XMLExporter struct{}

// NewXMLExporter creates a new XMLExporter.
func NewXMLExporter() *XMLExporter {
	return &XMLExporter{}
}

// Export writes the XML document, in run order.
func (e *XMLExporter) Export(w io.Writer, result *comprof.RunResult) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("companies")

	fields := comprof.Fields()
	for _, outcome := range result.Outcomes {
		company := root.CreateElement("company")
		if outcome.Succeeded() {
			for _, fs := range fields {
				el := company.CreateElement(string(fs.Name))
				if v, ok := fieldString(outcome.Record, fs.Name); ok {
					el.SetText(v)
				}
			}
			continue
		}
		company.CreateElement(string(comprof.FieldCompanyProfile)).SetText(outcome.Locator)
		company.CreateElement("error").SetText(outcome.ErrorText())
	}

	doc.Indent(2)
	_, err := doc.WriteTo(w)
	return err
}
