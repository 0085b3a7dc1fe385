package mock

import (
	"io"

	"github.com/fwojciec/comprof"
)

var _ comprof.Exporter = (*Exporter)(nil)

// Exporter is a mock implementation of comprof.Exporter.
type Exporter struct {
	ExportFn func(w io.Writer, result *comprof.RunResult) error
}

func (e *Exporter) Export(w io.Writer, result *comprof.RunResult) error {
	return e.ExportFn(w, result)
}
