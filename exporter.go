package comprof

import "io"

// Exporter writes a run's results to an output stream. Successful targets
// are written as full records; failed targets as skeleton rows carrying the
// profile URL and the terminal error.
type Exporter interface {
	Export(w io.Writer, result *RunResult) error
}
