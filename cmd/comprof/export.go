package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/comprof"
	"github.com/fwojciec/comprof/export"
)

// Run executes the export command.
func (c *ExportCmd) Run(deps *Dependencies) error {
	exporter, err := export.ForFormat(c.Format)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s. Supported formats: %s\n",
			comprof.ErrorMessage(err), strings.Join(export.Formats(), ", "))
		return err
	}

	result, err := deps.Runs.FindRunByID(deps.Ctx, c.ID)
	if err != nil {
		if comprof.ErrorCode(err) == comprof.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: run %q not found. Use 'comprof runs' to list archived runs.\n", c.ID)
		} else {
			fmt.Fprintf(deps.Stderr, "error: %s\n", comprof.ErrorMessage(err))
		}
		return err
	}

	if c.Output == "" {
		return exporter.Export(deps.Stdout, result)
	}

	if err := WriteExport(exporter, c.Output, result); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", comprof.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Wrote %s\n", c.Output)
	return nil
}
