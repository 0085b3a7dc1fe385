package main

import (
	"fmt"

	"github.com/fwojciec/comprof"
)

// Run executes the runs command.
func (c *RunsCmd) Run(deps *Dependencies) error {
	runs, err := deps.Runs.FindRuns(deps.Ctx, comprof.RunFilter{
		Limit:  c.Limit,
		Offset: c.Offset,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", comprof.ErrorMessage(err))
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No archived runs. Use 'comprof run' to start one.")
		return nil
	}

	for _, r := range runs {
		status := ""
		if r.Stats.Canceled {
			status = "  (canceled)"
		}
		fmt.Fprintf(deps.Stdout, "%s  %s  %d ok / %d failed%s\n",
			r.ID, r.StartedAt.Format("2006-01-02 15:04"),
			r.Stats.Succeeded, r.Stats.Failed, status)
	}

	return nil
}
