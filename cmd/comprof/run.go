package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fwojciec/comprof"
	"github.com/fwojciec/comprof/batch"
	"github.com/fwojciec/comprof/export"
	"github.com/pterm/pterm"
)

// Run executes the run command.
func (c *RunCmd) Run(deps *Dependencies) error {
	req, err := ReadInput(c.Input)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", comprof.ErrorMessage(err))
		return err
	}
	if c.ProxyGroup != "" {
		req.ProxyGroup = comprof.ProxyGroup(c.ProxyGroup)
	}

	// Validate formats before doing any work
	formats := c.Format
	if len(formats) == 0 {
		formats = []string{"json"}
	}
	exporters := make(map[string]comprof.Exporter, len(formats))
	for _, format := range formats {
		exporter, err := export.ForFormat(format)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s. Supported formats: %s\n",
				comprof.ErrorMessage(err), strings.Join(export.Formats(), ", "))
			return err
		}
		exporters[format] = exporter
	}

	progress, finish := c.progressFunc(deps, len(req.Locators))

	coordinator := batch.New(deps.Fetcher, deps.Locators, deps.Settings,
		batch.WithProgressFunc(progress))

	result, err := coordinator.Run(deps.Ctx, req)
	finish()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", comprof.ErrorMessage(err))
		return err
	}

	prefix := c.Output
	if prefix == "" {
		prefix = strings.TrimSuffix(c.Input, filepath.Ext(c.Input))
	}
	for _, format := range formats {
		path := prefix + "." + format
		if err := WriteExport(exporters[format], path, result); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", comprof.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "Wrote %s\n", path)
	}

	if !c.NoArchive {
		if err := deps.Runs.SaveRun(deps.Ctx, result); err != nil {
			fmt.Fprintf(deps.Stderr, "error archiving run: %s\n", comprof.ErrorMessage(err))
			return err
		}
	}

	printSummary(deps, result)

	if result.Stats.Canceled {
		return comprof.Errorf(comprof.EINTERNAL, "run %s canceled after %d of %d targets",
			result.ID, result.Stats.Total, len(req.Locators))
	}
	return nil
}

// progressFunc builds the coordinator progress callback: a terminal
// progress bar, or plain counters under --quiet. The returned finish func
// tears the display down.
func (c *RunCmd) progressFunc(deps *Dependencies, total int) (comprof.RunProgressFunc, func()) {
	if c.Quiet {
		return func(event comprof.RunEvent) {
			if event.Type == comprof.RunEventStarted {
				fmt.Fprintf(deps.Stderr, "Processing %d profiles\n", total)
			}
		}, func() {}
	}

	var mu sync.Mutex
	var bar *pterm.ProgressbarPrinter

	progress := func(event comprof.RunEvent) {
		mu.Lock()
		defer mu.Unlock()
		switch event.Type {
		case comprof.RunEventStarted:
			bar, _ = pterm.DefaultProgressbar.
				WithTotal(total).
				WithTitle("Extracting profiles").
				WithWriter(deps.Stderr).
				Start()
		case comprof.RunEventTargetDone:
			if bar != nil {
				bar.Increment()
			}
			if event.Err != nil {
				deps.Logger.Warn("target failed", "locator", event.Locator, "err", event.Err)
			}
		}
	}
	finish := func() {
		mu.Lock()
		defer mu.Unlock()
		if bar != nil {
			_, _ = bar.Stop()
			bar = nil
		}
	}
	return progress, finish
}

// WriteExport writes a run's results to path using the given exporter.
func WriteExport(exporter comprof.Exporter, path string, result *comprof.RunResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	if err := exporter.Export(f, result); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %q: %w", path, err)
	}
	return f.Close()
}

func printSummary(deps *Dependencies, result *comprof.RunResult) {
	fmt.Fprintf(deps.Stdout, "Run %s: %d ok, %d failed (mean completeness %.0f%%)\n",
		result.ID, result.Stats.Succeeded, result.Stats.Failed,
		result.Stats.MeanCompleteness*100)
	for kind, n := range result.Stats.FailuresByKind {
		fmt.Fprintf(deps.Stdout, "  %s: %d\n", kind, n)
	}
}
