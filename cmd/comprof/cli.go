package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/comprof"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *slog.Logger
	Runs     comprof.RunService
	Fetcher  comprof.Fetcher
	Locators []comprof.Locator
	Settings comprof.Settings
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	LogLevel  string `help:"Log level (debug|info|warn|error)" default:"warn"`
	LogFormat string `help:"Log format (text|json)" default:"text"`

	Run    RunCmd    `cmd:"" help:"Extract company profiles for a batch of URLs"`
	Runs   RunsCmd   `cmd:"" help:"List archived runs"`
	Export ExportCmd `cmd:"" help:"Re-export an archived run"`
}

// RunCmd is the "run" subcommand.
type RunCmd struct {
	Input string `arg:"" help:"Input JSON file with company profile URLs"`

	Concurrency int           `short:"c" help:"Worker pool size"`
	RPM         int           `name:"rpm" help:"Aggregate requests per minute"`
	Retries     int           `help:"Fetch attempts per target"`
	Timeout     time.Duration `help:"Per-fetch timeout"`
	ProxyGroup  string        `help:"Proxy group from the settings file"`
	Format      []string      `short:"f" help:"Output format: json, csv or xml (repeatable)"`
	Output      string        `short:"o" help:"Output path prefix (default: input file name)"`
	Settings    string        `short:"s" help:"Settings YAML path"`
	Browser     bool          `help:"Fetch with a headless browser instead of plain HTTP"`
	Extractor   string        `default:"trafilatura" enum:"trafilatura,readability" help:"Main-content extractor"`
	NoArchive   bool          `help:"Skip saving the run to the archive"`
	Quiet       bool          `short:"q" help:"Suppress the progress display"`
}

// RunsCmd is the "runs" subcommand.
type RunsCmd struct {
	Limit  int `help:"Maximum number of runs to list"`
	Offset int `help:"Number of runs to skip"`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	ID     string `arg:"" help:"Run ID"`
	Format string `short:"f" default:"json" help:"Output format: json, csv or xml"`
	Output string `short:"o" help:"Output file (default: stdout)"`
}
