package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/comprof"
	"github.com/fwojciec/comprof/goquery"
	comphttp "github.com/fwojciec/comprof/http"
	"github.com/fwojciec/comprof/readability"
	"github.com/fwojciec/comprof/rod"
	comslog "github.com/fwojciec/comprof/slog"
	"github.com/fwojciec/comprof/sqlite"
	"github.com/fwojciec/comprof/trafilatura"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database backing the run archive.
	DB *sqlite.DB

	// Services for end-to-end testing.
	RunService comprof.RunService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Initialize dependencies struct for Kong binding
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	// Create Kong parser with dependency binding
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("comprof"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle help flags using Kong
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'comprof --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	// Parse arguments first to know which command and its flags
	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	deps.Logger = newLogger(stderr, cli.LogLevel, cli.LogFormat)

	// Open database
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set COMPROF_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	// Wire core services into dependencies
	m.RunService = sqlite.NewRunService(m.DB)
	deps.Runs = m.RunService

	// Wire command-specific dependencies based on command
	if cmd == "run" {
		settings, err := LoadSettings(cli.Run.Settings)
		if err != nil {
			return err
		}
		deps.Settings = ApplyFlags(settings, &cli.Run)

		fetcher := newFetcher(cli.Run, deps.Settings, deps.Logger)
		defer fetcher.Close()
		deps.Fetcher = fetcher
		deps.Locators = newLocators(cli.Run.Extractor, deps.Logger)
	}

	return kongCtx.Run(deps)
}

// newFetcher builds the fetch collaborator for a run: a headless browser
// when --browser is set, plain HTTP otherwise. Both are wrapped with
// logging. Browser launch is lazy, so a missing Chrome surfaces as fetch
// failures rather than here.
func newFetcher(cmd RunCmd, settings comprof.Settings, logger *slog.Logger) comprof.Fetcher {
	var inner comprof.Fetcher
	if cmd.Browser {
		inner = rod.NewFetcher()
	} else {
		var opts []comphttp.Option
		if settings.FetchTimeout > 0 {
			opts = append(opts, comphttp.WithTimeout(settings.FetchTimeout))
		}
		if settings.UserAgent != "" {
			opts = append(opts, comphttp.WithUserAgent(settings.UserAgent))
		}
		inner = comphttp.NewFetcher(opts...)
	}
	return comslog.NewLoggingFetcher(inner, logger)
}

// newLocators builds the extraction chain. The markup locator runs first so
// structured data and fallback fragments win name collisions; the content
// locator fills main_content afterwards.
func newLocators(extractor string, logger *slog.Logger) []comprof.Locator {
	var content comprof.Locator
	switch extractor {
	case "readability":
		content = readability.NewLocator()
	default:
		content = trafilatura.NewLocator()
	}
	return []comprof.Locator{
		comslog.NewLoggingLocator(goquery.NewLocator(), logger),
		comslog.NewLoggingLocator(content, logger),
	}
}

// newLogger builds the slog logger from the global flags. Logs go to stderr
// so they never interleave with exported results on stdout.
func newLogger(w io.Writer, level, format string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelWarn
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func defaultDBPath() string {
	if path := os.Getenv("COMPROF_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "comprof.db"
	}
	dir := filepath.Join(home, ".comprof")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "comprof.db")
}
