package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/alecthomas/kong"
	"github.com/fwojciec/tracestrip"
	"github.com/fwojciec/tracestrip/batch"
	"github.com/fwojciec/tracestrip/clean"
	"github.com/fwojciec/tracestrip/goquery"
	"github.com/fwojciec/tracestrip/htmltomarkdown"
	tshttp "github.com/fwojciec/tracestrip/http"
	tsslog "github.com/fwojciec/tracestrip/slog"
	"github.com/fwojciec/tracestrip/sqlite"
	tsyaml "github.com/fwojciec/tracestrip/yaml"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

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

	// Stdin is read by commands that accept input from standard input.
	Stdin io.Reader

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	DocumentService tracestrip.DocumentService
	AuditService    tracestrip.AuditService
	SettingsService tracestrip.SettingsService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
		Stdin:  os.Stdin,
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
		Stdin:  m.Stdin,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("tracestrip"),
		kong.Description("Remove AI chat trace attributes and invisible Unicode from documents."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'tracestrip --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	logger := newLogger(stderr, cli.Verbose, cli.LogJSON)
	deps.Logger = logger

	if cmd == "version" {
		deps.Updates = tsslog.NewLoggingUpdateChecker(tshttp.NewUpdateChecker(), logger)
		return kongCtx.Run(deps)
	}

	if cli.DB != "" {
		m.DBPath = cli.DB
	}

	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set TRACESTRIP_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	m.SettingsService = sqlite.NewSettingsService(m.DB)
	stored, err := m.SettingsService.FindSettings(ctx)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	// A configuration file overrides stored settings for this run only.
	settings := stored.Clone()
	if path := tsyaml.FindConfigFile(cli.ConfigFile); path != "" {
		cf, err := tsyaml.LoadFile(path)
		if err != nil {
			return err
		}
		if err := cf.Apply(settings); err != nil {
			fmt.Fprintf(stderr, "error: %s\n", tracestrip.ErrorMessage(err))
			return fmt.Errorf("invalid config file %q: %w", path, err)
		}
		deps.ConfigFile = path
	} else if cli.ConfigFile != "" {
		return tracestrip.Errorf(tracestrip.ENOTFOUND, "config file %q not found", cli.ConfigFile)
	}

	cfg, err := settings.Config()
	if err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	store := sqlite.NewDocumentService(m.DB)
	m.AuditService = tsslog.NewLoggingAuditService(sqlite.NewAuditService(m.DB), logger)
	newCleaner := cleanerFactory(cfg, logger)

	m.DocumentService = store
	if settings.AutoClean {
		m.DocumentService = clean.NewDocumentService(store, func() tracestrip.Cleaner {
			return newCleaner(false)
		}, m.AuditService, settings.Options())
	}

	deps.DB = m.DB
	deps.Documents = m.DocumentService
	deps.Audit = m.AuditService
	deps.SettingsService = m.SettingsService
	deps.Settings = settings
	deps.NewCleaner = newCleaner
	deps.Converter = htmltomarkdown.NewConverter()

	// The scanner writes cleaned content itself, so it bypasses auto-clean.
	if cmd == "scan" {
		deps.Scanner = &batch.Scanner{
			Documents: store,
			Audit:     m.AuditService,
			State:     sqlite.NewScanStateService(m.DB),
			NewCleaner: func() tracestrip.Cleaner {
				return newCleaner(cli.Scan.Fallback)
			},
			Limiter: batch.NewLimiter(settings.RatePerSecond),
			Logger:  logger,
		}
	}

	return kongCtx.Run(deps)
}

// cleanerFactory returns a constructor for engines sharing cfg. Each call
// returns a fresh engine, since an engine keeps its last result.
func cleanerFactory(cfg *tracestrip.Config, logger *slog.Logger) CleanerFactory {
	return func(fallback bool) tracestrip.Cleaner {
		var structured tracestrip.ParseStrategy
		if !fallback {
			structured = goquery.NewStrategy()
		}
		return tsslog.NewLoggingCleaner(clean.NewEngine(cfg, structured), logger)
	}
}

func newLogger(w io.Writer, verbose, jsonOutput bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelWarn}
	if verbose {
		opts.Level = slog.LevelDebug
	}
	if jsonOutput {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func defaultDBPath() string {
	if path := os.Getenv("TRACESTRIP_DB"); path != "" {
		return path
	}
	dir := filepath.Join(xdg.DataHome, tsyaml.AppName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "tracestrip.db"
	}
	return filepath.Join(dir, "tracestrip.db")
}
