package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/tracestrip"
	"github.com/fwojciec/tracestrip/batch"
	"github.com/fwojciec/tracestrip/sqlite"
)

// CleanerFactory returns a fresh cleaner. When fallback is true the cleaner
// uses only the pattern strategy.
type CleanerFactory func(fallback bool) tracestrip.Cleaner

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	DB              *sqlite.DB
	Documents       tracestrip.DocumentService
	Audit           tracestrip.AuditService
	SettingsService tracestrip.SettingsService
	Converter       tracestrip.Converter
	Updates         tracestrip.UpdateChecker
	Scanner         *batch.Scanner
	NewCleaner      CleanerFactory

	// Settings are the stored settings with the config file applied.
	Settings *tracestrip.Settings

	// ConfigFile is the path of the applied config file, if any.
	ConfigFile string
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	DB         string `name:"db" help:"Database path (default: $TRACESTRIP_DB or the XDG data directory)"`
	ConfigFile string `name:"config" env:"TRACESTRIP_CONFIG" help:"YAML config file applied to this run"`
	Verbose    bool   `short:"v" help:"Log debug output"`
	LogJSON    bool   `name:"log-json" help:"Log in JSON format"`

	Clean   CleanCmd   `cmd:"" help:"Clean HTML from a file or stdin, or a stored document"`
	Import  ImportCmd  `cmd:"" help:"Import HTML files as documents"`
	Docs    DocsCmd    `cmd:"" help:"List stored documents"`
	Show    ShowCmd    `cmd:"" help:"Show a stored document"`
	Scan    ScanCmd    `cmd:"" help:"Clean all stored documents in resumable batches"`
	Log     LogCmd     `cmd:"" help:"Show or prune the audit log"`
	Config  ConfigCmd  `cmd:"" help:"Show or change stored settings"`
	Version VersionCmd `cmd:"" help:"Print the version and check for updates"`
}

// CleanCmd is the "clean" subcommand.
type CleanCmd struct {
	File         string `arg:"" optional:"" help:"HTML file to clean (default: stdin)"`
	ID           string `name:"id" help:"Clean a stored document in place"`
	NoAttributes bool   `name:"no-attributes" help:"Keep trace attributes"`
	NoUnicode    bool   `name:"no-unicode" help:"Keep invisible Unicode characters"`
	Locations    bool   `help:"Report where each removal happened"`
	Stats        bool   `short:"s" help:"Print removal counts to stderr"`
	JSON         bool   `name:"json" help:"Print the full result as JSON"`
	Fallback     bool   `help:"Use only the pattern strategy"`
}

// ImportCmd is the "import" subcommand.
type ImportCmd struct {
	Files []string `arg:"" help:"HTML files to import" type:"existingfile"`
}

// DocsCmd is the "docs" subcommand.
type DocsCmd struct {
	Limit int `short:"n" default:"0" help:"Maximum number of documents (0 for all)"`
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	ID       string `arg:"" help:"Document ID"`
	Markdown bool   `short:"m" help:"Render as Markdown"`
}

// ScanCmd is the "scan" subcommand.
type ScanCmd struct {
	Reset       bool          `help:"Discard stored progress and start over"`
	DryRun      bool          `name:"dry-run" help:"Report what would be removed without writing"`
	Force       bool          `short:"f" help:"Clean documents that were cleaned before"`
	MaxBatches  int           `name:"max-batches" help:"Stop after this many batches (0 for all)"`
	BatchSize   int           `name:"batch-size" help:"Documents per batch (default: stored setting)"`
	Concurrency int           `short:"c" help:"Documents cleaned concurrently (default: stored setting)"`
	Timeout     time.Duration `help:"Timeout per batch (default: stored setting)"`
	Fallback    bool          `help:"Use only the pattern strategy"`
}

// LogCmd is the "log" subcommand.
type LogCmd struct {
	Document    string        `help:"Only show entries for this document ID"`
	Source      string        `help:"Only show entries from this source (scan, auto, manual)"`
	Limit       int           `short:"n" default:"20" help:"Maximum number of entries"`
	PruneBefore time.Duration `name:"prune-before" help:"Delete entries older than this duration instead of listing"`
}

// ConfigCmd groups the "config" subcommands.
type ConfigCmd struct {
	Show   ConfigShowCmd   `cmd:"" default:"1" help:"Show stored settings"`
	Set    ConfigSetCmd    `cmd:"" help:"Change a stored setting"`
	Import ConfigImportCmd `cmd:"" help:"Store settings from a YAML file"`
}

// ConfigShowCmd is the "config show" subcommand.
type ConfigShowCmd struct{}

// ConfigSetCmd is the "config set" subcommand.
type ConfigSetCmd struct {
	Key   string `arg:"" help:"Setting name"`
	Value string `arg:"" help:"New value"`
}

// ConfigImportCmd is the "config import" subcommand.
type ConfigImportCmd struct {
	File string `arg:"" help:"YAML config file" type:"existingfile"`
}

// VersionCmd is the "version" subcommand.
type VersionCmd struct {
	Check bool `help:"Check for a newer release"`
}
