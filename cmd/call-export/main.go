package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/handiism/call-export/internal/config"
	"github.com/handiism/call-export/internal/download"
	"github.com/handiism/call-export/internal/report"
	"github.com/urfave/cli/v2"
)

// Exit codes. Per-task failures never change the exit code.
const (
	exitFatal       = 1
	exitInterrupted = 130
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(os.Stdout, os.Stderr).RunContext(ctx, os.Args); err != nil {
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			if msg := err.Error(); msg != "" {
				fmt.Fprintln(os.Stderr, msg)
			}
			os.Exit(exitErr.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitFatal)
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "call-export",
		Usage:     "Download call recordings and transcripts listed in a CSV manifest",
		UsageText: "call-export [options]\n\nFor interactive mode, use: call-export-tui",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags:     flags(),
		// Exit codes are handled in main so the app can run inside tests.
		ExitErrHandler: func(*cli.Context, error) {},
		Action: func(c *cli.Context) error {
			return run(c, stdout, stderr)
		},
	}
}

func flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Value: "call-export.yaml", Usage: "path to YAML config file"},
		&cli.StringFlag{Name: "env-file", Value: ".env", Usage: "path to .env file"},
		&cli.StringFlag{Name: "csv", Usage: "manifest path (overrides CSV_PATH)"},
		&cli.StringFlag{Name: "export-dir", Aliases: []string{"o"}, Usage: "export directory (overrides EXPORT_DIR)"},
		&cli.StringFlag{Name: "base-url", Usage: "transcript endpoint base URL (overrides BASE_URL)"},
		&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Usage: "maximum concurrent downloads"},
		&cli.DurationFlag{Name: "timeout", Usage: "per-request timeout"},
		&cli.StringFlag{Name: "only", Usage: "export a single kind: audio or transcript"},
		&cli.BoolFlag{Name: "strict", Usage: "fail on malformed rows, empty fields and duplicate destinations"},
		&cli.BoolFlag{Name: "playlist", Usage: "write a playlist of the downloaded recordings"},
		&cli.BoolFlag{Name: "tag", Usage: "write ID3 tags to downloaded recordings"},
		&cli.StringFlag{Name: "report", Usage: "write a YAML run report to this path"},
		&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "show verbose output"},
		&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "only show failures"},
		&cli.BoolFlag{Name: "dry-run", Usage: "plan downloads without fetching anything"},
	}
}

func run(c *cli.Context, stdout, stderr io.Writer) error {
	logLevel := slog.LevelInfo
	switch {
	case c.Bool("verbose"):
		logLevel = slog.LevelDebug
	case c.Bool("quiet"):
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: logLevel}))

	settings, err := config.Resolve(c.String("config"), c.String("env-file"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error loading config: %v", err), exitFatal)
	}
	applyFlags(c, settings)
	if err := settings.Validate(); err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), exitFatal)
	}

	printer := newPrinter(stdout, stderr, c.Bool("verbose"), c.Bool("quiet"))
	manager := download.NewManager(settings, printer.Print, download.WithLogger(logger))

	printer.Header()

	ctx := c.Context
	if err := manager.Initialize(ctx); err != nil {
		if ctx.Err() != nil {
			return cli.Exit("Interrupted.", exitInterrupted)
		}
		return cli.Exit(fmt.Sprintf("Error initializing: %v", err), exitFatal)
	}

	if c.Bool("dry-run") {
		printer.Plan(manager.Batches())
		return nil
	}

	logger.Debug("starting downloads",
		"workers", settings.MaxConcurrentDownloads,
		"timeout", settings.RequestTimeout,
		"export_dir", settings.ExportDir,
	)
	downloadErr := manager.StartDownloads(ctx)

	if path := c.String("report"); path != "" {
		summary := report.NewSummary(manager.Manifest().Path, manager.Outcomes())
		if err := summary.Save(path); err != nil {
			logger.Error("failed to write report", "path", path, "error", err)
		} else {
			logger.Info("report written", "path", path, "run_id", summary.RunID)
		}
	}

	received, done, total := manager.GetProgress()
	printer.Summary(received, done, total, manager.Failed())

	if downloadErr != nil {
		return cli.Exit("Interrupted, export incomplete.", exitInterrupted)
	}
	return nil
}

// applyFlags overrides settings with flags given on the command line.
func applyFlags(c *cli.Context, settings *config.Settings) {
	if c.IsSet("csv") {
		settings.CSVPath = c.String("csv")
	}
	if c.IsSet("export-dir") {
		settings.ExportDir = c.String("export-dir")
	}
	if c.IsSet("base-url") {
		settings.BaseURL = c.String("base-url")
	}
	if c.IsSet("workers") {
		settings.MaxConcurrentDownloads = c.Int("workers")
	}
	if c.IsSet("timeout") {
		settings.RequestTimeout = c.Duration("timeout")
	}
	if c.IsSet("only") {
		settings.Kinds = []string{c.String("only")}
	}
	if c.Bool("strict") {
		settings.Strict = true
	}
	if c.Bool("playlist") {
		settings.CreatePlaylist = true
	}
	if c.Bool("tag") {
		settings.ModifyTags = true
	}
}
