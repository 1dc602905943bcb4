package main

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/handiism/call-export/internal/download"
	"github.com/handiism/call-export/internal/model"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#95E1A3"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFE66D"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#A8DADC"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C757D"))
)

const rule = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"

// printer renders progress events as one line each. Failures and skipped
// files go to stderr, everything else to stdout.
type printer struct {
	stdout  io.Writer
	stderr  io.Writer
	verbose bool
	quiet   bool
	mu      sync.Mutex
}

func newPrinter(stdout, stderr io.Writer, verbose, quiet bool) *printer {
	return &printer{
		stdout:  stdout,
		stderr:  stderr,
		verbose: verbose,
		quiet:   quiet,
	}
}

// Print is the download.Manager progress callback.
func (p *printer) Print(event download.ProgressEvent) {
	if event.Level == download.LevelVerbose && !p.verbose {
		return
	}
	if p.quiet && event.Level != download.LevelError && event.Level != download.LevelSkipped {
		return
	}

	var line string
	out := p.stdout
	switch event.Level {
	case download.LevelError:
		line = errorStyle.Render("✗ " + event.Message)
		out = p.stderr
	case download.LevelSkipped:
		line = warningStyle.Render("↷ " + event.Message)
		out = p.stderr
	case download.LevelWarning:
		line = warningStyle.Render("! " + event.Message)
	case download.LevelSuccess:
		line = successStyle.Render("✓ " + event.Message)
	case download.LevelInfo:
		line = infoStyle.Render("› " + event.Message)
	default:
		line = dimStyle.Render("  " + event.Message)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(out, line)
}

func (p *printer) Header() {
	if p.quiet {
		return
	}
	fmt.Fprintln(p.stdout, titleStyle.Render("☎ Call Export"))
	fmt.Fprintln(p.stdout, rule)
}

// Plan lists the planned tasks of a dry run.
func (p *printer) Plan(batches []*model.Batch) {
	for _, batch := range batches {
		fmt.Fprintf(p.stdout, "\n%s\n", infoStyle.Render(fmt.Sprintf("%s: %d files", batch.Kind, batch.Len())))
		for _, task := range batch.Tasks {
			fmt.Fprintf(p.stdout, "  %s -> %s\n", task.DisplayURL(), task.Path)
		}
	}
	fmt.Fprintln(p.stdout, dimStyle.Render("\n[Dry run - not downloading]"))
}

func (p *printer) Summary(received int64, done, total int32, failed int) {
	if p.quiet {
		return
	}
	var sb strings.Builder
	sb.WriteString(rule + "\n")
	msg := fmt.Sprintf("Complete! %d/%d files done, %d failed (%s)", done, total, failed, humanize.Bytes(uint64(received)))
	if failed > 0 {
		sb.WriteString(warningStyle.Render(msg))
	} else {
		sb.WriteString(successStyle.Render("✨ " + msg))
	}
	fmt.Fprintln(p.stdout, sb.String())
}
