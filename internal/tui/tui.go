// Package tui provides a Bubble Tea terminal user interface for call-export.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/handiism/call-export/internal/config"
	"github.com/handiism/call-export/internal/download"
	"github.com/handiism/call-export/internal/model"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)

	batchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))
)

// maxLogs is the number of log lines kept on screen.
const maxLogs = 10

// errCancelled is shown when the user aborts a run.
var errCancelled = errors.New("cancelled by user")

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateInitializing
	StateDownloading
	StateComplete
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   download.ProgressLevel
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	settings  *config.Settings
	logs      []LogEntry
	batches   []string
	err       error

	// Download context
	ctx    context.Context
	cancel context.CancelFunc

	// Download manager reference
	manager *download.Manager

	// Events from worker goroutines, drained on every tick.
	events chan download.ProgressEvent

	// Download progress
	totalFiles      int32
	downloadedFiles int32
	failedFiles     int
	receivedBytes   int64

	// Options
	audio       bool
	transcripts bool
	playlist    bool
	verbose     bool

	width  int
	height int
}

// NewModel creates a new TUI model. settings provides the API key, base
// URL and defaults; the manifest path can be edited before the run.
func NewModel(settings *config.Settings) Model {
	if settings == nil {
		settings = config.DefaultSettings()
	}

	ti := textinput.New()
	ti.Placeholder = "calls.csv"
	ti.SetValue(settings.CSVPath)
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	m := Model{
		state:     StateInput,
		textInput: ti,
		spinner:   sp,
		progress:  prog,
		settings:  settings,
		logs:      make([]LogEntry, 0),
		ctx:       ctx,
		cancel:    cancel,
		events:    make(chan download.ProgressEvent, 256),
		playlist:  settings.CreatePlaylist,
	}

	// Invalid kinds surface later through Validate; start with none.
	kinds, _ := settings.ArtifactKinds()
	for _, kind := range kinds {
		switch kind {
		case model.ArtifactAudio:
			m.audio = true
		case model.ArtifactTranscript:
			m.transcripts = true
		}
	}

	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// InitDoneMsg is sent when the manifest has been read and planned.
	InitDoneMsg struct {
		Batches []string
		Manager *download.Manager
		Err     error
	}

	// DownloadDoneMsg is sent when all batches complete.
	DownloadDoneMsg struct {
		Received int64
		Files    int32
		TotalF   int32
		Failed   int
		Err      error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 20
		if m.progress.Width > 80 {
			m.progress.Width = 80
		}
		if m.progress.Width < 20 {
			m.progress.Width = 20
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateInput {
				return m, tea.Quit
			}
			if m.state == StateDownloading || m.state == StateInitializing {
				m.cancel()
				m.state = StateError
				m.err = errCancelled
			}

		case "enter":
			if m.state == StateInput && m.textInput.Value() != "" {
				m.state = StateInitializing
				return m, tea.Batch(m.initializeDownload(), m.spinner.Tick, m.tickProgress())
			}

		case "ctrl+a":
			if m.state == StateInput {
				m.audio = !m.audio
				return m, nil
			}

		case "ctrl+t":
			if m.state == StateInput {
				m.transcripts = !m.transcripts
				return m, nil
			}

		case "ctrl+p":
			if m.state == StateInput {
				m.playlist = !m.playlist
				return m, nil
			}

		case "ctrl+v":
			if m.state == StateInput {
				m.verbose = !m.verbose
				return m, nil
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				// Reset for another run
				m.state = StateInput
				m.logs = nil
				m.batches = nil
				m.err = nil
				m.downloadedFiles = 0
				m.totalFiles = 0
				m.failedFiles = 0
				m.receivedBytes = 0
				m.manager = nil
				m.events = make(chan download.ProgressEvent, 256)
				m.ctx, m.cancel = context.WithCancel(context.Background())
				m.textInput.Focus()
				return m, nil
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case InitDoneMsg:
		m.drainEvents()
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else if m.state == StateInitializing {
			m.batches = msg.Batches
			m.manager = msg.Manager
			m.state = StateDownloading
			// Start the actual download; ticks are already running
			cmds = append(cmds, m.startDownload(msg.Manager))
		}

	case DownloadDoneMsg:
		m.drainEvents()
		m.receivedBytes = msg.Received
		m.downloadedFiles = msg.Files
		m.totalFiles = msg.TotalF
		m.failedFiles = msg.Failed
		if m.ctx.Err() != nil {
			m.state = StateError
			m.err = errCancelled
		} else if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else {
			m.state = StateComplete
		}

	case TickMsg:
		m.drainEvents()
		if m.state != StateInitializing && m.state != StateDownloading {
			break
		}
		cmds = append(cmds, m.tickProgress())

		// Update progress from manager
		if m.manager != nil && m.state == StateDownloading {
			received, files, totalFiles := m.manager.GetProgress()
			m.receivedBytes = received
			m.downloadedFiles = files
			m.totalFiles = totalFiles

			var percent float64
			if totalFiles > 0 {
				percent = float64(files) / float64(totalFiles)
			}
			cmds = append(cmds, m.progress.SetPercent(percent))
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	// Update text input
	if m.state == StateInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// drainEvents moves pending progress events into the visible log.
func (m *Model) drainEvents() {
	for {
		select {
		case event := <-m.events:
			m.addLog(event)
		default:
			return
		}
	}
}

func (m *Model) addLog(event download.ProgressEvent) {
	// Filter verbose messages if not in verbose mode
	if event.Level == download.LevelVerbose && !m.verbose {
		return
	}
	m.logs = append(m.logs, LogEntry{
		Message: event.Message,
		Level:   event.Level,
	})
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("☎ Call Export"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Download call recordings and transcripts"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateInitializing:
		b.WriteString(m.viewInitializing())
	case StateDownloading:
		b.WriteString(m.viewDownloading())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func checkbox(on bool) string {
	if on {
		return "[×]"
	}
	return "[ ]"
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Manifest (CSV) path:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s Recordings (ctrl+a)\n", checkbox(m.audio)))
	b.WriteString(fmt.Sprintf("  %s Transcripts (ctrl+t)\n", checkbox(m.transcripts)))
	b.WriteString(fmt.Sprintf("  %s Create playlist (ctrl+p)\n", checkbox(m.playlist)))
	b.WriteString(fmt.Sprintf("  %s Verbose/debug output (ctrl+v)\n", checkbox(m.verbose)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Export directory: %s", m.settings.ExportDir)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewInitializing() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Reading manifest..."))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewDownloading() string {
	var b strings.Builder

	if len(m.batches) > 0 {
		b.WriteString(successStyle.Render(fmt.Sprintf("Planned %d batch(es):", len(m.batches))))
		b.WriteString("\n")
		for _, batch := range m.batches {
			b.WriteString(batchStyle.Render(fmt.Sprintf("  ♪ %s", batch)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	// Progress bar
	var percent float64
	if m.totalFiles > 0 {
		percent = float64(m.downloadedFiles) / float64(m.totalFiles)
	}
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString("\n")

	b.WriteString(infoStyle.Render(fmt.Sprintf(
		"Files: %d/%d | Downloaded: %s",
		m.downloadedFiles,
		m.totalFiles,
		humanize.Bytes(uint64(m.receivedBytes)),
	)))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	title := "✨ Export Complete!"
	if m.failedFiles > 0 {
		title = "Export finished with failures"
	}
	box := boxStyle.Render(fmt.Sprintf(
		"%s\n\n"+
			"Files: %d/%d\n"+
			"Failed: %d\n"+
			"Size: %s",
		title,
		m.downloadedFiles-int32(m.failedFiles),
		m.totalFiles,
		m.failedFiles,
		humanize.Bytes(uint64(m.receivedBytes)),
	))
	b.WriteString(box)
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("✗ Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case download.LevelError:
			style = errorStyle
			prefix = "✗"
		case download.LevelWarning, download.LevelSkipped:
			style = warningStyle
			prefix = "!"
		case download.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case download.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateInput:
		return "enter: start • ctrl+a: recordings • ctrl+t: transcripts • ctrl+p: playlist • ctrl+v: verbose • esc: quit"
	case StateInitializing, StateDownloading:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new export • q: quit"
	}
	return ""
}

// runSettings copies the base settings and applies the on-screen options.
func (m Model) runSettings() *config.Settings {
	settings := *m.settings
	settings.CSVPath = strings.TrimSpace(m.textInput.Value())
	settings.CreatePlaylist = m.playlist

	settings.Kinds = nil
	if m.audio {
		settings.Kinds = append(settings.Kinds, "audio")
	}
	if m.transcripts {
		settings.Kinds = append(settings.Kinds, "transcript")
	}
	return &settings
}

// initializeDownload reads the manifest and creates the manager.
func (m Model) initializeDownload() tea.Cmd {
	settings := m.runSettings()
	ctx := m.ctx
	events := m.events

	return func() tea.Msg {
		if len(settings.Kinds) == 0 {
			return InitDoneMsg{Err: errors.New("nothing selected: enable recordings or transcripts")}
		}
		if err := settings.Validate(); err != nil {
			return InitDoneMsg{Err: err}
		}

		// Workers must never block on the UI; overflow is dropped.
		manager := download.NewManager(settings, func(event download.ProgressEvent) {
			select {
			case events <- event:
			default:
			}
		})

		if err := manager.Initialize(ctx); err != nil {
			return InitDoneMsg{Err: err}
		}

		var names []string
		for _, batch := range manager.Batches() {
			names = append(names, fmt.Sprintf("%s (%d files)", batch.Kind, batch.Len()))
		}

		return InitDoneMsg{
			Batches: names,
			Manager: manager,
		}
	}
}

// startDownload starts the actual download in background.
func (m Model) startDownload(manager *download.Manager) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		err := manager.StartDownloads(ctx)
		received, files, totalFiles := manager.GetProgress()

		return DownloadDoneMsg{
			Received: received,
			Files:    files,
			TotalF:   totalFiles,
			Failed:   manager.Failed(),
			Err:      err,
		}
	}
}

// Run starts the TUI application.
func Run(settings *config.Settings) error {
	p := tea.NewProgram(NewModel(settings), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
