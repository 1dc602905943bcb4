package download

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/dustin/go-humanize"
	"github.com/handiism/call-export/internal/audio"
	"github.com/handiism/call-export/internal/config"
	"github.com/handiism/call-export/internal/http"
	ioutils "github.com/handiism/call-export/internal/io"
	"github.com/handiism/call-export/internal/manifest"
	"github.com/handiism/call-export/internal/model"
	"github.com/handiism/call-export/internal/planner"
	"golang.org/x/sync/errgroup"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess

	// LevelSkipped marks a task whose destination already existed.
	LevelSkipped
)

// ProgressEvent represents a download progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Option configures a Manager.
type Option func(*Manager)

// WithFetcher replaces the HTTP client built from settings.
func WithFetcher(f Fetcher) Option {
	return func(m *Manager) {
		m.fetcher = f
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// Manager coordinates the export: it reads the manifest, plans one batch
// per artifact kind and runs the batches one after another.
type Manager struct {
	settings *config.Settings
	fetcher  Fetcher
	logger   *slog.Logger
	worker   *Worker
	planner  *planner.Planner
	playlist *audio.PlaylistCreator

	manifest *manifest.Manifest
	batches  []*model.Batch
	outcomes []model.Outcome

	receivedBytes   int64
	totalFiles      int32
	downloadedFiles int32
	failedFiles     int32

	onProgress func(ProgressEvent)
	mu         sync.Mutex
}

// NewManager creates a new download Manager.
func NewManager(settings *config.Settings, onProgress func(ProgressEvent), opts ...Option) *Manager {
	m := &Manager{
		settings:   settings,
		planner:    planner.New(settings.ToPlannerConfig()),
		playlist:   audio.NewPlaylistCreator(audio.ParsePlaylistFormat(settings.PlaylistFormat), settings.M3UExtended),
		onProgress: onProgress,
	}
	for _, opt := range opts {
		opt(m)
	}

	if m.logger == nil {
		m.logger = slog.Default()
	}
	if m.fetcher == nil {
		m.fetcher = http.NewClient(settings.RequestTimeout).WithUserAgent(settings.UserAgent)
	}

	var tagger *audio.Tagger
	if settings.ModifyTags {
		tagCfg := audio.DefaultTagConfig()
		tagCfg.Album = settings.TagAlbum
		tagger = audio.NewTagger(tagCfg)
	}
	m.worker = NewWorker(m.fetcher, tagger, m.logger)

	return m
}

// Initialize reads the manifest and plans a batch for every enabled kind.
//
// Every manifest and planning error is returned here, before any request
// is made or any file is written.
func (m *Manager) Initialize(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	kinds, err := m.settings.ArtifactKinds()
	if err != nil {
		return err
	}

	mf, err := manifest.ParseFile(m.settings.CSVPath, manifest.Options{Strict: m.settings.Strict})
	if err != nil {
		return err
	}
	m.manifest = mf
	m.progress(ProgressEvent{Message: fmt.Sprintf("Read %d rows from %s", mf.Len(), mf.Path), Level: LevelInfo})
	if mf.Skipped > 0 {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Skipped %d malformed rows in %s", mf.Skipped, mf.Path), Level: LevelWarning})
	}

	var batches []*model.Batch
	var total int32
	for _, kind := range kinds {
		batch, err := m.planner.Plan(mf, kind)
		if err != nil {
			return fmt.Errorf("planning %s downloads: %w", kind, err)
		}
		for _, warning := range batch.Warnings {
			m.progress(ProgressEvent{Message: warning, Level: LevelWarning})
		}
		batches = append(batches, batch)
		total += int32(batch.Len())
	}

	m.batches = batches
	m.totalFiles = total
	return nil
}

// StartDownloads runs the planned batches: audio first, then transcripts.
//
// Failures of individual tasks are reported through the progress callback
// and collected in Outcomes; they never abort the run. The only error
// returned is the context's, when the run was interrupted.
func (m *Manager) StartDownloads(ctx context.Context) error {
	for _, batch := range m.batches {
		if ctx.Err() != nil {
			break
		}

		m.progress(ProgressEvent{Message: fmt.Sprintf("Downloading %d %s files", batch.Len(), batch.Kind), Level: LevelInfo})
		outcomes := m.RunBatch(ctx, batch)
		m.summarize(batch.Kind, outcomes)

		if batch.Kind == model.ArtifactAudio && m.settings.CreatePlaylist {
			m.writePlaylist(ctx, batch, outcomes)
		}
	}
	return ctx.Err()
}

// RunBatch executes every task of a batch with at most
// MaxConcurrentDownloads requests in flight.
//
// Outcomes are returned in completion order, one per dispatched task.
// A cancelled context stops further dispatch; tasks that were never
// started are reported as failed with the context's error.
func (m *Manager) RunBatch(ctx context.Context, batch *model.Batch) []model.Outcome {
	outcomes := make([]model.Outcome, 0, batch.Len())
	var mu sync.Mutex
	record := func(outcome model.Outcome) {
		mu.Lock()
		outcomes = append(outcomes, outcome)
		mu.Unlock()
		m.report(outcome)
	}

	dir := m.settings.ToPathConfig().Dir(batch.Kind)
	if err := ioutils.EnsureDir(dir); err != nil {
		for _, task := range batch.Tasks {
			record(model.Outcome{Task: task, Err: &model.IOError{Op: "mkdir", Path: dir, Err: err}})
		}
		return outcomes
	}

	limit := m.settings.MaxConcurrentDownloads
	if limit < 1 {
		limit = 1
	}

	var g errgroup.Group
	g.SetLimit(limit)

	for i, task := range batch.Tasks {
		if err := ctx.Err(); err != nil {
			for _, pending := range batch.Tasks[i:] {
				record(model.Outcome{Task: pending, Err: err})
			}
			break
		}
		task := task
		g.Go(func() error {
			record(m.worker.FetchAndStore(ctx, task))
			return nil // Continue with other tasks
		})
	}

	_ = g.Wait()
	return outcomes
}

// GetProgress returns current download progress.
func (m *Manager) GetProgress() (received int64, filesDone, filesTotal int32) {
	return atomic.LoadInt64(&m.receivedBytes),
		atomic.LoadInt32(&m.downloadedFiles) + atomic.LoadInt32(&m.failedFiles),
		m.totalFiles
}

// Failed returns the number of tasks that failed so far.
func (m *Manager) Failed() int {
	return int(atomic.LoadInt32(&m.failedFiles))
}

// Batches returns the planned batches, in export order.
func (m *Manager) Batches() []*model.Batch {
	return m.batches
}

// Manifest returns the manifest read by Initialize.
func (m *Manager) Manifest() *manifest.Manifest {
	return m.manifest
}

// Outcomes returns the outcomes of every task run so far.
func (m *Manager) Outcomes() []model.Outcome {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Outcome(nil), m.outcomes...)
}

func (m *Manager) report(outcome model.Outcome) {
	m.mu.Lock()
	m.outcomes = append(m.outcomes, outcome)
	m.mu.Unlock()

	task := outcome.Task
	switch outcome.Status() {
	case model.StatusDownloaded:
		atomic.AddInt64(&m.receivedBytes, outcome.Bytes)
		atomic.AddInt32(&m.downloadedFiles, 1)
		m.progress(ProgressEvent{Message: fmt.Sprintf("Downloaded: %s (%s)", task.Path, humanize.Bytes(uint64(outcome.Bytes))), Level: LevelSuccess})
	case model.StatusSkipped:
		atomic.AddInt32(&m.downloadedFiles, 1)
		m.progress(ProgressEvent{Message: fmt.Sprintf("Skipped %s: %v", task.DisplayURL(), outcome.Err), Level: LevelSkipped})
	default:
		atomic.AddInt32(&m.failedFiles, 1)
		m.progress(ProgressEvent{Message: fmt.Sprintf("Failed to download %s: %v", task.DisplayURL(), outcome.Err), Level: LevelError})
	}
}

func (m *Manager) summarize(kind model.ArtifactKind, outcomes []model.Outcome) {
	counts := make(map[model.OutcomeStatus]int)
	for _, o := range outcomes {
		counts[o.Status()]++
	}

	level := LevelSuccess
	if counts[model.StatusFailed] > 0 {
		level = LevelWarning
	}
	m.progress(ProgressEvent{
		Message: fmt.Sprintf("Finished %s: %d downloaded, %d skipped, %d failed",
			kind, counts[model.StatusDownloaded], counts[model.StatusSkipped], counts[model.StatusFailed]),
		Level: level,
	})
}

// writePlaylist lists the recordings present on disk after the batch, in
// manifest order.
func (m *Manager) writePlaylist(ctx context.Context, batch *model.Batch, outcomes []model.Outcome) {
	present := make(map[*model.DownloadTask]bool, len(outcomes))
	for _, o := range outcomes {
		if o.Status() != model.StatusFailed {
			present[o.Task] = true
		}
	}

	var tasks []*model.DownloadTask
	for _, task := range batch.Tasks {
		if present[task] {
			tasks = append(tasks, task)
		}
	}
	if len(tasks) == 0 {
		return
	}

	name := m.settings.PlaylistFileNameFormat + m.playlist.Format().Extension()
	path := filepath.Join(m.settings.ToPathConfig().Dir(batch.Kind), name)
	content := m.playlist.CreatePlaylist(tasks)
	if err := ioutils.ReplaceFileAtomic(ctx, path, []byte(content)); err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error creating playlist: %v", err), Level: LevelWarning})
		return
	}
	m.progress(ProgressEvent{Message: fmt.Sprintf("Created playlist %s", path), Level: LevelSuccess})
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}
