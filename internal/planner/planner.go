package planner

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/handiism/call-export/internal/manifest"
	"github.com/handiism/call-export/internal/model"
)

// ErrDuplicateDestination is returned in strict mode when two rows of the
// same kind resolve to the same destination path.
var ErrDuplicateDestination = errors.New("duplicate destination path")

// FieldError reports an empty required field in strict mode.
type FieldError struct {
	Line   int
	Column string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("line %d: column %q is empty", e.Line, e.Column)
}

// Config holds the static inputs needed to turn rows into tasks.
type Config struct {
	APIKey  string
	BaseURL string

	URLColumn      string
	FileNameColumn string
	CallIDColumn   string

	// Strict turns empty fields and duplicate destinations into errors
	// instead of warnings.
	Strict bool

	Paths *model.PathConfig
}

// Planner builds download tasks from manifest rows. It performs no I/O.
type Planner struct {
	cfg Config
}

// New creates a Planner with the given configuration.
func New(cfg Config) *Planner {
	if cfg.Paths == nil {
		cfg.Paths = &model.PathConfig{ExportDir: "export"}
	}
	return &Planner{cfg: cfg}
}

// Plan builds the batch of tasks for one artifact kind.
//
// Required columns are resolved before any row is looked at, so a missing
// column fails the whole batch. Rows keep their manifest order.
func (p *Planner) Plan(m *manifest.Manifest, kind model.ArtifactKind) (*model.Batch, error) {
	idColumn := p.cfg.URLColumn
	if kind == model.ArtifactTranscript {
		idColumn = p.cfg.CallIDColumn
	}

	idIndex, err := m.Column(idColumn)
	if err != nil {
		return nil, err
	}
	nameIndex, err := m.Column(p.cfg.FileNameColumn)
	if err != nil {
		return nil, err
	}

	batch := &model.Batch{
		Kind:  kind,
		Tasks: make([]*model.DownloadTask, 0, m.Len()),
	}
	seen := make(map[string]int, m.Len())

	for _, row := range m.Rows {
		id, err := p.field(batch, row, idIndex, idColumn)
		if err != nil {
			return nil, err
		}
		name, err := p.field(batch, row, nameIndex, p.cfg.FileNameColumn)
		if err != nil {
			return nil, err
		}

		var requestURL string
		switch kind {
		case model.ArtifactTranscript:
			requestURL = p.TranscriptURL(id)
		default:
			requestURL = p.AudioURL(id)
		}

		task := model.NewDownloadTask(kind, requestURL, name, id, row.Line, p.cfg.Paths)

		if first, dup := seen[task.Path]; dup {
			if p.cfg.Strict {
				return nil, fmt.Errorf("%w: line %d and line %d both write %s", ErrDuplicateDestination, first, row.Line, task.Path)
			}
			batch.Warnings = append(batch.Warnings, fmt.Sprintf("line %d: skipped, %s already planned by line %d", row.Line, task.Path, first))
			continue
		}
		seen[task.Path] = row.Line

		batch.Tasks = append(batch.Tasks, task)
	}

	return batch, nil
}

// AudioURL appends the API key to a recording URL taken from the manifest.
func (p *Planner) AudioURL(recordingURL string) string {
	sep := "?"
	if strings.Contains(recordingURL, "?") {
		sep = "&"
	}
	return recordingURL + sep + "apikey=" + url.QueryEscape(p.cfg.APIKey)
}

// TranscriptURL builds the transcript endpoint URL for a call id.
func (p *Planner) TranscriptURL(callID string) string {
	base := strings.TrimRight(p.cfg.BaseURL, "/")
	return base + "/" + url.PathEscape(callID) + "?apikey=" + url.QueryEscape(p.cfg.APIKey)
}

// field reads a required value. Empty values are an error in strict mode
// and a warning otherwise.
func (p *Planner) field(batch *model.Batch, row *manifest.Row, index int, column string) (string, error) {
	value := row.Field(index)
	if value != "" {
		return value, nil
	}
	if p.cfg.Strict {
		return "", &FieldError{Line: row.Line, Column: column}
	}
	batch.Warnings = append(batch.Warnings, fmt.Sprintf("line %d: column %q is empty", row.Line, column))
	return "", nil
}
