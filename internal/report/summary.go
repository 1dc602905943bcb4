package report

import (
	"cmp"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/handiism/call-export/internal/model"
	"gopkg.in/yaml.v3"
)

// Summary represents the structure of the run report. It lists every task
// of the run with its status, so a rerun can be checked without reading
// the export tree.
type Summary struct {
	RunID       string        `yaml:"run_id"`
	GeneratedAt string        `yaml:"generated_at"`
	Manifest    string        `yaml:"manifest,omitempty"`
	Total       int           `yaml:"total"`
	Downloaded  int           `yaml:"downloaded"`
	Skipped     int           `yaml:"skipped"`
	Failed      int           `yaml:"failed"`
	Kinds       []KindSummary `yaml:"kinds"`
}

// KindSummary holds the counts and items of one artifact kind.
type KindSummary struct {
	Kind       string        `yaml:"kind"`
	Downloaded int           `yaml:"downloaded"`
	Skipped    int           `yaml:"skipped"`
	Failed     int           `yaml:"failed"`
	Items      []ItemSummary `yaml:"items"`
}

// ItemSummary represents the result of a single task. URL never contains
// the api key.
type ItemSummary struct {
	Line         int    `yaml:"line"`
	URL          string `yaml:"url"`
	FilePath     string `yaml:"file_path"`
	Status       string `yaml:"status"` // downloaded, skipped or failed
	ErrorMessage string `yaml:"error_message,omitempty"`
	SizeBytes    int64  `yaml:"size_bytes,omitempty"`
}

// NewSummary builds a summary from the outcomes of a run. Kinds appear in
// export order and items in manifest order.
func NewSummary(manifestPath string, outcomes []model.Outcome) *Summary {
	summary := &Summary{
		RunID:       newRunID(),
		GeneratedAt: time.Now().Format(time.RFC3339),
		Manifest:    manifestPath,
		Total:       len(outcomes),
	}

	byKind := make(map[model.ArtifactKind][]model.Outcome)
	for _, o := range outcomes {
		byKind[o.Task.Kind] = append(byKind[o.Task.Kind], o)
	}

	for _, kind := range model.AllKinds {
		group, ok := byKind[kind]
		if !ok {
			continue
		}
		slices.SortStableFunc(group, func(a, b model.Outcome) int {
			return cmp.Compare(a.Task.Line, b.Task.Line)
		})

		ks := KindSummary{Kind: kind.String()}
		for _, o := range group {
			item := ItemSummary{
				Line:     o.Task.Line,
				URL:      o.Task.DisplayURL(),
				FilePath: o.Task.Path,
				Status:   o.Status().String(),
			}

			switch o.Status() {
			case model.StatusDownloaded:
				ks.Downloaded++
				item.SizeBytes = o.Bytes
			case model.StatusSkipped:
				ks.Skipped++
			default:
				ks.Failed++
				item.ErrorMessage = o.Err.Error()
			}
			ks.Items = append(ks.Items, item)
		}

		summary.Downloaded += ks.Downloaded
		summary.Skipped += ks.Skipped
		summary.Failed += ks.Failed
		summary.Kinds = append(summary.Kinds, ks)
	}

	return summary
}

// Save writes the summary as YAML, creating parent directories.
func (s *Summary) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// newRunID generates a run ID using UUID v7, so reports sort by time.
func newRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf("run-%d", time.Now().UnixNano())
	}
	return id.String()
}
