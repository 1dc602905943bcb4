package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/handiism/call-export/internal/model"
	"gopkg.in/yaml.v3"
)

func testOutcomes() []model.Outcome {
	cfg := &model.PathConfig{ExportDir: "export"}
	audio1 := model.NewDownloadTask(model.ArtifactAudio, "http://x/a.mp3?apikey=SECRET", "2024 01 01", "http://x/a.mp3", 2, cfg)
	audio2 := model.NewDownloadTask(model.ArtifactAudio, "http://x/b.mp3?apikey=SECRET", "2024 01 02", "http://x/b.mp3", 3, cfg)
	transcript := model.NewDownloadTask(model.ArtifactTranscript, "http://api/calls/c1?apikey=SECRET", "2024 01 01", "c1", 2, cfg)

	// Completion order, not manifest order.
	return []model.Outcome{
		{Task: transcript, Err: &model.HTTPStatusError{Code: 404}},
		{Task: audio2, Err: &model.AlreadyExistsError{Path: audio2.Path, Size: 10}},
		{Task: audio1, Bytes: 1234},
	}
}

func TestNewSummary(t *testing.T) {
	summary := NewSummary("calls.csv", testOutcomes())

	if _, err := uuid.Parse(summary.RunID); err != nil {
		t.Errorf("RunID %q is not a UUID: %v", summary.RunID, err)
	}
	if summary.Total != 3 || summary.Downloaded != 1 || summary.Skipped != 1 || summary.Failed != 1 {
		t.Errorf("counts = %d/%d/%d/%d, want 3/1/1/1",
			summary.Total, summary.Downloaded, summary.Skipped, summary.Failed)
	}

	if len(summary.Kinds) != 2 {
		t.Fatalf("got %d kinds, want 2", len(summary.Kinds))
	}
	audio := summary.Kinds[0]
	if audio.Kind != "audio" {
		t.Errorf("first kind = %q, want audio", audio.Kind)
	}
	if audio.Items[0].Line != 2 || audio.Items[1].Line != 3 {
		t.Errorf("audio items not in manifest order: %+v", audio.Items)
	}
	if audio.Items[0].SizeBytes != 1234 {
		t.Errorf("SizeBytes = %d, want 1234", audio.Items[0].SizeBytes)
	}

	transcript := summary.Kinds[1]
	if transcript.Failed != 1 || transcript.Items[0].ErrorMessage == "" {
		t.Errorf("transcript summary = %+v", transcript)
	}
}

func TestNewSummary_Empty(t *testing.T) {
	summary := NewSummary("calls.csv", nil)
	if summary.Total != 0 || len(summary.Kinds) != 0 {
		t.Errorf("empty summary = %+v", summary)
	}
}

func TestSummary_Save(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "run.yaml")
	summary := NewSummary("calls.csv", testOutcomes())

	if err := summary.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "SECRET") {
		t.Error("report leaks api key")
	}

	var loaded Summary
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("report is not valid YAML: %v", err)
	}
	if loaded.RunID != summary.RunID {
		t.Errorf("RunID = %q, want %q", loaded.RunID, summary.RunID)
	}
}

func TestSummary_SaveError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, nil, 0644); err != nil {
		t.Fatal(err)
	}

	err := NewSummary("calls.csv", nil).Save(filepath.Join(blocker, "run.yaml"))
	if err == nil {
		t.Error("Save() below a regular file should fail")
	}
}
