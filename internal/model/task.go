package model

import (
	"net/url"
	"path/filepath"
	"strings"
)

// DownloadTask is one fully resolved unit of download work derived from a
// manifest row.
//
// Tasks share no mutable state and may be executed in any order or in
// parallel. The destination path is computed once by NewDownloadTask.
//
// Example:
//
//	cfg := &PathConfig{ExportDir: "export"}
//	task := NewDownloadTask(ArtifactAudio, "http://x/a?apikey=K", "2024 01 01", "http://x/a", 2, cfg)
//	// task.FileName = "2024_01_01.mp3"
//	// task.Path     = "export/2024_01_01.mp3"
type DownloadTask struct {
	// Kind is the artifact this task downloads.
	Kind ArtifactKind

	// RequestURL is the fully qualified URL, including the apikey parameter.
	RequestURL string

	// FileName is the normalized file name with extension.
	FileName string

	// Path is the destination path on disk.
	Path string

	// Label is the raw value of the file name column.
	Label string

	// RecordID identifies the call record: the recording URL for audio,
	// the call id for transcripts.
	RecordID string

	// Line is the manifest line the task was built from.
	Line int
}

// PathConfig holds the settings needed to compute destination paths.
type PathConfig struct {
	// ExportDir is the root of the export tree, "export" by default.
	ExportDir string
}

// Dir returns the directory that holds files of the given kind.
func (c *PathConfig) Dir(kind ArtifactKind) string {
	return filepath.Join(c.ExportDir, kind.Subdir())
}

// NewDownloadTask creates a task with its file name and destination path
// computed from the raw file name value.
func NewDownloadTask(kind ArtifactKind, requestURL, label, recordID string, line int, cfg *PathConfig) *DownloadTask {
	task := &DownloadTask{
		Kind:       kind,
		RequestURL: requestURL,
		Label:      label,
		RecordID:   recordID,
		Line:       line,
	}

	task.FileName = normalizeFileName(label) + kind.Extension()
	task.Path = filepath.Join(cfg.Dir(kind), task.FileName)

	return task
}

// DisplayURL returns the request URL with the apikey value masked so it can
// be written to logs and reports.
func (t *DownloadTask) DisplayURL() string {
	u, err := url.Parse(t.RequestURL)
	if err != nil {
		return t.RequestURL
	}
	q := u.Query()
	if _, ok := q["apikey"]; !ok {
		return t.RequestURL
	}
	q.Set("apikey", "REDACTED")
	u.RawQuery = q.Encode()
	return u.String()
}

// normalizeFileName turns a manifest value into a file name.
//
// Spaces become underscores. Path separators are also replaced so the file
// always lands directly inside its kind directory.
//
// Example:
//
//	normalizeFileName("2024 01 01") // Returns "2024_01_01"
func normalizeFileName(name string) string {
	return strings.NewReplacer(" ", "_", "/", "_", "\\", "_").Replace(name)
}
