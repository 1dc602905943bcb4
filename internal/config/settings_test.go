package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/handiism/call-export/internal/model"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	if s.URLColumn != "recording_url" || s.FileNameColumn != "date" || s.CallIDColumn != "call_id" {
		t.Errorf("default columns = %q, %q, %q", s.URLColumn, s.FileNameColumn, s.CallIDColumn)
	}
	if s.ExportDir != "export" {
		t.Errorf("ExportDir = %q, want export", s.ExportDir)
	}
	if s.MaxConcurrentDownloads != 8 {
		t.Errorf("MaxConcurrentDownloads = %d, want 8", s.MaxConcurrentDownloads)
	}
	if s.RequestTimeout != 60*time.Second {
		t.Errorf("RequestTimeout = %v, want 60s", s.RequestTimeout)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "call-export.yaml")
	content := "base_url: http://api\nmax_concurrent_downloads: 3\nrequest_timeout: 15s\nkinds: [transcript]\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if s.BaseURL != "http://api" {
		t.Errorf("BaseURL = %q, want http://api", s.BaseURL)
	}
	if s.MaxConcurrentDownloads != 3 {
		t.Errorf("MaxConcurrentDownloads = %d, want 3", s.MaxConcurrentDownloads)
	}
	if s.RequestTimeout != 15*time.Second {
		t.Errorf("RequestTimeout = %v, want 15s", s.RequestTimeout)
	}
	// Unset keys keep their defaults
	if s.URLColumn != "recording_url" {
		t.Errorf("URLColumn = %q, want default", s.URLColumn)
	}
}

func TestLoad_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "call-export.json")
	if err := os.WriteFile(path, []byte(`{"export_dir": "out", "strict": true}`), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.ExportDir != "out" || !s.Strict {
		t.Errorf("Load() = export_dir %q strict %v, want out true", s.ExportDir, s.Strict)
	}
}

func TestLoad_Missing(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.ExportDir != "export" {
		t.Errorf("Load() of missing file did not return defaults")
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "call-export.yaml")
	s := DefaultSettings()
	s.BaseURL = "http://api"
	s.RequestTimeout = 5 * time.Second

	if err := s.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.BaseURL != s.BaseURL || loaded.RequestTimeout != s.RequestTimeout {
		t.Errorf("Load() after Save() = %q %v, want %q %v", loaded.BaseURL, loaded.RequestTimeout, s.BaseURL, s.RequestTimeout)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvAPIKey:        "K",
		EnvCSVPath:       "calls.csv",
		EnvBaseURL:       "http://api",
		EnvMaxConcurrent: "4",
		EnvTimeout:       "10s",
	}
	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}

	s := DefaultSettings()
	if err := s.ApplyEnv(lookup); err != nil {
		t.Fatalf("ApplyEnv() error = %v", err)
	}

	if s.APIKey != "K" || s.CSVPath != "calls.csv" || s.BaseURL != "http://api" {
		t.Errorf("ApplyEnv() = %q %q %q", s.APIKey, s.CSVPath, s.BaseURL)
	}
	if s.MaxConcurrentDownloads != 4 {
		t.Errorf("MaxConcurrentDownloads = %d, want 4", s.MaxConcurrentDownloads)
	}
	if s.RequestTimeout != 10*time.Second {
		t.Errorf("RequestTimeout = %v, want 10s", s.RequestTimeout)
	}
	if s.ExportDir != "export" {
		t.Errorf("ExportDir = %q, want default", s.ExportDir)
	}

	env[EnvMaxConcurrent] = "many"
	if err := s.ApplyEnv(lookup); err == nil {
		t.Error("ApplyEnv() error = nil for invalid MAX_CONCURRENT_DOWNLOADS")
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("CALL_EXPORT_TEST_VAR=from-file\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CALL_EXPORT_TEST_VAR", "")
	os.Unsetenv("CALL_EXPORT_TEST_VAR")

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv() error = %v", err)
	}
	if got := os.Getenv("CALL_EXPORT_TEST_VAR"); got != "from-file" {
		t.Errorf("CALL_EXPORT_TEST_VAR = %q, want from-file", got)
	}

	if err := LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("LoadDotEnv(missing) error = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Settings)
		wantErr bool
	}{
		{"complete", func(s *Settings) {}, false},
		{"missing api key", func(s *Settings) { s.APIKey = "" }, true},
		{"missing csv path", func(s *Settings) { s.CSVPath = "" }, true},
		{"missing base url", func(s *Settings) { s.BaseURL = "" }, true},
		{"audio only without base url", func(s *Settings) { s.BaseURL = ""; s.Kinds = []string{"audio"} }, false},
		{"unknown kind", func(s *Settings) { s.Kinds = []string{"video"} }, true},
		{"zero workers", func(s *Settings) { s.MaxConcurrentDownloads = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			s.APIKey = "K"
			s.CSVPath = "calls.csv"
			s.BaseURL = "http://api"
			tt.modify(s)

			err := s.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_MissingSetting(t *testing.T) {
	err := DefaultSettings().Validate()
	if !errors.Is(err, ErrMissingSetting) {
		t.Errorf("Validate() error = %v, want ErrMissingSetting", err)
	}
}

func TestArtifactKinds(t *testing.T) {
	s := DefaultSettings()
	s.Kinds = []string{"transcripts", "audio", "audio"}

	kinds, err := s.ArtifactKinds()
	if err != nil {
		t.Fatalf("ArtifactKinds() error = %v", err)
	}
	if len(kinds) != 2 || kinds[0] != model.ArtifactAudio || kinds[1] != model.ArtifactTranscript {
		t.Errorf("ArtifactKinds() = %v, want [audio transcript]", kinds)
	}
}

func TestResolve(t *testing.T) {
	for _, name := range []string{EnvAPIKey, EnvCSVPath, EnvBaseURL, EnvExportDir, EnvMaxConcurrent, EnvTimeout} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}

	dir := t.TempDir()
	configPath := filepath.Join(dir, "call-export.yaml")
	if err := os.WriteFile(configPath, []byte("export_dir: from-file\nmax_concurrent_downloads: 4\n"), 0644); err != nil {
		t.Fatal(err)
	}
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("APIKEY=from-dotenv\nMAX_CONCURRENT_DOWNLOADS=3\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvMaxConcurrent, "2")

	settings, err := Resolve(configPath, envPath)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if settings.ExportDir != "from-file" {
		t.Errorf("ExportDir = %q, want from-file", settings.ExportDir)
	}
	if settings.APIKey != "from-dotenv" {
		t.Errorf("APIKey = %q, want from-dotenv", settings.APIKey)
	}
	// Real environment wins over .env.
	if settings.MaxConcurrentDownloads != 2 {
		t.Errorf("MaxConcurrentDownloads = %d, want 2", settings.MaxConcurrentDownloads)
	}
}

func TestResolve_BadEnv(t *testing.T) {
	t.Setenv(EnvTimeout, "soon")

	if _, err := Resolve("", ""); err == nil {
		t.Error("Resolve() with invalid REQUEST_TIMEOUT should fail")
	}
}
