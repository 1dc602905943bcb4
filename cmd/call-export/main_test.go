package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/handiism/call-export/internal/config"
	"github.com/urfave/cli/v2"
)

type fixture struct {
	dir      string
	csv      string
	config   string
	export   string
	requests *int32
	server   *httptest.Server
}

func newFixture(t *testing.T, manifest string) *fixture {
	t.Helper()
	for _, name := range []string{config.EnvAPIKey, config.EnvCSVPath, config.EnvBaseURL, config.EnvExportDir, config.EnvMaxConcurrent, config.EnvTimeout} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}

	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		if strings.HasSuffix(r.URL.Path, "/missing.mp3") {
			http.NotFound(w, r)
			return
		}
		fmt.Fprintf(w, "body of %s", r.URL.Path)
	}))
	t.Cleanup(server.Close)

	dir := t.TempDir()
	f := &fixture{
		dir:      dir,
		csv:      filepath.Join(dir, "calls.csv"),
		config:   filepath.Join(dir, "call-export.yaml"),
		export:   filepath.Join(dir, "export"),
		requests: &requests,
		server:   server,
	}

	manifest = strings.ReplaceAll(manifest, "{server}", server.URL)
	if err := os.WriteFile(f.csv, []byte(manifest), 0644); err != nil {
		t.Fatal(err)
	}
	cfg := fmt.Sprintf("api_key: K\nbase_url: %s/calls\n", server.URL)
	if err := os.WriteFile(f.config, []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}
	return f
}

func (f *fixture) run(args ...string) (stdout, stderr string, err error) {
	var out, errOut bytes.Buffer
	base := []string{"call-export",
		"--config", f.config,
		"--env-file", filepath.Join(f.dir, "missing.env"),
		"--csv", f.csv,
		"--export-dir", f.export,
	}
	err = newApp(&out, &errOut).RunContext(context.Background(), append(base, args...))
	return out.String(), errOut.String(), err
}

func exitCode(err error) int {
	var exitErr cli.ExitCoder
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	if err != nil {
		return exitFatal
	}
	return 0
}

const manifestCSV = "recording_url,date,call_id\n" +
	"{server}/rec/a.mp3,2024 01 01,c1\n" +
	"{server}/rec/missing.mp3,2024 01 02,c2\n"

func TestRun_Export(t *testing.T) {
	closed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	closed.Close()

	f := newFixture(t, manifestCSV+closed.URL+"/rec/down.mp3,2024 01 03,c3\n")
	reportPath := filepath.Join(f.dir, "report.yaml")

	stdout, stderr, err := f.run("--report", reportPath)
	if code := exitCode(err); code != 0 {
		t.Fatalf("exit code = %d, err = %v", code, err)
	}

	if _, err := os.Stat(filepath.Join(f.export, "2024_01_01.mp3")); err != nil {
		t.Errorf("recording not written: %v", err)
	}
	if _, err := os.Stat(filepath.Join(f.export, "transcripts", "2024_01_02.json")); err != nil {
		t.Errorf("transcript not written: %v", err)
	}
	if _, err := os.Stat(reportPath); err != nil {
		t.Errorf("report not written: %v", err)
	}

	if !strings.Contains(stdout, "Downloaded: ") {
		t.Errorf("stdout has no success line:\n%s", stdout)
	}
	if !strings.Contains(stderr, "Failed to download") || !strings.Contains(stderr, "missing.mp3") {
		t.Errorf("stderr has no failure line:\n%s", stderr)
	}
	if !strings.Contains(stderr, "down.mp3") {
		t.Errorf("stderr has no line for the unreachable host:\n%s", stderr)
	}

	reportData, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(stdout+stderr+string(reportData), "apikey=K") {
		t.Error("output or report leaks api key")
	}
}

func TestRun_ExistingFileOnStderr(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"default", nil},
		{"quiet", []string{"--quiet"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, manifestCSV)
			if err := os.MkdirAll(f.export, 0755); err != nil {
				t.Fatal(err)
			}
			existing := filepath.Join(f.export, "2024_01_01.mp3")
			if err := os.WriteFile(existing, []byte("old"), 0644); err != nil {
				t.Fatal(err)
			}

			stdout, stderr, err := f.run(append([]string{"--only", "audio"}, tt.args...)...)
			if code := exitCode(err); code != 0 {
				t.Fatalf("exit code = %d, err = %v", code, err)
			}

			if !strings.Contains(stderr, "already exists with size 3") {
				t.Errorf("stderr has no line for the existing file:\n%s", stderr)
			}
			if strings.Contains(stdout, "already exists") {
				t.Errorf("existing file reported on stdout:\n%s", stdout)
			}
		})
	}
}

func TestRun_MissingColumn(t *testing.T) {
	f := newFixture(t, "recording_url,call_id\n{server}/rec/a.mp3,c1\n")

	_, _, err := f.run()

	if code := exitCode(err); code != exitFatal {
		t.Errorf("exit code = %d, want %d", code, exitFatal)
	}
	if n := atomic.LoadInt32(f.requests); n != 0 {
		t.Errorf("got %d requests, want none", n)
	}
	if _, err := os.Stat(f.export); !os.IsNotExist(err) {
		t.Errorf("export dir created, stat err = %v", err)
	}
}

func TestRun_MissingAPIKey(t *testing.T) {
	f := newFixture(t, manifestCSV)
	if err := os.WriteFile(f.config, []byte("base_url: http://example.com\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, _, err := f.run()

	if code := exitCode(err); code != exitFatal {
		t.Errorf("exit code = %d, want %d", code, exitFatal)
	}
	if err == nil || !strings.Contains(err.Error(), config.EnvAPIKey) {
		t.Errorf("err = %v, want mention of %s", err, config.EnvAPIKey)
	}
}

func TestRun_DryRun(t *testing.T) {
	f := newFixture(t, manifestCSV)

	stdout, _, err := f.run("--dry-run", "--only", "audio")
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}

	if n := atomic.LoadInt32(f.requests); n != 0 {
		t.Errorf("got %d requests, want none", n)
	}
	if !strings.Contains(stdout, "apikey=REDACTED") {
		t.Errorf("dry run should list redacted URLs:\n%s", stdout)
	}
	if strings.Contains(stdout, "transcripts") {
		t.Errorf("--only audio should not plan transcripts:\n%s", stdout)
	}
	if _, err := os.Stat(f.export); !os.IsNotExist(err) {
		t.Errorf("dry run created export dir, stat err = %v", err)
	}
}
