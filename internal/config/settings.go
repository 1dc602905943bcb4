package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/handiism/call-export/internal/model"
	"github.com/handiism/call-export/internal/planner"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables read by ApplyEnv.
const (
	EnvAPIKey        = "APIKEY"
	EnvCSVPath       = "CSV_PATH"
	EnvBaseURL       = "BASE_URL"
	EnvExportDir     = "EXPORT_DIR"
	EnvMaxConcurrent = "MAX_CONCURRENT_DOWNLOADS"
	EnvTimeout       = "REQUEST_TIMEOUT"
)

// ErrMissingSetting is returned by Validate when a required value is empty.
var ErrMissingSetting = errors.New("missing required setting")

// Settings holds all configuration options.
type Settings struct {
	// Credentials and endpoints
	APIKey  string `yaml:"api_key"`
	CSVPath string `yaml:"csv_path"`
	BaseURL string `yaml:"base_url"`

	// Manifest columns
	URLColumn      string `yaml:"url_column"`
	FileNameColumn string `yaml:"filename_column"`
	CallIDColumn   string `yaml:"call_id_column"`
	Strict         bool   `yaml:"strict"`

	// Download settings
	ExportDir              string        `yaml:"export_dir"`
	MaxConcurrentDownloads int           `yaml:"max_concurrent_downloads"`
	RequestTimeout         time.Duration `yaml:"request_timeout"`
	UserAgent              string        `yaml:"user_agent"`
	Kinds                  []string      `yaml:"kinds"`

	// Playlist settings
	CreatePlaylist         bool   `yaml:"create_playlist"`
	PlaylistFormat         string `yaml:"playlist_format"` // m3u, pls
	PlaylistFileNameFormat string `yaml:"playlist_file_name"`
	M3UExtended            bool   `yaml:"m3u_extended"`

	// Tag settings
	ModifyTags bool   `yaml:"modify_tags"`
	TagAlbum   string `yaml:"tag_album"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		URLColumn:      "recording_url",
		FileNameColumn: "date",
		CallIDColumn:   "call_id",
		Strict:         false,

		ExportDir:              "export",
		MaxConcurrentDownloads: 8,
		RequestTimeout:         60 * time.Second,
		UserAgent:              "call-export",
		Kinds:                  []string{"audio", "transcript"},

		CreatePlaylist:         false,
		PlaylistFormat:         "m3u",
		PlaylistFileNameFormat: "recordings",
		M3UExtended:            true,

		ModifyTags: false,
		TagAlbum:   "Call recordings",
	}
}

// Load reads settings from a YAML or JSON file on top of the defaults.
//
// A missing file is not an error; the defaults are returned.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return settings, nil
}

// Save writes settings to a YAML file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// LoadDotEnv loads a .env file into the process environment. Variables
// that are already set win. A missing file is ignored.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}

// Resolve builds settings from the defaults, the config file at path, the
// .env file at envFile and the process environment, in that order. Either
// file may be missing.
func Resolve(path, envFile string) (*Settings, error) {
	settings := DefaultSettings()
	if path != "" {
		var err error
		settings, err = Load(path)
		if err != nil {
			return nil, err
		}
	}

	if err := LoadDotEnv(envFile); err != nil {
		return nil, fmt.Errorf("loading %s: %w", envFile, err)
	}
	if err := settings.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return settings, nil
}

// ApplyEnv overrides settings with values from the environment. lookup is
// usually os.LookupEnv.
func (s *Settings) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvAPIKey); ok {
		s.APIKey = v
	}
	if v, ok := lookup(EnvCSVPath); ok {
		s.CSVPath = v
	}
	if v, ok := lookup(EnvBaseURL); ok {
		s.BaseURL = v
	}
	if v, ok := lookup(EnvExportDir); ok && v != "" {
		s.ExportDir = v
	}
	if v, ok := lookup(EnvMaxConcurrent); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMaxConcurrent, err)
		}
		s.MaxConcurrentDownloads = n
	}
	if v, ok := lookup(EnvTimeout); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTimeout, err)
		}
		s.RequestTimeout = d
	}
	return nil
}

// ArtifactKinds converts Kinds into model values, in export order and
// without duplicates. An empty list selects every kind.
func (s *Settings) ArtifactKinds() ([]model.ArtifactKind, error) {
	if len(s.Kinds) == 0 {
		return model.AllKinds, nil
	}

	selected := make(map[model.ArtifactKind]bool)
	for _, name := range s.Kinds {
		kind, err := model.ParseArtifactKind(name)
		if err != nil {
			return nil, err
		}
		selected[kind] = true
	}

	var kinds []model.ArtifactKind
	for _, kind := range model.AllKinds {
		if selected[kind] {
			kinds = append(kinds, kind)
		}
	}
	return kinds, nil
}

// Validate checks that every setting the selected kinds need is present.
func (s *Settings) Validate() error {
	kinds, err := s.ArtifactKinds()
	if err != nil {
		return err
	}

	var missing []string
	if s.APIKey == "" {
		missing = append(missing, EnvAPIKey)
	}
	if s.CSVPath == "" {
		missing = append(missing, EnvCSVPath)
	}
	for _, kind := range kinds {
		if kind == model.ArtifactTranscript && s.BaseURL == "" {
			missing = append(missing, EnvBaseURL)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingSetting, strings.Join(missing, ", "))
	}

	if s.MaxConcurrentDownloads < 1 {
		return fmt.Errorf("max concurrent downloads must be at least 1, got %d", s.MaxConcurrentDownloads)
	}
	if s.ExportDir == "" {
		return fmt.Errorf("%w: export directory", ErrMissingSetting)
	}
	return nil
}

// ToPathConfig converts settings to PathConfig.
func (s *Settings) ToPathConfig() *model.PathConfig {
	return &model.PathConfig{
		ExportDir: s.ExportDir,
	}
}

// ToPlannerConfig converts settings to planner.Config.
func (s *Settings) ToPlannerConfig() planner.Config {
	return planner.Config{
		APIKey:         s.APIKey,
		BaseURL:        s.BaseURL,
		URLColumn:      s.URLColumn,
		FileNameColumn: s.FileNameColumn,
		CallIDColumn:   s.CallIDColumn,
		Strict:         s.Strict,
		Paths:          s.ToPathConfig(),
	}
}
