// Package config provides configuration management for call-export.
//
// This package handles:
//   - Default configuration values
//   - Loading and saving settings from YAML (or JSON) files
//   - Reading APIKEY, CSV_PATH and BASE_URL from the environment and .env
//   - Conversion to PathConfig and planner.Config for other packages
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// Exports to ./export and ./export/transcripts
//	// 8 concurrent downloads, 60s request timeout
//	// Columns recording_url, date, call_id
//
// # Layering
//
// Settings are built once at startup and passed down by pointer:
//
//	// defaults, then call-export.yaml, then .env, then the environment
//	settings, err := config.Resolve("call-export.yaml", ".env")
//	err = settings.Validate()
//
// Command line flags are applied last by the cmd packages.
package config
