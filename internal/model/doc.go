// Package model defines the core data structures used throughout
// call-export.
//
// # Artifact kinds
//
// ArtifactKind selects what a task downloads and where it lands:
//
//	model.ArtifactAudio      // export/<name>.mp3
//	model.ArtifactTranscript // export/transcripts/<name>.json
//
// # Download tasks
//
// DownloadTask is one resolved unit of work built from a manifest row:
//
//	task := model.NewDownloadTask(model.ArtifactAudio, requestURL, "2024 01 01", recordingURL, 2, pathConfig)
//	fmt.Println(task.Path)         // export/2024_01_01.mp3
//	fmt.Println(task.DisplayURL()) // request URL with apikey=REDACTED
//
// # Outcomes
//
// Every task produces exactly one Outcome. Its error, when set, is one of
// AlreadyExistsError, HTTPStatusError, NetworkError or IOError, and
// Status classifies it as downloaded, skipped or failed.
package model
