// Package planner turns manifest rows into download tasks.
//
// For each artifact kind the planner builds the request URL and the
// destination path of every row:
//
//	audio:      {recording_url}?apikey={key}        -> export/{date}.mp3
//	transcript: {base_url}/{call_id}?apikey={key}   -> export/transcripts/{date}.json
//
// Spaces in the file name column become underscores.
//
// # Basic Usage
//
//	p := planner.New(planner.Config{
//	    APIKey:         "K",
//	    BaseURL:        "http://api",
//	    URLColumn:      "recording_url",
//	    FileNameColumn: "date",
//	    CallIDColumn:   "call_id",
//	    Paths:          &model.PathConfig{ExportDir: "export"},
//	})
//	batch, err := p.Plan(m, model.ArtifactAudio)
//
// Destination paths are unique within a batch. Rows that would collide
// with an earlier row are skipped with a warning, or rejected in strict
// mode.
package planner
