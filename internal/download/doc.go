// Package download runs the export: it turns a manifest into batches of
// download tasks and executes them with bounded concurrency.
//
// # Manager
//
// The Manager coordinates the entire export:
//
//  1. Read the manifest
//  2. Plan one batch per artifact kind (audio, transcripts)
//  3. Download each batch concurrently, audio first
//  4. Tag recordings with ID3 metadata (optional)
//  5. Generate a playlist of the recordings (optional)
//
// # Basic Usage
//
//	manager := download.NewManager(settings, func(event download.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	if err := manager.Initialize(ctx); err != nil {
//	    log.Fatal(err) // missing manifest, missing column...
//	}
//
//	if err := manager.StartDownloads(ctx); err != nil {
//	    log.Fatal(err) // interrupted
//	}
//
// # Concurrency
//
// At most settings.MaxConcurrentDownloads requests are in flight at once.
// A failed task never cancels the others.
//
// # Progress Tracking
//
// Progress is reported via a callback function that receives ProgressEvent:
//
//	type ProgressEvent struct {
//	    Message string
//	    Level   ProgressLevel // Info, Verbose, Warning, Error, Success
//	}
//
// The callback is invoked from worker goroutines and must be safe for
// concurrent use.
//
// # Retry Logic
//
// There is none. A task that fails is reported once; rerunning the export
// retries it, because files already on disk are skipped without a request.
package download
