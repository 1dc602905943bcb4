// Package ioutils provides file system utilities used when persisting
// downloads.
//
// # File Operations
//
//	// Write without exposing partial content or replacing a file
//	err := ioutils.WriteFileAtomic(ctx, "export/2024_01_01.mp3", body)
//
//	// Regenerate a file on every run
//	err := ioutils.ReplaceFileAtomic(ctx, "export/recordings.m3u", playlist)
//
//	// Check for an existing destination
//	size, exists, err := ioutils.StatFile("export/2024_01_01.mp3")
//
//	// Ensure directory exists
//	err := ioutils.EnsureDir("export/transcripts")
package ioutils
