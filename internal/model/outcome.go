package model

import (
	"errors"
	"time"
)

// OutcomeStatus classifies the result of a task.
type OutcomeStatus string

const (
	// StatusDownloaded means the body was fetched and written to disk.
	StatusDownloaded OutcomeStatus = "downloaded"

	// StatusSkipped means the destination already existed.
	StatusSkipped OutcomeStatus = "skipped"

	// StatusFailed means the request or the write failed.
	StatusFailed OutcomeStatus = "failed"
)

// String returns the string representation of OutcomeStatus
func (s OutcomeStatus) String() string {
	return string(s)
}

// Outcome is the result of executing one DownloadTask.
type Outcome struct {
	Task        *DownloadTask
	Err         error
	Bytes       int64         // bytes written, 0 unless downloaded
	ContentType string        // response Content-Type, diagnostic only
	Duration    time.Duration // wall time spent on the task
}

// OK reports whether the task downloaded successfully.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Status returns the classification of the outcome.
func (o Outcome) Status() OutcomeStatus {
	if o.Err == nil {
		return StatusDownloaded
	}
	var exists *AlreadyExistsError
	if errors.As(o.Err, &exists) {
		return StatusSkipped
	}
	return StatusFailed
}

// Batch holds the tasks of one artifact kind, in manifest order.
type Batch struct {
	Kind  ArtifactKind
	Tasks []*DownloadTask

	// Warnings lists rows that were defaulted or skipped while planning.
	Warnings []string
}

// Len returns the number of tasks in the batch.
func (b *Batch) Len() int {
	return len(b.Tasks)
}
