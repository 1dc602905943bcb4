package download

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/url"
	"time"

	"github.com/handiism/call-export/internal/audio"
	"github.com/handiism/call-export/internal/http"
	ioutils "github.com/handiism/call-export/internal/io"
	"github.com/handiism/call-export/internal/model"
)

// Fetcher performs a single GET request. *http.Client implements it.
type Fetcher interface {
	Fetch(ctx context.Context, url, accept string) (*http.Response, error)
}

// Worker executes one DownloadTask at a time. A Worker holds no per-task
// state and is shared by every goroutine of a batch.
type Worker struct {
	client Fetcher
	tagger *audio.Tagger
	logger *slog.Logger
}

// NewWorker creates a Worker. tagger may be nil to leave recordings
// untouched.
func NewWorker(client Fetcher, tagger *audio.Tagger, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{
		client: client,
		tagger: tagger,
		logger: logger,
	}
}

// FetchAndStore downloads task.RequestURL and writes the body to task.Path.
//
// If the destination already exists no request is made and the outcome
// carries an *model.AlreadyExistsError. A non-2xx response never creates
// a file. The outcome's error is one of AlreadyExistsError,
// HTTPStatusError, NetworkError or IOError.
func (w *Worker) FetchAndStore(ctx context.Context, task *model.DownloadTask) (outcome model.Outcome) {
	start := time.Now()
	outcome.Task = task
	defer func() {
		outcome.Duration = time.Since(start)
	}()

	size, exists, err := ioutils.StatFile(task.Path)
	if err != nil {
		outcome.Err = &model.IOError{Op: "stat", Path: task.Path, Err: err}
		return outcome
	}
	if exists {
		outcome.Err = &model.AlreadyExistsError{Path: task.Path, Size: size}
		return outcome
	}

	resp, err := w.client.Fetch(ctx, task.RequestURL, task.Kind.Accept())
	if err != nil {
		// Transport errors quote the request URL, api key included.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			urlErr.URL = task.DisplayURL()
		}
		outcome.Err = &model.NetworkError{Err: err}
		return outcome
	}
	outcome.ContentType = resp.ContentType()
	w.logger.Debug("response received",
		"kind", task.Kind.String(),
		"url", task.DisplayURL(),
		"status", resp.StatusCode,
		"content_type", outcome.ContentType,
	)

	if !resp.OK() {
		outcome.Err = &model.HTTPStatusError{Code: resp.StatusCode}
		return outcome
	}

	if err := ioutils.WriteFileAtomic(ctx, task.Path, resp.Body); err != nil {
		if errors.Is(err, fs.ErrExist) {
			// Created by someone else while the request was in flight.
			size, _, _ := ioutils.StatFile(task.Path)
			outcome.Err = &model.AlreadyExistsError{Path: task.Path, Size: size}
			return outcome
		}
		outcome.Err = &model.IOError{Op: "write", Path: task.Path, Err: err}
		return outcome
	}
	outcome.Bytes = int64(len(resp.Body))

	if w.tagger != nil && task.Kind == model.ArtifactAudio {
		if err := w.tagger.SaveTags(task); err != nil {
			w.logger.Warn("tagging failed", "path", task.Path, "error", err)
		}
	}

	return outcome
}
