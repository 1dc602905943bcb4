package model

import (
	"fmt"
	"net/http"
)

// AlreadyExistsError reports that the destination file was present before
// the task ran. No request is made in that case.
type AlreadyExistsError struct {
	Path string
	Size int64
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("file %s already exists with size %d", e.Path, e.Size)
}

// HTTPStatusError reports a non-2xx response. The body is never written.
type HTTPStatusError struct {
	Code int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("HTTP error %d %s", e.Code, http.StatusText(e.Code))
}

// NetworkError wraps a transport failure: refused connection, DNS, timeout
// or a body that could not be read.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IOError wraps a local filesystem failure while persisting a download.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
