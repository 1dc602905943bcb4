package ioutils

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// WriteFileAtomic writes data to path so that readers never observe a
// partially written file, and never replaces an existing one.
//
// The data is written to a temporary file in the same directory, synced,
// and hard-linked to path. If path exists by then the returned error
// matches fs.ErrExist. The temporary file is always removed.
//
// Parameters:
//   - ctx: Checked before the write starts
//   - path: Destination file path; its directory must exist
//   - data: Bytes to write
//
// Example:
//
//	err := WriteFileAtomic(ctx, "export/2024_01_01.mp3", body)
func WriteFileAtomic(ctx context.Context, path string, data []byte) error {
	tmp, err := writeTemp(ctx, path, data)
	if err != nil {
		return err
	}
	defer os.Remove(tmp)

	return os.Link(tmp, path)
}

// ReplaceFileAtomic is WriteFileAtomic for files that are regenerated on
// every run, such as playlists: an existing path is replaced.
func ReplaceFileAtomic(ctx context.Context, path string, data []byte) error {
	tmp, err := writeTemp(ctx, path, data)
	if err != nil {
		return err
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

// writeTemp writes data to a synced temporary file next to path and
// returns its name.
func writeTemp(ctx context.Context, path string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+name+".*.part")
	if err != nil {
		return "", err
	}

	_, err = tmp.Write(data)
	if err == nil {
		err = tmp.Sync()
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Chmod(tmp.Name(), 0644)
	}
	if err != nil {
		_ = os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}

// StatFile reports whether path exists and its size.
//
// A missing file is not an error. Any other stat failure (permissions,
// broken mount) is returned so callers do not mistake it for absence.
//
// Example:
//
//	size, exists, err := StatFile("export/transcripts/2024_01_01.json")
func StatFile(path string) (size int64, exists bool, err error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return info.Size(), true, nil
}

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned.
//
// Example:
//
//	err := EnsureDir("export/transcripts")
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}
