// Package publish writes the composed snapshot to its stable location.
// The artifact is a single file, fully replaced on every run.
package publish

import (
	"fmt"
	"os"
	"path/filepath"
)

// Error reports a failed write. Fatal: output failures are never retried.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("publish: write %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// FileWriter atomically replaces a single file. The temp file lives in
// the target directory so the final rename never crosses filesystems,
// and readers (e.g. the serve handler) never observe a partial write.
type FileWriter struct {
	path string
}

// NewFileWriter creates a FileWriter for the given output path.
func NewFileWriter(path string) *FileWriter {
	return &FileWriter{path: path}
}

// Path returns the output location.
func (w *FileWriter) Path() string {
	return w.path
}

// Publish writes data to the output path, replacing any previous snapshot.
func (w *FileWriter) Publish(data []byte) error {
	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &Error{Path: w.path, Err: err}
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(w.path)+".tmp-*")
	if err != nil {
		return &Error{Path: w.path, Err: err}
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &Error{Path: w.path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &Error{Path: w.path, Err: err}
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return &Error{Path: w.path, Err: err}
	}
	if err := os.Rename(tmpName, w.path); err != nil {
		os.Remove(tmpName)
		return &Error{Path: w.path, Err: err}
	}
	return nil
}
