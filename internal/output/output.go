// Package output persists scrape results to disk as pretty-printed JSON,
// atomically, so partial progress is never observed half-written.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// dirPerm is the permission used when creating output directories.
const dirPerm = 0o755

// Writer writes results to a fixed destination path via a temporary file and
// an atomic rename.
type Writer struct {
	path string
}

// NewWriter creates a Writer for the given destination path, creating parent
// directories as needed.
func NewWriter(path string) (*Writer, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, fmt.Errorf("prepare output directory %s: %w", dir, err)
	}

	return &Writer{path: path}, nil
}

// Path returns the destination path.
func (w *Writer) Path() string {
	return w.path
}

// Write marshals v as indented JSON and atomically replaces the destination
// file. The temporary file is created in the destination directory so the
// rename stays on one filesystem.
func (w *Writer) Write(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(w.path)

	tmp, err := os.CreateTemp(dir, filepath.Base(w.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	if _, writeErr := tmp.Write(data); writeErr != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp file: %w", writeErr)
	}

	if closeErr := tmp.Close(); closeErr != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", closeErr)
	}

	if renameErr := os.Rename(tmp.Name(), w.path); renameErr != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace output file: %w", renameErr)
	}

	return nil
}
