// Package filestore holds the file primitives shared by the recovery and
// preset stores: atomic replace, idempotent delete and typed I/O errors.
package filestore

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// IOError reports a failed file operation.
type IOError struct {
	Op   string // "create", "write", "sync", "rename", "read", "delete", ...
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Writer replaces files atomically: data goes to a temp file in the target
// directory, is synced, and is renamed over the target. Readers see either
// the previous complete content or the new one.
type Writer struct {
	Perm os.FileMode

	// Wrap, when set, interposes on the temp file stream. Tests use it to
	// simulate a write interrupted part way through.
	Wrap func(io.Writer) io.Writer
}

// NewWriter returns a Writer creating files with the given permissions.
func NewWriter(perm os.FileMode) *Writer {
	return &Writer{Perm: perm}
}

// WriteFile atomically replaces path with data.
func (w *Writer) WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return &IOError{Op: "create", Path: path, Err: err}
	}
	tmpName := tmp.Name()
	fail := func(op string, err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return &IOError{Op: op, Path: path, Err: err}
	}

	var dst io.Writer = tmp
	if w.Wrap != nil {
		dst = w.Wrap(tmp)
	}
	n, err := dst.Write(data)
	if err == nil && n != len(data) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return fail("write", err)
	}
	if err := tmp.Sync(); err != nil {
		return fail("sync", err)
	}
	if err := tmp.Chmod(w.Perm); err != nil {
		return fail("chmod", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &IOError{Op: "close", Path: path, Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return &IOError{Op: "rename", Path: path, Err: err}
	}
	return nil
}

// ReadFile reads a whole file, wrapping failures in an IOError.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}
	return data, nil
}

// Remove deletes path. A missing file is not an error.
func Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &IOError{Op: "delete", Path: path, Err: err}
	}
	return nil
}

// Exists reports whether path names an existing regular file.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// EnsureDir expands a leading ~ and creates the directory if needed.
func EnsureDir(dir string) (string, error) {
	dir, err := ExpandHome(dir)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &IOError{Op: "mkdir", Path: dir, Err: err}
	}
	return dir, nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot expand home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

// IsTemp reports whether name is a temp file left behind by WriteFile.
func IsTemp(name string) bool {
	return strings.HasPrefix(name, ".") && strings.HasSuffix(name, ".tmp")
}
