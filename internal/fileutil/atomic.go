// Package fileutil writes archive output files atomically.
package fileutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const (
	dirPerm  = 0o750
	filePerm = 0o644
)

// TempContext holds state for an atomic file write: data goes to a temporary
// file next to the target and is renamed into place on Commit.
type TempContext struct {
	File    *os.File
	TmpName string
	target  string
}

// NewTempContext creates the parent directories of target and a temp file beside it.
// Caller must defer CleanupOnError.
func NewTempContext(target string) (*TempContext, error) {
	if err := os.MkdirAll(filepath.Dir(target), dirPerm); err != nil {
		return nil, fmt.Errorf("creating directory for %q: %w", target, err)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(target), ".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("creating temporary file: %w", err)
	}

	return &TempContext{
		File:    tmpFile,
		TmpName: tmpFile.Name(),
		target:  target,
	}, nil
}

// Commit closes the temp file and renames it over the target.
func (tc *TempContext) Commit() error {
	if err := tc.File.Chmod(filePerm); err != nil {
		return fmt.Errorf("setting file permissions: %w", err)
	}

	if err := tc.File.Close(); err != nil {
		return fmt.Errorf("closing temporary file: %w", err)
	}

	if err := os.Rename(tc.TmpName, tc.target); err != nil {
		return fmt.Errorf("renaming output file: %w", err)
	}

	return nil
}

// CleanupOnError closes the temp file and removes it if the write failed.
func (tc *TempContext) CleanupOnError(errp *error) {
	if *errp == nil {
		return
	}

	tc.File.Close()       //nolint:errcheck,gosec // best-effort cleanup
	os.Remove(tc.TmpName) //nolint:errcheck,gosec // best-effort cleanup
}

// WriteFile atomically replaces target with data, creating parent directories.
func WriteFile(target string, data []byte) (err error) {
	tc, err := NewTempContext(target)
	if err != nil {
		return err
	}

	defer tc.CleanupOnError(&err)

	if _, err = tc.File.Write(data); err != nil {
		return fmt.Errorf("writing %q: %w", target, err)
	}

	return tc.Commit()
}

// CopyFile atomically copies src to dst byte for byte.
func CopyFile(src, dst string) (size int64, err error) {
	in, err := os.Open(filepath.Clean(src))
	if err != nil {
		return 0, fmt.Errorf("opening input file: %w", err)
	}
	defer in.Close()

	tc, err := NewTempContext(dst)
	if err != nil {
		return 0, err
	}

	defer tc.CleanupOnError(&err)

	if size, err = io.Copy(tc.File, in); err != nil {
		return 0, fmt.Errorf("copying %q: %w", src, err)
	}

	return size, tc.Commit()
}

// SamePath reports whether a and b refer to the same location.
func SamePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)

	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}

	return absA == absB
}
