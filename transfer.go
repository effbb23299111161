package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

// =============================================================================
// File Operations
// =============================================================================

// linkFunc is swapped in tests to simulate cross-device link failures.
var linkFunc = os.Link

// writeFile writes data to dst through a hidden temporary file in the same
// directory and a rename, so an interrupted run never leaves a truncated photo
// under its canonical name. The source modification time is carried over.
func writeFile(fs afero.Fs, dst string, data []byte, modTime time.Time) error {
	dir, name := filepath.Split(dst)
	tmpName := filepath.Join(dir, "."+name+".tmp")

	f, err := fs.OpenFile(tmpName, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		fs.Remove(tmpName)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		fs.Remove(tmpName)
		return err
	}
	if err := f.Close(); err != nil {
		fs.Remove(tmpName)
		return err
	}

	if err := fs.Rename(tmpName, dst); err != nil {
		fs.Remove(tmpName)
		return err
	}

	if !modTime.IsZero() {
		// Timestamps are cosmetic; the content is already in place.
		_ = fs.Chtimes(dst, modTime, modTime)
	}
	return nil
}

// transferFile places a source file at dst. When link is set and fs is the OS
// filesystem a hard link is tried first; any link failure (cross-device,
// unsupported filesystem) falls back to a copy.
func transferFile(fs afero.Fs, src, dst string, data []byte, modTime time.Time, link bool) error {
	if link {
		if _, ok := fs.(*afero.OsFs); ok {
			if err := linkFunc(src, dst); err == nil {
				return nil
			}
		}
	}

	if err := writeFile(fs, dst, data, modTime); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrDestinationWrite, dst, err)
	}
	return nil
}
