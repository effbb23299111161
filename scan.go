package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// =============================================================================
// File Discovery
// =============================================================================

// photoExts contains the extensions selected by the "photos" preset of the
// extension filter (--ext photos).
var photoExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".heic": true,
	".hif":  true, // Apple HEIF (alternate extension)
	".dng":  true, // Adobe Digital Negative
	".arw":  true, // Sony RAW
	".cr2":  true, // Canon RAW
	".nef":  true, // Nikon RAW
	".raf":  true, // Fujifilm RAW
}

// skipFolders contains directory names to skip during scanning.
// These are system folders that never hold user photos.
var skipFolders = map[string]bool{
	".stfolder":       true, // Syncthing
	".fseventsd":      true, // macOS filesystem events
	".Trashes":        true, // macOS trash
	".Spotlight-V100": true, // macOS Spotlight index
	"@eaDir":          true, // Synology thumbnails
	"$RECYCLE.BIN":    true, // Windows recycle bin
}

// scanner walks source directories and returns candidate files.
type scanner struct {
	fs      afero.Fs
	log     *zap.Logger
	exts    map[string]bool // lowercased; empty means every extension
	exclude string          // subtree never scanned (the destination)
}

// isCandidate returns true if the file extension passes the extension filter.
func (s *scanner) isCandidate(path string) bool {
	if len(s.exts) == 0 {
		return true
	}
	return s.exts[strings.ToLower(filepath.Ext(path))]
}

// findFiles walks root and returns the paths of all regular candidate files in
// lexicographic order. Hidden entries and skipFolders are skipped. Unreadable
// subdirectories are logged and skipped; only a failure on root itself is
// returned.
func (s *scanner) findFiles(root string) ([]string, error) {
	var files []string

	err := afero.Walk(s.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			s.log.Warn("skipping unreadable path", zap.String("path", path), zap.Error(err))
			return nil
		}

		if info.IsDir() {
			if path == root {
				return nil
			}
			name := info.Name()
			if strings.HasPrefix(name, ".") || skipFolders[name] {
				return filepath.SkipDir
			}
			if s.exclude != "" && filepath.Clean(path) == s.exclude {
				s.log.Debug("skipping destination inside source", zap.String("path", path))
				return filepath.SkipDir
			}
			return nil
		}

		if !info.Mode().IsRegular() || strings.HasPrefix(info.Name(), ".") {
			return nil
		}

		if s.isCandidate(path) {
			files = append(files, path)
		}
		return nil
	})

	return files, err
}
