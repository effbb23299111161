package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// =============================================================================
// Summary
// =============================================================================

// Summary holds the counters of one collector run.
type Summary struct {
	Scanned     int // candidate files found in the sources
	Copied      int // unique photos placed in the destination
	Duplicates  int // files whose fingerprint was already placed
	Skipped     int // unreadable files
	WithDate    int // copied photos named from their EXIF date
	WithoutDate int // copied photos named from the sequence counter
	Existing    int // files already in the destination before the run
}

// printSummary writes the end-of-run summary.
func printSummary(w io.Writer, s Summary, dryRun bool) {
	prefix := ""
	if dryRun {
		prefix = "[DRY RUN] "
	}

	fmt.Fprintf(w, "\n%sScanned %d files\n", prefix, s.Scanned)
	fmt.Fprintf(w, "%sCollected %d photos\n", prefix, s.Copied)
	fmt.Fprintf(w, "%s  %d with an EXIF date\n", prefix, s.WithDate)
	fmt.Fprintf(w, "%s  %d with no date\n", prefix, s.WithoutDate)
	fmt.Fprintf(w, "%sSkipped %d duplicates\n", prefix, s.Duplicates)
	if s.Skipped > 0 {
		fmt.Fprintf(w, "%sSkipped %d unreadable files\n", prefix, s.Skipped)
	}
	if s.Existing > 0 {
		fmt.Fprintf(w, "%sFound %d files already in destination\n", prefix, s.Existing)
	}
}

// =============================================================================
// Run Report
// =============================================================================

// Report row statuses.
const (
	StatusCopied    = "copied"
	StatusDuplicate = "duplicate"
	StatusSkipped   = "skipped"
)

// ReportRow records what happened to one scanned file.
type ReportRow struct {
	Source      string
	Fingerprint Fingerprint
	Status      string
	Destination string    // for duplicates, the file that already holds the content
	CaptureTime time.Time // zero when there was no EXIF date
}

// reportHeaders are the CSV columns of the run report.
var reportHeaders = []string{
	"source_path",
	"fingerprint",
	"status",
	"destination",
	"capture_date",
}

// writeReport writes rows as CSV to path. The report must not live inside the
// destination, which only ever holds photos.
func writeReport(fs afero.Fs, path, destination string, rows []ReportRow) (err error) {
	if isWithin(destination, path) {
		return fmt.Errorf("%w: report %s is inside destination %s", ErrInvalidConfig, path, destination)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	f, err := fs.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	writer := csv.NewWriter(f)
	if err := writer.Write(reportHeaders); err != nil {
		return err
	}

	for _, r := range rows {
		capture := ""
		if !r.CaptureTime.IsZero() {
			capture = r.CaptureTime.Format("2006:01:02 15:04:05")
		}
		if err := writer.Write([]string{r.Source, string(r.Fingerprint), r.Status, r.Destination, capture}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// isWithin reports whether path is dir or lies below it.
func isWithin(dir, path string) bool {
	rel, err := filepath.Rel(filepath.Clean(dir), filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
