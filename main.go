// Photo Collector - A tool to consolidate photos from several folders
//
// This tool scans one or more source directories, skips exact duplicates by
// content fingerprint, and copies every unique photo into a single flat
// destination directory named after its capture date from EXIF metadata.
//
// Features:
//   - Duplicate detection via full-content fingerprints (sha256 or murmur3)
//   - EXIF date naming: YYYY-MM-DD_HH-MM-SS.ext, with _1, _2 ... for photos
//     taken in the same second
//   - Sequential naming for photos without a date: 0000001.ext, 0000002.ext ...
//   - Incremental re-runs: photos already in the destination are not copied again
//   - Optional CSV report of every scanned file
//
// Usage:
//
//	photo-collector -s ~/phone ~/camera -d ~/Photos   # Collect
//	photo-collector -s ~/phone -d ~/Photos -n         # Preview (dry-run)
//	photo-collector -s ~/phone -d ~/Photos --link     # Hard-link instead of copy
//
// Sources are only ever read. The destination receives one file per unique
// photo and nothing else.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

var version = "development"

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	os.Exit(run(os.Args[1:], afero.NewOsFs(), os.Stdout, os.Stderr))
}

// run is main without the process exit, so it can be driven from tests.
func run(args []string, fs afero.Fs, stdout, stderr io.Writer) int {
	cfg, err := parseConfig(args, stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return exitUsage
	}

	if cfg.ShowVersion {
		fmt.Fprintf(stdout, "Photo Collector v%s\n", version)
		return exitOK
	}

	if err := validateConfig(cfg); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return exitUsage
	}

	log, err := newLogger(cfg.Log)
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return exitUsage
	}
	defer log.Sync()

	// Print banner
	fmt.Fprintln(stdout, strings.Repeat("=", 50))
	fmt.Fprintln(stdout, "Photo Collector")
	fmt.Fprintln(stdout, strings.Repeat("=", 50))
	for _, src := range cfg.Sources {
		fmt.Fprintf(stdout, "Source:      %s\n", src)
	}
	fmt.Fprintf(stdout, "Destination: %s\n", cfg.Destination)
	if cfg.DryRun {
		fmt.Fprintln(stdout, "\n[DRY RUN MODE - nothing will be written]")
	}

	collector, err := NewCollector(fs, log, cfg.Options())
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return exitUsage
	}

	summary, collectErr := collector.Collect(cfg.Sources, cfg.Destination)
	printSummary(stdout, summary, cfg.DryRun)

	if cfg.Report != "" {
		if err := writeReport(fs, cfg.Report, cfg.Destination, collector.Rows()); err != nil {
			log.Error("writing report failed", zap.String("report", cfg.Report), zap.Error(err))
		} else {
			fmt.Fprintf(stdout, "Report written to %s\n", cfg.Report)
		}
	}

	if collectErr != nil {
		log.Error("collection aborted", zap.Error(collectErr))
		fmt.Fprintln(stderr, "Error:", collectErr)
		return exitError
	}

	fmt.Fprintln(stdout, "\nDone!")
	return exitOK
}
