package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// showProgressEvery is the number of scanned files between progress lines.
const showProgressEvery = 10

// =============================================================================
// Data Types
// =============================================================================

// SourceFile is a candidate photo read from a source directory.
type SourceFile struct {
	Path    string
	Ext     string // lowercased, with the leading dot
	Data    []byte
	ModTime time.Time
}

// DestinationEntry is the placement decided for one unique fingerprint.
type DestinationEntry struct {
	Fingerprint Fingerprint
	Name        string
	Path        string
	Dated       bool
}

// Options tune a Collector.
type Options struct {
	DryRun     bool
	Link       bool
	Hash       string
	Extensions []string
}

// =============================================================================
// Collector
// =============================================================================

// Collector consolidates photos from source directories into one flat
// destination directory. It is single-use: create one per run.
type Collector struct {
	fs     afero.Fs
	log    *zap.Logger
	opts   Options
	hasher *Fingerprinter
	names  *namer

	seen    map[Fingerprint]string // fingerprint -> destination name
	summary Summary
	rows    []ReportRow
}

// NewCollector creates a Collector working on fs.
func NewCollector(fs afero.Fs, log *zap.Logger, opts Options) (*Collector, error) {
	hasher, err := NewFingerprinter(opts.Hash)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Collector{
		fs:     fs,
		log:    log,
		opts:   opts,
		hasher: hasher,
		names:  newNamer(),
		seen:   make(map[Fingerprint]string),
	}, nil
}

// Rows returns one report row per scanned file, in processing order.
func (c *Collector) Rows() []ReportRow {
	return c.rows
}

// Collect copies every distinct photo found under sources into destination.
//
// Invalid sources and an unusable destination abort the run before anything
// is copied. Unreadable files are skipped, files without a usable EXIF date are
// numbered sequentially, and a failed destination write aborts the run with the
// partial summary.
func (c *Collector) Collect(sources []string, destination string) (Summary, error) {
	destination = filepath.Clean(destination)

	for _, src := range sources {
		if err := c.checkSource(src); err != nil {
			return c.summary, err
		}
	}

	if err := c.prepareDestination(destination); err != nil {
		return c.summary, err
	}

	scan := &scanner{
		fs:      c.fs,
		log:     c.log,
		exts:    extensionSet(c.opts.Extensions),
		exclude: destination,
	}

	for _, src := range sources {
		files, err := scan.findFiles(filepath.Clean(src))
		if err != nil {
			return c.summary, fmt.Errorf("%w: %s: %v", ErrInvalidSource, src, err)
		}
		c.log.Info("scanning source", zap.String("source", src), zap.Int("files", len(files)))

		for _, path := range files {
			if err := c.processFile(path, destination); err != nil {
				return c.summary, err
			}
			c.summary.Scanned++
			if c.summary.Scanned%showProgressEvery == 0 {
				c.log.Info("progress", zap.Int("scanned", c.summary.Scanned), zap.Int("collected", c.summary.Copied))
			}
		}
	}

	return c.summary, nil
}

// checkSource validates that src exists and is a directory.
func (c *Collector) checkSource(src string) error {
	info, err := c.fs.Stat(src)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidSource, src, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrInvalidSource, src)
	}
	return nil
}

// prepareDestination creates the destination if needed and registers the
// photos it already holds, so a re-run only adds new content and the sequence
// counter resumes after the highest existing number.
func (c *Collector) prepareDestination(destination string) error {
	info, err := c.fs.Stat(destination)
	switch {
	case os.IsNotExist(err):
		if c.opts.DryRun {
			return nil
		}
		if err := c.fs.MkdirAll(destination, 0o755); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrDestinationWrite, destination, err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("%w: %s: %v", ErrDestinationWrite, destination, err)
	case !info.IsDir():
		return fmt.Errorf("%w: %s is not a directory", ErrDestinationWrite, destination)
	}

	entries, err := afero.ReadDir(c.fs, destination)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrDestinationWrite, destination, err)
	}

	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		// Directories and links still occupy their name.
		c.names.reserveExisting(e.Name())
		if !e.Mode().IsRegular() {
			continue
		}
		path := filepath.Join(destination, e.Name())
		data, err := afero.ReadFile(c.fs, path)
		if err != nil {
			return fmt.Errorf("%w: reading existing %s: %v", ErrDestinationWrite, path, err)
		}
		if fp := c.hasher.Sum(data); c.seen[fp] == "" {
			c.seen[fp] = e.Name()
		}
		c.summary.Existing++
	}

	if c.summary.Existing > 0 {
		c.log.Info("destination already holds photos",
			zap.String("destination", destination),
			zap.Int("files", c.summary.Existing))
	}
	return nil
}

// processFile handles one candidate. Only destination write failures are
// returned; everything else is logged and counted.
func (c *Collector) processFile(path, destination string) error {
	src, err := c.readSource(path)
	if err != nil {
		c.log.Warn("skipping file", zap.String("path", path), zap.Error(err))
		c.summary.Skipped++
		c.rows = append(c.rows, ReportRow{Source: path, Status: StatusSkipped})
		return nil
	}

	fp := c.hasher.Sum(src.Data)
	if existing, ok := c.seen[fp]; ok {
		c.log.Info("duplicate",
			zap.String("path", path),
			zap.String("fingerprint", fp.Short()),
			zap.String("same_as", existing))
		c.summary.Duplicates++
		c.rows = append(c.rows, ReportRow{Source: path, Fingerprint: fp, Status: StatusDuplicate, Destination: existing})
		return nil
	}

	entry, captured := c.assign(src, fp, destination)

	if !c.opts.DryRun {
		if err := transferFile(c.fs, src.Path, entry.Path, src.Data, src.ModTime, c.opts.Link); err != nil {
			return err
		}
	}

	c.seen[fp] = entry.Name
	c.summary.Copied++
	if entry.Dated {
		c.summary.WithDate++
	} else {
		c.summary.WithoutDate++
	}
	c.rows = append(c.rows, ReportRow{
		Source:      path,
		Fingerprint: fp,
		Status:      StatusCopied,
		Destination: entry.Name,
		CaptureTime: captured,
	})
	c.log.Debug("collected", zap.String("path", path), zap.String("name", entry.Name))
	return nil
}

// readSource reads a candidate file once.
func (c *Collector) readSource(path string) (*SourceFile, error) {
	info, err := c.fs.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadableFile, path, err)
	}
	data, err := afero.ReadFile(c.fs, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadableFile, path, err)
	}
	return &SourceFile{
		Path:    path,
		Ext:     strings.ToLower(filepath.Ext(path)),
		Data:    data,
		ModTime: info.ModTime(),
	}, nil
}

// assign picks the canonical name for a new fingerprint: the EXIF capture time
// when there is one, the next sequence number otherwise.
func (c *Collector) assign(src *SourceFile, fp Fingerprint, destination string) (DestinationEntry, time.Time) {
	entry := DestinationEntry{Fingerprint: fp}

	captured, err := getExifDate(src.Data)
	if err != nil {
		c.log.Debug("no capture date, numbering sequentially", zap.String("path", src.Path), zap.Error(err))
		entry.Name = c.names.sequential(src.Ext)
	} else {
		entry.Name = c.names.dated(captured, src.Ext)
		entry.Dated = true
	}

	entry.Path = filepath.Join(destination, entry.Name)
	return entry, captured
}

// extensionSet normalizes an extension filter to lowercased ".ext" keys.
// The word "photos" expands to photoExts.
func extensionSet(exts []string) map[string]bool {
	set := make(map[string]bool, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if e == "photos" {
			for ext := range photoExts {
				set[ext] = true
			}
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		set[e] = true
	}
	return set
}
