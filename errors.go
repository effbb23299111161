package main

import "errors"

// =============================================================================
// Error Kinds
// =============================================================================

// Errors returned by the collector wrap one of these kinds, so callers can
// branch with errors.Is.
var (
	// ErrInvalidSource: a source path does not exist or is not a directory.
	// Aborts the run before anything is copied.
	ErrInvalidSource = errors.New("invalid source path")

	// ErrUnreadableFile: a candidate file could not be read. The file is skipped.
	ErrUnreadableFile = errors.New("unreadable file")

	// ErrExifParse: EXIF metadata is missing or malformed. The file falls back
	// to sequential naming.
	ErrExifParse = errors.New("exif parse failure")

	// ErrDestinationWrite: the destination could not be created or written.
	// Aborts the run.
	ErrDestinationWrite = errors.New("destination write failure")

	// ErrInvalidConfig: flags, config file or environment are inconsistent.
	ErrInvalidConfig = errors.New("invalid configuration")
)
