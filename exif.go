package main

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// =============================================================================
// Date Extraction
// =============================================================================

// exifDateLayout is the EXIF date-time format.
const exifDateLayout = "2006:01:02 15:04:05"

// getExifDate extracts the capture date from a photo's DateTimeOriginal tag.
// IFD0 DateTime is ignored: editors rewrite it on every save.
//
// The wall clock is parsed as UTC so it comes back exactly as written,
// whatever the host time zone and its DST gaps. Any failure, including a panic
// inside the decoder on corrupt data, is reported as ErrExifParse.
func getExifDate(data []byte) (t time.Time, err error) {
	defer func() {
		if r := recover(); r != nil {
			t, err = time.Time{}, fmt.Errorf("%w: decoder panic: %v", ErrExifParse, r)
		}
	}()

	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrExifParse, err)
	}

	tag, err := x.Get(exif.DateTimeOriginal)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrExifParse, err)
	}
	raw, err := tag.StringVal()
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: DateTimeOriginal: %v", ErrExifParse, err)
	}

	t, err = time.Parse(exifDateLayout, strings.TrimSpace(strings.TrimRight(raw, "\x00")))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrExifParse, err)
	}
	return t, nil
}
