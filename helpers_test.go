package main

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// exifJPEG builds a minimal JPEG whose Exif sub-IFD carries DateTimeOriginal
// set to date ("2006:01:02 15:04:05"). tail is appended after the APP1
// segment so callers can vary the content for the same date.
func exifJPEG(date, tail string) []byte {
	return exifJPEGTags("", date, tail)
}

// exifJPEGTags builds a minimal JPEG with an IFD0 DateTime tag and an Exif
// sub-IFD DateTimeOriginal tag. An empty value leaves the tag out.
func exifJPEGTags(dateTime, dateTimeOriginal, tail string) []byte {
	le := binary.LittleEndian

	n0 := 0
	if dateTime != "" {
		n0++
	}
	if dateTimeOriginal != "" {
		n0++
	}
	subOff := 8 + 2 + 12*n0 + 4
	dataOff := subOff
	if dateTimeOriginal != "" {
		dataOff += 2 + 12 + 4
	}
	dtOff := dataOff
	origOff := dataOff
	if dateTime != "" {
		origOff += len(dateTime) + 1
	}

	entry := func(buf *bytes.Buffer, tag, typ uint16, count, value uint32) {
		binary.Write(buf, le, tag)
		binary.Write(buf, le, typ)
		binary.Write(buf, le, count)
		binary.Write(buf, le, value)
	}

	var tiff bytes.Buffer
	tiff.WriteString("II*\x00")
	binary.Write(&tiff, le, uint32(8)) // IFD0 offset
	binary.Write(&tiff, le, uint16(n0))
	if dateTime != "" {
		entry(&tiff, 0x0132, 2, uint32(len(dateTime)+1), uint32(dtOff)) // DateTime, ASCII
	}
	if dateTimeOriginal != "" {
		entry(&tiff, 0x8769, 4, 1, uint32(subOff)) // ExifIFDPointer, LONG
	}
	binary.Write(&tiff, le, uint32(0)) // next IFD

	if dateTimeOriginal != "" {
		binary.Write(&tiff, le, uint16(1))
		entry(&tiff, 0x9003, 2, uint32(len(dateTimeOriginal)+1), uint32(origOff)) // DateTimeOriginal, ASCII
		binary.Write(&tiff, le, uint32(0))
	}
	if dateTime != "" {
		tiff.WriteString(dateTime + "\x00")
	}
	if dateTimeOriginal != "" {
		tiff.WriteString(dateTimeOriginal + "\x00")
	}

	app1 := append([]byte("Exif\x00\x00"), tiff.Bytes()...)

	var out bytes.Buffer
	out.Write([]byte{0xFF, 0xD8, 0xFF, 0xE1})
	binary.Write(&out, binary.BigEndian, uint16(len(app1)+2))
	out.Write(app1)
	out.WriteString(tail)
	out.Write([]byte{0xFF, 0xD9})
	return out.Bytes()
}

// writeFiles creates files on fs, creating parent directories as needed.
func writeFiles(t *testing.T, fs afero.Fs, files map[string][]byte) {
	t.Helper()
	for path, data := range files {
		require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, afero.WriteFile(fs, path, data, 0o644))
	}
}

// listDir returns the sorted names of the regular files directly under dir.
func listDir(t *testing.T, fs afero.Fs, dir string) []string {
	t.Helper()
	entries, err := afero.ReadDir(fs, dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		if e.Mode().IsRegular() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}

// failingFs wraps an afero.Fs and injects read or write failures.
type failingFs struct {
	afero.Fs
	failOpen   string // exact path whose Open fails
	failWrites string // path prefix under which file creation fails
}

func (f *failingFs) Open(name string) (afero.File, error) {
	if f.failOpen != "" && name == f.failOpen {
		return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrPermission}
	}
	return f.Fs.Open(name)
}

func (f *failingFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if f.failWrites != "" && flag&os.O_CREATE != 0 && strings.HasPrefix(name, f.failWrites) {
		return nil, &os.PathError{Op: "open", Path: name, Err: syscall.ENOSPC}
	}
	return f.Fs.OpenFile(name, flag, perm)
}

// closeFailFs wraps an afero.Fs so that files it creates fail on Close.
type closeFailFs struct {
	afero.Fs
}

func (f *closeFailFs) Create(name string) (afero.File, error) {
	file, err := f.Fs.Create(name)
	if err != nil {
		return nil, err
	}
	return &closeFailFile{File: file}, nil
}

type closeFailFile struct {
	afero.File
}

func (f *closeFailFile) Close() error {
	f.File.Close()
	return &os.PathError{Op: "close", Path: f.Name(), Err: syscall.EIO}
}
