package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileLeavesNoTemp(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/dest", 0o755))

	mtime := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, writeFile(fs, "/dest/0000001.jpg", []byte("data"), mtime))

	entries, err := afero.ReadDir(fs, "/dest")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "0000001.jpg", entries[0].Name())
	assert.True(t, entries[0].ModTime().Equal(mtime))
}

func TestTransferFileWriteFailure(t *testing.T) {
	fs := &failingFs{Fs: afero.NewMemMapFs(), failWrites: "/dest/"}
	err := transferFile(fs, "/src/a.jpg", "/dest/a.jpg", []byte("x"), time.Time{}, false)
	assert.ErrorIs(t, err, ErrDestinationWrite)
}

func TestTransferFileHardLink(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.jpg")
	dst := filepath.Join(dir, "dst.jpg")
	require.NoError(t, os.WriteFile(src, []byte("linked"), 0o644))

	require.NoError(t, transferFile(afero.NewOsFs(), src, dst, []byte("linked"), time.Time{}, true))

	srcInfo, err := os.Stat(src)
	require.NoError(t, err)
	dstInfo, err := os.Stat(dst)
	require.NoError(t, err)
	assert.True(t, os.SameFile(srcInfo, dstInfo))
}

func TestTransferFileLinkFallsBackToCopy(t *testing.T) {
	orig := linkFunc
	linkFunc = func(string, string) error { return errors.New("invalid cross-device link") }
	t.Cleanup(func() { linkFunc = orig })

	dir := t.TempDir()
	src := filepath.Join(dir, "src.jpg")
	dst := filepath.Join(dir, "dst.jpg")
	require.NoError(t, os.WriteFile(src, []byte("copied"), 0o644))

	require.NoError(t, transferFile(afero.NewOsFs(), src, dst, []byte("copied"), time.Time{}, true))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "copied", string(data))

	srcInfo, _ := os.Stat(src)
	dstInfo, _ := os.Stat(dst)
	assert.False(t, os.SameFile(srcInfo, dstInfo))
}
