package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	for _, format := range []string{"", "console", "json"} {
		log, err := newLogger(LogConfig{Level: "info", Format: format})
		require.NoError(t, err, format)
		assert.NotNil(t, log)
	}
}

func TestNewLoggerInvalid(t *testing.T) {
	_, err := newLogger(LogConfig{Level: "loud"})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = newLogger(LogConfig{Level: "info", Format: "xml"})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNewLoggerFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "collect.log")

	log, err := newLogger(LogConfig{Level: "debug", Format: "json", File: path})
	require.NoError(t, err)
	log.Info("hello")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
}
