// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package log

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZap(t *testing.T) {
	t.Run("With unknown level defaults to debug", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(Level(42), buffer)
		require.Equal(t, DebugLevel, logger.LogLevel())

		logger.Debug("test debug")
		entry := decodeEntry(t, buffer)
		assert.Equal(t, "test debug", entry["msg"])
		assert.Equal(t, DebugLevel.String(), entry["level"])
	})
	t.Run("With level filtering", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(WarningLevel, buffer)
		require.Equal(t, WarningLevel, logger.LogLevel())

		logger.Info("dropped")
		logger.Debugf("dropped %d", 1)
		require.Zero(t, buffer.Len())

		logger.Warnf("replica set %s", "rs0")
		entry := decodeEntry(t, buffer)
		assert.Equal(t, "replica set rs0", entry["msg"])
		assert.Equal(t, "warn", entry["level"])
	})
	t.Run("With error entries carrying a stacktrace", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(InfoLevel, buffer)
		logger.Errorf("cycle failed: %v", "boom")
		entry := decodeEntry(t, buffer)
		assert.Equal(t, "cycle failed: boom", entry["msg"])
		assert.Equal(t, "error", entry["level"])
		assert.Contains(t, entry, "stacktrace")
	})
	t.Run("With structured fields", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(InfoLevel, buffer)
		logger.With("cycle", "c-1", "pods", 3).Info("cycle started")
		entry := decodeEntry(t, buffer)
		assert.Equal(t, "cycle started", entry["msg"])
		assert.Equal(t, "c-1", entry["cycle"])
		assert.EqualValues(t, 3, entry["pods"])
	})
	t.Run("With returns the receiver when nothing usable is given", func(t *testing.T) {
		logger := NewZap(InfoLevel, new(bytes.Buffer))
		assert.Same(t, logger, logger.With())
		assert.Same(t, logger, logger.With(1, 2))
	})
	t.Run("With odd key values", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(InfoLevel, buffer)
		logger.With("key", "value", "dangling").Info("odd")
		entry := decodeEntry(t, buffer)
		assert.Equal(t, "value", entry["key"])
		assert.Equal(t, "dangling", entry["_"])
	})
	t.Run("With Panic", func(t *testing.T) {
		logger := NewZap(InfoLevel, new(bytes.Buffer))
		assert.Panics(t, func() { logger.Panicf("panic %d", 1) })
	})
	t.Run("With Flush on a file output", func(t *testing.T) {
		file, err := os.Create(filepath.Join(t.TempDir(), "sidecar.log"))
		require.NoError(t, err)
		t.Cleanup(func() { _ = file.Close() })

		logger := NewZap(InfoLevel, file, os.Stdout)
		logger.Info("to file")
		require.NoError(t, logger.Flush())

		content, err := os.ReadFile(file.Name())
		require.NoError(t, err)
		assert.Contains(t, string(content), "to file")
		assert.Len(t, logger.LogOutput(), 2)
	})
}

func TestParseLevel(t *testing.T) {
	levels := map[string]Level{
		"debug":   DebugLevel,
		"INFO":    InfoLevel,
		"":        InfoLevel,
		"warn":    WarningLevel,
		"Warning": WarningLevel,
		"error":   ErrorLevel,
		"fatal":   FatalLevel,
		"panic":   PanicLevel,
	}
	for text, expected := range levels {
		actual, err := ParseLevel(text)
		require.NoError(t, err)
		assert.Equal(t, expected, actual, text)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestDiscardLogger(t *testing.T) {
	logger := DiscardLogger
	logger.Debug("debug")
	logger.Infof("info %s", "msg")
	logger.Warn("warn")
	logger.Errorf("error %s", "msg")

	assert.Equal(t, InfoLevel, logger.LogLevel())
	assert.Len(t, logger.LogOutput(), 1)
	assert.Equal(t, logger, logger.With("k", "v"))
	assert.NoError(t, logger.Flush())
	assert.PanicsWithValue(t, "panic 42", func() { logger.Panicf("panic %d", 42) })
}

func decodeEntry(t *testing.T, buffer *bytes.Buffer) map[string]any {
	t.Helper()
	entry := make(map[string]any)
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buffer.Bytes()), &entry))
	buffer.Reset()
	return entry
}
