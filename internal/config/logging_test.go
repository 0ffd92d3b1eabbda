package config_test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/mipd/internal/config"
)

// logEntry is one line of the log file.
type logEntry struct {
	Level   string `json:"level"`
	Time    string `json:"time"`
	Message string `json:"message"`
}

// readEntries decodes every line of the log at path.
func readEntries(t *testing.T, path string) []logEntry {
	t.Helper()

	data, err := os.ReadFile(path) //nolint:gosec // G304: path from t.TempDir()
	require.NoError(t, err)

	var entries []logEntry
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		var e logEntry
		require.NoError(t, json.Unmarshal(sc.Bytes(), &e), "line %q is not JSON", sc.Text())
		entries = append(entries, e)
	}
	require.NoError(t, sc.Err())
	return entries
}

func newFileLogger(t *testing.T, level config.LogLevel) (*config.Logger, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "logs", "mipd.log")
	logger, err := config.NewLogger(level, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = logger.Close() })
	return logger, path
}

func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]config.LogLevel{
		"off":       config.LogLevelOff,
		"NONE":      config.LogLevelOff,
		"error":     config.LogLevelError,
		"Debug":     config.LogLevelDebug,
		"  debug  ": config.LogLevelDebug,
		"warn":      config.LogLevelError,
		"":          config.LogLevelError,
	}
	for in, want := range tests {
		assert.Equal(t, want, config.ParseLogLevel(in), "input %q", in)
	}
}

func TestLogLevel_String(t *testing.T) {
	t.Parallel()

	for _, lvl := range []config.LogLevel{config.LogLevelOff, config.LogLevelError, config.LogLevelDebug} {
		assert.Equal(t, lvl, config.ParseLogLevel(lvl.String()), "String and ParseLogLevel agree")
	}
	assert.Equal(t, "error", config.LogLevel(42).String())
}

func TestLogger_DebugWritesJSONLine(t *testing.T) {
	t.Parallel()

	logger, path := newFileLogger(t, config.LogLevelDebug)
	before := time.Now().Add(-time.Second)

	logger.Debug("connected to %s as %s", "PublicNode Watch", "0xabc")

	entries := readEntries(t, path)
	require.Len(t, entries, 1)
	assert.Equal(t, "debug", entries[0].Level)
	assert.Equal(t, "connected to PublicNode Watch as 0xabc", entries[0].Message)

	ts, err := time.Parse(time.RFC3339, entries[0].Time)
	require.NoError(t, err)
	assert.False(t, ts.Before(before.Truncate(time.Second)))
}

func TestLogger_LevelFiltering(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		level  config.LogLevel
		levels []string
	}{
		{"debug keeps both", config.LogLevelDebug, []string{"debug", "error"}},
		{"error drops debug", config.LogLevelError, []string{"error"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			logger, path := newFileLogger(t, tc.level)
			logger.Debug("fetching balance")
			logger.Error("balance fetch failed: %d", 500)

			var got []string
			for _, e := range readEntries(t, path) {
				got = append(got, e.Level)
			}
			assert.Equal(t, tc.levels, got)
		})
	}
}

func TestLogger_ErrorMessageFormatting(t *testing.T) {
	t.Parallel()

	logger, path := newFileLogger(t, config.LogLevelError)
	logger.Error("authorizing %s: %v", "Alpha", "User rejected the request.")

	entries := readEntries(t, path)
	require.Len(t, entries, 1)
	assert.Equal(t, "error", entries[0].Level)
	assert.Equal(t, "authorizing Alpha: User rejected the request.", entries[0].Message)
}

func TestLogger_AppendsAcrossOpens(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "mipd.log")
	for i := 0; i < 2; i++ {
		logger, err := config.NewLogger(config.LogLevelError, path)
		require.NoError(t, err)
		logger.Error("run %d", i)
		require.NoError(t, logger.Close())
	}

	entries := readEntries(t, path)
	require.Len(t, entries, 2)
	assert.Equal(t, "run 0", entries[0].Message)
	assert.Equal(t, "run 1", entries[1].Message)
}

func TestLogger_NoFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	off := filepath.Join(dir, "off.log")

	tests := []struct {
		name   string
		logger func() (*config.Logger, error)
		level  config.LogLevel
	}{
		{"level off", func() (*config.Logger, error) { return config.NewLogger(config.LogLevelOff, off) }, config.LogLevelOff},
		{"empty path", func() (*config.Logger, error) { return config.NewLogger(config.LogLevelDebug, "") }, config.LogLevelDebug},
		{"null", func() (*config.Logger, error) { return config.NullLogger(), nil }, config.LogLevelOff},
	}

	for _, tc := range tests {
		logger, err := tc.logger()
		require.NoError(t, err, tc.name)
		assert.Equal(t, tc.level, logger.Level(), tc.name)

		logger.Debug("dropped")
		logger.Error("dropped")
		require.NoError(t, logger.Close(), tc.name)
	}

	_, err := os.Stat(off)
	assert.True(t, os.IsNotExist(err), "an off logger never creates its file")
}

func TestLogger_CloseStopsWriting(t *testing.T) {
	t.Parallel()

	logger, path := newFileLogger(t, config.LogLevelDebug)
	logger.Debug("before close")
	require.NoError(t, logger.Close())
	require.NoError(t, logger.Close(), "second close is a no-op")

	logger.Debug("after close")

	entries := readEntries(t, path)
	require.Len(t, entries, 1)
	assert.Equal(t, "before close", entries[0].Message)
}

func TestNewLogger_UnwritablePath(t *testing.T) {
	t.Parallel()

	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	_, err := config.NewLogger(config.LogLevelDebug, filepath.Join(blocker, "mipd.log"))
	assert.Error(t, err)
}

func TestLogger_ConcurrentLinesStayWhole(t *testing.T) {
	t.Parallel()

	logger, path := newFileLogger(t, config.LogLevelDebug)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			logger.Debug("request %d", n)
		}(i)
	}
	wg.Wait()

	assert.Len(t, readEntries(t, path), 20)
}
