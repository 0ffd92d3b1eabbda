package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// LogLevel represents logging verbosity levels.
type LogLevel int

// Log level constants.
const (
	LogLevelOff LogLevel = iota
	LogLevelError
	LogLevelDebug
)

// ParseLogLevel parses a log level string.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "none":
		return LogLevelOff
	case "error":
		return LogLevelError
	case "debug":
		return LogLevelDebug
	default:
		return LogLevelError
	}
}

// String returns the string representation of a log level.
func (l LogLevel) String() string {
	switch l {
	case LogLevelOff:
		return "off"
	case LogLevelError:
		return "error"
	case LogLevelDebug:
		return "debug"
	default:
		return "error"
	}
}

// zerologLevel maps a LogLevel onto the backend's levels.
func (l LogLevel) zerologLevel() zerolog.Level {
	switch l {
	case LogLevelOff:
		return zerolog.Disabled
	case LogLevelDebug:
		return zerolog.DebugLevel
	default:
		return zerolog.ErrorLevel
	}
}

// Logger appends leveled JSON lines (level, time, message) to a file. A
// logger without a file discards everything.
type Logger struct {
	mu    sync.Mutex
	level LogLevel
	file  *os.File
	zl    zerolog.Logger
}

// NewLogger opens filePath for appending, creating its directory. A leading
// "~/" is expanded. Nothing is opened when level is off or filePath is empty.
func NewLogger(level LogLevel, filePath string) (*Logger, error) {
	l := &Logger{level: level, zl: zerolog.Nop()}
	if level == LogLevelOff || filePath == "" {
		return l, nil
	}

	path, err := expandHome(filePath)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, err
	}

	// #nosec G304 -- log file path is from validated config
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, err
	}

	l.file = f
	l.zl = zerolog.New(f).Level(level.zerologLevel()).With().Timestamp().Logger()
	return l, nil
}

func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, path[2:]), nil
}

// Close closes the log file. Later calls log nothing.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.zl = zerolog.Nop()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// Level returns the configured level.
func (l *Logger) Level() LogLevel {
	return l.level
}

// Debug logs at debug level.
func (l *Logger) Debug(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.zl.Debug().Msgf(format, args...)
}

// Error logs at error level.
func (l *Logger) Error(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.zl.Error().Msgf(format, args...)
}

// NullLogger returns a logger that discards all output.
func NullLogger() *Logger {
	return &Logger{level: LogLevelOff, zl: zerolog.Nop()}
}
