package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// LogLevel represents logging verbosity
type LogLevel string

const (
	LevelDebug LogLevel = "DEBUG"
	LevelInfo  LogLevel = "INFO"
	LevelWarn  LogLevel = "WARN"
	LevelError LogLevel = "ERROR"
)

// ParseLevel converts a case-insensitive level name into a LogLevel.
func ParseLevel(s string) (LogLevel, error) {
	switch LogLevel(strings.ToUpper(s)) {
	case LevelDebug:
		return LevelDebug, nil
	case LevelInfo, "":
		return LevelInfo, nil
	case LevelWarn, "WARNING":
		return LevelWarn, nil
	case LevelError:
		return LevelError, nil
	default:
		return "", fmt.Errorf("unknown log level: %s", s)
	}
}

func (l LogLevel) slogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Config holds logger configuration
type Config struct {
	Level LogLevel
	// OutputPath is "" or "stderr", "stdout", or a file path. Files are
	// appended to and their directory is created.
	OutputPath string
	// Format is "json" or "text".
	Format string
}

// global is the process-wide logger. file is set when the output is a file
// the package opened and must close.
var global struct {
	mu     sync.RWMutex
	logger *slog.Logger
	file   *os.File
}

// Init installs the process-wide logger. It fails if a logger is already
// installed; call Close first to replace it.
//
//	logging.Init(logging.Config{
//	    Level:      logging.LevelInfo,
//	    OutputPath: "logs/relcore.log",
//	    Format:     "json",
//	})
func Init(config Config) error {
	global.mu.Lock()
	defer global.mu.Unlock()

	if global.logger != nil {
		return fmt.Errorf("logger already initialized; call Close() first to reinitialize")
	}

	w, file, err := openOutput(config.OutputPath)
	if err != nil {
		return err
	}
	global.logger = newLogger(w, config)
	global.file = file
	return nil
}

// InitWriter is Init with an explicit destination.
func InitWriter(w io.Writer, config Config) error {
	global.mu.Lock()
	defer global.mu.Unlock()

	if global.logger != nil {
		return fmt.Errorf("logger already initialized; call Close() first to reinitialize")
	}
	global.logger = newLogger(w, config)
	return nil
}

func openOutput(path string) (io.Writer, *os.File, error) {
	switch path {
	case "", "stderr":
		return os.Stderr, nil, nil
	case "stdout":
		return os.Stdout, nil, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

func newLogger(w io.Writer, config Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: config.Level.slogLevel()}

	if config.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// InitDefault installs an INFO-level text logger on stderr unless a logger
// is already installed.
func InitDefault() {
	global.mu.Lock()
	defer global.mu.Unlock()

	if global.logger == nil {
		global.logger = newLogger(os.Stderr, Config{Level: LevelInfo})
	}
}

// Close removes the installed logger and closes its file, if any. It is
// safe to call when nothing is installed.
func Close() error {
	global.mu.Lock()
	defer global.mu.Unlock()

	var err error
	if global.file != nil {
		err = global.file.Close()
		global.file = nil
	}
	global.logger = nil
	return err
}

// GetLogger returns the installed logger, installing the default one first
// if needed.
func GetLogger() *slog.Logger {
	global.mu.RLock()
	l := global.logger
	global.mu.RUnlock()
	if l != nil {
		return l
	}

	InitDefault()
	global.mu.RLock()
	defer global.mu.RUnlock()
	return global.logger
}
