package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"tinyflix/config"
)

// Manager manages the application logger and its underlying files.
type Manager struct {
	logger    zerolog.Logger
	infoFile  *os.File
	errorFile *os.File
}

var (
	mu     sync.RWMutex
	global *Manager

	fallback = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
)

// Initialize configures the global logger manager.
func Initialize(cfg *config.Config) (*Manager, error) {
	manager, err := New(cfg)
	if err != nil {
		return nil, err
	}
	mu.Lock()
	global = manager
	mu.Unlock()
	return manager, nil
}

// New creates a new Manager instance. Every level goes to stdout and the
// output file; error and above is also copied to the error file.
func New(cfg *config.Config) (*Manager, error) {
	dir := cfg.LogDirectory
	if dir == "" {
		dir = "./logs"
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	outputFile := cfg.LogOutputFile
	if outputFile == "" {
		outputFile = "app.log"
	}
	errorFile := cfg.LogErrorFile
	if errorFile == "" {
		errorFile = "app.error.log"
	}

	infoHandle, err := os.OpenFile(filepath.Join(dir, outputFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open info log file: %w", err)
	}

	errorHandle, err := os.OpenFile(filepath.Join(dir, errorFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		infoHandle.Close()
		return nil, fmt.Errorf("open error log file: %w", err)
	}

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}

	writer := zerolog.MultiLevelWriter(
		os.Stdout,
		infoHandle,
		minLevelWriter{w: errorHandle, min: zerolog.ErrorLevel},
	)

	return &Manager{
		logger:    zerolog.New(writer).Level(level).With().Timestamp().Logger(),
		infoFile:  infoHandle,
		errorFile: errorHandle,
	}, nil
}

// NewWithWriter builds a Manager that writes to w only. Used by tests and
// by commands that must not touch the log directory.
func NewWithWriter(w io.Writer, level zerolog.Level) *Manager {
	return &Manager{logger: zerolog.New(w).Level(level).With().Timestamp().Logger()}
}

// Logger returns the underlying zerolog logger.
func (m *Manager) Logger() *zerolog.Logger {
	return &m.logger
}

// Close releases file handles.
func (m *Manager) Close() error {
	var firstErr error
	if m.infoFile != nil {
		if err := m.infoFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if m.errorFile != nil {
		if err := m.errorFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Close releases the global logger manager if initialized.
func Close() error {
	mu.Lock()
	m := global
	global = nil
	mu.Unlock()
	if m == nil {
		return nil
	}
	return m.Close()
}

// SetGlobal installs m as the global manager without opening files.
func SetGlobal(m *Manager) {
	mu.Lock()
	global = m
	mu.Unlock()
}

// L returns the global logger, or a console logger before Initialize.
func L() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if global != nil {
		return &global.logger
	}
	return &fallback
}

// Debug starts a debug-level event on the global logger.
func Debug() *zerolog.Event { return L().Debug() }

// Info starts an info-level event on the global logger.
func Info() *zerolog.Event { return L().Info() }

// Warn starts a warn-level event on the global logger.
func Warn() *zerolog.Event { return L().Warn() }

// Error starts an error-level event on the global logger.
func Error() *zerolog.Event { return L().Error() }

// minLevelWriter drops events below min.
type minLevelWriter struct {
	w   io.Writer
	min zerolog.Level
}

func (m minLevelWriter) Write(p []byte) (int, error) {
	return m.w.Write(p)
}

func (m minLevelWriter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if level < m.min {
		return len(p), nil
	}
	return m.w.Write(p)
}
