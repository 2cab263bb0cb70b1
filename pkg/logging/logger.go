// Package logging provides per-component logrus loggers for the sprite tools.
//
// The terminal editor owns the terminal, so by default nothing is written to
// stderr when it is a tty. Logs go to a dated file under ~/.spriteedit/logs
// when file logging is enabled, and to stderr when output is piped or the
// level is debug.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

// LevelEnv overrides the configured level.
const LevelEnv = "SPRITE_LOG_LEVEL"

var (
	mu       sync.Mutex
	loggers  = make(map[string]*logrus.Entry)
	settings = struct {
		level  string
		file   bool
		output io.Writer
	}{level: "info"}
)

// NewLogger returns the logger for component, creating it on first use.
func NewLogger(component string) *logrus.Entry {
	mu.Lock()
	defer mu.Unlock()

	if entry, ok := loggers[component]; ok {
		return entry
	}
	logger := logrus.New()
	configure(logger, component)
	entry := logger.WithField("component", component)
	loggers[component] = entry
	return entry
}

// Configure applies the level and file settings to existing and future
// loggers. An empty level keeps the current one.
func Configure(level string, file bool) {
	mu.Lock()
	defer mu.Unlock()

	if level != "" {
		settings.level = level
	}
	settings.file = file
	for component, entry := range loggers {
		configure(entry.Logger, component)
	}
}

// SetOutput sends every logger to w, bypassing the sink selection. Passing
// nil restores it.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	settings.output = w
	for component, entry := range loggers {
		configure(entry.Logger, component)
	}
}

// ParseLevel resolves the effective level from the environment and the
// configured value, falling back to info.
func ParseLevel(configured string) logrus.Level {
	s := configured
	if env := os.Getenv(LevelEnv); env != "" {
		s = env
	}
	level, err := logrus.ParseLevel(s)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

// LogDir returns the directory holding log files.
func LogDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".spriteedit", "logs"), nil
}

func configure(logger *logrus.Logger, component string) {
	logger.SetLevel(ParseLevel(settings.level))
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if settings.output != nil {
		logger.SetOutput(settings.output)
		return
	}

	var writers []io.Writer
	if settings.file {
		if f, err := OpenFile(component); err == nil {
			writers = append(writers, f)
		}
	}

	isDebug := logger.GetLevel() >= logrus.DebugLevel
	isInteractive := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	if isDebug || !isInteractive {
		writers = append(writers, os.Stderr)
	}

	switch len(writers) {
	case 0:
		logger.SetOutput(io.Discard)
	case 1:
		logger.SetOutput(writers[0])
	default:
		logger.SetOutput(io.MultiWriter(writers...))
	}
}

// OpenFile opens the dated log file for component in LogDir for appending.
func OpenFile(component string) (*os.File, error) {
	dir, err := LogDir()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	name := fmt.Sprintf("%s-%s.log", component, time.Now().Format("2006-01-02"))
	return os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
}
