// Package logging builds the structured loggers used by every host.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Environment variables read by FromEnv.
const (
	EnvLevel = "BUBBLEPOP_LOG_LEVEL"
	EnvFile  = "BUBBLEPOP_LOG_FILE"
)

// New returns a logger writing to w at the named level ("debug", "info",
// "warn", "error"). An empty level means info.
func New(w io.Writer, level, prefix string) (*log.Logger, error) {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	if level == "" {
		return logger, nil
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return logger, fmt.Errorf("log level %q: %w", level, err)
	}
	logger.SetLevel(lvl)
	return logger, nil
}

// FromEnv builds a logger from BUBBLEPOP_LOG_LEVEL and BUBBLEPOP_LOG_FILE.
// Without a log file it writes to fallback. The returned close func is never nil.
func FromEnv(fallback io.Writer, prefix string) (*log.Logger, func() error, error) {
	w := fallback
	closeFn := func() error { return nil }

	if path := os.Getenv(EnvFile); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, closeFn, fmt.Errorf("open log file: %w", err)
		}
		w = f
		closeFn = f.Close
	}

	logger, err := New(w, os.Getenv(EnvLevel), prefix)
	return logger, closeFn, err
}
