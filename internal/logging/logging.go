// Package logging wires the process-wide logger. The terminal belongs to the
// TUI, so records go to a file in logfmt.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// Logger owns the optional log file behind the default logger.
type Logger struct {
	*log.Logger
	closeFile func() error
	path      string
}

// Setup builds a logger writing to path at the given level and installs it as
// the default logger. An empty path discards all output.
func Setup(path, level, prefix string) (*Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse logging level %q: %w", level, err)
	}

	var w io.Writer = io.Discard
	l := &Logger{path: path}
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
		l.closeFile = f.Close
	}

	l.Logger = log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Prefix:          prefix,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Formatter:       log.LogfmtFormatter,
	})
	log.SetDefault(l.Logger)
	return l, nil
}

// Path returns the log file path, empty when output is discarded.
func (l *Logger) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

func (l *Logger) Close() error {
	if l == nil || l.closeFile == nil {
		return nil
	}
	return l.closeFile()
}
