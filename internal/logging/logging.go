// Package logging sets up the charmbracelet logger shared by the engine and the UI.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// New returns a logger writing to w at the named level
func New(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	logger := log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Prefix:          "mimi",
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})
	return logger, nil
}

// OpenFile returns a logger appending to path, creating its directory as needed.
// The terminal belongs to the UI while it runs, so interactive sessions log here.
func OpenFile(path, level string) (*log.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger, err := New(f, level)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return logger, f, nil
}
