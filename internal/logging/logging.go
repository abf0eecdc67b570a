// SPDX-License-Identifier: MPL-2.0

// Package logging builds the process logger: a charmbracelet/log handler on
// the terminal, fanned out to an optional JSON file.
package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	charmlog "github.com/charmbracelet/log"
	slogmulti "github.com/samber/slog-multi"
)

// Options configures New.
type Options struct {
	// Out receives human-readable logs. Defaults to os.Stderr.
	Out io.Writer
	// Level is "debug", "info", "warn" or "error". Empty means info.
	Level string
	// Verbose forces debug level on the terminal.
	Verbose bool
	// File, when set, also receives every record at debug level as JSON.
	File string
}

// New returns the logger and a closer for the log file (a no-op when no
// file is configured).
func New(opts Options) (*slog.Logger, io.Closer, error) {
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}

	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}
	if opts.Verbose {
		level = slog.LevelDebug
	}

	terminal := charmlog.NewWithOptions(out, charmlog.Options{
		Prefix: "pageshell",
		Level:  charmlog.Level(level),
	})

	if opts.File == "" {
		return slog.New(terminal), nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	file := slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})

	return slog.New(slogmulti.Fanout(terminal, file)), f, nil
}

// ParseLevel maps a config level name onto a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
	}
}

// ErrUnknownLevel is returned by ParseLevel.
var ErrUnknownLevel = errors.New("unknown log level")

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
