// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/invowk/pageshell/internal/render"
)

const (
	// LogLevelDebug logs everything.
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo is the default level.
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn logs warnings and errors.
	LogLevelWarn LogLevel = "warn"
	// LogLevelError logs errors only.
	LogLevelError LogLevel = "error"
)

var (
	// ErrInvalidLogLevel is returned when a LogLevel value is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// LogLevel is the minimum level written to the terminal.
	LogLevel string

	// InvalidLogLevelError is returned when a LogLevel value is not recognized.
	InvalidLogLevelError struct {
		Value LogLevel
	}

	// InvalidConfigError collects every field error of a Config.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config is the effective configuration.
	Config struct {
		Pages     PagesConfig     `json:"pages" mapstructure:"pages"`
		Menu      MenuConfig      `json:"menu" mapstructure:"menu"`
		UI        UIConfig        `json:"ui" mapstructure:"ui"`
		Log       LogConfig       `json:"log" mapstructure:"log"`
		Discovery DiscoveryConfig `json:"discovery" mapstructure:"discovery"`
		State     StateConfig     `json:"state" mapstructure:"state"`
	}

	// PagesConfig locates page files.
	PagesConfig struct {
		// Dirs are scanned in order; earlier directories win key collisions.
		Dirs []string `json:"dirs" mapstructure:"dirs"`
		// Include and Exclude are doublestar globs over page file names.
		Include []string `json:"include" mapstructure:"include"`
		Exclude []string `json:"exclude" mapstructure:"exclude"`
	}

	// MenuConfig controls the navigation menu.
	MenuConfig struct {
		// Hierarchical false falls back to a flat, ordered list.
		Hierarchical bool               `json:"hierarchical" mapstructure:"hierarchical"`
		Orientation  render.Orientation `json:"orientation" mapstructure:"orientation"`
	}

	// UIConfig controls terminal output.
	UIConfig struct {
		Theme    render.Theme `json:"theme" mapstructure:"theme"`
		WideMode bool         `json:"wide_mode" mapstructure:"wide_mode"`
		Verbose  bool         `json:"verbose" mapstructure:"verbose"`
		LogLevel LogLevel     `json:"log_level" mapstructure:"log_level"`
	}

	// LogConfig adds a JSON log file next to terminal logging.
	LogConfig struct {
		File string `json:"file" mapstructure:"file"`
	}

	// DiscoveryConfig tunes source loading.
	DiscoveryConfig struct {
		// Concurrency > 1 loads sources in parallel.
		Concurrency int `json:"concurrency" mapstructure:"concurrency"`
	}

	// StateConfig locates the persisted selection.
	StateConfig struct {
		File string `json:"file" mapstructure:"file"`
	}
)

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Pages: PagesConfig{
			Dirs:    []string{"pages"},
			Include: []string{},
			Exclude: []string{},
		},
		Menu: MenuConfig{
			Hierarchical: true,
			Orientation:  render.Vertical,
		},
		UI: UIConfig{
			Theme:    render.ThemeAuto,
			LogLevel: LogLevelInfo,
		},
		Discovery: DiscoveryConfig{Concurrency: 1},
	}
}

// IsValid returns whether the LogLevel is one of the defined levels.
func (l LogLevel) IsValid() (bool, []error) {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return true, nil
	default:
		return false, []error{&InvalidLogLevelError{Value: l}}
	}
}

func (e *InvalidLogLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q (valid: debug, info, warn, error)", e.Value)
}

func (e *InvalidLogLevelError) Unwrap() error { return ErrInvalidLogLevel }

// IsValid checks the values CUE cannot see once environment overrides are
// applied.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if ok, e := c.Menu.Orientation.IsValid(); !ok {
		errs = append(errs, e...)
	}
	if ok, e := c.UI.Theme.IsValid(); !ok {
		errs = append(errs, e...)
	}
	if ok, e := c.UI.LogLevel.IsValid(); !ok {
		errs = append(errs, e...)
	}
	if c.Discovery.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("discovery.concurrency must be >= 0, got %d", c.Discovery.Concurrency))
	}
	for i, d := range c.Pages.Dirs {
		if strings.TrimSpace(d) == "" {
			errs = append(errs, fmt.Errorf("pages.dirs[%d] is empty", i))
		}
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return "invalid config: " + strings.Join(msgs, "; ")
}

func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }
