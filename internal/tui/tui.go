// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"errors"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/invowk/pageshell/internal/render"
)

// ErrCancelled is returned when the user aborts a prompt.
var ErrCancelled = errors.New("prompt cancelled")

// Config holds common configuration for prompts.
type Config struct {
	Theme      render.Theme
	Accessible bool
	Input      io.Reader
	Output     io.Writer
}

// DefaultConfig detects accessible mode from the environment and the
// terminal state of stdin.
func DefaultConfig(theme render.Theme) Config {
	accessible := os.Getenv("ACCESSIBLE") != "" || !IsTerminal(os.Stdin)

	var out io.Writer = os.Stdout
	if accessible {
		out = os.Stderr
	}
	return Config{
		Theme:      theme,
		Accessible: accessible,
		Input:      os.Stdin,
		Output:     out,
	}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func huhTheme(t render.Theme) *huh.Theme {
	switch t {
	case render.ThemeDark:
		return huh.ThemeDracula()
	case render.ThemeLight:
		return huh.ThemeBase16()
	default:
		return huh.ThemeCharm()
	}
}

func (c Config) form(groups ...*huh.Group) *huh.Form {
	f := huh.NewForm(groups...).
		WithTheme(huhTheme(c.Theme)).
		WithAccessible(c.Accessible)
	if c.Input != nil {
		f = f.WithInput(c.Input)
	}
	if c.Output != nil {
		f = f.WithOutput(c.Output)
	}
	return f
}

func runForm(f *huh.Form) error {
	err := f.Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrCancelled
	}
	return err
}
