// SPDX-License-Identifier: MPL-2.0

package render

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

const (
	// ThemeAuto picks light or dark from the terminal background.
	ThemeAuto Theme = "auto"
	// ThemeDark is tuned for dark backgrounds.
	ThemeDark Theme = "dark"
	// ThemeLight is tuned for light backgrounds.
	ThemeLight Theme = "light"
)

// ErrInvalidTheme is returned when a Theme value is not recognized.
var ErrInvalidTheme = errors.New("invalid theme")

type (
	// Theme selects the palette and the markdown style.
	Theme string

	// InvalidThemeError is returned when a Theme value is not recognized.
	InvalidThemeError struct {
		Value Theme
	}

	// Palette holds the styles shared by every renderer.
	Palette struct {
		Title    lipgloss.Style
		Group    lipgloss.Style
		Item     lipgloss.Style
		Selected lipgloss.Style
		Muted    lipgloss.Style
		Divider  lipgloss.Style
		Warning  lipgloss.Style
		Error    lipgloss.Style
	}
)

// IsValid returns whether the Theme is one of the defined themes.
func (t Theme) IsValid() (bool, []error) {
	switch t {
	case ThemeAuto, ThemeDark, ThemeLight:
		return true, nil
	default:
		return false, []error{&InvalidThemeError{Value: t}}
	}
}

func (e *InvalidThemeError) Error() string {
	return fmt.Sprintf("invalid theme %q (valid: auto, dark, light)", e.Value)
}

func (e *InvalidThemeError) Unwrap() error { return ErrInvalidTheme }

// MarkdownStyle maps the theme onto a glamour style name.
func (t Theme) MarkdownStyle() string {
	switch t {
	case ThemeDark, ThemeLight:
		return string(t)
	default:
		return "auto"
	}
}

// NewPalette returns the palette for theme. Unknown themes behave like auto.
func NewPalette(theme Theme) Palette {
	primary := lipgloss.AdaptiveColor{Light: "#5B21B6", Dark: "#A78BFA"}
	highlight := lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#60A5FA"}
	muted := lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}

	pick := func(c lipgloss.AdaptiveColor) lipgloss.TerminalColor {
		switch theme {
		case ThemeDark:
			return lipgloss.Color(c.Dark)
		case ThemeLight:
			return lipgloss.Color(c.Light)
		default:
			return c
		}
	}

	return Palette{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(pick(primary)),
		Group:    lipgloss.NewStyle().Bold(true).Foreground(pick(primary)),
		Item:     lipgloss.NewStyle(),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(pick(highlight)),
		Muted:    lipgloss.NewStyle().Foreground(pick(muted)),
		Divider:  lipgloss.NewStyle().Foreground(pick(muted)),
		Warning:  lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")),
		Error:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444")),
	}
}
