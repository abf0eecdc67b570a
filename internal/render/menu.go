// SPDX-License-Identifier: MPL-2.0

package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/invowk/pageshell/internal/navtree"
)

const (
	// Vertical draws the menu as an indented tree.
	Vertical Orientation = "vertical"
	// Horizontal draws the top-level items on one line.
	Horizontal Orientation = "horizontal"

	selectedMarker = "▸ "
	plainMarker    = "  "
	dividerRune    = "─"
	barSeparator   = " │ "
)

// ErrInvalidOrientation is returned when an Orientation value is not recognized.
var ErrInvalidOrientation = errors.New("invalid menu orientation")

type (
	// Orientation is the menu layout.
	Orientation string

	// InvalidOrientationError is returned when an Orientation value is not recognized.
	InvalidOrientationError struct {
		Value Orientation
	}

	// MenuOptions controls Menu.
	MenuOptions struct {
		Orientation Orientation
		// Selected is the key to mark.
		Selected string
		// Width bounds divider lines and the horizontal bar. 0 means 40.
		Width   int
		Palette Palette
	}
)

// IsValid returns whether the Orientation is one of the defined layouts.
func (o Orientation) IsValid() (bool, []error) {
	switch o {
	case Vertical, Horizontal:
		return true, nil
	default:
		return false, []error{&InvalidOrientationError{Value: o}}
	}
}

func (e *InvalidOrientationError) Error() string {
	return fmt.Sprintf("invalid menu orientation %q (valid: vertical, horizontal)", e.Value)
}

func (e *InvalidOrientationError) Unwrap() error { return ErrInvalidOrientation }

// Menu draws items. Group headers are upper-cased, dividers become a rule
// line before the item, and the selected key gets a marker.
func Menu(items []navtree.MenuItem, opts MenuOptions) string {
	if opts.Width <= 0 {
		opts.Width = 40
	}
	if opts.Orientation == Horizontal {
		return horizontal(items, opts)
	}
	return vertical(items, opts)
}

func vertical(items []navtree.MenuItem, opts MenuOptions) string {
	p := opts.Palette
	upper := cases.Upper(language.Und)
	var lines []string
	navtree.Walk(items, func(item navtree.MenuItem, depth int) bool {
		indent := strings.Repeat("  ", depth)
		if item.Type == navtree.TypeDivider {
			lines = append(lines, indent+p.Divider.Render(strings.Repeat(dividerRune, max(opts.Width-len(indent), 4))))
		}

		marker := plainMarker
		style := p.Item
		label := item.Label
		switch {
		case item.Key == opts.Selected:
			marker = selectedMarker
			style = p.Selected
		case item.Type == navtree.TypeGroup:
			style = p.Group
		}
		if item.Type == navtree.TypeGroup {
			label = upper.String(label)
		}

		line := indent + marker + style.Render(label)
		if item.Icon != "" {
			line += " " + p.Muted.Render(item.Icon)
		}
		lines = append(lines, line)
		return true
	})
	return strings.Join(lines, "\n")
}

func horizontal(items []navtree.MenuItem, opts MenuOptions) string {
	p := opts.Palette
	upper := cases.Upper(language.Und)
	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			sep := barSeparator
			if item.Type == navtree.TypeDivider {
				sep = " ┃ "
			}
			b.WriteString(p.Divider.Render(sep))
		}
		label := item.Label
		if item.Type == navtree.TypeGroup {
			label = upper.String(label)
		}
		if item.Key == opts.Selected {
			b.WriteString(p.Selected.Render("[" + label + "]"))
		} else {
			b.WriteString(p.Item.Render(label))
		}
	}
	return lipgloss.NewStyle().MaxWidth(opts.Width).Render(b.String())
}
