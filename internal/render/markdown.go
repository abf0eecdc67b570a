// SPDX-License-Identifier: MPL-2.0

package render

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// Markdown renders content for a terminal. style is a glamour standard style
// name ("dark", "light", "notty", ...); "" and "auto" detect the background.
// width <= 0 disables wrapping.
func Markdown(content string, width int, style string) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithEmoji()}
	switch style {
	case "", string(ThemeAuto):
		opts = append(opts, glamour.WithAutoStyle())
	default:
		opts = append(opts, glamour.WithStandardStyle(style))
	}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("markdown renderer: %w", err)
	}
	out, err := r.Render(content)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}
