// SPDX-License-Identifier: MPL-2.0

package render

import (
	"fmt"
	"strings"

	"github.com/invowk/pageshell/internal/discovery"
)

// Diagnostics lists diagnostics one per line, errors first.
func Diagnostics(diags []discovery.Diagnostic, p Palette) string {
	if len(diags) == 0 {
		return p.Muted.Render("no diagnostics")
	}

	var errs, warns []string
	for _, d := range diags {
		subject := d.Key
		if subject == "" {
			subject = d.SourceID
		}
		if subject != "" {
			subject += ": "
		}
		body := fmt.Sprintf("[%s] %s%s", d.Code, subject, d.Message)
		if d.Severity == discovery.SeverityError {
			errs = append(errs, p.Error.Render("✗ ")+body)
		} else {
			warns = append(warns, p.Warning.Render("! ")+body)
		}
	}
	return strings.Join(append(errs, warns...), "\n")
}

// Heading draws a page title line.
func Heading(label, icon string, p Palette) string {
	h := p.Title.Render(label)
	if icon != "" {
		h += " " + p.Muted.Render(icon)
	}
	return h
}
