// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/invowk/pageshell/internal/navtree"
)

const pathSeparator = " › "

// ErrNothingToChoose is returned when a menu has no selectable page.
var ErrNothingToChoose = errors.New("menu has no selectable pages")

// PageOption is one selectable entry of a page prompt.
type PageOption struct {
	Title string
	Key   string
}

// PageOptions flattens a menu into selectable entries. Group headers are not
// selectable; a page below another entry is titled with its path.
func PageOptions(items []navtree.MenuItem) []PageOption {
	var (
		opts []PageOption
		path []string
	)
	navtree.Walk(items, func(item navtree.MenuItem, depth int) bool {
		path = path[:min(depth, len(path))]
		if item.Type == navtree.TypeGroup {
			path = append(path, item.Label)
			return true
		}
		title := item.Label
		if item.Icon != "" {
			title = item.Icon + " " + title
		}
		if len(path) > 0 {
			title = strings.Join(path, pathSeparator) + pathSeparator + title
		}
		opts = append(opts, PageOption{Title: title, Key: item.Key})
		// A page with children still contributes them under its label.
		path = append(path, item.Label)
		return true
	})
	return opts
}

// ChoosePage prompts for a page and returns its key. current, when it names
// a selectable page, is preselected.
func ChoosePage(items []navtree.MenuItem, current string, cfg Config) (string, error) {
	entries := PageOptions(items)
	if len(entries) == 0 {
		return "", ErrNothingToChoose
	}

	opts := make([]huh.Option[string], len(entries))
	for i, e := range entries {
		opts[i] = huh.NewOption(e.Title, e.Key)
	}

	choice := entries[0].Key
	for _, e := range entries {
		if e.Key == current {
			choice = current
			break
		}
	}

	sel := huh.NewSelect[string]().
		Title("Open page").
		Options(opts...).
		Value(&choice)

	if err := runForm(cfg.form(huh.NewGroup(sel))); err != nil {
		return "", err
	}
	return choice, nil
}
