// SPDX-License-Identifier: MPL-2.0

package tui

import "github.com/charmbracelet/huh"

// Confirm asks a yes/no question. def is the preselected answer.
func Confirm(title string, def bool, cfg Config) (bool, error) {
	answer := def
	c := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&answer)

	if err := runForm(cfg.form(huh.NewGroup(c))); err != nil {
		return false, err
	}
	return answer, nil
}
