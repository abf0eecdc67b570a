// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/invowk/pageshell/internal/navtree"
	"github.com/invowk/pageshell/internal/render"
)

type menuFlagValues struct {
	flat        bool
	json        bool
	orientation string
}

func newMenuCommand(app *App) *cobra.Command {
	var flags menuFlagValues

	cmd := &cobra.Command{
		Use:   "menu",
		Short: "Print the navigation menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMenu(cmd, app, flags)
		},
	}
	cmd.Flags().BoolVar(&flags.flat, "flat", false, "list every page at the top level")
	cmd.Flags().BoolVar(&flags.json, "json", false, "print the menu as JSON")
	cmd.Flags().StringVar(&flags.orientation, "orientation", "", "vertical or horizontal (default from config)")
	return cmd
}

func runMenu(cmd *cobra.Command, app *App, flags menuFlagValues) error {
	ctx := cmd.Context()
	svc, err := app.service(ctx)
	if err != nil {
		return err
	}
	snap, err := svc.RunDiscovery(ctx)
	if err != nil {
		return err
	}

	items := snap.Menu
	if flags.flat {
		items = navtree.Flat(snap.Descriptors)
	}

	if flags.json {
		enc := json.NewEncoder(app.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	}

	orientation := svc.Config().Menu.Orientation
	if flags.orientation != "" {
		orientation = render.Orientation(flags.orientation)
		if ok, errs := orientation.IsValid(); !ok {
			return errs[0]
		}
	}

	selected := ""
	if d, _, err := svc.Resolve(ctx, ""); err == nil {
		selected = string(d.Key)
	}

	_, err = fmt.Fprintln(app.stdout, render.Menu(items, render.MenuOptions{
		Orientation: orientation,
		Selected:    selected,
		Palette:     app.palette(),
	}))
	return err
}

func newListCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List discovered pages with their sources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, err := app.service(ctx)
			if err != nil {
				return err
			}
			snap, err := svc.RunDiscovery(ctx)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(snap.Descriptors))
			for _, d := range navtree.Sort(snap.Descriptors) {
				rows = append(rows, []string{
					string(d.Key),
					d.Label,
					strconv.Itoa(d.Order),
					string(d.Parent),
					d.SourceID,
					d.Implementation,
				})
			}

			t := table.New().
				Border(lipgloss.RoundedBorder()).
				BorderStyle(SubtitleStyle).
				Headers("KEY", "LABEL", "ORDER", "PARENT", "SOURCE", "IMPLEMENTATION").
				Rows(rows...)
			_, err = fmt.Fprintln(app.stdout, t.Render())
			return err
		},
	}
}
