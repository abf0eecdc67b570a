// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/invowk/pageshell/internal/issue"
	"github.com/invowk/pageshell/internal/render"
	"github.com/invowk/pageshell/internal/selection"
	"github.com/invowk/pageshell/internal/shell"
	"github.com/invowk/pageshell/internal/tui"
	"github.com/invowk/pageshell/pkg/extension"
)

type openFlagValues struct {
	pick    bool
	noInput bool
	noMenu  bool
}

func newOpenCommand(app *App) *cobra.Command {
	var flags openFlagValues

	cmd := &cobra.Command{
		Use:   "open [page]",
		Short: "Render a page and remember it as the current one",
		Long: `Render a page by key or label and remember it for the next run.

Without an argument the previously opened page is shown. On a terminal
you are asked to pick a page instead; --no-input disables the prompt.
An unknown page falls back to the default page with a warning.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOpen(cmd, app, flags, args)
		},
	}
	cmd.Flags().BoolVarP(&flags.pick, "pick", "p", false, "always pick the page interactively")
	cmd.Flags().BoolVar(&flags.noInput, "no-input", false, "never prompt")
	cmd.Flags().BoolVar(&flags.noMenu, "no-menu", false, "render the page without the menu")
	return cmd
}

func runOpen(cmd *cobra.Command, app *App, flags openFlagValues, args []string) error {
	ctx := cmd.Context()
	svc, err := app.service(ctx)
	if err != nil {
		return err
	}
	snap, err := svc.RunDiscovery(ctx)
	if err != nil {
		return err
	}

	raw := ""
	if len(args) == 1 {
		raw = args[0]
	} else if !flags.noInput && (flags.pick || app.interactive()) {
		current, _, _ := svc.Resolve(ctx, "")
		currentKey := ""
		if current != nil {
			currentKey = string(current.Key)
		}
		raw, err = tui.ChoosePage(snap.Menu, currentKey, app.promptConfig(svc))
		if errors.Is(err, tui.ErrCancelled) {
			return nil
		}
		if err != nil {
			return err
		}
	}

	d, matched, err := svc.Select(ctx, raw)
	if err != nil {
		return err
	}
	if raw != "" && !matched {
		_, _ = fmt.Fprintf(app.stderr, "%s unknown page %q, showing %q\n", WarningStyle.Render("!"), raw, d.Key)
		if keys := selection.Suggest(raw, snap.Descriptors, 3); len(keys) > 0 {
			_, _ = fmt.Fprintf(app.stderr, "  did you mean %s?\n", HighlightStyle.Render(joinKeys(keys)))
		}
		if app.flags.verbose {
			_, _ = fmt.Fprint(app.stderr, issueGuidance(issue.PageNotFoundId, "notty"))
		}
	}

	if !flags.noMenu {
		_, _ = fmt.Fprintln(app.stdout, render.Menu(snap.Menu, render.MenuOptions{
			Orientation: svc.Config().Menu.Orientation,
			Selected:    string(d.Key),
			Palette:     app.palette(),
		}))
		_, _ = fmt.Fprintln(app.stdout)
	}
	return svc.RenderPage(ctx, app.stdout, d)
}

// interactive reports whether prompts can be shown.
func (a *App) interactive() bool {
	f, ok := a.stdin.(*os.File)
	return ok && tui.IsTerminal(f) && os.Getenv("ACCESSIBLE") == ""
}

func (a *App) promptConfig(svc *shell.Service) tui.Config {
	cfg := tui.DefaultConfig(svc.Config().UI.Theme)
	cfg.Input = a.stdin
	if !cfg.Accessible {
		cfg.Output = a.stdout
	} else {
		cfg.Output = a.stderr
	}
	return cfg
}

func joinKeys(keys []extension.Key) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = string(k)
	}
	return strings.Join(parts, ", ")
}
