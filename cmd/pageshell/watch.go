// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/invowk/pageshell/internal/pagefile"
	"github.com/invowk/pageshell/internal/render"
	"github.com/invowk/pageshell/internal/shell"
	"github.com/invowk/pageshell/internal/watch"
)

func newWatchCommand(app *App) *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-render the menu whenever page files change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd.Context(), app, debounce)
		},
	}
	cmd.Flags().DurationVar(&debounce, "debounce", 300*time.Millisecond, "quiet period before reloading")
	return cmd
}

func runWatch(ctx context.Context, app *App, debounce time.Duration) error {
	svc, err := app.service(ctx)
	if err != nil {
		return err
	}
	cfg := svc.Config()

	snap, err := svc.RunDiscovery(ctx)
	if err != nil {
		return err
	}
	printWatchSnapshot(ctx, app, svc, snap)

	w, err := watch.New(watch.Config{
		Dirs:     cfg.Pages.Dirs,
		Filter:   pagefile.Filter{Include: cfg.Pages.Include, Exclude: cfg.Pages.Exclude},
		Debounce: debounce,
		Logger:   app.Logger(),
		OnChange: func(ctx context.Context, changed []string) error {
			_, _ = fmt.Fprintf(app.stdout, "\n%s %d page file(s) changed, reloading\n\n", HighlightStyle.Render("→"), len(changed))
			snap, err := svc.Reload(ctx)
			if err != nil {
				_, _ = fmt.Fprintf(app.stderr, "%s %s\n", WarningStyle.Render("!"), formatErrorForDisplay(err, app.flags.verbose))
				return nil
			}
			printWatchSnapshot(ctx, app, svc, snap)
			return nil
		},
	})
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	if len(w.Watched()) == 0 {
		_, _ = fmt.Fprintf(app.stderr, "%s none of the page directories exist; restart after creating them\n", WarningStyle.Render("!"))
	}

	_, _ = fmt.Fprintf(app.stdout, "\n%s Watching for changes (Ctrl+C to stop)...\n", HighlightStyle.Render("→"))
	return w.Run(ctx)
}

func printWatchSnapshot(ctx context.Context, app *App, svc *shell.Service, snap *shell.Snapshot) {
	selected := ""
	if d, _, err := svc.Resolve(ctx, ""); err == nil {
		selected = string(d.Key)
	}
	p := app.palette()
	_, _ = fmt.Fprintln(app.stdout, render.Menu(snap.Menu, render.MenuOptions{
		Orientation: svc.Config().Menu.Orientation,
		Selected:    selected,
		Palette:     p,
	}))
	if len(snap.Diagnostics) > 0 {
		_, _ = fmt.Fprintln(app.stdout)
		_, _ = fmt.Fprintln(app.stdout, render.Diagnostics(snap.Diagnostics, p))
	}
}
