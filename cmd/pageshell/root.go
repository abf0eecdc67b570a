// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/invowk/pageshell/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "pageshell",
		Short: "A menu-driven shell for extensible pages",
		Long: TitleStyle.Render("pageshell") + SubtitleStyle.Render(" - a menu-driven shell for extensible pages") + `

Pages come from built-in extensions and from CUE page files in the
configured page directories. pageshell arranges them into a navigation
menu, remembers the last page you opened and renders it in the terminal.

` + SubtitleStyle.Render("Examples:") + `
  pageshell open             Open the last page (or pick one interactively)
  pageshell open reports     Open the "reports" page
  pageshell menu --flat      Print the menu without nesting
  pageshell diagnostics      Show page files that failed to load
  pageshell watch            Re-render the menu when page files change
  pageshell serve            Serve pages over SSH`,
		SilenceUsage: true,
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return app.Close()
		},
	}

	flags := root.PersistentFlags()
	flags.BoolVarP(&app.flags.verbose, "verbose", "v", false, "enable verbose output")
	flags.StringVar(&app.flags.configPath, "config", "", "config file (default is <config dir>/config.cue)")
	flags.StringVar(&app.flags.configDir, "config-dir", "", "override the pageshell config directory")
	flags.StringVar(&app.flags.envFile, "env-file", "", "dotenv file applied before environment overrides (default .env)")
	flags.StringVar(&app.flags.logFile, "log-file", "", "also write JSON logs to this file")

	root.AddCommand(
		newMenuCommand(app),
		newListCommand(app),
		newOpenCommand(app),
		newDiagnosticsCommand(app),
		newWatchCommand(app),
		newServeCommand(app),
		newConfigCommand(app),
	)
	return root
}

func versionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI and exits with the resulting status.
func Execute() {
	app := NewApp(Dependencies{})
	root := NewRootCommand(app)

	err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(versionString()),
		fang.WithNotifySignal(os.Interrupt),
	)
	_ = app.Close()
	if err == nil {
		return
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		os.Exit(exitErr.Code)
	}
	os.Exit(1)
}

// formatErrorForDisplay uses the actionable format when err carries one. In
// verbose mode the linked catalog guidance follows.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		return err.Error()
	}
	out := ae.Format(verbose)
	if verbose {
		if guide := issueGuidance(ae.Issue, "notty"); guide != "" {
			out += "\n" + guide
		}
	}
	return out
}

// issueGuidance renders the catalog entry for id, or "" when there is none.
func issueGuidance(id issue.Id, style string) string {
	entry := issue.Get(id)
	if entry == nil {
		return ""
	}
	out, err := entry.Render(style)
	if err != nil {
		return ""
	}
	return out
}
