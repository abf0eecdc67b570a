// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/invowk/pageshell/internal/config"
	"github.com/invowk/pageshell/internal/render"
	"github.com/invowk/pageshell/internal/tui"
)

// newConfigCommand creates the `pageshell config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage pageshell configuration",
		Long: `Manage pageshell configuration.

Configuration is stored in:
  - Linux: ~/.config/pageshell/config.cue
  - macOS: ~/Library/Application Support/pageshell/config.cue
  - Windows: %APPDATA%\pageshell\config.cue

PAGESHELL_* environment variables (for example PAGESHELL_UI_THEME=dark)
override file values. A .env file in the working directory is read first.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := app.loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return err
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			path, err := app.configFilePath()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(app.stdout, path)
			return err
		},
	})

	cfgCmd.AddCommand(newConfigInitCommand(app))
	return cfgCmd
}

func newConfigInitCommand(app *App) *cobra.Command {
	var force, stdout bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			if stdout {
				_, err := fmt.Fprint(app.stdout, config.GenerateCUE(config.DefaultConfig()))
				return err
			}

			path, err := app.configFilePath()
			if err != nil {
				return err
			}
			if !force && app.interactive() && fileExists(path) {
				ok, err := tui.Confirm(fmt.Sprintf("Overwrite %s?", path), false, tui.DefaultConfig(render.ThemeAuto))
				if err != nil {
					return err
				}
				force = ok
			}

			written, err := config.WriteDefault(path, force)
			if err != nil {
				return err
			}
			if !written {
				_, _ = fmt.Fprintf(app.stdout, "%s %s already exists (use --force to overwrite)\n", WarningStyle.Render("!"), path)
				return nil
			}
			_, err = fmt.Fprintf(app.stdout, "%s wrote %s\n", SuccessStyle.Render("✓"), path)
			return err
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	cmd.Flags().BoolVar(&stdout, "stdout", false, "print the default configuration instead of writing it")
	return cmd
}

// configFilePath is the --config value, or the default file in the
// (possibly overridden) config directory.
func (a *App) configFilePath() (string, error) {
	if a.flags.configPath != "" {
		return a.flags.configPath, nil
	}
	return config.DefaultPath(a.flags.configDir)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
