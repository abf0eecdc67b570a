// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"path/filepath"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/invowk/pageshell/internal/config"
	"github.com/invowk/pageshell/internal/issue"
	"github.com/invowk/pageshell/internal/render"
	"github.com/invowk/pageshell/internal/sshserver"
)

const hostKeyFile = "ssh_host_ed25519"

type serveFlagValues struct {
	host string
	port int
}

func newServeCommand(app *App) *cobra.Command {
	var flags serveFlagValues

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve pages over SSH",
		Long: `Serve pages over SSH.

Each connection prints the menu and a page: "ssh -p 23234 localhost reports"
opens the reports page. Settings come from PAGESHELL_SSH_* variables
(HOST, PORT, HOST_KEY_PATH, AUTHORIZED_KEYS, IDLE_TIMEOUT) and the flags below.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, app, flags)
		},
	}
	cmd.Flags().StringVar(&flags.host, "host", "", "address to bind (default from PAGESHELL_SSH_HOST or 127.0.0.1)")
	cmd.Flags().IntVar(&flags.port, "port", -1, "port to listen on (default from PAGESHELL_SSH_PORT or 23234)")
	return cmd
}

func runServe(cmd *cobra.Command, app *App, flags serveFlagValues) error {
	ctx := cmd.Context()

	sshCfg, err := sshserver.LoadConfig(nil)
	if err != nil {
		return err
	}
	if flags.host != "" {
		sshCfg.Host = flags.host
	}
	if flags.port >= 0 {
		sshCfg.Port = flags.port
	}
	if sshCfg.HostKeyPath == "" {
		dir := app.flags.configDir
		if dir == "" {
			if dir, err = config.ConfigDir(); err != nil {
				return err
			}
		}
		sshCfg.HostKeyPath = filepath.Join(dir, hostKeyFile)
	}

	svc, err := app.service(ctx)
	if err != nil {
		return err
	}

	level := charmlog.InfoLevel
	if app.flags.verbose {
		level = charmlog.DebugLevel
	}
	logger := charmlog.NewWithOptions(app.stderr, charmlog.Options{Prefix: "ssh", Level: level})

	srv, err := sshserver.New(sshCfg, svc,
		sshserver.WithLogger(logger),
		sshserver.WithMenuOptions(render.MenuOptions{
			Orientation: svc.Config().Menu.Orientation,
			Palette:     app.palette(),
		}),
	)
	if err != nil {
		return err
	}
	if err := srv.Start(ctx); err != nil {
		return issue.NewErrorContext().
			WithOperation("start SSH server").
			WithResource(sshCfg.Address()).
			WithIssue(issue.SSHServerStartFailedId).
			Wrap(err).
			BuildError()
	}

	_, _ = fmt.Fprintf(app.stdout, "%s Serving pages on %s (Ctrl+C to stop)\n", HighlightStyle.Render("→"), srv.Addr())

	done := make(chan error, 1)
	go func() { done <- srv.Wait() }()

	select {
	case <-ctx.Done():
		return srv.Stop()
	case err := <-done:
		return err
	}
}
