// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/invowk/pageshell/internal/config"
	"github.com/invowk/pageshell/internal/issue"
	"github.com/invowk/pageshell/internal/logging"
	"github.com/invowk/pageshell/internal/render"
	"github.com/invowk/pageshell/internal/shell"
	"github.com/invowk/pageshell/pkg/extension"
)

type (
	// App is the composition root of the CLI. Command handlers get their
	// configuration, logger and page service through it.
	App struct {
		Config config.Provider

		stdin   io.Reader
		stdout  io.Writer
		stderr  io.Writer
		sources []extension.Source
		flags   rootFlagValues

		mu     sync.Mutex
		cfg    *config.Config
		svc    *shell.Service
		logger *slog.Logger
		closer io.Closer
	}

	// Dependencies are the injection points for NewApp. Nil fields get
	// production defaults.
	Dependencies struct {
		Config config.Provider
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
		// Sources are extra extension sources registered after the built-in pages.
		Sources []extension.Source
	}

	rootFlagValues struct {
		verbose    bool
		configPath string
		configDir  string
		envFile    string
		logFile    string
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdin == nil {
		deps.Stdin = os.Stdin
	}
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	return &App{
		Config:  deps.Config,
		stdin:   deps.Stdin,
		stdout:  deps.Stdout,
		stderr:  deps.Stderr,
		sources: deps.Sources,
	}
}

// loadConfig loads the configuration once per App.
func (a *App) loadConfig(ctx context.Context) (*config.Config, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loadConfigLocked(ctx)
}

func (a *App) loadConfigLocked(ctx context.Context) (*config.Config, error) {
	if a.cfg != nil {
		return a.cfg, nil
	}
	cfg, err := a.Config.Load(ctx, config.LoadOptions{
		ConfigFilePath: a.flags.configPath,
		ConfigDirPath:  a.flags.configDir,
		EnvFile:        a.flags.envFile,
	})
	if err != nil {
		return nil, err
	}

	logFile := a.flags.logFile
	if logFile == "" {
		logFile = cfg.Log.File
	}
	logger, closer, err := logging.New(logging.Options{
		Out:     a.stderr,
		Level:   string(cfg.UI.LogLevel),
		Verbose: a.flags.verbose || cfg.UI.Verbose,
		File:    logFile,
	})
	if err != nil {
		return nil, issue.WrapWithOperation(err, "set up logging")
	}

	a.cfg, a.logger, a.closer = cfg, logger, closer
	return cfg, nil
}

// service returns the page service, building it on first use.
func (a *App) service(ctx context.Context) (*shell.Service, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.svc != nil {
		return a.svc, nil
	}
	cfg, err := a.loadConfigLocked(ctx)
	if err != nil {
		return nil, err
	}
	svc, err := shell.New(cfg,
		shell.WithLogger(a.logger),
		shell.WithVersion(Version),
		shell.WithSources(a.sources...),
	)
	if err != nil {
		return nil, err
	}
	a.svc = svc
	return svc, nil
}

// Logger returns the configured logger, or slog.Default before the
// configuration has been loaded.
func (a *App) Logger() *slog.Logger {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.logger == nil {
		return slog.Default()
	}
	return a.logger
}

func (a *App) palette() render.Palette {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cfg == nil {
		return render.NewPalette(render.ThemeAuto)
	}
	return render.NewPalette(a.cfg.UI.Theme)
}

// Close releases the log file.
func (a *App) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closer == nil {
		return nil
	}
	err := a.closer.Close()
	a.closer = nil
	if errors.Is(err, os.ErrClosed) {
		return nil
	}
	return err
}
