// SPDX-License-Identifier: MPL-2.0

// Package pages holds the built-in pages compiled into the binary.
package pages

import (
	"context"
	"fmt"
	"io"
	"runtime"

	"github.com/invowk/pageshell/internal/config"
	"github.com/invowk/pageshell/internal/render"
	"github.com/invowk/pageshell/pkg/extension"
)

const (
	// HomeKey is the landing page.
	HomeKey = "home"
	// SettingsKey shows the effective configuration.
	SettingsKey = "settings"
	// AboutKey shows build information.
	AboutKey = "about"
)

// Options feeds the built-in pages.
type Options struct {
	Version string
	// Config is shown on the settings page. Nil shows the defaults.
	Config *config.Config
}

// Default returns the built-in sources in registration order.
func Default(opts Options) []extension.Source {
	return []extension.Source{
		home(),
		settings(opts.Config),
		about(opts.Version),
	}
}

// home has a plain base implementation and a refined welcome variant; the
// refined one is activated.
func home() extension.Source {
	base := extension.Static(HomeKey,
		extension.NewSpec("Home", "house", 0).WithRenderer(markdown("# Home\n")))

	welcome := extension.Static("home-welcome",
		extension.NewSpec("Home", "house", 0).WithRenderer(markdown(welcomeText))).
		Refines(HomeKey)

	return extension.NewSource(HomeKey, base, welcome)
}

const welcomeText = `# Welcome to pageshell

Pages are discovered from the configured directories and from the
built-ins you see in the menu.

- ` + "`pageshell menu`" + ` shows the navigation tree
- ` + "`pageshell open <key>`" + ` renders one page
- ` + "`pageshell diagnostics`" + ` lists pages that failed to load
`

func settings(cfg *config.Config) extension.Source {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	body := "# Settings\n\nEffective configuration:\n\n```cue\n" + config.GenerateCUE(cfg) + "```\n"
	return extension.NewSource(SettingsKey, extension.Static(SettingsKey,
		extension.NewSpec("Settings", "gear", 90).
			WithDividerBefore().
			WithRenderer(markdown(body))))
}

func about(version string) extension.Source {
	if version == "" {
		version = "dev"
	}
	body := fmt.Sprintf("# About\n\n| | |\n|---|---|\n| Version | %s |\n| Go | %s |\n| Platform | %s/%s |\n",
		version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	return extension.NewSource(AboutKey, extension.Static(AboutKey,
		extension.NewSpec("About", "info-circle", 100).WithRenderer(markdown(body))))
}

func markdown(body string) extension.Renderer {
	return extension.RendererFunc(func(_ context.Context, t extension.RenderTarget) error {
		out, err := render.Markdown(body, t.Width, t.Style)
		if err != nil {
			return err
		}
		_, err = io.WriteString(t.Out, out)
		return err
	})
}
