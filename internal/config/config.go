// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/invowk/pageshell/internal/cueutil"
	"github.com/invowk/pageshell/internal/issue"
	"github.com/invowk/pageshell/internal/state"
)

const (
	// AppName is the application name.
	AppName = "pageshell"
	// ConfigFileName is the config file name without extension.
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "PAGESHELL"
	// DefaultEnvFile is read before environment overrides when present.
	DefaultEnvFile = ".env"
)

//go:embed config_schema.cue
var configSchemaSrc []byte

var configSchema = cueutil.MustCompile(configSchemaSrc, "#Config")

// ConfigDir returns the platform configuration directory for pageshell.
//
//nolint:revive // config.ConfigDir reads better at call sites than config.Dir
func ConfigDir() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("APPDATA")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		base = filepath.Join(home, "Library", "Application Support")
	default:
		base = os.Getenv("XDG_CONFIG_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			base = filepath.Join(home, ".config")
		}
	}
	return filepath.Join(base, AppName), nil
}

// DefaultPath returns the config file path inside dir, or inside ConfigDir
// when dir is empty.
func DefaultPath(dir string) (string, error) {
	if dir == "" {
		d, err := ConfigDir()
		if err != nil {
			return "", err
		}
		dir = d
	}
	return filepath.Join(dir, ConfigFileName+"."+ConfigFileExt), nil
}

func load(ctx context.Context, opts LoadOptions) (*Config, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("load config canceled: %w", err)
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())

	cfgDir := opts.ConfigDirPath
	if cfgDir == "" {
		d, err := ConfigDir()
		if err != nil {
			return nil, err
		}
		cfgDir = d
	}

	path, err := locate(opts, cfgDir)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := mergeCUE(v, path); err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithIssue(issue.ConfigLoadFailedId).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Compare with the output of 'pageshell config init --stdout'").
				Wrap(err).
				BuildError()
		}
	}

	if err := loadEnvFile(opts.EnvFile); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("load environment file").
			WithResource(opts.EnvFile).
			Wrap(err).
			BuildError()
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if ok, errs := cfg.IsValid(); !ok {
		return nil, issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(path).
			WithIssue(issue.ConfigLoadFailedId).
			Wrap(errs[0]).
			BuildError()
	}

	if cfg.State.File == "" {
		cfg.State.File = filepath.Join(cfgDir, state.FileName)
	}
	return &cfg, nil
}

// locate resolves the config file to read; "" means defaults only.
func locate(opts LoadOptions, cfgDir string) (string, error) {
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Run 'pageshell config init' to create one").
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		return opts.ConfigFilePath, nil
	}

	candidates := []string{filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)}
	if !opts.SkipWorkingDir {
		candidates = append(candidates, ConfigFileName+"."+ConfigFileExt)
	}
	for _, c := range candidates {
		if fileExists(c) {
			return c, nil
		}
	}
	return "", nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("pages.dirs", d.Pages.Dirs)
	v.SetDefault("pages.include", d.Pages.Include)
	v.SetDefault("pages.exclude", d.Pages.Exclude)
	v.SetDefault("menu.hierarchical", d.Menu.Hierarchical)
	v.SetDefault("menu.orientation", string(d.Menu.Orientation))
	v.SetDefault("ui.theme", string(d.UI.Theme))
	v.SetDefault("ui.wide_mode", d.UI.WideMode)
	v.SetDefault("ui.verbose", d.UI.Verbose)
	v.SetDefault("ui.log_level", string(d.UI.LogLevel))
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("discovery.concurrency", d.Discovery.Concurrency)
	v.SetDefault("state.file", d.State.File)
}

// mergeCUE validates the file against #Config and merges it into v.
func mergeCUE(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	m, err := configSchema.DecodeMap(data, cueutil.WithFilename(path), cueutil.WithConcrete(false))
	if err != nil {
		return err
	}
	if err := v.MergeConfigMap(m); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

// loadEnvFile applies a dotenv file without overriding variables that are
// already set. A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		path = DefaultEnvFile
	}
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// WriteDefault writes GenerateCUE(DefaultConfig()) to path. An existing file
// is kept unless force is set; the returned bool reports whether the file
// was written.
func WriteDefault(path string, force bool) (bool, error) {
	if !force && fileExists(path) {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return false, fmt.Errorf("failed to write config file: %w", err)
	}
	return true, nil
}

// GenerateCUE renders cfg as a config.cue document.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder
	sb.WriteString("// pageshell configuration\n\n")

	sb.WriteString("pages: {\n")
	fmt.Fprintf(&sb, "\tdirs: %s\n", cueList(cfg.Pages.Dirs))
	fmt.Fprintf(&sb, "\tinclude: %s\n", cueList(cfg.Pages.Include))
	fmt.Fprintf(&sb, "\texclude: %s\n", cueList(cfg.Pages.Exclude))
	sb.WriteString("}\n\n")

	sb.WriteString("menu: {\n")
	fmt.Fprintf(&sb, "\thierarchical: %v\n", cfg.Menu.Hierarchical)
	fmt.Fprintf(&sb, "\torientation: %q\n", cfg.Menu.Orientation)
	sb.WriteString("}\n\n")

	sb.WriteString("ui: {\n")
	fmt.Fprintf(&sb, "\ttheme: %q\n", cfg.UI.Theme)
	fmt.Fprintf(&sb, "\twide_mode: %v\n", cfg.UI.WideMode)
	fmt.Fprintf(&sb, "\tverbose: %v\n", cfg.UI.Verbose)
	fmt.Fprintf(&sb, "\tlog_level: %q\n", cfg.UI.LogLevel)
	sb.WriteString("}\n\n")

	if cfg.Log.File != "" {
		fmt.Fprintf(&sb, "log: file: %q\n\n", cfg.Log.File)
	}

	fmt.Fprintf(&sb, "discovery: concurrency: %d\n", cfg.Discovery.Concurrency)

	if cfg.State.File != "" {
		fmt.Fprintf(&sb, "\nstate: file: %q\n", cfg.State.File)
	}
	return sb.String()
}

func cueList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
