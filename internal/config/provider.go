// SPDX-License-Identifier: MPL-2.0

package config

import "context"

// LoadOptions defines explicit configuration loading inputs.
type LoadOptions struct {
	// ConfigFilePath forces loading from a specific config file when set.
	ConfigFilePath string
	// ConfigDirPath overrides the platform config directory when set.
	ConfigDirPath string
	// EnvFile is the dotenv file to apply; empty means DefaultEnvFile.
	EnvFile string
	// SkipWorkingDir disables the ./config.cue fallback.
	SkipWorkingDir bool
}

// Provider loads configuration from explicit options.
type Provider interface {
	Load(ctx context.Context, opts LoadOptions) (*Config, error)
}

type fileProvider struct{}

// NewProvider creates a configuration provider.
func NewProvider() Provider {
	return &fileProvider{}
}

// Load reads configuration from the requested source.
func (p *fileProvider) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	return load(ctx, opts)
}

// StaticProvider always returns the same configuration. Useful in tests and
// for embedding pageshell with a fixed setup.
type StaticProvider struct {
	Config *Config
}

// Load returns a copy of the stored configuration, or the defaults.
func (p StaticProvider) Load(_ context.Context, _ LoadOptions) (*Config, error) {
	if p.Config == nil {
		return DefaultConfig(), nil
	}
	cfg := *p.Config
	return &cfg, nil
}
