// SPDX-License-Identifier: MPL-2.0

package sshserver

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix prefixes every environment variable read by LoadConfig.
const EnvPrefix = "PAGESHELL_SSH_"

// ErrInvalidSSHConfig is the sentinel error wrapped by InvalidSSHConfigError.
var ErrInvalidSSHConfig = errors.New("invalid SSH server config")

type (
	// Config holds the SSH server settings.
	Config struct {
		Host string `env:"HOST" envDefault:"127.0.0.1"`
		// Port 0 picks a free port.
		Port int `env:"PORT" envDefault:"23234"`
		// HostKeyPath is created on first start when missing. Empty means an
		// ephemeral key.
		HostKeyPath string `env:"HOST_KEY_PATH"`
		// AuthorizedKeysPath restricts logins to the listed keys. It is
		// required when Host is not a loopback address.
		AuthorizedKeysPath string        `env:"AUTHORIZED_KEYS"`
		IdleTimeout        time.Duration `env:"IDLE_TIMEOUT" envDefault:"10m"`
		ShutdownTimeout    time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
		StartupTimeout     time.Duration `env:"STARTUP_TIMEOUT" envDefault:"5s"`
	}

	// InvalidSSHConfigError collects field-level validation errors.
	InvalidSSHConfigError struct {
		FieldErrors []error
	}
)

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Host:            "127.0.0.1",
		Port:            23234,
		IdleTimeout:     10 * time.Minute,
		ShutdownTimeout: 10 * time.Second,
		StartupTimeout:  5 * time.Second,
	}
}

// LoadConfig reads PAGESHELL_SSH_* variables on top of the defaults.
// environ replaces the process environment when non-nil.
func LoadConfig(environ map[string]string) (Config, error) {
	opts := env.Options{Prefix: EnvPrefix}
	if environ != nil {
		opts.Environment = environ
	}
	cfg, err := env.ParseAsWithOptions[Config](opts)
	if err != nil {
		return Config{}, fmt.Errorf("parse SSH settings: %w", err)
	}
	if ok, errs := cfg.IsValid(); !ok {
		return Config{}, &InvalidSSHConfigError{FieldErrors: errs}
	}
	return cfg, nil
}

// IsValid reports whether the configuration can be served.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if strings.TrimSpace(c.Host) == "" {
		errs = append(errs, errors.New("host must be non-empty"))
	}
	if c.Port < 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	for name, d := range map[string]time.Duration{
		"idle timeout":     c.IdleTimeout,
		"shutdown timeout": c.ShutdownTimeout,
		"startup timeout":  c.StartupTimeout,
	} {
		if d < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative", name))
		}
	}
	if c.AuthorizedKeysPath == "" && !isLoopback(c.Host) {
		errs = append(errs, fmt.Errorf("host %q is not loopback: authorized keys are required", c.Host))
	}
	return len(errs) == 0, errs
}

// Address returns host:port.
func (c Config) Address() string {
	return net.JoinHostPort(c.Host, fmt.Sprint(c.Port))
}

// Error implements the error interface.
func (e *InvalidSSHConfigError) Error() string {
	return fmt.Sprintf("invalid SSH server config: %v", errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidSSHConfig for errors.Is() compatibility.
func (e *InvalidSSHConfigError) Unwrap() error { return ErrInvalidSSHConfig }

func isLoopback(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
