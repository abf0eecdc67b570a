// SPDX-License-Identifier: MPL-2.0

// Package config loads pageshell settings with Viper, using CUE as the file
// format.
//
// Precedence, lowest first: built-in defaults, config.cue (validated against
// the embedded #Config schema), a .env file, then PAGESHELL_* environment
// variables (PAGESHELL_UI_THEME=light, PAGESHELL_PAGES_DIRS=a,b).
//
// The config file is looked up in the platform config directory
// ($XDG_CONFIG_HOME/pageshell on Linux, ~/Library/Application Support/pageshell
// on macOS, %APPDATA%\pageshell on Windows) and then in the working directory.
package config
