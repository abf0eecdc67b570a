// SPDX-License-Identifier: MPL-2.0

// Package tui provides the interactive prompts used by the CLI.
//
// Prompts are huh forms. When stdin is not a terminal, or ACCESSIBLE is set,
// forms run in accessible mode and write to stderr so they stay out of
// captured output.
package tui
