// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the pageshell CLI commands.
package cmd
