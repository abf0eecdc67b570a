// SPDX-License-Identifier: MPL-2.0

// Package render draws menus, pages and diagnostics for a terminal.
package render
