// SPDX-License-Identifier: MPL-2.0

// Package testutil holds fixtures shared by pageshell tests: page
// directories with a matching configuration, file helpers that fail the
// test on error, and a manually advanced clock.
package testutil
