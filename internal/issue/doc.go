// SPDX-License-Identifier: MPL-2.0

// Package issue carries user-facing failure context: ActionableError for
// "what failed, on what, and what to try" and a catalog of Markdown guidance
// pages keyed by Id.
package issue
