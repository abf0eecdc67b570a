// SPDX-License-Identifier: MPL-2.0

// Package sshserver serves the page shell over SSH using Wish.
//
// Each session runs discovery, resolves the page named by the first command
// argument (or the default page), and writes the menu followed by the
// rendered page. Sessions never persist a selection on the host.
package sshserver
