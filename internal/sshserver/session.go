// SPDX-License-Identifier: MPL-2.0

package sshserver

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"

	"github.com/invowk/pageshell/internal/render"
	"github.com/invowk/pageshell/internal/selection"
)

const defaultWidth = 80

func (s *Server) pageMiddleware() wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			width := defaultWidth
			if pty, _, ok := sess.Pty(); ok && pty.Window.Width > 0 {
				width = pty.Window.Width
			}
			code := s.handle(sess.Context(), sess.Command(), width, sess, sess.Stderr())
			_ = sess.Exit(code)
			next(sess)
		}
	}
}

// handle writes the menu and the requested page. It returns the session
// exit status.
func (s *Server) handle(ctx context.Context, args []string, width int, out, errOut io.Writer) int {
	snap, err := s.pages.RunDiscovery(ctx)
	if err != nil {
		_, _ = fmt.Fprintf(errOut, "error: %v\n", err)
		return 1
	}

	raw := ""
	if len(args) > 0 {
		raw = strings.TrimSpace(args[0])
	}
	d, matched, err := s.pages.Resolve(ctx, raw)
	if err != nil {
		_, _ = fmt.Fprintf(errOut, "error: %v\n", err)
		return 1
	}
	if raw != "" && !matched {
		_, _ = fmt.Fprintf(errOut, "unknown page %q, showing %q\n", raw, d.Key)
		if keys := selection.Suggest(raw, snap.Descriptors, 3); len(keys) > 0 {
			names := make([]string, len(keys))
			for i, k := range keys {
				names[i] = string(k)
			}
			_, _ = fmt.Fprintf(errOut, "did you mean %s?\n", strings.Join(names, ", "))
		}
	}

	opts := s.menu
	opts.Selected = string(d.Key)
	opts.Width = width
	_, _ = fmt.Fprintln(out, render.Menu(snap.Menu, opts))
	_, _ = fmt.Fprintln(out)

	if err := s.pages.RenderPage(ctx, out, d); err != nil {
		_, _ = fmt.Fprintf(errOut, "error: %v\n", err)
		return 1
	}
	return 0
}
