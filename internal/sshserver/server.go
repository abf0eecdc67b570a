// SPDX-License-Identifier: MPL-2.0

package sshserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/logging"

	"github.com/invowk/pageshell/internal/render"
	"github.com/invowk/pageshell/internal/shell"
	"github.com/invowk/pageshell/pkg/extension"
)

const (
	// StateCreated indicates the server has not been started.
	StateCreated State = iota
	// StateRunning indicates the server is accepting connections.
	StateRunning
	// StateStopped indicates the server has shut down (terminal state).
	StateStopped
	// StateFailed indicates the server could not start (terminal state).
	StateFailed
)

// ErrNotCreated is returned by Start on a server that was already started.
var ErrNotCreated = errors.New("server already started")

type (
	// State is the server lifecycle state.
	State int32

	// Pages is the part of shell.Service a session needs.
	Pages interface {
		RunDiscovery(ctx context.Context) (*shell.Snapshot, error)
		Resolve(ctx context.Context, raw string) (*extension.Descriptor, bool, error)
		RenderPage(ctx context.Context, w io.Writer, d *extension.Descriptor) error
	}

	// Option configures a Server.
	Option func(*Server)

	// Server serves pages over SSH. A Server is single-use.
	Server struct {
		cfg    Config
		pages  Pages
		menu   render.MenuOptions
		logger *log.Logger

		state atomic.Int32

		mu       sync.Mutex
		srv      *ssh.Server
		listener net.Listener
		done     chan struct{}
		serveErr error
	}
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// WithLogger sets the charm logger used for connection logs.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMenuOptions sets the orientation and palette used for session menus.
// Selected and Width are filled per session.
func WithMenuOptions(opts render.MenuOptions) Option {
	return func(s *Server) { s.menu = opts }
}

// New creates a server. It is not started.
func New(cfg Config, pages Pages, opts ...Option) (*Server, error) {
	if ok, errs := cfg.IsValid(); !ok {
		return nil, &InvalidSSHConfigError{FieldErrors: errs}
	}
	s := &Server{
		cfg:    cfg,
		pages:  pages,
		menu:   render.MenuOptions{Orientation: render.Vertical, Palette: render.NewPalette(render.ThemeAuto)},
		logger: log.NewWithOptions(os.Stderr, log.Options{Prefix: "ssh"}),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Start binds the listener and begins serving in the background.
func (s *Server) Start(ctx context.Context) error {
	if !s.state.CompareAndSwap(int32(StateCreated), int32(StateRunning)) {
		return fmt.Errorf("%w (state: %s)", ErrNotCreated, s.State())
	}

	startCtx := ctx
	if s.cfg.StartupTimeout > 0 {
		var cancel context.CancelFunc
		startCtx, cancel = context.WithTimeout(ctx, s.cfg.StartupTimeout)
		defer cancel()
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(startCtx, "tcp", s.cfg.Address())
	if err != nil {
		return s.fail(fmt.Errorf("listen on %s: %w", s.cfg.Address(), err))
	}

	srv, err := wish.NewServer(s.serverOptions()...)
	if err != nil {
		_ = ln.Close()
		return s.fail(fmt.Errorf("create SSH server: %w", err))
	}

	s.mu.Lock()
	s.srv = srv
	s.listener = ln
	s.mu.Unlock()

	go s.serve(srv, ln)
	s.logger.Info("serving pages", "address", ln.Addr().String())
	return nil
}

func (s *Server) serverOptions() []ssh.Option {
	opts := []ssh.Option{
		wish.WithAddress(s.cfg.Address()),
		wish.WithMiddleware(
			s.pageMiddleware(),
			logging.MiddlewareWithLogger(s.logger),
		),
	}
	if s.cfg.HostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(s.cfg.HostKeyPath))
	}
	if s.cfg.IdleTimeout > 0 {
		opts = append(opts, wish.WithIdleTimeout(s.cfg.IdleTimeout))
	}
	if s.cfg.AuthorizedKeysPath != "" {
		opts = append(opts, wish.WithAuthorizedKeys(s.cfg.AuthorizedKeysPath))
	} else {
		// Only reachable on loopback, see Config.IsValid.
		opts = append(opts, wish.WithPublicKeyAuth(func(ssh.Context, ssh.PublicKey) bool { return true }))
	}
	return opts
}

func (s *Server) serve(srv *ssh.Server, ln net.Listener) {
	defer close(s.done)
	err := srv.Serve(ln)
	if err != nil && !errors.Is(err, ssh.ErrServerClosed) && !errors.Is(err, net.ErrClosed) {
		s.mu.Lock()
		s.serveErr = fmt.Errorf("serve: %w", err)
		s.mu.Unlock()
		s.state.Store(int32(StateFailed))
		s.logger.Error("SSH server stopped unexpectedly", "error", err)
	}
}

// Stop shuts the server down, waiting up to the shutdown timeout for open
// sessions. Calling Stop more than once is a no-op.
func (s *Server) Stop() error {
	if s.state.CompareAndSwap(int32(StateCreated), int32(StateStopped)) {
		return nil
	}
	if !s.state.CompareAndSwap(int32(StateRunning), int32(StateStopped)) {
		return nil
	}

	s.mu.Lock()
	srv := s.srv
	s.mu.Unlock()

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = DefaultConfig().ShutdownTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var err error
	if srv != nil {
		if err = srv.Shutdown(ctx); errors.Is(err, ssh.ErrServerClosed) {
			err = nil
		}
		<-s.done
	}
	s.logger.Info("SSH server stopped")
	return err
}

// Wait blocks until the server stops and returns the serve error, if any.
func (s *Server) Wait() error {
	if s.State() == StateCreated {
		return nil
	}
	<-s.done
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.serveErr
}

// State returns the current lifecycle state.
func (s *Server) State() State { return State(s.state.Load()) }

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) fail(err error) error {
	s.state.Store(int32(StateFailed))
	close(s.done)
	return err
}
