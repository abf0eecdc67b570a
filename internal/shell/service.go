// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/invowk/pageshell/internal/config"
	"github.com/invowk/pageshell/internal/discovery"
	"github.com/invowk/pageshell/internal/issue"
	"github.com/invowk/pageshell/internal/navtree"
	"github.com/invowk/pageshell/internal/pagefile"
	"github.com/invowk/pageshell/internal/pages"
	"github.com/invowk/pageshell/internal/render"
	"github.com/invowk/pageshell/internal/selection"
	"github.com/invowk/pageshell/internal/state"
	"github.com/invowk/pageshell/pkg/extension"
)

const (
	defaultCacheSize = 8
	narrowWidth      = 80
	wideWidth        = 120
)

type (
	// Service is safe for concurrent use.
	Service struct {
		cfg          *config.Config
		filter       pagefile.Filter
		builtins     []extension.Source
		extra        []extension.Source
		version      string
		skipBuiltins bool
		engine       *discovery.Engine
		store        *state.Store
		logger       *slog.Logger
		now          func() time.Time

		cache      *lru.Cache[cacheKey, *Snapshot]
		flight     singleflight.Group
		generation atomic.Uint64
	}

	// Option configures a Service.
	Option func(*Service)

	cacheKey struct {
		fingerprint uint64
		generation  uint64
	}
)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSources adds sources after the page files and built-ins.
func WithSources(sources ...extension.Source) Option {
	return func(s *Service) { s.extra = append(s.extra, sources...) }
}

// WithoutBuiltins drops the built-in pages.
func WithoutBuiltins() Option {
	return func(s *Service) { s.skipBuiltins = true }
}

// WithVersion is shown on the about page.
func WithVersion(v string) Option {
	return func(s *Service) { s.version = v }
}

// WithStore overrides the state store built from cfg.State.File.
func WithStore(st *state.Store) Option {
	return func(s *Service) { s.store = st }
}

// New builds a Service for cfg. A nil cfg means the defaults.
func New(cfg *config.Config, opts ...Option) (*Service, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	s := &Service{
		cfg:    cfg,
		filter: pagefile.Filter{Include: cfg.Pages.Include, Exclude: cfg.Pages.Exclude},
		store:  state.NewStore(cfg.State.File),
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if !s.skipBuiltins {
		s.builtins = pages.Default(pages.Options{Version: s.version, Config: cfg})
	}
	if err := s.filter.Validate(); err != nil {
		return nil, fmt.Errorf("pages filter: %w", err)
	}

	cache, err := lru.New[cacheKey, *Snapshot](defaultCacheSize)
	if err != nil {
		return nil, err
	}
	s.cache = cache
	s.engine = discovery.New(
		discovery.WithConcurrency(cfg.Discovery.Concurrency),
		discovery.WithLogger(s.logger),
	)
	return s, nil
}

// Config returns the configuration the service was built with.
func (s *Service) Config() *config.Config { return s.cfg }

// RunDiscovery returns the current snapshot, building it when the page files
// changed since the last call.
func (s *Service) RunDiscovery(ctx context.Context) (*Snapshot, error) {
	key := cacheKey{
		fingerprint: pagefile.Fingerprint(s.cfg.Pages.Dirs, s.filter),
		generation:  s.generation.Load(),
	}
	if snap, ok := s.cache.Get(key); ok {
		return snap, nil
	}

	flightKey := strconv.FormatUint(key.fingerprint, 16) + "/" + strconv.FormatUint(key.generation, 10)
	v, err, _ := s.flight.Do(flightKey, func() (any, error) {
		if snap, ok := s.cache.Get(key); ok {
			return snap, nil
		}
		snap, err := s.build(ctx, key.fingerprint)
		if err != nil {
			return nil, err
		}
		s.cache.Add(key, snap)
		return snap, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Snapshot), nil
}

// Reload discards cached snapshots and runs discovery again.
func (s *Service) Reload(ctx context.Context) (*Snapshot, error) {
	s.generation.Add(1)
	s.cache.Purge()
	return s.RunDiscovery(ctx)
}

func (s *Service) build(ctx context.Context, fingerprint uint64) (*Snapshot, error) {
	fileSources, diags, err := pagefile.Scan(ctx, s.cfg.Pages.Dirs, s.filter)
	if err != nil {
		return nil, err
	}

	sources := make([]extension.Source, 0, len(fileSources)+len(s.builtins)+len(s.extra))
	sources = append(sources, fileSources...)
	sources = append(sources, s.builtins...)
	sources = append(sources, s.extra...)

	res, err := s.engine.Discover(ctx, sources)
	if err != nil {
		return nil, err
	}
	diags = append(diags, res.Diagnostics...)

	tree := navtree.Build(res.Descriptors)
	diags = append(diags, tree.Warnings...)

	if res.Empty() {
		diags = append(diags, discovery.NewDiagnostic(discovery.SeverityError, discovery.CodeNoNavigation,
			"no pages discovered"))
	}

	menu := navtree.Assemble(tree)
	if !s.cfg.Menu.Hierarchical {
		menu = navtree.Flat(res.Descriptors)
	}

	snap := &Snapshot{
		Descriptors: navtree.Sort(res.Descriptors),
		Tree:        tree,
		Menu:        menu,
		Diagnostics: diags,
		Fingerprint: fingerprint,
		BuiltAt:     s.now(),
	}
	s.logger.Debug("snapshot built",
		"pages", len(snap.Descriptors),
		"diagnostics", len(snap.Diagnostics),
		"fingerprint", strconv.FormatUint(fingerprint, 16))
	return snap, nil
}

// DefaultSelection returns the page shown when nothing was selected.
func (s *Service) DefaultSelection(ctx context.Context) (*extension.Descriptor, error) {
	snap, err := s.RunDiscovery(ctx)
	if err != nil {
		return nil, err
	}
	d, err := selection.DefaultSelection(snap.Descriptors)
	if err != nil {
		return nil, noPages(err)
	}
	return d, nil
}

// Resolve maps raw (a key or a label) onto a page. An empty raw value falls
// back to the previously selected key, then to the default page. matched
// reports whether raw itself named a page.
func (s *Service) Resolve(ctx context.Context, raw string) (d *extension.Descriptor, matched bool, err error) {
	snap, err := s.RunDiscovery(ctx)
	if err != nil {
		return nil, false, err
	}

	lookup := raw
	if lookup == "" {
		st, err := s.store.Load()
		if err != nil {
			s.logger.Warn("previous selection unreadable", "path", s.store.Path(), "error", err)
		}
		lookup = st.PreviousKey
	}

	d, matched = selection.ResolveLabel(lookup, snap.Descriptors)
	if d == nil {
		return nil, false, noPages(selection.ErrNoNavigation)
	}
	if raw == "" {
		matched = false
	}
	return d, matched, nil
}

// Select resolves raw and remembers the result for the next run. Failing to
// persist is logged, not returned.
func (s *Service) Select(ctx context.Context, raw string) (*extension.Descriptor, bool, error) {
	d, matched, err := s.Resolve(ctx, raw)
	if err != nil {
		return nil, false, err
	}
	if err := s.store.SaveKey(string(d.Key)); err != nil {
		s.logger.Warn("could not save selection", "key", d.Key, "error", issue.NewErrorContext().
			WithOperation("save selection").
			WithResource(s.store.Path()).
			WithIssue(issue.StateWriteFailedId).
			Wrap(err).
			BuildError())
	}
	return d, matched, nil
}

// RenderPage writes the page heading and body to w using the configured
// theme and width.
func (s *Service) RenderPage(ctx context.Context, w io.Writer, d *extension.Descriptor) error {
	theme := s.cfg.UI.Theme
	width := narrowWidth
	if s.cfg.UI.WideMode {
		width = wideWidth
	}

	if _, err := fmt.Fprintln(w, render.Heading(d.Label, d.Icon(), render.NewPalette(theme))); err != nil {
		return err
	}
	if d.Renderer == nil {
		return nil
	}
	if err := d.Renderer.Render(ctx, extension.RenderTarget{Out: w, Width: width, Style: theme.MarkdownStyle()}); err != nil {
		return issue.NewErrorContext().
			WithOperation("render page").
			WithResource(string(d.Key)).
			Wrap(err).
			BuildError()
	}
	return nil
}

func noPages(err error) error {
	if !errors.Is(err, selection.ErrNoNavigation) {
		return err
	}
	return issue.NewErrorContext().
		WithOperation("select a page").
		WithIssue(issue.NoPagesFoundId).
		WithSuggestion("Run 'pageshell diagnostics' to see which sources failed").
		Wrap(err).
		BuildError()
}
