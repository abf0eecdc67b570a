// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/invowk/pageshell/pkg/extension"
)

// ErrNilSource is reported when the source list contains a nil entry.
var ErrNilSource = errors.New("nil extension source")

type (
	// Engine discovers extensions from an ordered list of sources.
	Engine struct {
		concurrency int
		logger      *slog.Logger
	}

	// Option configures an Engine.
	Option func(*Engine)

	// loadOutcome is the per-source result before duplicate detection.
	loadOutcome struct {
		descriptor *extension.Descriptor
		diagnostic *Diagnostic
	}
)

// WithConcurrency loads up to n sources in parallel. Values below 2 keep
// loading sequential. Result order is always source-enumeration order.
func WithConcurrency(n int) Option {
	return func(e *Engine) {
		e.concurrency = n
	}
}

// WithLogger sets the logger used for debug tracing. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{concurrency: 1, logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Discover activates one implementation per source and returns the
// descriptors in source order along with every non-fatal problem found.
// The returned error is non-nil only when ctx is cancelled.
func (e *Engine) Discover(ctx context.Context, sources []extension.Source) (Result, error) {
	outcomes, err := e.loadAll(ctx, sources)
	if err != nil {
		return Result{}, err
	}

	result := Result{
		Descriptors: make([]*extension.Descriptor, 0, len(outcomes)),
	}
	owner := make(map[extension.Key]string, len(outcomes))

	for _, out := range outcomes {
		if out.diagnostic != nil {
			result.Diagnostics = append(result.Diagnostics, *out.diagnostic)
			continue
		}
		if out.descriptor == nil {
			// Source offered no implementations.
			continue
		}

		d := out.descriptor
		if first, dup := owner[d.Key]; dup {
			result.Diagnostics = append(result.Diagnostics, Diagnostic{
				Severity: SeverityError,
				Code:     CodeDuplicateKey,
				Message:  fmt.Sprintf("key %q is already provided by source %q", d.Key, first),
				SourceID: d.SourceID,
				Key:      string(d.Key),
			})
			continue
		}
		owner[d.Key] = d.SourceID
		result.Descriptors = append(result.Descriptors, d)
	}

	e.logger.Debug("discovery finished",
		"sources", len(sources),
		"descriptors", len(result.Descriptors),
		"diagnostics", len(result.Diagnostics))

	return result, nil
}

// loadAll loads every source, sequentially or with bounded parallelism.
func (e *Engine) loadAll(ctx context.Context, sources []extension.Source) ([]loadOutcome, error) {
	outcomes := make([]loadOutcome, len(sources))

	if e.concurrency < 2 {
		for i, src := range sources {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("discovery canceled: %w", err)
			}
			outcomes[i] = e.loadOne(ctx, src)
		}
		return outcomes, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i, src := range sources {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// Each goroutine owns exactly one slot, so no locking is needed.
			outcomes[i] = e.loadOne(gctx, src)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("discovery canceled: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("discovery canceled: %w", err)
	}
	return outcomes, nil
}

// loadOne converts a single source into either a descriptor, nothing, or a
// load-failure diagnostic.
func (e *Engine) loadOne(ctx context.Context, src extension.Source) loadOutcome {
	if src == nil {
		diag := NewSourceDiagnostic(SeverityError, CodeSourceLoadFailed, "", ErrNilSource)
		return loadOutcome{diagnostic: &diag}
	}

	id, err := sourceID(src)
	if err == nil {
		var d *extension.Descriptor
		d, err = e.instantiate(ctx, src, id)
		if err == nil {
			return loadOutcome{descriptor: d}
		}
	}
	e.logger.Debug("extension source skipped", "source", id, "error", err)
	diag := NewSourceDiagnostic(SeverityError, CodeSourceLoadFailed, id, err)
	diag.Key = id
	return loadOutcome{diagnostic: &diag}
}

// sourceID reads the id of src once, converting a panic into an error.
func sourceID(src extension.Source) (id string, err error) {
	defer func() {
		if r := recover(); r != nil {
			id = ""
			err = fmt.Errorf("source id panicked: %v", r)
		}
	}()
	return src.ID(), nil
}

// instantiate selects the most specific candidate of src and builds its
// descriptor. Panics raised by third-party constructors are converted to errors.
func (e *Engine) instantiate(ctx context.Context, src extension.Source, id string) (d *extension.Descriptor, err error) {
	defer func() {
		if r := recover(); r != nil {
			d = nil
			err = fmt.Errorf("source panicked: %v", r)
		}
	}()

	key, err := extension.ParseKey(id)
	if err != nil {
		return nil, err
	}

	candidates, err := src.Candidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("list implementations: %w", err)
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	idx, err := extension.MostSpecific(candidates)
	if err != nil {
		return nil, err
	}
	chosen := candidates[idx]
	depth, _ := extension.SpecializationDepth(candidates, idx)

	if chosen.New == nil {
		return nil, fmt.Errorf("implementation %q has no constructor", chosen.Name)
	}
	impl, err := chosen.New()
	if err != nil {
		return nil, fmt.Errorf("instantiate %q: %w", chosen.Name, err)
	}
	if impl == nil {
		return nil, fmt.Errorf("instantiate %q: constructor returned nil", chosen.Name)
	}
	spec, err := impl.Spec()
	if err != nil {
		return nil, fmt.Errorf("describe %q: %w", chosen.Name, err)
	}

	d, err = extension.NewDescriptor(key, spec)
	if err != nil {
		return nil, err
	}
	d.SourceID = id
	d.Implementation = chosen.Name
	d.Depth = depth

	e.logger.Debug("extension activated", "key", key, "implementation", chosen.Name, "depth", depth)
	return d, nil
}
