// SPDX-License-Identifier: MPL-2.0

package extension

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
)

var (
	// ErrUnknownBase is returned when a candidate extends a name that no
	// candidate of the same source declares.
	ErrUnknownBase = errors.New("candidate extends unknown implementation")
	// ErrDerivationCycle is returned when candidates extend each other in a loop.
	ErrDerivationCycle = errors.New("candidate derivation chain loops")
)

type (
	// Renderer is the render entry point of an extension. It is opaque to
	// discovery and navigation; only the host invokes it.
	Renderer interface {
		Render(ctx context.Context, target RenderTarget) error
	}

	// RendererFunc adapts a function to the Renderer interface.
	RendererFunc func(ctx context.Context, target RenderTarget) error

	// RenderTarget is where and how the host wants a page drawn.
	RenderTarget struct {
		// Out receives the rendered page.
		Out io.Writer
		// Width is the available terminal width (0 = unknown).
		Width int
		// Style is the host theme name ("dark", "light", "auto").
		Style string
	}

	// Implementation is one concrete implementation of the capability
	// contract. Spec is called once per discovery run.
	Implementation interface {
		Spec() (Spec, error)
	}

	// ImplementationFunc adapts a function to the Implementation interface.
	ImplementationFunc func() (Spec, error)

	// Candidate is one implementation a source offers. Extends names the
	// candidate of the same source this one refines; empty means it derives
	// directly from the base contract.
	Candidate struct {
		Name    string
		Extends string
		New     func() (Implementation, error)
	}

	// Source is an independently authored unit that offers zero or more
	// candidate implementations. ID is stable and becomes the extension key.
	Source interface {
		ID() string
		Candidates(ctx context.Context) ([]Candidate, error)
	}

	staticSource struct {
		id         string
		candidates []Candidate
	}
)

// Render implements Renderer.
func (f RendererFunc) Render(ctx context.Context, target RenderTarget) error {
	return f(ctx, target)
}

// Spec implements Implementation.
func (f ImplementationFunc) Spec() (Spec, error) {
	return f()
}

// NewSource returns a Source that offers a fixed candidate list.
func NewSource(id string, candidates ...Candidate) Source {
	return &staticSource{id: id, candidates: slices.Clone(candidates)}
}

// Static returns a candidate whose implementation always yields spec.
func Static(name string, spec Spec) Candidate {
	return Candidate{
		Name: name,
		New: func() (Implementation, error) {
			return ImplementationFunc(func() (Spec, error) { return spec, nil }), nil
		},
	}
}

// Refines returns a copy of c that extends base.
func (c Candidate) Refines(base string) Candidate {
	c.Extends = base
	return c
}

func (s *staticSource) ID() string { return s.id }

func (s *staticSource) Candidates(_ context.Context) ([]Candidate, error) {
	return slices.Clone(s.candidates), nil
}

// SpecializationDepth returns the length of the derivation chain of
// candidates[i]. A candidate extending nothing has depth 1.
func SpecializationDepth(candidates []Candidate, i int) (int, error) {
	byName := make(map[string]int, len(candidates))
	for idx, c := range candidates {
		if _, dup := byName[c.Name]; !dup {
			byName[c.Name] = idx
		}
	}

	depth := 1
	visited := map[int]bool{i: true}
	cur := candidates[i]
	for cur.Extends != "" {
		next, ok := byName[cur.Extends]
		if !ok {
			return 0, fmt.Errorf("%w: %q extends %q", ErrUnknownBase, cur.Name, cur.Extends)
		}
		if visited[next] {
			return 0, fmt.Errorf("%w: at %q", ErrDerivationCycle, cur.Name)
		}
		visited[next] = true
		depth++
		cur = candidates[next]
	}
	return depth, nil
}

// MostSpecific returns the index of the candidate with the greatest
// specialization depth. Ties go to the earliest declared candidate.
func MostSpecific(candidates []Candidate) (int, error) {
	best, bestDepth := -1, 0
	for i := range candidates {
		depth, err := SpecializationDepth(candidates, i)
		if err != nil {
			return -1, err
		}
		if depth > bestDepth {
			best, bestDepth = i, depth
		}
	}
	return best, nil
}
