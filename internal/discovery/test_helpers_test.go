// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"context"
	"errors"

	"github.com/invowk/pageshell/pkg/extension"
)

// page returns a single-implementation source whose key is id.
func page(id, label string, order int) extension.Source {
	return extension.NewSource(id, extension.Static(id, extension.NewSpec(label, "circle", order)))
}

// failingSource fails while listing its implementations.
type failingSource struct {
	id  string
	err error
}

func (s failingSource) ID() string { return s.id }

func (s failingSource) Candidates(context.Context) ([]extension.Candidate, error) {
	return nil, s.err
}

// panickingSource panics from its constructor.
func panickingSource(id string) extension.Source {
	return extension.NewSource(id, extension.Candidate{
		Name: id,
		New: func() (extension.Implementation, error) {
			panic("boom")
		},
	})
}

var errBadUnit = errors.New("bad unit")

func keys(ds []*extension.Descriptor) []extension.Key {
	out := make([]extension.Key, len(ds))
	for i, d := range ds {
		out[i] = d.Key
	}
	return out
}

// unnamedSource panics when asked for its id.
type unnamedSource struct{}

func (unnamedSource) ID() string { panic("boom") }

func (unnamedSource) Candidates(context.Context) ([]extension.Candidate, error) {
	return nil, nil
}
