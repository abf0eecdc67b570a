// SPDX-License-Identifier: MPL-2.0

package pagefile

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/invowk/pageshell/internal/cueutil"
	"github.com/invowk/pageshell/internal/issue"
	"github.com/invowk/pageshell/internal/render"
	"github.com/invowk/pageshell/pkg/extension"
)

// Ext is the page file extension.
const Ext = ".cue"

//go:embed pagefile_schema.cue
var schemaSrc []byte

var schema = cueutil.MustCompile(schemaSrc, "#PageFile")

// Source is the extension source backed by one page file.
type Source struct {
	path string
	key  string
}

// NewSource returns the source for the page file at path. The file is not
// read until Candidates is called.
func NewSource(path string) *Source {
	return &Source{
		path: path,
		key:  strings.TrimSuffix(filepath.Base(path), Ext),
	}
}

// ID returns the file stem.
func (s *Source) ID() string { return s.key }

// Path returns the page file path.
func (s *Source) Path() string { return s.path }

// Candidates parses the file and returns one candidate per declared
// implementation, in declaration order.
func (s *Source) Candidates(ctx context.Context) ([]extension.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := Parse(s.path)
	if err != nil {
		return nil, err
	}

	candidates := make([]extension.Candidate, 0, len(file.Implementations))
	for _, impl := range file.Implementations {
		candidates = append(candidates, extension.Candidate{
			Name:    impl.Name,
			Extends: impl.Extends,
			New: func() (extension.Implementation, error) {
				spec := impl.Spec()
				if impl.Content != "" {
					spec = spec.WithRenderer(markdownRenderer(impl.Content))
				}
				return extension.ImplementationFunc(func() (extension.Spec, error) {
					return spec, nil
				}), nil
			},
		})
	}
	return candidates, nil
}

// Parse reads and validates one page file.
func Parse(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read page file: %w", err)
	}
	return ParseBytes(data, path)
}

// ParseBytes validates data as a page file named filename.
func ParseBytes(data []byte, filename string) (*File, error) {
	file, err := cueutil.Decode[File](schema, data, cueutil.WithFilename(filename))
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("parse page file").
			WithResource(filename).
			WithIssue(issue.PageFileInvalidId).
			WithSuggestion("Every implementation needs a name and a non-empty label").
			Wrap(err).
			BuildError()
	}
	return file, nil
}

func markdownRenderer(content string) extension.Renderer {
	return extension.RendererFunc(func(_ context.Context, target extension.RenderTarget) error {
		out, err := render.Markdown(content, target.Width, target.Style)
		if err != nil {
			return err
		}
		_, err = io.WriteString(target.Out, out)
		return err
	})
}
