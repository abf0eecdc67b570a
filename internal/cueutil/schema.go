// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// Schema is a compiled root definition. A cue.Context is not safe for
// concurrent use, so every operation on the schema holds its lock.
type Schema struct {
	mu   sync.Mutex
	ctx  *cue.Context
	root cue.Value
	path string
}

// Compile compiles src and looks up the definition at path (e.g. "#Config").
func Compile(src []byte, path string) (*Schema, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(src)
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	root := v.LookupPath(cue.ParsePath(path))
	if err := root.Err(); err != nil {
		return nil, fmt.Errorf("schema definition %s: %w", path, err)
	}
	return &Schema{ctx: ctx, root: root, path: path}, nil
}

// MustCompile is Compile for embedded schemas; a broken embedded schema is a
// programming error.
func MustCompile(src []byte, path string) *Schema {
	s, err := Compile(src, path)
	if err != nil {
		panic(err)
	}
	return s
}

// Path returns the root definition path.
func (s *Schema) Path() string { return s.path }

// Decode validates data against the schema and decodes it into a T.
func Decode[T any](s *Schema, data []byte, opts ...Option) (*T, error) {
	var out T
	if err := s.decode(data, &out, opts); err != nil {
		return nil, err
	}
	return &out, nil
}

// DecodeMap validates data and decodes it into a generic map, the shape
// viper.MergeConfigMap expects.
func (s *Schema) DecodeMap(data []byte, opts ...Option) (map[string]any, error) {
	var out map[string]any
	if err := s.decode(data, &out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Schema) decode(data []byte, target any, opts []Option) error {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if err := CheckFileSize(data, o.maxFileSize, o.filename); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user := s.ctx.CompileBytes(data, cue.Filename(o.filename))
	if err := user.Err(); err != nil {
		return FormatError(err, o.filename)
	}

	unified := s.root.Unify(user)
	if err := unified.Validate(cue.Concrete(o.concrete)); err != nil {
		return FormatError(err, o.filename)
	}
	if err := unified.Decode(target); err != nil {
		return FormatError(err, o.filename)
	}
	return nil
}

// CheckFileSize rejects data larger than maxSize.
func CheckFileSize(data []byte, maxSize int64, filename string) error {
	if int64(len(data)) > maxSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes", filename, len(data), maxSize)
	}
	return nil
}
