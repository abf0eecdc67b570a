// SPDX-License-Identifier: MPL-2.0

package pagefile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cespare/xxhash/v2"

	"github.com/invowk/pageshell/internal/discovery"
	"github.com/invowk/pageshell/pkg/extension"
)

// Filter selects page files by name.
type Filter struct {
	// Include patterns; empty means every *.cue file.
	Include []string
	// Exclude patterns win over Include.
	Exclude []string
}

// Match reports whether the page file at path passes the filter. Patterns
// are doublestar globs tried against both the base name and the slash form
// of path. Names starting with "_" are always skipped.
func (f Filter) Match(path string) bool {
	name := filepath.Base(path)
	if !strings.HasSuffix(name, Ext) || strings.HasPrefix(name, "_") {
		return false
	}
	slashed := filepath.ToSlash(path)
	matches := func(pattern string) bool {
		ok, _ := doublestar.Match(pattern, name)
		if ok {
			return true
		}
		ok, _ = doublestar.Match(pattern, slashed)
		return ok
	}
	for _, p := range f.Exclude {
		if matches(p) {
			return false
		}
	}
	if len(f.Include) == 0 {
		return true
	}
	for _, p := range f.Include {
		if matches(p) {
			return true
		}
	}
	return false
}

// Validate checks the filter's patterns.
func (f Filter) Validate() error {
	var errs []error
	for _, p := range append(append([]string(nil), f.Include...), f.Exclude...) {
		if !doublestar.ValidatePattern(p) {
			errs = append(errs, fmt.Errorf("invalid glob pattern %q", p))
		}
	}
	return errors.Join(errs...)
}

// Scan lists the page files of every directory, in directory order and then
// by file name, and returns one source per file. Directories are not
// descended into. A directory that cannot be read yields a
// source_scan_failed warning; a missing directory is skipped silently.
func Scan(ctx context.Context, dirs []string, filter Filter) ([]extension.Source, []discovery.Diagnostic, error) {
	var (
		sources []extension.Source
		diags   []discovery.Diagnostic
	)
	for _, dir := range dirs {
		if err := ctx.Err(); err != nil {
			return nil, nil, fmt.Errorf("scan canceled: %w", err)
		}
		files, err := list(dir, filter)
		if err != nil {
			diags = append(diags, discovery.NewSourceDiagnostic(
				discovery.SeverityWarning, discovery.CodeSourceScanFailed, dir, err))
			continue
		}
		for _, f := range files {
			sources = append(sources, NewSource(f.path))
		}
	}
	return sources, diags, nil
}

// Fingerprint summarizes the names, sizes and modification times of every
// matching page file. It changes whenever a scan could produce a different
// result.
func Fingerprint(dirs []string, filter Filter) uint64 {
	h := xxhash.New()
	for _, dir := range dirs {
		_, _ = h.WriteString(dir)
		_, _ = h.WriteString("\x00")
		files, err := list(dir, filter)
		if err != nil {
			_, _ = h.WriteString("!" + err.Error())
			continue
		}
		for _, f := range files {
			_, _ = h.WriteString(f.path)
			_, _ = h.WriteString(strconv.FormatInt(f.size, 10))
			_, _ = h.WriteString(strconv.FormatInt(f.modTime, 10))
			_, _ = h.WriteString("\x00")
		}
	}
	return h.Sum64()
}

type listedFile struct {
	path    string
	size    int64
	modTime int64
}

func list(dir string, filter Filter) ([]listedFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var out []listedFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if !filter.Match(path) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, listedFile{path: path, size: info.Size(), modTime: info.ModTime().UnixNano()})
	}
	return out, nil
}
