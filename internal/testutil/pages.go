// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"path/filepath"
	"testing"

	"github.com/invowk/pageshell/internal/config"
)

// ReportsPage is a top-level page with markdown content.
const ReportsPage = `implementations: [{name: "r", label: "Reports", order: 10, content: "Quarterly **numbers**."}]`

// PageEnv is a temporary page directory with a configuration pointing at it.
type PageEnv struct {
	// Dir is the temporary root; it doubles as the config directory.
	Dir      string
	PagesDir string
	// Config uses PagesDir as its only page directory and keeps its state
	// file under Dir.
	Config *config.Config
}

// NewPageEnv creates an empty page directory under t.TempDir.
func NewPageEnv(t testing.TB) *PageEnv {
	t.Helper()

	dir := t.TempDir()
	pagesDir := filepath.Join(dir, "pages")
	MustMkdirAll(t, pagesDir)

	cfg := config.DefaultConfig()
	cfg.Pages.Dirs = []string{pagesDir}
	cfg.State.File = filepath.Join(dir, "state.toml")
	return &PageEnv{Dir: dir, PagesDir: pagesDir, Config: cfg}
}

// WritePage writes <key>.cue into the page directory and returns its path.
func (e *PageEnv) WritePage(t testing.TB, key, body string) string {
	t.Helper()
	path := filepath.Join(e.PagesDir, key+".cue")
	MustWriteFile(t, path, body)
	return path
}
