// SPDX-License-Identifier: MPL-2.0

package pagefile

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/invowk/pageshell/internal/discovery"
	"github.com/invowk/pageshell/pkg/extension"
)

func writePage(t *testing.T, dir, name, body string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestScan_OrderAndFilter(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writePage(t, dir, "zeta.cue", `implementations: [{name: "z", label: "Zeta"}]`)
	writePage(t, dir, "alpha.cue", `implementations: [{name: "a", label: "Alpha"}]`)
	writePage(t, dir, "_hidden.cue", `implementations: [{name: "h", label: "Hidden"}]`)
	writePage(t, dir, "draft-notes.cue", `implementations: [{name: "d", label: "Draft"}]`)
	writePage(t, dir, "readme.md", "not a page")
	if err := os.Mkdir(filepath.Join(dir, "nested.cue"), 0o755); err != nil {
		t.Fatal(err)
	}

	sources, diags, err := Scan(context.Background(), []string{dir}, Filter{Exclude: []string{"draft-*"}})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(diags) != 0 {
		t.Errorf("Scan() diagnostics = %v", diags)
	}

	var ids []string
	for _, s := range sources {
		ids = append(ids, s.ID())
	}
	if want := []string{"alpha", "zeta"}; !slices.Equal(ids, want) {
		t.Errorf("Scan() ids = %v, want %v", ids, want)
	}
}

func TestScan_MissingAndUnreadableDirs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	notADir := writePage(t, dir, "file.cue", `implementations: []`)

	sources, diags, err := Scan(context.Background(), []string{filepath.Join(dir, "missing"), notADir}, Filter{})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(sources) != 0 {
		t.Errorf("Scan() sources = %d, want 0", len(sources))
	}
	if len(diags) != 1 || diags[0].Code != discovery.CodeSourceScanFailed || diags[0].SourceID != notADir {
		t.Errorf("Scan() diagnostics = %v, want one source_scan_failed for %s", diags, notADir)
	}
}

func TestScan_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := Scan(ctx, []string{t.TempDir()}, Filter{}); err == nil {
		t.Error("Scan() with canceled context should fail")
	}
}

func TestFilter_Match(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		filter Filter
		path   string
		want   bool
	}{
		{"plain cue", Filter{}, "pages/a.cue", true},
		{"wrong extension", Filter{}, "pages/a.txt", false},
		{"underscore skipped", Filter{}, "pages/_a.cue", false},
		{"include by name", Filter{Include: []string{"report*"}}, "pages/reports.cue", true},
		{"include misses", Filter{Include: []string{"report*"}}, "pages/home.cue", false},
		{"include by path", Filter{Include: []string{"**/admin/*.cue"}}, "x/admin/users.cue", true},
		{"exclude wins", Filter{Include: []string{"*.cue"}, Exclude: []string{"old-*"}}, "p/old-a.cue", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.filter.Match(tt.path); got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestFilter_Validate(t *testing.T) {
	t.Parallel()

	if err := (Filter{Include: []string{"*.cue"}}).Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
	if err := (Filter{Exclude: []string{"[unclosed"}}).Validate(); err == nil {
		t.Error("Validate() accepted a broken pattern")
	}
}

func TestFingerprint_ChangesWithFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writePage(t, dir, "a.cue", `implementations: [{name: "a", label: "A"}]`)

	before := Fingerprint([]string{dir}, Filter{})
	if again := Fingerprint([]string{dir}, Filter{}); again != before {
		t.Error("Fingerprint() is not stable")
	}

	writePage(t, dir, "b.cue", `implementations: [{name: "b", label: "B"}]`)
	if after := Fingerprint([]string{dir}, Filter{}); after == before {
		t.Error("Fingerprint() did not change after adding a page")
	}
}

func TestSource_MostRefinedWins(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writePage(t, dir, "reports.cue", `
implementations: [
	{name: "base", label: "Reports", icon: "chart", order: 20},
	{name: "quarterly", extends: "base", label: "Quarterly", icon: "chart", icon_type: "fa:", order: 5, parent: "home", children: ["q1", "q2"], group_type: "group", content: "# Q3 numbers"},
]
`)

	sources, _, err := Scan(context.Background(), []string{dir}, Filter{})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	res, err := discovery.New().Discover(context.Background(), sources)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if len(res.Descriptors) != 1 {
		t.Fatalf("Discover() descriptors = %d, diagnostics = %v", len(res.Descriptors), res.Diagnostics)
	}

	d := res.Descriptors[0]
	if d.Key != "reports" || d.Implementation != "quarterly" || d.Depth != 2 {
		t.Errorf("descriptor = %s impl=%s depth=%d", d, d.Implementation, d.Depth)
	}
	if d.Icon() != "fa:chart" || d.Parent != "home" || d.StructuralRole() != extension.RoleGroup {
		t.Errorf("descriptor fields not mapped: %+v", d)
	}
	if got := d.Children(); !slices.Equal(got, []extension.Key{"q1", "q2"}) {
		t.Errorf("Children() = %v", got)
	}

	var buf bytes.Buffer
	if err := d.Renderer.Render(context.Background(), extension.RenderTarget{Out: &buf, Width: 60, Style: "notty"}); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(buf.String(), "Q3 numbers") {
		t.Errorf("rendered page = %q", buf.String())
	}
}

func TestSource_InvalidFileIsLoadFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writePage(t, dir, "broken.cue", `implementations: [{name: "x", label: ""}]`)
	writePage(t, dir, "fine.cue", `implementations: [{name: "x", label: "Fine"}]`)

	sources, _, err := Scan(context.Background(), []string{dir}, Filter{})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	res, err := discovery.New().Discover(context.Background(), sources)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	if len(res.Descriptors) != 1 || res.Descriptors[0].Key != "fine" {
		t.Errorf("descriptors = %v", res.Descriptors)
	}
	if len(res.Diagnostics) != 1 || res.Diagnostics[0].Code != discovery.CodeSourceLoadFailed || res.Diagnostics[0].SourceID != "broken" {
		t.Errorf("diagnostics = %v", res.Diagnostics)
	}
}

func TestSource_EmptyFileContributesNothing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writePage(t, dir, "empty.cue", `implementations: []`)

	candidates, err := NewSource(path).Candidates(context.Background())
	if err != nil {
		t.Fatalf("Candidates() error = %v", err)
	}
	if len(candidates) != 0 {
		t.Errorf("Candidates() = %d, want 0", len(candidates))
	}
}
