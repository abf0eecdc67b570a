// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/invowk/pageshell/internal/config"
	"github.com/invowk/pageshell/internal/discovery"
	"github.com/invowk/pageshell/internal/issue"
	"github.com/invowk/pageshell/internal/navtree"
	"github.com/invowk/pageshell/internal/testutil"
)

type testEnv struct {
	*testutil.PageEnv
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return &testEnv{PageEnv: testutil.NewPageEnv(t)}
}

func (e *testEnv) run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	var out, errOut bytes.Buffer
	app := NewApp(Dependencies{
		Config: config.StaticProvider{Config: e.Config},
		Stdin:  strings.NewReader(""),
		Stdout: &out,
		Stderr: &errOut,
	})
	root := NewRootCommand(app)
	root.SetArgs(append([]string{"--config-dir", e.Dir}, args...))
	root.SetOut(&out)
	root.SetErr(&errOut)
	err = root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestMenuCommand(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.WritePage(t, "reports", testutil.ReportsPage)
	env.WritePage(t, "q1", `implementations: [{name: "q", label: "Q1", parent: "reports"}]`)

	out, _, err := env.run(t, "menu")
	if err != nil {
		t.Fatalf("menu error = %v", err)
	}
	for _, want := range []string{"▸ Home", "Reports", "    Q1", "About"} {
		if !strings.Contains(out, want) {
			t.Errorf("menu output missing %q:\n%s", want, out)
		}
	}
}

func TestMenuCommandJSON(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.WritePage(t, "reports", testutil.ReportsPage)
	env.WritePage(t, "q1", `implementations: [{name: "q", label: "Q1", parent: "reports"}]`)

	tests := []struct {
		name     string
		args     []string
		topLevel int
	}{
		{"hierarchical", []string{"menu", "--json"}, 4},
		{"flat", []string{"menu", "--json", "--flat"}, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, _, err := env.run(t, tt.args...)
			if err != nil {
				t.Fatalf("%v error = %v", tt.args, err)
			}
			var items []navtree.MenuItem
			if err := json.Unmarshal([]byte(out), &items); err != nil {
				t.Fatalf("output is not a menu: %v\n%s", err, out)
			}
			if len(items) != tt.topLevel {
				t.Errorf("top-level items = %d, want %d", len(items), tt.topLevel)
			}
		})
	}
}

func TestMenuCommandInvalidOrientation(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	if _, _, err := env.run(t, "menu", "--orientation", "diagonal"); err == nil {
		t.Error("menu accepted an invalid orientation")
	}
}

func TestListCommand(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.WritePage(t, "reports", testutil.ReportsPage)

	out, _, err := env.run(t, "list")
	if err != nil {
		t.Fatalf("list error = %v", err)
	}
	for _, want := range []string{"KEY", "reports", "home-welcome", "about"} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q:\n%s", want, out)
		}
	}
}

func TestOpenCommandRemembersPage(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.WritePage(t, "reports", testutil.ReportsPage)

	out, _, err := env.run(t, "open", "Reports")
	if err != nil {
		t.Fatalf("open error = %v", err)
	}
	if !strings.Contains(out, "numbers") || !strings.Contains(out, "▸ Reports") {
		t.Errorf("open output:\n%s", out)
	}

	out, _, err = env.run(t, "open", "--no-input", "--no-menu")
	if err != nil {
		t.Fatalf("open error = %v", err)
	}
	if !strings.Contains(out, "numbers") || strings.Contains(out, "▸") {
		t.Errorf("reopen output:\n%s", out)
	}
}

func TestOpenCommandUnknownPage(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	out, errOut, err := env.run(t, "open", "nowhere")
	if err != nil {
		t.Fatalf("open error = %v", err)
	}
	if !strings.Contains(errOut, `unknown page "nowhere"`) {
		t.Errorf("stderr = %q", errOut)
	}
	if !strings.Contains(out, "▸ Home") {
		t.Errorf("default page not shown:\n%s", out)
	}
}

func TestDiagnosticsCommand(t *testing.T) {
	t.Parallel()

	t.Run("clean", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		out, _, err := env.run(t, "diagnostics")
		if err != nil {
			t.Fatalf("diagnostics error = %v", err)
		}
		if !strings.Contains(out, "no problems found") {
			t.Errorf("output = %q", out)
		}
	})

	t.Run("broken page file", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		env.WritePage(t, "broken", `implementations: [{name: 42}]`)
		out, _, err := env.run(t, "diagnostics", "--json")

		var exitErr *ExitError
		if !errors.As(err, &exitErr) || exitErr.Code != 1 {
			t.Fatalf("diagnostics error = %v, want exit status 1", err)
		}
		if !strings.Contains(out, `"code": "source_load_failed"`) || !strings.Contains(out, `"source_id"`) {
			t.Errorf("json output:\n%s", out)
		}
	})

	t.Run("explain", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		env.WritePage(t, "broken", `implementations: [{name: 42}]`)
		out, _, err := env.run(t, "diagnostics", "--explain")
		if err == nil {
			t.Fatal("diagnostics succeeded with a broken page file")
		}
		if !strings.Contains(out, "page file is invalid") {
			t.Errorf("explain output missing guidance:\n%s", out)
		}
	})
}

func TestConfigInitCommand(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	path := filepath.Join(env.Dir, "config.cue")

	out, _, err := env.run(t, "config", "init")
	if err != nil {
		t.Fatalf("config init error = %v", err)
	}
	if !strings.Contains(out, "wrote") {
		t.Errorf("output = %q", out)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	out, _, err = env.run(t, "config", "init")
	if err != nil {
		t.Fatalf("second config init error = %v", err)
	}
	if !strings.Contains(out, "already exists") {
		t.Errorf("output = %q", out)
	}

	if _, _, err := env.run(t, "config", "init", "--force"); err != nil {
		t.Errorf("config init --force error = %v", err)
	}
}

func TestConfigShowAndStdout(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	for _, args := range [][]string{{"config", "show"}, {"config", "init", "--stdout"}} {
		out, _, err := env.run(t, args...)
		if err != nil {
			t.Fatalf("%v error = %v", args, err)
		}
		if !strings.Contains(out, "pageshell configuration") {
			t.Errorf("%v output:\n%s", args, out)
		}
	}
}

func TestConfigPathCommand(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	out, _, err := env.run(t, "config", "path")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := strings.TrimSpace(out), filepath.Join(env.Dir, "config.cue"); got != want {
		t.Errorf("config path = %q, want %q", got, want)
	}
}

func TestExitError(t *testing.T) {
	t.Parallel()

	inner := errors.New("boom")
	tests := []struct {
		err  *ExitError
		want string
	}{
		{&ExitError{Code: 2}, "exit status 2"},
		{&ExitError{Code: 1, Err: inner}, "boom"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
	if !errors.Is(&ExitError{Code: 1, Err: inner}, inner) {
		t.Error("ExitError does not unwrap")
	}
}

func TestExplainIssues(t *testing.T) {
	t.Parallel()

	diags := []discovery.Diagnostic{
		{Severity: discovery.SeverityError, Code: discovery.CodeSourceLoadFailed},
		{Severity: discovery.SeverityWarning, Code: discovery.CodeUnresolvedParent},
		{Severity: discovery.SeverityError, Code: discovery.CodeSourceLoadFailed},
		{Severity: discovery.SeverityWarning, Code: discovery.CodeSourceScanFailed},
	}
	got := explainIssues(diags)
	want := []issue.Id{issue.PageFileInvalidId, issue.PagesDirUnreadableId}
	if !slices.Equal(got, want) {
		t.Errorf("explainIssues() = %v, want %v", got, want)
	}
}

func TestFormatErrorForDisplay(t *testing.T) {
	t.Parallel()

	plain := errors.New("boom")
	if got := formatErrorForDisplay(plain, true); got != "boom" {
		t.Errorf("plain error = %q", got)
	}

	ae := issue.NewErrorContext().
		WithOperation("load configuration").
		WithIssue(issue.ConfigLoadFailedId).
		WithSuggestion("Check the syntax").
		Wrap(plain).
		BuildError()

	terse := formatErrorForDisplay(ae, false)
	if !strings.Contains(terse, "failed to load configuration: boom") || !strings.Contains(terse, "Check the syntax") {
		t.Errorf("terse = %q", terse)
	}
	if strings.Contains(terse, "could not be loaded") {
		t.Error("guidance shown without verbose")
	}
	if verbose := formatErrorForDisplay(ae, true); !strings.Contains(verbose, "could not be loaded") {
		t.Errorf("verbose output missing guidance: %q", verbose)
	}
}
