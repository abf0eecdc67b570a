// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/invowk/pageshell/pkg/extension"
)

func TestDiscover_KeepsSourceOrder(t *testing.T) {
	t.Parallel()

	sources := []extension.Source{
		page("zeta", "Zeta", 1),
		page("alpha", "Alpha", 50),
		page("mid", "Mid", -3),
	}

	res, err := New().Discover(context.Background(), sources)
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}
	want := []extension.Key{"zeta", "alpha", "mid"}
	if got := keys(res.Descriptors); !slices.Equal(got, want) {
		t.Errorf("keys = %v, want %v", got, want)
	}
	if len(res.Diagnostics) != 0 {
		t.Errorf("unexpected diagnostics: %v", res.Diagnostics)
	}
}

func TestDiscover_SelectsMostDerived(t *testing.T) {
	t.Parallel()

	src := extension.NewSource("home",
		extension.Static("base", extension.NewSpec("Base Home", "house", 0)),
		extension.Static("welcome", extension.NewSpec("Welcome", "house", 0)).Refines("base"),
		extension.Static("plain", extension.NewSpec("Plain", "house", 0)),
	)

	res, err := New().Discover(context.Background(), []extension.Source{src})
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}
	if len(res.Descriptors) != 1 {
		t.Fatalf("len(Descriptors) = %d, want 1", len(res.Descriptors))
	}
	d := res.Descriptors[0]
	if d.Label != "Welcome" || d.Implementation != "welcome" || d.Depth != 2 {
		t.Errorf("got label=%q impl=%q depth=%d, want Welcome/welcome/2", d.Label, d.Implementation, d.Depth)
	}
	if d.SourceID != "home" {
		t.Errorf("SourceID = %q, want home", d.SourceID)
	}
}

func TestDiscover_EmptySourceIsNotAnError(t *testing.T) {
	t.Parallel()

	res, err := New().Discover(context.Background(), []extension.Source{
		extension.NewSource("empty"),
		page("home", "Home", 0),
	})
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}
	if got := keys(res.Descriptors); !slices.Equal(got, []extension.Key{"home"}) {
		t.Errorf("keys = %v, want [home]", got)
	}
	if len(res.Diagnostics) != 0 {
		t.Errorf("unexpected diagnostics: %v", res.Diagnostics)
	}
}

func TestDiscover_FailuresDoNotAbort(t *testing.T) {
	t.Parallel()

	sources := []extension.Source{
		page("first", "First", 0),
		failingSource{id: "broken", err: errBadUnit},
		panickingSource("explodes"),
		extension.NewSource("nolabel", extension.Static("nolabel", extension.NewSpec("", "x", 0))),
		nil,
		page("last", "Last", 1),
	}

	res, err := New().Discover(context.Background(), sources)
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}
	if got := keys(res.Descriptors); !slices.Equal(got, []extension.Key{"first", "last"}) {
		t.Errorf("keys = %v, want [first last]", got)
	}
	if len(res.Diagnostics) != 4 {
		t.Fatalf("len(Diagnostics) = %d, want 4: %v", len(res.Diagnostics), res.Diagnostics)
	}
	for _, d := range res.Diagnostics {
		if d.Code != CodeSourceLoadFailed || d.Severity != SeverityError {
			t.Errorf("diagnostic = %v, want source_load_failed error", d)
		}
		if d.Message == "" {
			t.Errorf("diagnostic %v has no message", d)
		}
	}
	if !errors.Is(res.Diagnostics[0].Cause, errBadUnit) {
		t.Errorf("Cause = %v, want errBadUnit", res.Diagnostics[0].Cause)
	}
	if !errors.Is(res.Diagnostics[2].Cause, extension.ErrMissingLabel) {
		t.Errorf("Cause = %v, want ErrMissingLabel", res.Diagnostics[2].Cause)
	}
	if !errors.Is(res.Diagnostics[3].Cause, ErrNilSource) {
		t.Errorf("Cause = %v, want ErrNilSource", res.Diagnostics[3].Cause)
	}
}

func TestDiscover_DuplicateKeyRejected(t *testing.T) {
	t.Parallel()

	res, err := New().Discover(context.Background(), []extension.Source{
		page("x", "First X", 0),
		page("x", "Second X", 1),
	})
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}
	if len(res.Descriptors) != 1 || res.Descriptors[0].Label != "First X" {
		t.Fatalf("Descriptors = %v, want only First X", res.Descriptors)
	}
	if len(res.Diagnostics) != 1 || res.Diagnostics[0].Code != CodeDuplicateKey {
		t.Fatalf("Diagnostics = %v, want one duplicate_key", res.Diagnostics)
	}
	if res.Diagnostics[0].Key != "x" {
		t.Errorf("Key = %q, want x", res.Diagnostics[0].Key)
	}
}

func TestDiscover_InvalidSourceID(t *testing.T) {
	t.Parallel()

	res, err := New().Discover(context.Background(), []extension.Source{page("has space", "A", 0)})
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}
	if len(res.Descriptors) != 0 {
		t.Errorf("Descriptors = %v, want none", res.Descriptors)
	}
	if len(res.Diagnostics) != 1 || !errors.Is(res.Diagnostics[0].Cause, extension.ErrInvalidKey) {
		t.Errorf("Diagnostics = %v, want invalid key failure", res.Diagnostics)
	}
}

func TestDiscover_ConcurrentMatchesSequential(t *testing.T) {
	t.Parallel()

	var sources []extension.Source
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		sources = append(sources, page(id, id, 0))
	}
	sources = append(sources, page("c", "dup", 0), failingSource{id: "bad", err: errBadUnit})

	seq, err := New().Discover(context.Background(), sources)
	if err != nil {
		t.Fatalf("sequential Discover() error: %v", err)
	}
	par, err := New(WithConcurrency(4)).Discover(context.Background(), sources)
	if err != nil {
		t.Fatalf("parallel Discover() error: %v", err)
	}

	if !slices.Equal(keys(seq.Descriptors), keys(par.Descriptors)) {
		t.Errorf("parallel keys %v differ from sequential %v", keys(par.Descriptors), keys(seq.Descriptors))
	}
	if len(seq.Diagnostics) != len(par.Diagnostics) {
		t.Fatalf("diagnostic counts differ: %d vs %d", len(seq.Diagnostics), len(par.Diagnostics))
	}
	for i := range seq.Diagnostics {
		if seq.Diagnostics[i].Code != par.Diagnostics[i].Code {
			t.Errorf("diagnostic %d: %s vs %s", i, seq.Diagnostics[i].Code, par.Diagnostics[i].Code)
		}
	}
}

func TestDiscover_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, n := range []int{1, 4} {
		_, err := New(WithConcurrency(n)).Discover(ctx, []extension.Source{page("a", "A", 0)})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("concurrency %d: err = %v, want context.Canceled", n, err)
		}
	}
}

func TestResult_Index(t *testing.T) {
	t.Parallel()

	res, err := New().Discover(context.Background(), []extension.Source{page("a", "A", 0), page("b", "B", 1)})
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}
	idx := res.Index()
	if idx["b"] == nil || idx["b"].Label != "B" {
		t.Errorf("Index()[b] = %v", idx["b"])
	}
	if res.Empty() {
		t.Error("Empty() = true, want false")
	}
}

func TestDiscover_SourceIDPanic(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		concurrency int
	}{
		{name: "sequential", concurrency: 1},
		{name: "concurrent", concurrency: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sources := []extension.Source{unnamedSource{}, page("good", "Good", 0)}
			res, err := New(WithConcurrency(tt.concurrency)).Discover(context.Background(), sources)
			if err != nil {
				t.Fatalf("Discover() error: %v", err)
			}
			if got := keys(res.Descriptors); !slices.Equal(got, []extension.Key{"good"}) {
				t.Errorf("keys = %v, want [good]", got)
			}
			if len(res.Diagnostics) != 1 || res.Diagnostics[0].Code != CodeSourceLoadFailed {
				t.Fatalf("diagnostics = %v, want one source_load_failed", res.Diagnostics)
			}
			if !strings.Contains(res.Diagnostics[0].Message, "boom") {
				t.Errorf("message = %q, want the panic value", res.Diagnostics[0].Message)
			}
		})
	}
}
