// SPDX-License-Identifier: MPL-2.0

package state

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestStore_MissingFileIsZero(t *testing.T) {
	t.Parallel()

	st, err := NewStore(filepath.Join(t.TempDir(), "nope.toml")).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if st != (State{}) {
		t.Errorf("Load() = %+v, want zero", st)
	}
}

func TestStore_SaveKeyRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", FileName)
	s := NewStore(path)
	fixed := time.Date(2026, 3, 4, 5, 6, 7, 890, time.UTC)
	s.now = func() time.Time { return fixed }

	if err := s.SaveKey("reports"); err != nil {
		t.Fatalf("SaveKey() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read state file: %v", err)
	}
	if !strings.Contains(string(data), "previous_key") || !strings.Contains(string(data), "reports") {
		t.Errorf("state file = %q", data)
	}

	st, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if st.PreviousKey != "reports" || !st.UpdatedAt.Equal(fixed.Truncate(time.Second)) {
		t.Errorf("Load() = %+v", st)
	}
}

func TestStore_CorruptFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte("previous_key = = ="), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewStore(path).Load(); err == nil {
		t.Error("Load() of corrupt file should fail")
	}
}

func TestStore_EmptyPathKeepsNothing(t *testing.T) {
	t.Parallel()

	s := NewStore("")
	if err := s.SaveKey("x"); err != nil {
		t.Fatalf("SaveKey() error = %v", err)
	}
	st, err := s.Load()
	if err != nil || st.PreviousKey != "" {
		t.Errorf("Load() = %+v, %v", st, err)
	}
}
