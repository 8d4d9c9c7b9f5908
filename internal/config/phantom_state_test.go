package config

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func TestPhantomStore_MissingFileReadsEmpty(t *testing.T) {
	store := NewPhantomStore(filepath.Join(t.TempDir(), "nope", "state.json"))

	destinations, err := store.Load()
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if len(destinations) != 0 {
		t.Errorf("destinations = %v, want empty", destinations)
	}
}

func TestPhantomStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "phantom.json")
	store := NewPhantomStore(path)

	want := []string{"10.1.0.0/16", "198.51.100.0/24"}
	if err := store.Save(want); err != nil {
		t.Fatal(err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	sort.Strings(got)
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("loaded = %v, want %v", got, want)
	}
}

func TestPhantomStore_CorruptFileErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "phantom.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewPhantomStore(path).Load(); err == nil {
		t.Error("corrupt state file should error")
	}
}

func TestNewPhantomStore_DefaultPath(t *testing.T) {
	if store := NewPhantomStore(""); store.Path != DefaultStateFile {
		t.Errorf("path = %q, want %q", store.Path, DefaultStateFile)
	}
}
