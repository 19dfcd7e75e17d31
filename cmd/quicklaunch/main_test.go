package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/1broseidon/quicklaunch/internal/search"
)

func setupFakeHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_DATA_HOME", filepath.Join(home, ".local", "share"))
	mustMkdir(t, filepath.Join(home, "Downloads"))
	return home
}

func mustMkdir(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
}

func TestRunIndexBuildsIndexFile(t *testing.T) {
	home := setupFakeHome(t)
	if err := os.WriteFile(filepath.Join(home, "Downloads", "report.pdf"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	if rc := runIndex(nil); rc != 0 {
		t.Fatalf("runIndex rc=%d, want 0", rc)
	}

	indexPath := filepath.Join(home, ".local", "share", "quicklaunch", "index.json")
	idx, err := search.Load(indexPath)
	if err != nil {
		t.Fatalf("load index: %v", err)
	}
	if idx.Len() != 1 {
		t.Fatalf("entries=%d, want 1", idx.Len())
	}
}

func TestRunSearchBeforeAndAfterIndexing(t *testing.T) {
	home := setupFakeHome(t)
	if err := os.WriteFile(filepath.Join(home, "Downloads", "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	// No index yet: the stub path still exits cleanly.
	if rc := runSearch([]string{"notes"}); rc != 0 {
		t.Fatalf("runSearch (no index) rc=%d, want 0", rc)
	}

	if rc := runIndex(nil); rc != 0 {
		t.Fatalf("runIndex rc=%d, want 0", rc)
	}
	if rc := runSearch([]string{"notes"}); rc != 0 {
		t.Fatalf("runSearch rc=%d, want 0", rc)
	}
}

func TestRunSearchRequiresQuery(t *testing.T) {
	setupFakeHome(t)
	if rc := runSearch(nil); rc != 2 {
		t.Fatalf("runSearch rc=%d, want 2", rc)
	}
}

func TestRunConfigValidateDefaults(t *testing.T) {
	setupFakeHome(t)
	if rc := runConfig([]string{"validate"}); rc != 0 {
		t.Fatalf("runConfig validate rc=%d, want 0", rc)
	}
}

func TestRunIndexRejectsArguments(t *testing.T) {
	setupFakeHome(t)
	if rc := runIndex([]string{"extra"}); rc != 2 {
		t.Fatalf("runIndex rc=%d, want 2", rc)
	}
}
