package launch

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func captureStartCommand(t *testing.T) *[][]string {
	t.Helper()
	var calls [][]string
	original := startCommand
	startCommand = func(name string, args ...string) error {
		calls = append(calls, append([]string{name}, args...))
		return nil
	}
	t.Cleanup(func() { startCommand = original })
	return &calls
}

func TestOpen_MissingFileFails(t *testing.T) {
	calls := captureStartCommand(t)

	err := Open(filepath.Join(t.TempDir(), "nope.txt"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "file not found") {
		t.Fatalf("expected file-not-found error, got %v", err)
	}
	if len(*calls) != 0 {
		t.Fatalf("expected no opener invocation, got %v", *calls)
	}
}

func TestOpen_InvokesPlatformOpener(t *testing.T) {
	calls := captureStartCommand(t)

	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	if err := Open(path); err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if len(*calls) != 1 {
		t.Fatalf("expected one opener invocation, got %d", len(*calls))
	}
	argv := (*calls)[0]
	wantName, _ := openerFor(runtime.GOOS, path)
	if argv[0] != wantName {
		t.Fatalf("expected opener %s, got %s", wantName, argv[0])
	}
	if argv[len(argv)-1] != path {
		t.Fatalf("expected path as final argument, got %v", argv)
	}
}

func TestOpenerFor_PerPlatform(t *testing.T) {
	name, args := openerFor("linux", "/tmp/f")
	if name != "xdg-open" || len(args) != 1 || args[0] != "/tmp/f" {
		t.Fatalf("unexpected linux opener: %s %v", name, args)
	}

	name, args = openerFor("darwin", "/tmp/f")
	if name != "open" || len(args) != 1 {
		t.Fatalf("unexpected darwin opener: %s %v", name, args)
	}

	name, args = openerFor("windows", `C:\f`)
	if name != "rundll32" || len(args) != 2 || args[0] != "url.dll,FileProtocolHandler" {
		t.Fatalf("unexpected windows opener: %s %v", name, args)
	}
}

func TestReveal_OpensContainingDirectory(t *testing.T) {
	calls := captureStartCommand(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	if err := Reveal(path); err != nil {
		t.Fatalf("Reveal failed: %v", err)
	}

	argv := (*calls)[0]
	if argv[len(argv)-1] != dir {
		t.Fatalf("expected containing directory %s, got %v", dir, argv)
	}
}
