// Package launch opens files with the desktop's default handler.
package launch

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// startCommand is swappable in tests.
var startCommand = func(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// Open hands the path to the platform opener. The file must exist: openers
// like xdg-open report missing files inconsistently, so the check happens
// here. The opener is not waited on.
func Open(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file not found: %s", path)
		}
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	name, args := openerFor(runtime.GOOS, path)
	if err := startCommand(name, args...); err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	return nil
}

// Reveal opens the directory containing the path.
func Reveal(path string) error {
	return Open(filepath.Dir(path))
}

func openerFor(goos, path string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{path}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", path}
	default:
		return "xdg-open", []string{path}
	}
}
