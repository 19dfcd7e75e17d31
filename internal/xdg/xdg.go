package xdg

import (
	"fmt"
	"os"
	"path/filepath"
)

// DataDir returns the directory used for quicklaunch state such as the
// search index. Priority:
// 1) $XDG_DATA_HOME/quicklaunch (if XDG_DATA_HOME is set)
// 2) ~/.local/share/quicklaunch
// The directory is created if it does not exist.
func DataDir() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		base = filepath.Join(home, ".local", "share")
	}

	dir := filepath.Join(base, "quicklaunch")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create data dir: %w", err)
	}
	return dir, nil
}

// IndexPath returns the default location of the search index.
func IndexPath() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "index.json"), nil
}
