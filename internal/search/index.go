// Package search maintains the file index behind the launcher's query box.
package search

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ErrNoIndex is returned by Load when no index has been built yet.
var ErrNoIndex = errors.New("no index")

// Entry is one indexed file.
type Entry struct {
	Path    string    `json:"path"`
	Title   string    `json:"title"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

// Index holds the indexed entries plus build metadata.
type Index struct {
	BuiltAt time.Time `json:"built_at"`
	Roots   []string  `json:"roots"`
	Entries []Entry   `json:"entries"`
}

// Build walks the given roots and indexes every regular file. Hidden files
// and directories are skipped, as are subtrees the walk cannot read. Roots
// that do not exist contribute nothing.
func Build(roots []string) (*Index, error) {
	idx := &Index{
		BuiltAt: time.Now(),
		Roots:   append([]string(nil), roots...),
	}

	for _, root := range roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				// Unreadable entry; keep walking the rest.
				return nil
			}
			name := d.Name()
			if strings.HasPrefix(name, ".") && path != root {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return nil
			}
			idx.Entries = append(idx.Entries, Entry{
				Path:    path,
				Title:   name,
				Size:    info.Size(),
				ModTime: info.ModTime(),
			})
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", root, err)
		}
	}

	sort.Slice(idx.Entries, func(i, j int) bool {
		return idx.Entries[i].Path < idx.Entries[j].Path
	})

	return idx, nil
}

// Load reads an index from disk. A missing file means no index has been
// built yet and is reported as ErrNoIndex.
func Load(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoIndex
		}
		return nil, fmt.Errorf("failed to read index: %w", err)
	}
	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("failed to parse index: %w", err)
	}
	return &idx, nil
}

// Save writes the index to disk, creating the parent directory if needed.
func (idx *Index) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}
	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode index: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write index: %w", err)
	}
	return nil
}

// Len reports the number of indexed entries.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.Entries)
}
