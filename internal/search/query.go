package search

import (
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
)

const defaultLimit = 10

// Result is one ranked match.
type Result struct {
	Entry Entry
	Score int
}

// titleSource and pathSource adapt the entry slice for fuzzy.FindFrom.
type titleSource []Entry

func (s titleSource) String(i int) string { return s[i].Title }
func (s titleSource) Len() int            { return len(s) }

type pathSource []Entry

func (s pathSource) String(i int) string { return s[i].Path }
func (s pathSource) Len() int            { return len(s) }

// Search ranks entries against the query, best match first. Titles are
// matched first; when no title matches, the full paths are searched instead.
// At most limit results are returned.
func (idx *Index) Search(query string, limit int) []Result {
	query = strings.TrimSpace(query)
	if idx == nil || query == "" {
		return nil
	}
	if limit <= 0 {
		limit = defaultLimit
	}

	matches := fuzzy.FindFrom(query, titleSource(idx.Entries))
	if len(matches) == 0 {
		matches = fuzzy.FindFrom(query, pathSource(idx.Entries))
	}

	results := make([]Result, 0, min(limit, len(matches)))
	for _, m := range matches {
		if len(results) == limit {
			break
		}
		results = append(results, Result{Entry: idx.Entries[m.Index], Score: m.Score})
	}
	return results
}

// StubResult is the single row shown when no index exists yet.
func StubResult(query string) Result {
	return Result{Entry: Entry{Title: fmt.Sprintf("(no index) You searched for: %s", query)}}
}

// FormatResult renders a result the way the launcher lists it.
func FormatResult(r Result) string {
	if r.Entry.Path == "" {
		return r.Entry.Title
	}
	return fmt.Sprintf("%s (%s)", r.Entry.Title, r.Entry.Path)
}
