package roles

import (
	"sort"
	"strings"
)

// SearchIndex maps each display name to its normalized form so that
// type-ahead queries don't re-normalize the whole name set per keystroke.
// Built once per snapshot; a new snapshot invalidates the previous index.
type SearchIndex struct {
	names      []string // ascending by display name
	normalized []string // normalized[i] = NormalizeName(names[i])
}

// BuildIndex precomputes normalized forms for every distinct name.
func BuildIndex(names []string) *SearchIndex {
	sorted := make([]string, len(names))
	copy(sorted, names)
	sort.Strings(sorted)

	idx := &SearchIndex{
		names:      sorted,
		normalized: make([]string, len(sorted)),
	}
	for i, n := range sorted {
		idx.normalized[i] = NormalizeName(n)
	}
	return idx
}

// Query returns every name whose normalized form contains the normalized
// query as a substring, ascending by display name. An empty query returns
// nil: search is opt-in, not "match everything". Zero matches also return
// nil; the caller tells the two apart by whether the raw text was empty.
func (idx *SearchIndex) Query(raw string) []string {
	if raw == "" {
		return nil
	}
	q := NormalizeName(raw)

	var matches []string
	for i, norm := range idx.normalized {
		if strings.Contains(norm, q) {
			matches = append(matches, idx.names[i])
		}
	}
	return matches
}

// Len reports the number of indexed names.
func (idx *SearchIndex) Len() int { return len(idx.names) }
