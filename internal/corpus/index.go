// Package corpus loads the parallel-sentence index used by the
// alignment engine: an opaque bidirectional string-to-string table
// mapping a sentence fingerprint in one edition to its counterpart in
// the other. The file is a JSON array of objects, each carrying the two
// editions' text under arbitrary keys, e.g.
//
//	[{"eng": "...", "heb": "..."}, ...]
package corpus

import (
	"fmt"
	"os"

	"github.com/tidwall/gjson"
)

// Index is an in-memory bidirectional fingerprint table, loaded once
// per alignment session. Lookups key by exact string equality in either
// direction.
type Index struct {
	byText map[string]string
	pairs  int
}

// Load reads and parses the index file. Any failure here degrades
// alignment to "couldn't align" at the caller; it never crashes a
// session.
func Load(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus index: %w", err)
	}

	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("corpus index %s: invalid json", path)
	}

	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, fmt.Errorf("corpus index %s: expected a top-level array", path)
	}

	idx := &Index{byText: make(map[string]string)}
	root.ForEach(func(_, entry gjson.Result) bool {
		var texts []string
		entry.ForEach(func(_, v gjson.Result) bool {
			if v.Type == gjson.String {
				texts = append(texts, v.String())
			}
			return len(texts) < 2
		})
		if len(texts) == 2 && texts[0] != "" && texts[1] != "" {
			idx.add(texts[0], texts[1])
		}
		return true
	})

	return idx, nil
}

func (ix *Index) add(a, b string) {
	// First write wins so a duplicated fingerprint keeps a stable mapping.
	if _, ok := ix.byText[a]; !ok {
		ix.byText[a] = b
	}
	if _, ok := ix.byText[b]; !ok {
		ix.byText[b] = a
	}
	ix.pairs++
}

// Lookup returns the counterpart fingerprint for s, in either
// direction.
func (ix *Index) Lookup(s string) (string, bool) {
	v, ok := ix.byText[s]
	return v, ok
}

// Pairs returns the number of sentence pairs loaded.
func (ix *Index) Pairs() int { return ix.pairs }
