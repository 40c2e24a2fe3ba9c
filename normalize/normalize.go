// Package normalize canonicalizes column headers so that the same column can
// be matched between a source spreadsheet and a destination template even
// when the two spell it differently.
package normalize

import (
	"strings"
	"sync"
	"unicode"
)

// substitutions run in order after case folding and whitespace removal.
// Reordering them changes results ("no." must become "number" before any
// rule that could produce or consume it).
var substitutions = []struct {
	old string
	new string
}{
	{"*", ""},
	{"percentage", "%"},
	{"no.", "number"},
	{"\u2013", "-"},
	{"under25", "u25"},
	{"60plus", "60+"},
	{"60&over", "60+"},
}

// Normalizer memoizes canonical header forms. It is safe for concurrent use.
// A raw string is canonicalized once; later calls return the stored result.
type Normalizer struct {
	mu    sync.RWMutex
	cache map[string]string
}

func New() *Normalizer {
	return &Normalizer{cache: make(map[string]string)}
}

// Normalize returns the canonical form of raw.
func (n *Normalizer) Normalize(raw string) string {
	n.mu.RLock()
	out, ok := n.cache[raw]
	n.mu.RUnlock()
	if ok {
		return out
	}

	out = canonical(raw)

	n.mu.Lock()
	if existing, ok := n.cache[raw]; ok {
		out = existing
	} else {
		n.cache[raw] = out
	}
	n.mu.Unlock()

	return out
}

// Len reports how many distinct raw strings have been cached.
func (n *Normalizer) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.cache)
}

func canonical(raw string) string {
	out := strings.ToLower(raw)
	out = strings.ReplaceAll(out, "\n", "")
	out = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, out)
	for _, sub := range substitutions {
		out = strings.ReplaceAll(out, sub.old, sub.new)
	}
	return out
}
