package moderation

import (
	"os"
	"strings"

	util "github.com/CodeAndHammer/venkovorto/internal/util"
)

// Predicate flags guesses containing blocked words. The word list is loaded
// once at startup; matching is case-insensitive per token so "BadWord" and
// "badword!" both trip it.
type Predicate struct {
	blocked  map[string]struct{}
	failOpen bool
}

// Load reads one blocked word per line. failOpen controls what happens when
// the list cannot be read: true lets every guess through, false turns into a
// predicate that flags everything. Either way the choice is explicit, not
// accidental.
func Load(path string, failOpen bool) *Predicate {
	util.LogInfo("Loading blocked words from %s", path)

	data, err := os.ReadFile(path)
	if err != nil {
		if failOpen {
			util.LogWarn("Failed to load blocked words (%v), moderation failing open", err)
			return &Predicate{blocked: map[string]struct{}{}, failOpen: true}
		}
		util.LogWarn("Failed to load blocked words (%v), moderation failing closed", err)
		return &Predicate{blocked: nil, failOpen: false}
	}

	blocked := make(map[string]struct{})
	for _, line := range strings.Split(string(data), "\n") {
		word := strings.ToLower(strings.TrimSpace(line))
		if word == "" || strings.HasPrefix(word, "#") {
			continue
		}
		blocked[word] = struct{}{}
	}
	util.LogInfo("Loaded %d blocked words", len(blocked))
	return &Predicate{blocked: blocked, failOpen: failOpen}
}

// NewPredicate builds a predicate from an explicit word list.
func NewPredicate(words []string, failOpen bool) *Predicate {
	blocked := make(map[string]struct{}, len(words))
	for _, w := range words {
		blocked[strings.ToLower(strings.TrimSpace(w))] = struct{}{}
	}
	return &Predicate{blocked: blocked, failOpen: failOpen}
}

// IsFlagged reports whether text contains a blocked word.
func (p *Predicate) IsFlagged(text string) bool {
	if p.blocked == nil {
		// Word list missing under fail-closed policy.
		return true
	}
	for _, token := range tokenize(text) {
		if _, hit := p.blocked[token]; hit {
			util.LogWarn("Moderation flagged guess containing %q", token)
			return true
		}
	}
	return false
}

func tokenize(text string) []string {
	lower := strings.ToLower(text)
	return strings.FieldsFunc(lower, func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9' || r == '\'')
	})
}
