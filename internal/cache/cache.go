package cache

import (
	"context"
	"strings"
)

// VerdictCache memoizes oracle verdicts for normalized (candidate, current)
// pairs. Verdicts are context-free, so entries are shared across all
// sessions. Both YES and NO verdicts are stored: a cached NO saves an oracle
// call just as well as a cached YES.
type VerdictCache interface {
	// Lookup returns (verdict, true, nil) on a hit within the validity
	// window. An expired or missing entry returns ok=false.
	Lookup(ctx context.Context, candidate, current string) (verdict bool, ok bool, err error)
	Store(ctx context.Context, candidate, current string, verdict bool) error
}

// Normalize lowercases and trims a word. The same function backs cache keys
// and the session duplicate check, so a pair cached under one casing can
// never slip past the duplicate rule under another.
func Normalize(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

// Key builds the cache key for a (candidate, current) pair.
func Key(candidate, current string) string {
	return "verdict:" + Normalize(candidate) + "|" + Normalize(current)
}
