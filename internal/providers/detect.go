package providers

import (
	"strings"

	"github.com/systmms/keyaudit/pkg/provider"
)

// DetectByKey classifies a secret to a provider by its value alone, for
// environment variables whose names match nothing.
//
// Among all providers whose key pattern matches the value, the one with the
// longest literal prefix wins: key families overlap (a broad "sk-" pattern
// and a narrower "sk-ant-" one), and the more specific match is the correct
// classification. Ties break on lexical provider name, never registration
// order. Returns nil when no pattern matches.
func (r *Registry) DetectByKey(key string) provider.Provider {
	var best provider.Provider
	bestSpec := -1
	// Lexical iteration plus a strict > comparison keeps the first
	// (lexically smallest) provider on specificity ties.
	for _, name := range r.Names() {
		p := r.providers[name]
		if !p.KeyPattern().MatchString(key) {
			continue
		}
		if spec := literalPrefixLen(p.KeyPattern().String()); spec > bestSpec {
			best, bestSpec = p, spec
		}
	}
	return best
}

// regex metacharacters that terminate a literal prefix
const metaChars = `\[](){}|?*+.^$`

// literalPrefixLen estimates how many literal characters a pattern pins at
// its start, after stripping one leading anchor. It scans for the first
// metacharacter rather than parsing the regex; patterns opening with
// alternation or a character class simply score zero.
func literalPrefixLen(pattern string) int {
	pattern = strings.TrimPrefix(pattern, "^")
	for i, c := range pattern {
		if strings.ContainsRune(metaChars, c) {
			return i
		}
	}
	return len(pattern)
}
