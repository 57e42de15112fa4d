package domain

import (
	"strings"
)

// SynonymSeparator delimits synonyms in the stored representation.
const SynonymSeparator = ","

// JoinSynonyms serializes a synonym set for storage.
func JoinSynonyms(synonyms []string) string {
	return strings.Join(synonyms, SynonymSeparator)
}

// SplitSynonyms parses the stored representation back into a synonym set.
// Elements are trimmed and empty ones dropped, matching what older stores
// wrote with ", " separators.
func SplitSynonyms(stored string) []string {
	if strings.TrimSpace(stored) == "" {
		return []string{}
	}
	parts := strings.Split(stored, SynonymSeparator)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// DedupeSynonyms returns the distinct values of the given lists in
// first-seen order, each already in its stored form: values are split on
// SynonymSeparator, trimmed, and empty ones dropped. The result therefore
// survives a JoinSynonyms/SplitSynonyms round trip unchanged. Comparison is
// exact after that.
func DedupeSynonyms(lists ...[]string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, list := range lists {
		for _, value := range list {
			for _, s := range SplitSynonyms(value) {
				if _, ok := seen[s]; ok {
					continue
				}
				seen[s] = struct{}{}
				out = append(out, s)
			}
		}
	}
	return out
}
