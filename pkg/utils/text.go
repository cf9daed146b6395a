package utils

import (
	"sort"
	"strings"
)

// NormalizeTag lower-cases a free-text tag and collapses inner whitespace.
func NormalizeTag(input string) string {
	return strings.Join(strings.Fields(strings.ToLower(input)), " ")
}

// NormalizeTagSet turns a list of tags into a sorted set without blanks or
// duplicates.
func NormalizeTagSet(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = NormalizeTag(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
