package search

import (
	"sort"

	"github.com/sahilm/fuzzy"

	"github.com/Zuo-Peng/chat-archive-search/internal/parse"
)

// SuggestNames ranks the distinct message names against name and returns up
// to limit candidates, best first.
func SuggestNames(messages []parse.Message, name string, limit int) []string {
	seen := make(map[string]bool)
	var names []string
	for _, m := range messages {
		if !seen[m.Name] {
			seen[m.Name] = true
			names = append(names, m.Name)
		}
	}
	sort.Strings(names)

	matches := fuzzy.Find(name, names)
	var out []string
	for _, m := range matches {
		if len(out) >= limit {
			break
		}
		out = append(out, m.Str)
	}
	return out
}
