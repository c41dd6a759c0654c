// internal/pages/match.go
package pages

import "strings"

// MatchTitle picks the result a human would mean by "the post titled X".
// Exact matches (ignoring case and surrounding space) always beat substring
// matches, and within each tier the first result in page order wins. The
// second return is false when nothing matched either way.
func MatchTitle(titles []string, want string) (int, bool) {
	norm := func(s string) string {
		return strings.ToLower(strings.TrimSpace(s))
	}
	target := norm(want)
	if target == "" {
		return 0, false
	}

	for i, title := range titles {
		if norm(title) == target {
			return i, true
		}
	}
	for i, title := range titles {
		if strings.Contains(norm(title), target) {
			return i, true
		}
	}
	return 0, false
}

// noResultsWords are the fragments the blog's themes use in their empty
// search messages ("Nothing Found", "Sorry, but nothing matched...",
// "No results for...").
var noResultsWords = []string{"no", "nothing", "sorry"}

// IsNoResultsMessage reports whether a page message reads as "your search
// found nothing".
func IsNoResultsMessage(message string) bool {
	m := strings.ToLower(message)
	for _, w := range noResultsWords {
		if strings.Contains(m, w) {
			return true
		}
	}
	return false
}
