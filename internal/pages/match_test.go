// internal/pages/match_test.go
package pages

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestMatchTitle(t *testing.T) {
	titles := []string{
		"Python Testing 101: pytest",
		"Django Admin Inlines",
		"Testing Web Services",
		"pytest fixtures deep dive",
	}

	t.Run("exact match wins over earlier substring match", func(t *testing.T) {
		// "pytest" appears as a substring in the first title, but an exact
		// title anywhere on the page takes precedence.
		withExact := append([]string{}, titles...)
		withExact = append(withExact, "pytest")
		idx, ok := MatchTitle(withExact, "pytest")
		assert.True(t, ok)
		assert.Equal(t, 4, idx)
	})

	t.Run("exact match ignores case and padding", func(t *testing.T) {
		idx, ok := MatchTitle(titles, "  django admin inlines ")
		assert.True(t, ok)
		assert.Equal(t, 1, idx)
	})

	t.Run("substring match picks first in page order", func(t *testing.T) {
		idx, ok := MatchTitle(titles, "Testing")
		assert.True(t, ok)
		assert.Equal(t, 0, idx)
	})

	t.Run("no match", func(t *testing.T) {
		_, ok := MatchTitle(titles, "Quantum Chromodynamics")
		assert.False(t, ok)
	})

	t.Run("empty wanted title never matches", func(t *testing.T) {
		_, ok := MatchTitle(titles, "   ")
		assert.False(t, ok)
	})

	t.Run("input order is preserved", func(t *testing.T) {
		// MatchTitle must index into the same slice the caller displays.
		want := []string{
			"Python Testing 101: pytest",
			"Django Admin Inlines",
			"Testing Web Services",
			"pytest fixtures deep dive",
		}
		if diff := cmp.Diff(want, titles); diff != "" {
			t.Fatalf("titles changed (-want +got):\n%s", diff)
		}
	})
}

func TestIsNoResultsMessage(t *testing.T) {
	assert.True(t, IsNoResultsMessage("Sorry, but nothing matched your search terms."))
	assert.True(t, IsNoResultsMessage("Nothing Found"))
	assert.True(t, IsNoResultsMessage("No results for that query"))
	assert.False(t, IsNoResultsMessage("Showing 12 results"))
	assert.False(t, IsNoResultsMessage(""))
}

func TestNotFoundErrorMessage(t *testing.T) {
	err := &NotFoundError{Title: "Ghost Post", Seen: []string{"A", "B"}}
	assert.Contains(t, err.Error(), `"Ghost Post"`)
	assert.Contains(t, err.Error(), "A; B")

	empty := &NotFoundError{Title: "Ghost Post"}
	assert.Contains(t, empty.Error(), "no results on page")
}

func TestIndexOutOfRangeErrorMessage(t *testing.T) {
	err := &IndexOutOfRangeError{Index: 7, Count: 3}
	assert.Equal(t, "result index 7 out of range, page shows 3 results", err.Error())
}

func TestXPathLiteral(t *testing.T) {
	assert.Equal(t, `"plain"`, xpathLiteral("plain"))
	assert.Equal(t, `'say "hi"'`, xpathLiteral(`say "hi"`))
	assert.Equal(t, `concat("it", '"', "s ", '"', "x")`, xpathLiteral(`it"s "x`))
}
