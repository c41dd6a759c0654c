// internal/pages/errors.go
package pages

import (
	"fmt"
	"strings"
)

// NotFoundError is returned when no search result matches a requested
// title. It carries the titles that were actually on the page so the
// failure message explains itself.
type NotFoundError struct {
	Title string
	Seen  []string
}

func (e *NotFoundError) Error() string {
	if len(e.Seen) == 0 {
		return fmt.Sprintf("no result matching title %q (no results on page)", e.Title)
	}
	return fmt.Sprintf("no result matching title %q (saw: %s)", e.Title, strings.Join(e.Seen, "; "))
}

// SearchFailedError marks a failure to perform the search itself, as
// opposed to a search that ran and found nothing. Search is the primary
// action of its scenarios, so this is always fatal.
type SearchFailedError struct {
	Phrase string
	Err    error
}

func (e *SearchFailedError) Error() string {
	return fmt.Sprintf("search for %q failed: %v", e.Phrase, e.Err)
}

func (e *SearchFailedError) Unwrap() error {
	return e.Err
}

// IndexOutOfRangeError is returned when a result index exceeds what the
// page shows.
type IndexOutOfRangeError struct {
	Index int
	Count int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("result index %d out of range, page shows %d results", e.Index, e.Count)
}
