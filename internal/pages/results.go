// internal/pages/results.go
package pages

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hbarrow/pandasuite/internal/browser"
)

var (
	resultTitles = browser.ChainOf(
		browser.CSS("result titles", "article .entry-title a"),
		browser.CSS("result titles (page title links)", ".post .entry-title a"),
		browser.XPath("result titles fallback", "//article//h1/a | //article//h2/a"),
	)
	resultArticles = browser.CSS("result articles", "article")
	resultsHeader  = browser.ChainOf(
		browser.CSS("results header", ".page-title"),
		browser.CSS("results header (archive)", "h1.archive-title"),
		browser.XPath("results header fallback", "//header//h1"),
	)
	noResultsMessage = browser.ChainOf(
		browser.CSS("no-results message", ".no-results .page-content p"),
		browser.CSS("no-results section", "section.no-results p"),
		browser.XPath("no-results fallback", "//*[contains(@class,'no-results')]//p"),
	)
	resultsSearchField = browser.ChainOf(
		browser.CSS("search-again field", "input.search-field"),
		browser.CSS("search-again field by name", "input[name='s']"),
	)
	resultsSearchSubmit = browser.ChainOf(
		browser.CSS("search-again button", "button.search-submit"),
		browser.CSS("search-again button (input)", "input.search-submit"),
	)
	resultExcerpts = browser.ChainOf(
		browser.CSS("result excerpts", "article .entry-summary"),
		browser.CSS("result excerpts (content)", "article .entry-content"),
	)
	resultsPagination = browser.ChainOf(
		browser.CSS("pagination", "nav.pagination"),
		browser.CSS("pagination (posts nav)", ".nav-links"),
	)
	resultsNextPage = browser.ChainOf(
		browser.CSS("next page link", "a.next.page-numbers"),
		browser.CSS("next page (older posts)", ".nav-previous a"),
	)
	resultsPreviousPage = browser.ChainOf(
		browser.CSS("previous page link", "a.prev.page-numbers"),
		browser.CSS("previous page (newer posts)", ".nav-next a"),
	)
)

// fallbackClickTimeout bounds the structural last-resort lookup so a miss
// fails fast instead of burning the full wait budget.
const fallbackClickTimeout = 2 * time.Second

// SearchResultsPage models the archive view shown after submitting a
// search.
type SearchResultsPage struct {
	base
}

// NewSearchResultsPage binds a results page object to a session.
func NewSearchResultsPage(session *browser.Session, baseURL string, logger *zap.Logger) *SearchResultsPage {
	return &SearchResultsPage{base: newBase(session, baseURL, logger, "results_page")}
}

// Open runs a search directly through the query string. The phrase is
// escaped, so spaces and ampersands survive the round trip.
func (p *SearchResultsPage) Open(ctx context.Context, phrase string) error {
	query := url.Values{"s": {phrase}}
	return p.session.Navigate(ctx, p.baseURL+"?"+query.Encode())
}

// PageHeading returns the archive heading shown above the results.
func (p *SearchResultsPage) PageHeading(ctx context.Context) (string, error) {
	return p.it.ReadText(ctx, resultsHeader)
}

// HeaderMentions reports whether the results header echoes the searched
// phrase, ignoring case.
func (p *SearchResultsPage) HeaderMentions(ctx context.Context, phrase string) (bool, error) {
	header, err := p.PageHeading(ctx)
	if err != nil {
		return false, err
	}
	return strings.Contains(strings.ToLower(header), strings.ToLower(phrase)), nil
}

// Titles returns the visible result titles in page order, empty titles
// dropped. Duplicates are kept; the page showing a title twice means the
// user sees it twice.
func (p *SearchResultsPage) Titles(ctx context.Context) ([]string, error) {
	return p.titlesFrom(ctx, resultTitles)
}

// Count returns how many result articles are visible.
func (p *SearchResultsPage) Count(ctx context.Context) (int, error) {
	return p.it.CountVisible(ctx, resultArticles)
}

// HasResults reports whether at least one result rendered. It waits for
// the result list so a slow archive page does not read as empty.
func (p *SearchResultsPage) HasResults(ctx context.Context) bool {
	if _, err := p.it.WaitVisible(ctx, resultTitles); err != nil {
		return false
	}
	return true
}

// HasNoResults reports whether the page says the search found nothing.
// Both signals count: an empty-search message with the theme's vocabulary,
// or simply zero result articles.
func (p *SearchResultsPage) HasNoResults(ctx context.Context) (bool, error) {
	if p.it.IsDisplayed(ctx, noResultsMessage) {
		message, err := p.it.ReadText(ctx, noResultsMessage)
		if err == nil && IsNoResultsMessage(message) {
			return true, nil
		}
	}
	count, err := p.Count(ctx)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

// ClickResultByTitle opens the result a human would mean by the given
// title: exact match first, then substring, both ignoring case, and as a
// last resort a structural lookup by link text. When nothing matches it
// returns a NotFoundError listing the titles that were on the page.
func (p *SearchResultsPage) ClickResultByTitle(ctx context.Context, title string) error {
	titles, err := p.Titles(ctx)
	if err != nil {
		return err
	}

	if idx, ok := MatchTitle(titles, title); ok {
		p.logger.Info("Opening result.", zap.String("title", titles[idx]), zap.Int("index", idx))
		if err := p.it.Click(ctx, resultTitles, browser.WithTextIndex(idx)); err != nil {
			return err
		}
		return p.it.WaitReady(ctx)
	}

	// Structural fallback for themes that render titles outside the usual
	// heading markup.
	fallback := browser.ChainOf(
		browser.XPath("result link by text", fmt.Sprintf("//article//a[contains(., %s)]", xpathLiteral(title))),
	)
	if err := p.it.Click(ctx, fallback, browser.WithTimeout(fallbackClickTimeout)); err == nil {
		return p.it.WaitReady(ctx)
	}

	return &NotFoundError{Title: title, Seen: titles}
}

// ClickResultByIndex opens the nth visible result (zero-based).
func (p *SearchResultsPage) ClickResultByIndex(ctx context.Context, index int) error {
	titles, err := p.Titles(ctx)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(titles) {
		return &IndexOutOfRangeError{Index: index, Count: len(titles)}
	}
	if err := p.it.Click(ctx, resultTitles, browser.WithTextIndex(index)); err != nil {
		return err
	}
	return p.it.WaitReady(ctx)
}

// Excerpts returns the visible result excerpts in page order.
func (p *SearchResultsPage) Excerpts(ctx context.Context) ([]string, error) {
	return p.titlesFrom(ctx, resultExcerpts)
}

// ContainsKeyword reports whether any visible result title mentions the
// phrase, ignoring case.
func (p *SearchResultsPage) ContainsKeyword(ctx context.Context, phrase string) (bool, error) {
	titles, err := p.Titles(ctx)
	if err != nil {
		return false, err
	}
	needle := strings.ToLower(phrase)
	for _, title := range titles {
		if strings.Contains(strings.ToLower(title), needle) {
			return true, nil
		}
	}
	return false, nil
}

// HasPagination reports whether the results span multiple pages.
func (p *SearchResultsPage) HasPagination(ctx context.Context) bool {
	return p.it.IsDisplayed(ctx, resultsPagination)
}

// NextPage follows the pagination link to the next page of results.
func (p *SearchResultsPage) NextPage(ctx context.Context) error {
	if err := p.it.Click(ctx, resultsNextPage); err != nil {
		return err
	}
	return p.it.WaitReady(ctx)
}

// PreviousPage follows the pagination link back one page.
func (p *SearchResultsPage) PreviousPage(ctx context.Context) error {
	if err := p.it.Click(ctx, resultsPreviousPage); err != nil {
		return err
	}
	return p.it.WaitReady(ctx)
}

// SearchAgain submits a new phrase from the results page.
func (p *SearchResultsPage) SearchAgain(ctx context.Context, phrase string) error {
	p.logger.Info("Searching again.", zap.String("phrase", phrase))
	if err := p.it.Type(ctx, resultsSearchField, phrase); err != nil {
		return &SearchFailedError{Phrase: phrase, Err: err}
	}
	if err := p.it.Click(ctx, resultsSearchSubmit); err != nil {
		return &SearchFailedError{Phrase: phrase, Err: err}
	}
	return p.it.WaitReady(ctx)
}

// xpathLiteral quotes a string for embedding in an XPath expression,
// handling embedded quotes via concat().
func xpathLiteral(s string) string {
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	parts := strings.Split(s, `"`)
	quoted := make([]string, 0, len(parts)*2)
	for i, part := range parts {
		if i > 0 {
			quoted = append(quoted, `'"'`)
		}
		if part != "" {
			quoted = append(quoted, `"`+part+`"`)
		}
	}
	return "concat(" + strings.Join(quoted, ", ") + ")"
}
