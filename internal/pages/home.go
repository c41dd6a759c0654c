// internal/pages/home.go
package pages

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hbarrow/pandasuite/internal/browser"
)

// Home page locators. Each chain starts with the selector the current
// theme renders and falls back to structural markup so a theme refresh
// degrades gracefully instead of failing the suite outright.
var (
	homeSiteTitle = browser.ChainOf(
		browser.CSS("site title", ".site-title a"),
		browser.CSS("site title (legacy theme)", "#site-title a"),
		browser.XPath("site title fallback", "//header//a[contains(@href, '/')][1]"),
	)
	homeMainContent = browser.ChainOf(
		browser.CSS("main content", "main#main"),
		browser.CSS("content region", "#content"),
		browser.XPath("main fallback", "//main | //div[@id='main']"),
	)
	homeSearchField = browser.ChainOf(
		browser.CSS("search field", "input.search-field"),
		browser.CSS("search field by name", "input[name='s']"),
		browser.XPath("search field fallback", "//form[@role='search']//input[@type='search' or @type='text']"),
	)
	homeSearchSubmit = browser.ChainOf(
		browser.CSS("search button", "button.search-submit"),
		browser.CSS("search button (input)", "input.search-submit"),
		browser.XPath("search button fallback", "//form[@role='search']//*[@type='submit']"),
	)
	homeSearchToggle = browser.ChainOf(
		browser.CSS("search toggle", ".search-toggle"),
		browser.CSS("search toggle (header)", "button[aria-controls*='search']"),
	)
	homeSiteDescription = browser.ChainOf(
		browser.CSS("site description", ".site-description"),
		browser.CSS("site description (legacy theme)", "#site-description"),
	)
	homeNavMenu = browser.CSS("navigation links", "#site-navigation a")
	homeFooter  = browser.ChainOf(
		browser.CSS("footer", "footer.site-footer"),
		browser.CSS("footer (colophon)", "#colophon"),
	)
	homePostArticles = browser.CSS("posts", "article")
	homePostTitles   = browser.CSS("post titles", "article .entry-title a")
	homePostTitleChain = browser.ChainOf(
		homePostTitles,
		browser.XPath("post titles fallback", "//article//h1/a | //article//h2/a"),
	)
	homePostExcerpts = browser.CSS("post excerpts", "article .entry-summary, article .entry-content")
	homeOlderPosts   = browser.ChainOf(
		browser.CSS("older posts link", ".nav-previous a"),
		browser.CSS("older posts (pagination)", "a.next.page-numbers"),
		browser.XPath("older posts fallback", "//a[contains(., 'Older posts')]"),
	)
)

// HomePage models the blog landing page.
type HomePage struct {
	base
}

// NewHomePage binds a home page object to a session.
func NewHomePage(session *browser.Session, baseURL string, logger *zap.Logger) *HomePage {
	return &HomePage{base: newBase(session, baseURL, logger, "home_page")}
}

// Open navigates to the blog root.
func (p *HomePage) Open(ctx context.Context) error {
	return p.session.Navigate(ctx, p.baseURL)
}

// IsLoaded reports whether the landing page rendered: a non-empty document
// title and a visible main content region. It never returns an error; an
// unreadable page reads as not loaded.
func (p *HomePage) IsLoaded(ctx context.Context) bool {
	title, err := p.it.PageTitle(ctx)
	if err != nil || title == "" {
		return false
	}
	return p.it.IsDisplayed(ctx, homeMainContent)
}

// Title returns the document title.
func (p *HomePage) Title(ctx context.Context) (string, error) {
	return p.it.PageTitle(ctx)
}

// HeaderVisible reports whether the masthead's site title renders.
func (p *HomePage) HeaderVisible(ctx context.Context) bool {
	return p.it.IsDisplayed(ctx, homeSiteTitle)
}

// SiteTitleText returns the visible site title from the masthead.
func (p *HomePage) SiteTitleText(ctx context.Context) (string, error) {
	return p.it.ReadText(ctx, homeSiteTitle)
}

// SiteDescription returns the tagline shown under the site title. Not
// every theme renders one, so a missing tagline reads as empty rather
// than an error.
func (p *HomePage) SiteDescription(ctx context.Context) string {
	if !p.it.IsDisplayed(ctx, homeSiteDescription) {
		return ""
	}
	text, err := p.it.ReadText(ctx, homeSiteDescription)
	if err != nil {
		return ""
	}
	return text
}

// Search types a phrase into the search field and submits it. Themes that
// hide the field behind a toggle get the toggle clicked first. Any failure
// to locate or drive the controls is a SearchFailedError; search is the
// primary action of its scenarios and never fails silently.
func (p *HomePage) Search(ctx context.Context, phrase string) error {
	p.logger.Info("Searching the blog.", zap.String("phrase", phrase))

	if !p.it.IsDisplayed(ctx, homeSearchField) && p.it.IsDisplayed(ctx, homeSearchToggle) {
		if err := p.it.Click(ctx, homeSearchToggle); err != nil {
			return &SearchFailedError{Phrase: phrase, Err: err}
		}
	}
	if err := p.it.Type(ctx, homeSearchField, phrase); err != nil {
		return &SearchFailedError{Phrase: phrase, Err: err}
	}
	if err := p.it.Click(ctx, homeSearchSubmit); err != nil {
		return &SearchFailedError{Phrase: phrase, Err: err}
	}
	return p.it.WaitReady(ctx)
}

// PostTitles returns the visible post titles in page order, empty titles
// dropped.
func (p *HomePage) PostTitles(ctx context.Context) ([]string, error) {
	return p.titlesFrom(ctx, homePostTitleChain)
}

// ClickPost opens the post a reader would mean by the given title: exact
// match first, then substring, both ignoring case, then a structural link
// lookup. Returns a NotFoundError naming the titles on the page when
// nothing matches.
func (p *HomePage) ClickPost(ctx context.Context, title string) error {
	titles, err := p.PostTitles(ctx)
	if err != nil {
		return err
	}
	if idx, ok := MatchTitle(titles, title); ok {
		p.logger.Info("Opening post.", zap.String("title", titles[idx]), zap.Int("index", idx))
		if err := p.it.Click(ctx, homePostTitleChain, browser.WithTextIndex(idx)); err != nil {
			return err
		}
		return p.it.WaitReady(ctx)
	}
	fallback := browser.ChainOf(
		browser.XPath("post link by text", fmt.Sprintf("//article//a[contains(., %s)]", xpathLiteral(title))),
	)
	if err := p.it.Click(ctx, fallback, browser.WithTimeout(fallbackClickTimeout)); err == nil {
		return p.it.WaitReady(ctx)
	}
	return &NotFoundError{Title: title, Seen: titles}
}

// PostCount returns how many posts are visible on the page.
func (p *HomePage) PostCount(ctx context.Context) (int, error) {
	if _, err := p.it.WaitVisible(ctx, browser.ChainOf(homePostArticles)); err != nil {
		return 0, err
	}
	return p.it.CountVisible(ctx, homePostArticles)
}

// HasExcerpts reports whether post excerpts render under the titles.
func (p *HomePage) HasExcerpts(ctx context.Context) bool {
	return p.it.IsDisplayed(ctx, browser.ChainOf(homePostExcerpts))
}

// FooterText returns the footer's visible text.
func (p *HomePage) FooterText(ctx context.Context) (string, error) {
	return p.it.ReadText(ctx, homeFooter)
}

// IsNavigationDisplayed reports whether the navigation menu renders.
func (p *HomePage) IsNavigationDisplayed(ctx context.Context) bool {
	return p.it.IsDisplayed(ctx, browser.ChainOf(homeNavMenu))
}

// IsFooterDisplayed reports whether the footer renders.
func (p *HomePage) IsFooterDisplayed(ctx context.Context) bool {
	return p.it.IsDisplayed(ctx, homeFooter)
}

// NavigationItems returns the visible navigation menu labels in page
// order.
func (p *HomePage) NavigationItems(ctx context.Context) ([]string, error) {
	return p.titlesFrom(ctx, browser.ChainOf(homeNavMenu))
}

// OpenNavLink clicks a navigation menu entry by its visible label.
func (p *HomePage) OpenNavLink(ctx context.Context, label string) error {
	if _, err := p.it.WaitVisible(ctx, browser.ChainOf(homeNavMenu)); err != nil {
		return err
	}
	labels, err := p.it.Texts(ctx, homeNavMenu)
	if err != nil {
		return err
	}
	idx, ok := MatchTitle(labels, label)
	if !ok {
		return &NotFoundError{Title: label, Seen: labels}
	}
	if err := p.it.Click(ctx, browser.ChainOf(homeNavMenu), browser.WithTextIndex(idx)); err != nil {
		return err
	}
	return p.it.WaitReady(ctx)
}

// OlderPosts follows the pagination link to the next page of posts.
func (p *HomePage) OlderPosts(ctx context.Context) error {
	if err := p.it.Click(ctx, homeOlderPosts); err != nil {
		return err
	}
	return p.it.WaitReady(ctx)
}
