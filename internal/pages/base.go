// internal/pages/base.go
// Package pages holds the page objects for the blog under test. Page
// objects own their locators and expose intent-level operations; all
// element access goes through the browser interactor and its explicit
// waits.
package pages

import (
	"context"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/hbarrow/pandasuite/internal/browser"
)

// base is embedded by every page object.
type base struct {
	session *browser.Session
	it      *browser.Interactor
	baseURL string
	logger  *zap.Logger
}

func newBase(session *browser.Session, baseURL string, logger *zap.Logger, name string) base {
	return base{
		session: session,
		it:      session.Interactor(),
		baseURL: strings.TrimRight(baseURL, "/") + "/",
		logger:  logger.Named(name),
	}
}

// resolve joins a path onto the site base URL.
func (b *base) resolve(path string) string {
	u, err := url.JoinPath(b.baseURL, path)
	if err != nil {
		return b.baseURL + strings.TrimLeft(path, "/")
	}
	return u
}

// titlesFrom extracts non-empty trimmed titles in document order. It tries
// the chain's locators in sequence and the first strategy yielding any
// non-empty title wins; a primary strategy that matches only empty nodes
// falls through to the flatter fallbacks.
func (b *base) titlesFrom(ctx context.Context, chain browser.Chain) ([]string, error) {
	if _, err := b.it.WaitVisible(ctx, chain); err != nil {
		return nil, err
	}
	for _, loc := range chain {
		texts, err := b.it.Texts(ctx, loc)
		if err != nil {
			b.logger.Debug("Title extraction failed for one strategy.",
				zap.String("locator", loc.String()), zap.Error(err))
			continue
		}
		titles := make([]string, 0, len(texts))
		for _, t := range texts {
			if t = strings.TrimSpace(t); t != "" {
				titles = append(titles, t)
			}
		}
		if len(titles) > 0 {
			return titles, nil
		}
	}
	return nil, nil
}

// urlContains reports whether the current URL contains the fragment,
// ignoring case.
func (b *base) urlContains(ctx context.Context, fragment string) bool {
	current, err := b.it.CurrentURL(ctx)
	if err != nil {
		b.logger.Debug("Could not read current URL.", zap.Error(err))
		return false
	}
	return strings.Contains(strings.ToLower(current), strings.ToLower(fragment))
}
