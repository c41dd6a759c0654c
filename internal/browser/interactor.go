// internal/browser/interactor.go
package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/hbarrow/pandasuite/internal/config"
)

// Interactor is the only layer that touches elements. Every interaction
// waits for its precondition first (clickable before click, visible before
// read) and retries exactly once if the element goes stale between the
// wait sample and the action.
type Interactor struct {
	run    runFunc
	waiter *Waiter
	logger *zap.Logger
}

// NewInteractor builds an Interactor over a session's action runner.
func NewInteractor(run runFunc, waits config.WaitsConfig, logger *zap.Logger) *Interactor {
	l := logger.Named("interactor")
	return &Interactor{
		run:    run,
		waiter: NewWaiter(run, waits.Timeout, waits.PollInterval, l),
		logger: l,
	}
}

// Waiter exposes the wait engine for callers that need bare conditions.
func (i *Interactor) Waiter() *Waiter {
	return i.waiter
}

// Click waits for the chain to yield a clickable element, scrolls it into
// view, and clicks it.
func (i *Interactor) Click(ctx context.Context, chain Chain, opts ...WaitOption) error {
	return i.withRetry(ctx, "click", chain, CondClickable, opts, func(actCtx context.Context, m *Match) error {
		i.scrollHandleIntoView(actCtx, m.Handle)
		i.highlightHandle(actCtx, m.Handle)
		i.logger.Debug("Clicking element.",
			zap.String("locator", m.Locator.String()),
			zap.String("element", m.Result.Desc))
		return i.run(actCtx, chromedp.Click(m.Handle, chromedp.ByQuery, chromedp.AtLeast(0)))
	})
}

// Type waits for a clickable element (visible and enabled, so the field is
// actually interactable), clears it, and types text into it.
func (i *Interactor) Type(ctx context.Context, chain Chain, text string, opts ...WaitOption) error {
	return i.withRetry(ctx, "type", chain, CondClickable, opts, func(actCtx context.Context, m *Match) error {
		i.scrollHandleIntoView(actCtx, m.Handle)
		i.logger.Debug("Typing into element.",
			zap.String("locator", m.Locator.String()),
			zap.String("element", m.Result.Desc))
		return i.run(actCtx,
			chromedp.Clear(m.Handle, chromedp.ByQuery, chromedp.AtLeast(0)),
			chromedp.SendKeys(m.Handle, text, chromedp.ByQuery, chromedp.AtLeast(0)),
		)
	})
}

// Submit waits for a visible element and sends Enter to it.
func (i *Interactor) Submit(ctx context.Context, chain Chain, opts ...WaitOption) error {
	return i.withRetry(ctx, "submit", chain, CondVisible, opts, func(actCtx context.Context, m *Match) error {
		return i.run(actCtx, chromedp.SendKeys(m.Handle, "\r", chromedp.ByQuery, chromedp.AtLeast(0)))
	})
}

// ReadText waits for a visible element and returns its trimmed text.
func (i *Interactor) ReadText(ctx context.Context, chain Chain, opts ...WaitOption) (string, error) {
	match, err := i.waiter.Await(ctx, chain, CondVisible, opts...)
	if err != nil {
		return "", err
	}
	return match.Result.Text, nil
}

// Texts returns the trimmed non-empty text of every visible element the
// locator matches right now, in document order. The nth entry corresponds to
// WithTextIndex(n) on the same locator. It does not wait; pair it with a
// prior wait on the container when ordering matters.
func (i *Interactor) Texts(ctx context.Context, loc Locator) ([]string, error) {
	res, err := i.waiter.Probe(ctx, loc, 0, true, true)
	if err != nil {
		return nil, fmt.Errorf("failed to collect texts for %s: %w", loc, err)
	}
	return res.Texts, nil
}

// CountVisible returns how many visible elements the locator matches right
// now, without waiting.
func (i *Interactor) CountVisible(ctx context.Context, loc Locator) (int, error) {
	res, err := i.waiter.Probe(ctx, loc, 0, false, false)
	if err != nil {
		return 0, fmt.Errorf("failed to count elements for %s: %w", loc, err)
	}
	return res.VisibleCount, nil
}

// IsDisplayed reports whether the chain currently yields a visible element.
// It samples once, never waits, and never returns an error: a probe failure
// reads as not displayed.
func (i *Interactor) IsDisplayed(ctx context.Context, chain Chain) bool {
	for _, loc := range chain {
		res, err := i.waiter.Probe(ctx, loc, 0, false, false)
		if err != nil {
			i.logger.Debug("Displayed probe failed.", zap.String("locator", loc.String()), zap.Error(err))
			continue
		}
		if res.Found && res.Visible {
			return true
		}
	}
	return false
}

// WaitVisible blocks until the chain yields a visible element.
func (i *Interactor) WaitVisible(ctx context.Context, chain Chain, opts ...WaitOption) (*Match, error) {
	return i.waiter.Await(ctx, chain, CondVisible, opts...)
}

// WaitAbsent blocks until no locator of the chain matches anything.
func (i *Interactor) WaitAbsent(ctx context.Context, chain Chain, opts ...WaitOption) error {
	_, err := i.waiter.Await(ctx, chain, CondAbsent, opts...)
	return err
}

// WaitTextContains blocks until the chain yields a visible element whose
// text contains needle.
func (i *Interactor) WaitTextContains(ctx context.Context, chain Chain, needle string, opts ...WaitOption) (*Match, error) {
	opts = append(opts, WithText(needle))
	return i.waiter.Await(ctx, chain, CondTextContains, opts...)
}

// WaitReady polls document.readyState until the page is at least
// interactive.
func (i *Interactor) WaitReady(ctx context.Context, opts ...WaitOption) error {
	return i.waiter.AwaitFunc(ctx, "document-ready", ChainOf(CSS("document", "html")),
		func(sampleCtx context.Context) (bool, error) {
			var state string
			if err := i.run(sampleCtx, chromedp.Evaluate(`document.readyState`, &state)); err != nil {
				return false, err
			}
			return state == "interactive" || state == "complete", nil
		}, opts...)
}

// PageTitle returns the current document title.
func (i *Interactor) PageTitle(ctx context.Context) (string, error) {
	var title string
	if err := i.run(ctx, chromedp.Title(&title)); err != nil {
		return "", fmt.Errorf("failed to read page title: %w", err)
	}
	return title, nil
}

// CurrentURL returns the current page URL.
func (i *Interactor) CurrentURL(ctx context.Context) (string, error) {
	var url string
	if err := i.run(ctx, chromedp.Location(&url)); err != nil {
		return "", fmt.Errorf("failed to read current url: %w", err)
	}
	return url, nil
}

// withRetry resolves the chain and runs the action under its own deadline,
// re-resolving once if the element went stale between the sample and the
// action. The deadline matters: the actions target the handle attribute, and
// a detached node leaves that selector matching nothing, so an unbounded
// action would poll forever instead of surfacing the staleness.
func (i *Interactor) withRetry(ctx context.Context, name string, chain Chain, cond Condition, opts []WaitOption, act func(context.Context, *Match) error) error {
	match, err := i.waiter.Await(ctx, chain, cond, opts...)
	if err != nil {
		return err
	}

	if err := i.runBounded(ctx, act, match); err != nil {
		if !isStale(err) || ctx.Err() != nil {
			return &ActionFailedError{Action: name, Chain: chain, Page: i.waiter.snapshot(ctx), Err: err}
		}

		i.logger.Debug("Element went stale; re-resolving once.",
			zap.String("action", name), zap.String("chain", chain.String()))

		match, err = i.waiter.Await(ctx, chain, cond, opts...)
		if err != nil {
			return err
		}
		if err := i.runBounded(ctx, act, match); err != nil {
			return &ActionFailedError{Action: name, Chain: chain, Page: i.waiter.snapshot(ctx), Err: err}
		}
	}
	return nil
}

// runBounded runs one action attempt under the wait-engine timeout.
func (i *Interactor) runBounded(ctx context.Context, act func(context.Context, *Match) error, m *Match) error {
	actCtx, cancel := context.WithTimeout(ctx, i.waiter.timeout)
	defer cancel()
	return act(actCtx, m)
}

// scrollHandleIntoView centers the element. Best effort; scroll failures
// never fail the interaction.
func (i *Interactor) scrollHandleIntoView(ctx context.Context, handle string) {
	script := fmt.Sprintf(`(function() {
		const el = document.querySelector(%q);
		if (el) el.scrollIntoView({block: 'center', inline: 'center'});
	})()`, handle)
	if err := i.run(ctx, chromedp.Evaluate(script, nil)); err != nil {
		i.logger.Debug("Scroll into view failed.", zap.Error(err))
	}
}

// highlightHandle briefly outlines the element about to be acted on. Purely
// cosmetic for headed debugging runs; failures are swallowed.
func (i *Interactor) highlightHandle(ctx context.Context, handle string) {
	script := fmt.Sprintf(`(function() {
		const el = document.querySelector(%q);
		if (!el) return;
		const prev = el.style.outline;
		el.style.outline = '2px solid #e8a33d';
		setTimeout(function() { el.style.outline = prev; }, 250);
	})()`, handle)
	if err := i.run(ctx, chromedp.Evaluate(script, nil)); err != nil {
		i.logger.Debug("Highlight failed.", zap.Error(err))
	}
}

// isStale recognizes errors that mean the tagged element detached between
// the wait sample and the action: driver node errors, a zero-node query on
// the handle selector, or the attempt deadline expiring while the action
// polled a selector that no longer matches.
func isStale(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "could not find node") ||
		strings.Contains(msg, "node not found") ||
		strings.Contains(msg, "no such node") ||
		strings.Contains(msg, "not attached") ||
		strings.Contains(msg, "did not return any nodes") ||
		strings.Contains(msg, "Cannot find context with specified id")
}
