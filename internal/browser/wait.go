// internal/browser/wait.go
package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Condition is a page state the wait engine polls for.
type Condition string

const (
	// CondVisible waits for an element that is attached and visible.
	CondVisible Condition = "visible"
	// CondClickable waits for an element that is visible and enabled in
	// the same sample.
	CondClickable Condition = "clickable"
	// CondAbsent waits for no element to match. A locator that never
	// matched and one whose element detached both count as success.
	CondAbsent Condition = "absent"
	// CondTextContains waits for a visible element whose text contains a
	// given substring.
	CondTextContains Condition = "text-contains"
)

// handleAttr is the temporary attribute stamped onto the element a probe
// sample selected. Interactions act on it through an attribute selector, so
// the attribute vanishing is the staleness signal.
const handleAttr = "data-pandasuite-handle"

// probeScript runs one atomic sample in the page: evaluate the locator,
// pick the candidate element, measure visibility and enablement in the same
// pass, and stamp the handle attribute. Visibility mirrors what a user can
// see: rendered box, not display:none, not visibility:hidden, not fully
// transparent.
const probeScript = `
(function(spec) {
    function findAll() {
        if (spec.strategy === 'xpath') {
            const out = [];
            try {
                const it = document.evaluate(spec.selector, document, null,
                    XPathResult.ORDERED_NODE_SNAPSHOT_TYPE, null);
                for (let i = 0; i < it.snapshotLength; i++) {
                    const n = it.snapshotItem(i);
                    if (n && n.nodeType === Node.ELEMENT_NODE) out.push(n);
                }
            } catch (e) { /* malformed expression matches nothing */ }
            return out;
        }
        try {
            return Array.from(document.querySelectorAll(spec.selector));
        } catch (e) {
            return [];
        }
    }

    function isVisible(el) {
        const style = window.getComputedStyle(el);
        if (style.display === 'none' || style.visibility === 'hidden') return false;
        if (parseFloat(style.opacity) === 0) return false;
        const rect = el.getBoundingClientRect();
        return rect.width > 0 && rect.height > 0;
    }

    function isEnabled(el) {
        if (el.disabled) return false;
        if (el.getAttribute('aria-disabled') === 'true') return false;
        return true;
    }

    function describe(el) {
        let d = el.tagName.toLowerCase();
        if (el.id) d += '#' + el.id;
        else if (el.getAttribute('name')) d += '[name=' + el.getAttribute('name') + ']';
        else if (el.classList.length > 0) d += '.' + el.classList[0];
        const text = (el.textContent || '').trim().replace(/\s+/g, ' ');
        if (text) d += ' "' + text.slice(0, 40) + (text.length > 40 ? '…' : '') + '"';
        return d;
    }

    // Clear handles left by earlier samples so at most one element carries one.
    document.querySelectorAll('[' + spec.handleAttr + ']').forEach(function(el) {
        el.removeAttribute(spec.handleAttr);
    });

    const nodes = findAll();

    // Candidates are what spec.index picks from. The textual space holds
    // only visible elements with non-empty trimmed text, so an index taken
    // from an enumeration of texts lands on the same element here.
    let candidates = nodes;
    if (spec.textIndex) {
        candidates = nodes.filter(function(el) {
            return isVisible(el) && (el.textContent || '').trim() !== '';
        });
    }

    const res = {
        found: false, count: nodes.length, visibleCount: 0,
        visible: false, enabled: false, text: '', desc: '', texts: [],
    };

    for (const el of nodes) {
        if (isVisible(el)) res.visibleCount++;
    }
    if (spec.collect) {
        const source = spec.textIndex ? candidates : nodes.filter(isVisible);
        for (const el of source) {
            res.texts.push((el.textContent || '').trim());
        }
    }

    if (spec.index < 0 || spec.index >= candidates.length) {
        return res;
    }

    const el = candidates[spec.index];
    res.found = true;
    res.visible = isVisible(el);
    res.enabled = isEnabled(el);
    res.text = (el.textContent || '').trim();
    res.desc = describe(el);
    if (spec.tag) {
        el.setAttribute(spec.handleAttr, spec.handleValue);
    }
    return res;
})(%s)
`

type probeSpec struct {
	Strategy    string `json:"strategy"`
	Selector    string `json:"selector"`
	Index       int    `json:"index"`
	HandleAttr  string `json:"handleAttr"`
	HandleValue string `json:"handleValue"`
	Collect     bool   `json:"collect"`
	Tag         bool   `json:"tag"`
	TextIndex   bool   `json:"textIndex"`
}

type probeResult struct {
	Found        bool     `json:"found"`
	Count        int      `json:"count"`
	VisibleCount int      `json:"visibleCount"`
	Visible      bool     `json:"visible"`
	Enabled      bool     `json:"enabled"`
	Text         string   `json:"text"`
	Desc         string   `json:"desc"`
	Texts        []string `json:"texts"`
}

// Match is the outcome of a satisfied wait: which locator of the chain won,
// the handle selector interactions can act on, and the sampled state.
type Match struct {
	Locator Locator
	Handle  string
	Result  probeResult
}

// runFunc executes chromedp actions against a session's tab.
type runFunc func(ctx context.Context, actions ...chromedp.Action) error

// Waiter polls the page for explicit-wait conditions. Every lookup goes
// through it; there are no unconditional sleeps anywhere above it.
type Waiter struct {
	run     runFunc
	timeout time.Duration
	poll    time.Duration
	logger  *zap.Logger
}

// NewWaiter builds a Waiter with suite-level default timeout and poll
// interval.
func NewWaiter(run runFunc, timeout, poll time.Duration, logger *zap.Logger) *Waiter {
	return &Waiter{
		run:     run,
		timeout: timeout,
		poll:    poll,
		logger:  logger.Named("waiter"),
	}
}

type waitOptions struct {
	timeout   time.Duration
	poll      time.Duration
	index     int
	needle    string
	textIndex bool
}

// WaitOption overrides per-call wait behavior.
type WaitOption func(*waitOptions)

// WithTimeout overrides the suite default timeout for one wait.
func WithTimeout(d time.Duration) WaitOption {
	return func(o *waitOptions) { o.timeout = d }
}

// WithPollInterval overrides the suite default poll interval for one wait.
func WithPollInterval(d time.Duration) WaitOption {
	return func(o *waitOptions) { o.poll = d }
}

// WithIndex targets the nth element matched by the locator instead of the
// first, counted over the raw match list.
func WithIndex(i int) WaitOption {
	return func(o *waitOptions) { o.index = i }
}

// WithTextIndex targets the nth visible element with non-empty text. This is
// the index space Texts enumerates, so an index found by matching an
// enumerated title lands on the element that produced the title.
func WithTextIndex(i int) WaitOption {
	return func(o *waitOptions) {
		o.index = i
		o.textIndex = true
	}
}

// WithText sets the substring for CondTextContains.
func WithText(needle string) WaitOption {
	return func(o *waitOptions) { o.needle = needle }
}

// Await polls until the condition holds for some locator of the chain or
// the timeout elapses. Each sample walks the chain front to back, so the
// primary locator always wins over fallbacks within a sample. On timeout
// the returned error carries a page snapshot for diagnostics.
func (w *Waiter) Await(ctx context.Context, chain Chain, cond Condition, opts ...WaitOption) (*Match, error) {
	if len(chain) == 0 {
		return nil, fmt.Errorf("await %s: empty locator chain", cond)
	}

	o := waitOptions{timeout: w.timeout, poll: w.poll}
	for _, opt := range opts {
		opt(&o)
	}

	var match *Match
	err := w.pollUntil(ctx, o, cond, chain, func(sampleCtx context.Context) bool {
		m, satisfied := w.sample(sampleCtx, chain, cond, o)
		if satisfied {
			match = m
		}
		return satisfied
	})
	if err != nil {
		return nil, err
	}
	return match, nil
}

// AwaitFunc polls an arbitrary page predicate with the engine's timeout and
// poll machinery. A predicate error leaves the sample inconclusive; the next
// tick retries it. The condition and chain only label timeout errors.
func (w *Waiter) AwaitFunc(ctx context.Context, cond Condition, chain Chain, pred func(context.Context) (bool, error), opts ...WaitOption) error {
	o := waitOptions{timeout: w.timeout, poll: w.poll}
	for _, opt := range opts {
		opt(&o)
	}

	return w.pollUntil(ctx, o, cond, chain, func(sampleCtx context.Context) bool {
		ok, err := pred(sampleCtx)
		if err != nil {
			w.logger.Debug("Predicate sample failed; retrying.",
				zap.String("condition", string(cond)), zap.Error(err))
			return false
		}
		return ok
	})
}

// pollUntil drives one wait: sample immediately, then on every tick, until
// the sample reports success or the timeout elapses. On timeout the error
// carries a page snapshot.
func (w *Waiter) pollUntil(ctx context.Context, o waitOptions, cond Condition, chain Chain, sample func(context.Context) bool) error {
	waitCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	ticker := time.NewTicker(o.poll)
	defer ticker.Stop()

	for {
		if sample(waitCtx) {
			return nil
		}

		select {
		case <-waitCtx.Done():
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return &WaitTimeoutError{
				Condition: cond,
				Chain:     chain,
				Timeout:   o.timeout,
				Page:      w.snapshot(ctx),
			}
		case <-ticker.C:
		}
	}
}

// Probe runs a single untagged sample of one locator. Used for reads that
// must not block, like IsDisplayed and visible-count queries. With textIndex
// set, indexing and collection cover only visible elements with non-empty
// text.
func (w *Waiter) Probe(ctx context.Context, loc Locator, index int, collect, textIndex bool) (probeResult, error) {
	return w.evaluate(ctx, loc, probeSpec{
		Strategy:   string(loc.Strategy),
		Selector:   loc.Selector,
		Index:      index,
		HandleAttr: handleAttr,
		Collect:    collect,
		TextIndex:  textIndex,
	})
}

// sample evaluates the chain once and reports whether cond is satisfied.
func (w *Waiter) sample(ctx context.Context, chain Chain, cond Condition, o waitOptions) (*Match, bool) {
	if cond == CondAbsent {
		// Absent is satisfied only when no locator of the chain matches.
		// An evaluation failure leaves the sample inconclusive.
		for _, loc := range chain {
			res, err := w.Probe(ctx, loc, 0, false, false)
			if err != nil {
				w.logger.Debug("Absence probe failed; retrying.",
					zap.String("locator", loc.String()), zap.Error(err))
				return nil, false
			}
			if res.Count > 0 {
				return nil, false
			}
		}
		return &Match{Locator: chain.Primary()}, true
	}

	for _, loc := range chain {
		handleValue := uuid.New().String()
		res, err := w.evaluate(ctx, loc, probeSpec{
			Strategy:    string(loc.Strategy),
			Selector:    loc.Selector,
			Index:       o.index,
			HandleAttr:  handleAttr,
			HandleValue: handleValue,
			Tag:         true,
			TextIndex:   o.textIndex,
		})
		if err != nil {
			// Typical mid-navigation noise; the next poll resamples.
			w.logger.Debug("Probe evaluation failed.",
				zap.String("locator", loc.String()), zap.Error(err))
			continue
		}
		if !res.Found {
			continue
		}

		ok := false
		switch cond {
		case CondVisible:
			ok = res.Visible
		case CondClickable:
			ok = res.Visible && res.Enabled
		case CondTextContains:
			ok = res.Visible && strings.Contains(res.Text, o.needle)
		}
		if ok {
			return &Match{
				Locator: loc,
				Handle:  fmt.Sprintf(`[%s=%q]`, handleAttr, handleValue),
				Result:  res,
			}, true
		}
	}
	return nil, false
}

// evaluate runs the probe script against the page.
func (w *Waiter) evaluate(ctx context.Context, loc Locator, spec probeSpec) (probeResult, error) {
	var res probeResult
	specJSON, err := json.Marshal(spec)
	if err != nil {
		return res, fmt.Errorf("marshal probe spec for %s: %w", loc, err)
	}
	script := fmt.Sprintf(probeScript, specJSON)
	if err := w.run(ctx, chromedp.Evaluate(script, &res)); err != nil {
		return res, err
	}
	return res, nil
}

// snapshot grabs the current URL and title best-effort for error reports.
func (w *Waiter) snapshot(ctx context.Context) PageInfo {
	snapCtx, cancel := context.WithTimeout(Detach(ctx), 2*time.Second)
	defer cancel()

	var info PageInfo
	if err := w.run(snapCtx, chromedp.Location(&info.URL), chromedp.Title(&info.Title)); err != nil {
		w.logger.Debug("Could not capture page snapshot for diagnostics.", zap.Error(err))
	}
	return info
}
