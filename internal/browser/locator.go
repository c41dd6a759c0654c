// internal/browser/locator.go
package browser

import "fmt"

// Strategy is the mechanism used to evaluate a selector against the DOM.
type Strategy string

const (
	// StrategyCSS evaluates the selector with querySelectorAll.
	StrategyCSS Strategy = "css"
	// StrategyXPath evaluates the selector with document.evaluate.
	StrategyXPath Strategy = "xpath"
)

// Locator names a way to find one or more elements on a page. The Label is
// a human-readable name used in logs and error messages; it never affects
// evaluation.
type Locator struct {
	Strategy Strategy
	Selector string
	Label    string
}

// CSS builds a CSS locator.
func CSS(label, selector string) Locator {
	return Locator{Strategy: StrategyCSS, Selector: selector, Label: label}
}

// XPath builds an XPath locator.
func XPath(label, selector string) Locator {
	return Locator{Strategy: StrategyXPath, Selector: selector, Label: label}
}

// Zero reports whether the locator is unset.
func (l Locator) Zero() bool {
	return l.Selector == ""
}

func (l Locator) String() string {
	if l.Label != "" {
		return fmt.Sprintf("%s [%s %q]", l.Label, l.Strategy, l.Selector)
	}
	return fmt.Sprintf("[%s %q]", l.Strategy, l.Selector)
}

// Chain is an ordered list of fallback locators. During a wait, each poll
// sample evaluates the chain front to back and the first locator that
// matches wins, so a primary selector that appears late still takes
// precedence over a structural fallback that matched earlier polls.
type Chain []Locator

// ChainOf is a convenience constructor for inline chains.
func ChainOf(locs ...Locator) Chain {
	return Chain(locs)
}

func (c Chain) String() string {
	if len(c) == 0 {
		return "<empty chain>"
	}
	s := c[0].String()
	for _, l := range c[1:] {
		s += " | " + l.String()
	}
	return s
}

// Primary returns the first locator of the chain, used when an error needs
// a single representative locator.
func (c Chain) Primary() Locator {
	if len(c) == 0 {
		return Locator{}
	}
	return c[0]
}
