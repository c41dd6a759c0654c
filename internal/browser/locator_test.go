// internal/browser/locator_test.go
package browser

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLocatorString(t *testing.T) {
	assert.Equal(t, `search field [css ".search-field"]`,
		CSS("search field", ".search-field").String())
	assert.Equal(t, `[xpath "//h1"]`,
		Locator{Strategy: StrategyXPath, Selector: "//h1"}.String())
	assert.True(t, Locator{}.Zero())
	assert.False(t, CSS("x", "#x").Zero())
}

func TestChainString(t *testing.T) {
	chain := ChainOf(
		CSS("title", ".entry-title a"),
		XPath("title fallback", "//article//h2/a"),
	)
	assert.Equal(t,
		`title [css ".entry-title a"] | title fallback [xpath "//article//h2/a"]`,
		chain.String())
	assert.Equal(t, "title", chain.Primary().Label)

	assert.Equal(t, "<empty chain>", Chain{}.String())
	assert.True(t, Chain{}.Primary().Zero())
}

func TestWaitTimeoutErrorMessage(t *testing.T) {
	err := &WaitTimeoutError{
		Condition: CondClickable,
		Chain:     ChainOf(CSS("search button", ".search-submit")),
		Timeout:   10 * time.Second,
		Page:      PageInfo{URL: "https://example.com/", Title: "Example"},
	}
	msg := err.Error()
	assert.Contains(t, msg, "timed out after 10s")
	assert.Contains(t, msg, "clickable")
	assert.Contains(t, msg, "search button")
	assert.Contains(t, msg, `url="https://example.com/"`)
	assert.Contains(t, msg, `title="Example"`)
}

func TestActionFailedErrorUnwrap(t *testing.T) {
	inner := assert.AnError
	err := &ActionFailedError{
		Action: "click",
		Chain:  ChainOf(CSS("link", "a")),
		Err:    inner,
	}
	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "click failed")
}

func TestIsStale(t *testing.T) {
	assert.False(t, isStale(nil))
	assert.False(t, isStale(assert.AnError))
	assert.True(t, isStale(errForTest("could not find node for given id")))
	assert.True(t, isStale(errForTest("element is not attached to the page document")))
	assert.True(t, isStale(errForTest(`selector "[data-pandasuite-handle=\"x\"]" did not return any nodes`)))
	assert.True(t, isStale(context.DeadlineExceeded))
	assert.True(t, isStale(fmt.Errorf("click: %w", context.DeadlineExceeded)))
	assert.False(t, isStale(context.Canceled))
}

type errForTest string

func (e errForTest) Error() string { return string(e) }
