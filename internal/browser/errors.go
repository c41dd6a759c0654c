// internal/browser/errors.go
package browser

import (
	"fmt"
	"time"
)

// PageInfo is a diagnostic snapshot of the page captured at failure time.
// It is attached to wait and action errors so a failed scenario can report
// where the browser actually was.
type PageInfo struct {
	URL   string
	Title string
}

func (p PageInfo) String() string {
	return fmt.Sprintf("url=%q title=%q", p.URL, p.Title)
}

// WaitTimeoutError is returned when a wait condition was not satisfied
// within its deadline.
type WaitTimeoutError struct {
	Condition Condition
	Chain     Chain
	Timeout   time.Duration
	Page      PageInfo
}

func (e *WaitTimeoutError) Error() string {
	return fmt.Sprintf("timed out after %s waiting for %s on %s (%s)",
		e.Timeout, e.Condition, e.Chain, e.Page)
}

// ActionFailedError wraps a driver failure during an interaction that had
// already located its element, for example a click on a node that detached
// mid-action.
type ActionFailedError struct {
	Action string
	Chain  Chain
	Page   PageInfo
	Err    error
}

func (e *ActionFailedError) Error() string {
	return fmt.Sprintf("%s failed on %s (%s): %v", e.Action, e.Chain, e.Page, e.Err)
}

func (e *ActionFailedError) Unwrap() error {
	return e.Err
}
