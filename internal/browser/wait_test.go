// internal/browser/wait_test.go
package browser

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// noBrowser stands in for the action runner in tests that never reach the
// page. The diagnostics snapshot tolerates its failure.
func noBrowser(ctx context.Context, actions ...chromedp.Action) error {
	return errors.New("no browser in this test")
}

func TestAwaitFunc(t *testing.T) {
	w := NewWaiter(noBrowser, 500*time.Millisecond, 50*time.Millisecond, zap.NewNop())
	docChain := ChainOf(CSS("document", "html"))

	t.Run("returns once the predicate holds", func(t *testing.T) {
		calls := 0
		err := w.AwaitFunc(context.Background(), "document-ready", docChain,
			func(context.Context) (bool, error) {
				calls++
				return calls >= 3, nil
			})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("predicate errors leave the sample inconclusive", func(t *testing.T) {
		calls := 0
		err := w.AwaitFunc(context.Background(), "document-ready", docChain,
			func(context.Context) (bool, error) {
				calls++
				if calls < 2 {
					return false, errors.New("mid-navigation noise")
				}
				return true, nil
			})
		assert.NoError(t, err)
	})

	t.Run("timeout error names the condition", func(t *testing.T) {
		err := w.AwaitFunc(context.Background(), "document-ready", docChain,
			func(context.Context) (bool, error) { return false, nil },
			WithTimeout(200*time.Millisecond), WithPollInterval(50*time.Millisecond))

		var timeoutErr *WaitTimeoutError
		require.ErrorAs(t, err, &timeoutErr)
		assert.Equal(t, Condition("document-ready"), timeoutErr.Condition)
		assert.Equal(t, 200*time.Millisecond, timeoutErr.Timeout)
	})

	t.Run("caller cancellation wins over the timeout error", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := w.AwaitFunc(ctx, "document-ready", docChain,
			func(context.Context) (bool, error) { return false, nil })
		assert.ErrorIs(t, err, context.Canceled)
	})
}
