// internal/browser/session.go
package browser

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hbarrow/pandasuite/internal/config"
)

// Session represents one live browser tab. Each scenario gets its own
// Session; nothing about it is shared across scenarios.
type Session struct {
	id     string
	ctx    context.Context
	cancel context.CancelFunc
	logger *zap.Logger
	cfg    *config.Config

	interactor *Interactor

	onClose func()

	mu       sync.Mutex
	isClosed bool
}

// newSession wraps an already-created chromedp tab context. Callers go
// through Manager.NewSession.
func newSession(ctx context.Context, cancel context.CancelFunc, cfg *config.Config, logger *zap.Logger, onClose func()) *Session {
	sessionID := uuid.New().String()
	sessionLogger := logger.With(zap.String("session_id", sessionID))

	s := &Session{
		id:      sessionID,
		ctx:     ctx,
		cancel:  cancel,
		logger:  sessionLogger,
		cfg:     cfg,
		onClose: onClose,
	}
	s.interactor = NewInteractor(s.runActions, cfg.Waits, sessionLogger)
	return s
}

// initialize connects the tab and sets the viewport.
func (s *Session) initialize(ctx context.Context) error {
	initCtx, cancel := CombineContext(s.ctx, ctx)
	defer cancel()

	// The first Run creates the target and connects CDP.
	if err := chromedp.Run(initCtx); err != nil {
		return fmt.Errorf("failed to connect browser target: %w", err)
	}

	if w, h := s.cfg.Browser.WindowWidth, s.cfg.Browser.WindowHeight; w > 0 && h > 0 {
		if err := chromedp.Run(initCtx, emulation.SetDeviceMetricsOverride(int64(w), int64(h), 1.0, false)); err != nil {
			return fmt.Errorf("failed to set viewport %dx%d: %w", w, h, err)
		}
	}
	return nil
}

// ID returns the unique identifier for the session.
func (s *Session) ID() string {
	return s.id
}

// Interactor returns the element interaction layer bound to this tab.
func (s *Session) Interactor() *Interactor {
	return s.interactor
}

// Navigate loads a URL and waits for the document to become interactive.
func (s *Session) Navigate(ctx context.Context, url string) error {
	navCtx, cancel := context.WithTimeout(ctx, s.cfg.Waits.NavigationTimeout)
	defer cancel()

	s.logger.Debug("Navigating.", zap.String("url", url))
	if err := s.runActions(navCtx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	if err := s.interactor.WaitReady(navCtx); err != nil {
		return fmt.Errorf("page did not become ready after navigating to %s: %w", url, err)
	}
	return nil
}

// Screenshot captures the viewport as PNG.
func (s *Session) Screenshot(ctx context.Context) ([]byte, error) {
	var buf []byte
	if err := s.runActions(ctx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return nil, fmt.Errorf("failed to capture screenshot: %w", err)
	}
	return buf, nil
}

// PageInfo returns the current URL and title. Best effort; an unreachable
// tab yields an empty snapshot rather than an error.
func (s *Session) PageInfo(ctx context.Context) PageInfo {
	infoCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	var info PageInfo
	if err := s.runActions(infoCtx, chromedp.Location(&info.URL), chromedp.Title(&info.Title)); err != nil {
		s.logger.Debug("Could not read page info.", zap.Error(err))
	}
	return info
}

// Close tears down the tab. Safe to call more than once; only the first
// call does anything.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.isClosed {
		s.mu.Unlock()
		return nil
	}
	s.isClosed = true
	s.mu.Unlock()

	s.logger.Debug("Closing browser session.")

	if s.cancel != nil {
		s.cancel()
	}
	if s.onClose != nil {
		s.onClose()
	}
	return nil
}

// runActions executes chromedp actions so they respect both the session
// lifetime (s.ctx) and the caller's deadline (ctx).
func (s *Session) runActions(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := CombineContext(s.ctx, ctx)
	defer cancel()

	return chromedp.Run(runCtx, actions...)
}
