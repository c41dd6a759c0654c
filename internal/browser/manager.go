// internal/browser/manager.go
package browser

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/hbarrow/pandasuite/internal/config"
)

const shutdownGracePeriod = 15 * time.Second

// Manager owns the browser process and hands out isolated tab sessions.
// The process is launched lazily on the first session request so a run
// that fails config validation never starts a browser.
type Manager struct {
	logger *zap.Logger
	cfg    *config.Config

	allocCtx    context.Context
	allocCancel context.CancelFunc

	sessions map[string]*Session
	mu       sync.RWMutex
	wg       sync.WaitGroup

	initOnce sync.Once
	initErr  error
}

// NewManager creates a browser manager. Launching is deferred until the
// first session is requested.
func NewManager(cfg *config.Config, logger *zap.Logger) *Manager {
	m := &Manager{
		logger:   logger.Named("browser_manager"),
		cfg:      cfg,
		sessions: make(map[string]*Session),
	}
	m.logger.Debug("Browser manager created (launch deferred).")
	return m
}

// initialize builds the exec allocator that owns the browser process.
func (m *Manager) initialize(ctx context.Context) error {
	m.initOnce.Do(func() {
		opts, err := m.allocatorOptions()
		if err != nil {
			m.initErr = err
			return
		}

		m.logger.Info("Launching browser.",
			zap.String("kind", m.cfg.Browser.Kind),
			zap.Bool("headless", m.cfg.Browser.Headless))

		// The allocator is detached from the caller's deadline; it lives
		// until Shutdown.
		m.allocCtx, m.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	})
	return m.initErr
}

// allocatorOptions translates the browser config into launch flags.
func (m *Manager) allocatorOptions() ([]chromedp.ExecAllocatorOption, error) {
	cfg := m.cfg.Browser

	opts := append([]chromedp.ExecAllocatorOption{},
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)

	switch strings.ToLower(cfg.Kind) {
	case config.BrowserChrome, config.BrowserChromium, config.BrowserEdge:
	default:
		return nil, &config.ConfigurationError{
			Field:  "browser.kind",
			Reason: fmt.Sprintf("unsupported browser %q", cfg.Kind),
		}
	}
	if cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ExecPath))
	}

	opts = append(opts, chromedp.Flag("headless", cfg.Headless))
	if cfg.NoSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}
	if cfg.WindowWidth > 0 && cfg.WindowHeight > 0 {
		opts = append(opts, chromedp.WindowSize(cfg.WindowWidth, cfg.WindowHeight))
	}
	for _, arg := range cfg.Args {
		opts = append(opts, chromedp.Flag(strings.TrimLeft(arg, "-"), true))
	}
	return opts, nil
}

// NewSession creates an isolated tab for one scenario. The caller owns the
// session and must Close it; Shutdown will reap any that leak.
func (m *Manager) NewSession(ctx context.Context) (*Session, error) {
	if err := m.initialize(ctx); err != nil {
		return nil, err
	}

	tabCtx, tabCancel := chromedp.NewContext(m.allocCtx)

	m.wg.Add(1)
	var session *Session
	session = newSession(tabCtx, tabCancel, m.cfg, m.logger, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.sessions, session.ID())
		m.wg.Done()
		m.logger.Debug("Session removed from manager.", zap.String("session_id", session.ID()))
	})

	if err := session.initialize(ctx); err != nil {
		// Release resources and the WaitGroup slot via the normal path.
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = session.Close(cleanupCtx)
		return nil, fmt.Errorf("failed to initialize session: %w", err)
	}

	m.mu.Lock()
	m.sessions[session.ID()] = session
	m.mu.Unlock()

	m.logger.Info("New session created.", zap.String("session_id", session.ID()))
	return session, nil
}

// Shutdown closes all remaining sessions and stops the browser process.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.logger.Info("Shutting down browser manager.")

	if m.allocCtx == nil {
		m.logger.Debug("Browser never launched, nothing to shut down.")
		return nil
	}

	m.mu.RLock()
	sessionsToClose := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessionsToClose = append(sessionsToClose, s)
	}
	m.mu.RUnlock()

	for _, s := range sessionsToClose {
		go func(s *Session) {
			if err := s.Close(ctx); err != nil {
				m.logger.Warn("Error during session close in shutdown.",
					zap.String("session_id", s.ID()), zap.Error(err))
			}
		}(s)
	}

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	graceCtx, cancel := context.WithTimeout(ctx, shutdownGracePeriod)
	defer cancel()

	select {
	case <-done:
		m.logger.Info("All sessions closed gracefully.")
	case <-graceCtx.Done():
		m.logger.Warn("Timeout waiting for sessions to close. Killing browser.", zap.Error(graceCtx.Err()))
	}

	m.allocCancel()
	m.logger.Info("Browser manager shutdown complete.")
	return nil
}
