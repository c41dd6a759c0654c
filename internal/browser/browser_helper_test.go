// internal/browser/browser_helper_test.go
package browser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/hbarrow/pandasuite/internal/config"
)

// requireChrome skips the test when no Chrome-family binary can be found.
// Logic-only tests in this package run everywhere; tests that drive a real
// browser do not.
func requireChrome(t *testing.T) {
	t.Helper()
	for _, name := range []string{"google-chrome", "google-chrome-stable", "chromium", "chromium-browser", "headless-shell"} {
		if _, err := exec.LookPath(name); err == nil {
			return
		}
	}
	t.Skip("no chrome binary available in PATH")
}

// fixtureHTML is a minimal page with the dynamics the wait engine has to
// handle: an element that appears late, one that disappears, and a disabled
// button that becomes clickable.
const fixtureHTML = `<!DOCTYPE html>
<html>
<head><title>Wait Fixture</title></head>
<body>
  <h1 id="heading">Fixture Heading</h1>
  <p id="ephemeral">going away</p>
  <div id="late" style="display:none">late content</div>
  <button id="slow-button" disabled>Press</button>
  <input id="field" type="text">
  <ul id="list">
    <li class="item">alpha</li>
    <li class="item">beta</li>
    <li class="item" style="display:none">hidden gamma</li>
  </ul>
  <a id="next" href="/second">second page</a>
  <ul id="menu">
    <li><a class="menu-link" href="#" style="display:none">hidden entry</a></li>
    <li><a class="menu-link" href="#"><span style="display:inline-block;width:16px;height:16px"></span></a></li>
    <li><a class="menu-link" href="#">Alpha</a></li>
    <li><a class="menu-link" href="#">Beta</a></li>
  </ul>
  <script>
    setTimeout(function() {
      document.getElementById('late').style.display = 'block';
      document.getElementById('ephemeral').remove();
      document.getElementById('slow-button').removeAttribute('disabled');
    }, 300);
    document.getElementById('slow-button').addEventListener('click', function() {
      document.getElementById('heading').textContent = 'Button Pressed';
    });
    document.querySelectorAll('#menu .menu-link').forEach(function(a) {
      a.addEventListener('click', function(ev) {
        ev.preventDefault();
        document.getElementById('heading').textContent =
          'menu:' + ((a.textContent || '').trim() || 'blank');
      });
    });
  </script>
</body>
</html>`

const secondHTML = `<!DOCTYPE html>
<html>
<head><title>Second Page</title></head>
<body><h1 id="heading">Second</h1></body>
</html>`

// newFixtureServer serves the wait fixture over a local listener.
func newFixtureServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(fixtureHTML))
	})
	mux.HandleFunc("/second", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(secondHTML))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// newTestSession boots a manager and one session against the fixture server.
func newTestSession(t *testing.T, targetURL string) *Session {
	t.Helper()
	requireChrome(t)

	cfg := config.NewDefaultConfig()
	cfg.Target.URL = targetURL
	cfg.Browser.Headless = true
	cfg.Browser.NoSandbox = true
	cfg.Waits.Timeout = 5 * time.Second
	cfg.Waits.PollInterval = 100 * time.Millisecond

	logger := zaptest.NewLogger(t)
	manager := NewManager(cfg, logger)
	t.Cleanup(func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()
		_ = manager.Shutdown(shutdownCtx)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	session, err := manager.NewSession(ctx)
	require.NoError(t, err)

	require.NoError(t, session.Navigate(ctx, targetURL))
	return session
}
