// internal/steps/hooks.go
// Package steps binds the Gherkin vocabulary to page object operations and
// manages the per-scenario browser session.
package steps

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"go.uber.org/zap"

	"github.com/hbarrow/pandasuite/internal/browser"
	"github.com/hbarrow/pandasuite/internal/config"
	"github.com/hbarrow/pandasuite/internal/pages"
)

// scenarioState carries the session and page objects for one scenario. It
// lives in the scenario's context, so concurrent scenarios never share it.
type scenarioState struct {
	session *browser.Session
	home    *pages.HomePage
	results *pages.SearchResultsPage
	contact *pages.ContactPage

	searchPhrase string
}

type stateKey struct{}

// Registrar wires hooks and step definitions into godog.
type Registrar struct {
	cfg     *config.Config
	manager *browser.Manager
	logger  *zap.Logger
}

// NewRegistrar builds a Registrar over a shared browser manager. The
// manager is shared; sessions are not.
func NewRegistrar(cfg *config.Config, manager *browser.Manager, logger *zap.Logger) *Registrar {
	return &Registrar{cfg: cfg, manager: manager, logger: logger.Named("steps")}
}

// Register installs hooks and the step vocabulary on a scenario context.
func (r *Registrar) Register(sc *godog.ScenarioContext) {
	sc.Before(r.beforeScenario)
	sc.After(r.afterScenario)
	r.registerSteps(sc)
}

// beforeScenario creates the scenario's browser session and page objects.
func (r *Registrar) beforeScenario(ctx context.Context, sn *godog.Scenario) (context.Context, error) {
	r.logger.Info("Starting scenario.", zap.String("scenario", sn.Name))

	session, err := r.manager.NewSession(ctx)
	if err != nil {
		return ctx, fmt.Errorf("could not start browser session for scenario %q: %w", sn.Name, err)
	}

	baseURL := r.cfg.Target.URL
	state := &scenarioState{
		session: session,
		home:    pages.NewHomePage(session, baseURL, r.logger),
		results: pages.NewSearchResultsPage(session, baseURL, r.logger),
		contact: pages.NewContactPage(session, baseURL, r.logger),
	}
	return context.WithValue(ctx, stateKey{}, state), nil
}

// afterScenario captures a failure screenshot and closes the session.
// Teardown always runs and never overwrites the scenario's verdict:
// screenshot and close errors are logged, not returned.
func (r *Registrar) afterScenario(ctx context.Context, sn *godog.Scenario, scErr error) (context.Context, error) {
	state, ok := ctx.Value(stateKey{}).(*scenarioState)
	if !ok || state == nil {
		return ctx, nil
	}

	if scErr != nil && r.cfg.Report.ScreenshotOnFailure {
		ctx = r.captureFailureScreenshot(ctx, state, sn)
	}

	closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := state.session.Close(closeCtx); err != nil {
		r.logger.Warn("Session close failed during teardown.",
			zap.String("scenario", sn.Name), zap.Error(err))
	}

	r.logger.Info("Finished scenario.",
		zap.String("scenario", sn.Name), zap.Bool("failed", scErr != nil))
	return ctx, nil
}

// captureFailureScreenshot grabs the viewport, attaches it to the scenario
// report, and drops a copy in the artifacts directory. Best effort on every
// step.
func (r *Registrar) captureFailureScreenshot(ctx context.Context, state *scenarioState, sn *godog.Scenario) context.Context {
	shotCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	png, err := state.session.Screenshot(shotCtx)
	if err != nil {
		r.logger.Warn("Could not capture failure screenshot.",
			zap.String("scenario", sn.Name), zap.Error(err))
		return ctx
	}

	fileName := scenarioFileName(sn.Name) + ".png"
	ctx = godog.Attach(ctx, godog.Attachment{
		Body:      png,
		FileName:  fileName,
		MediaType: "image/png",
	})

	if dir := r.cfg.Report.ArtifactsDir; dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			r.logger.Warn("Could not create artifacts directory.", zap.String("dir", dir), zap.Error(err))
			return ctx
		}
		path := filepath.Join(dir, fileName)
		if err := os.WriteFile(path, png, 0o644); err != nil {
			r.logger.Warn("Could not write failure screenshot.", zap.String("path", path), zap.Error(err))
		} else {
			r.logger.Info("Failure screenshot saved.", zap.String("path", path))
		}
	}
	return ctx
}

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// scenarioFileName turns a scenario name into a filesystem-safe, unique
// artifact name.
func scenarioFileName(name string) string {
	base := unsafeFileChars.ReplaceAllString(strings.TrimSpace(name), "_")
	base = strings.Trim(base, "_")
	if base == "" {
		base = "scenario"
	}
	return fmt.Sprintf("%s_%s", base, time.Now().Format("20060102_150405.000"))
}

// stateFrom pulls the scenario state out of the context.
func stateFrom(ctx context.Context) (*scenarioState, error) {
	state, ok := ctx.Value(stateKey{}).(*scenarioState)
	if !ok || state == nil {
		return nil, fmt.Errorf("no browser session in scenario context; did the Before hook run?")
	}
	return state, nil
}
