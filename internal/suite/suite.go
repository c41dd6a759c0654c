// internal/suite/suite.go
// Package suite assembles the godog test suite around a shared browser
// manager.
package suite

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/cucumber/godog"
	"github.com/cucumber/godog/colors"
	"go.uber.org/zap"

	"github.com/hbarrow/pandasuite/internal/browser"
	"github.com/hbarrow/pandasuite/internal/config"
	"github.com/hbarrow/pandasuite/internal/steps"
)

// Options controls one suite run.
type Options struct {
	Cfg         *config.Config
	Paths       []string
	Tags        string
	Format      string
	Concurrency int
	Output      io.Writer
}

// Exit statuses mirroring godog's TestSuite.Run contract.
const (
	ExitSuccess = 0
	ExitFailure = 1
)

// Run executes the feature suite and returns an exit status. Individual
// scenario failures never abort sibling scenarios; the status reflects
// whether any scenario failed.
func Run(opts Options, logger *zap.Logger) int {
	godogOpts := buildGodogOptions(opts)

	manager := browser.NewManager(opts.Cfg, logger)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := manager.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Browser manager shutdown reported an error.", zap.Error(err))
		}
	}()

	registrar := steps.NewRegistrar(opts.Cfg, manager, logger)

	ts := godog.TestSuite{
		Name:                "pandasuite",
		ScenarioInitializer: registrar.Register,
		Options:             &godogOpts,
	}

	status := ts.Run()
	logger.Info("Suite finished.", zap.Int("status", status))
	return status
}

// buildGodogOptions normalizes run options into godog's shape. Parallel
// runs force a concurrency-safe formatter.
func buildGodogOptions(opts Options) godog.Options {
	paths := opts.Paths
	if len(paths) == 0 {
		paths = []string{"features"}
	}

	format := opts.Format
	if format == "" {
		format = "pretty"
	}
	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	if concurrency > 1 && format == "pretty" {
		// The pretty formatter interleaves output under concurrency.
		format = "progress"
	}

	output := opts.Output
	if output == nil {
		output = colors.Colored(os.Stdout)
	}

	return godog.Options{
		Format:      format,
		Paths:       paths,
		Tags:        opts.Tags,
		Concurrency: concurrency,
		Output:      output,
		Strict:      true,
	}
}
