// -- cmd/run.go --
package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hbarrow/pandasuite/internal/observability"
	"github.com/hbarrow/pandasuite/internal/suite"
)

// newRunCmd creates and configures the `run` command.
func newRunCmd() *cobra.Command {
	var (
		tags        string
		format      string
		concurrency int
		paths       []string
	)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Runs the feature suite against the configured blog",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := observability.GetLogger()

			// Explicit flags beat config file and environment values, but
			// an untouched flag must not clobber them.
			if cmd.Flags().Changed("headless") {
				headless, _ := cmd.Flags().GetBool("headless")
				cfg.Browser.Headless = headless
			}
			if target, _ := cmd.Flags().GetString("target"); target != "" {
				cfg.Target.URL = target
			}

			status := suite.Run(suite.Options{
				Cfg:         cfg,
				Paths:       paths,
				Tags:        tags,
				Format:      format,
				Concurrency: concurrency,
			}, logger)

			if status != suite.ExitSuccess {
				logger.Error("One or more scenarios failed.", zap.Int("status", status))
				cmd.SilenceUsage = true
				return &scenariosFailedError{status: status}
			}
			return nil
		},
	}

	runCmd.Flags().StringVarP(&tags, "tags", "t", "", "filter scenarios by tag expression (e.g. @smoke)")
	runCmd.Flags().StringVarP(&format, "format", "f", "pretty", "godog output format (pretty, progress, junit, cucumber)")
	runCmd.Flags().IntVarP(&concurrency, "concurrency", "n", 1, "number of scenarios to run in parallel")
	runCmd.Flags().StringSliceVarP(&paths, "paths", "p", nil, "feature file paths (default ./features)")
	runCmd.Flags().Bool("headless", true, "run the browser headless")
	runCmd.Flags().String("target", "", "override the target site URL")

	return runCmd
}

// scenariosFailedError turns a non-zero suite status into a command error
// without printing usage help.
type scenariosFailedError struct {
	status int
}

func (e *scenariosFailedError) Error() string {
	return "scenario failures detected"
}

func init() {
	rootCmd.AddCommand(newRunCmd())
}
