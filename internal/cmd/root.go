package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/preston-bernstein/scoreboard-service/internal/config"
	"github.com/preston-bernstein/scoreboard-service/internal/logging"
)

const serviceName = "scoreboard-service"

// NewRootCommand assembles the scoreboard CLI.
func NewRootCommand(version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "scoreboard",
		Short: "Live scoreboard for concurrently running matches",
		Long: `Scoreboard tracks matches from kickoff to final whistle. Teams are drawn
from a roster, each team plays at most one match at a time, and finished
matches are ranked by total score with the most recent start first on ties.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newSimulateCommand(version),
		newSummaryDemoCommand(version),
		newVersionCommand(version),
	)
	return root
}

// Execute runs the CLI with process arguments.
func Execute(version string) error {
	return NewRootCommand(version).Execute()
}

func loadRuntime(cmd *cobra.Command, version string) (config.Config, *slog.Logger) {
	cfg := config.Load()
	logger := logging.NewLogger(logging.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: serviceName,
		Version: version,
		Output:  cmd.ErrOrStderr(),
	})
	return cfg, logger
}
