package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/preston-bernstein/scoreboard-service/internal/domain/teams"
	"github.com/preston-bernstein/scoreboard-service/internal/logging"
	"github.com/preston-bernstein/scoreboard-service/internal/roster"
	"github.com/preston-bernstein/scoreboard-service/internal/server"
)

type simulateOptions struct {
	rosterFile string
	ticks      int
	interval   time.Duration
	json       bool
}

func newSimulateCommand(version string) *cobra.Command {
	opts := &simulateOptions{}
	c := &cobra.Command{
		Use:   "simulate",
		Short: "Play simulated matches and print the final summary",
		Long: `Seed the team pool from a roster, then start, score and finish matches
concurrently on a fixed tick until the configured number of ticks has run or
the process is interrupted. Live matches are finished before the summary is
printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSimulate(cmd, version, opts)
		},
	}
	c.Flags().StringVar(&opts.rosterFile, "roster", "", "roster YAML file (overrides ROSTER_FILE)")
	c.Flags().IntVar(&opts.ticks, "ticks", 0, "number of ticks to run (overrides SIM_TICKS)")
	c.Flags().DurationVar(&opts.interval, "interval", 0, "tick interval (overrides SIM_TICK_INTERVAL)")
	c.Flags().BoolVar(&opts.json, "json", false, "print the summary as JSON")
	return c
}

func runSimulate(cmd *cobra.Command, version string, opts *simulateOptions) error {
	cfg, logger := loadRuntime(cmd, version)
	if opts.rosterFile != "" {
		cfg.RosterFile = opts.rosterFile
	}
	if opts.ticks > 0 {
		cfg.Simulation.Ticks = opts.ticks
	}
	if opts.interval > 0 {
		cfg.Simulation.TickInterval = opts.interval
	}

	ts, err := loadRoster(cfg.RosterFile, logger)
	if err != nil {
		return err
	}

	srv, err := server.New(cfg, logger, ts)
	if err != nil {
		return fmt.Errorf("failed to build scoreboard: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	srv.Run(ctx)

	summary, err := srv.Service().FinishedSummary(context.Background())
	if err != nil {
		return err
	}
	status := srv.Status()
	logging.Info(logger, "simulation summary",
		logging.FieldTick, status.Ticks,
		logging.FieldCount, len(summary),
		"failures", status.Failures,
	)
	if opts.json {
		return writeSummaryJSON(cmd.OutOrStdout(), summary)
	}
	return writeSummary(cmd.OutOrStdout(), summary)
}

// loadRoster reads the roster file, falling back to the built-in roster when
// the file does not exist.
func loadRoster(path string, logger *slog.Logger) ([]teams.Team, error) {
	ts, err := roster.LoadFile(path)
	if err == nil {
		return ts, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	logging.Warn(logger, "roster file not found, using built-in roster", "path", path)
	return roster.Default()
}
