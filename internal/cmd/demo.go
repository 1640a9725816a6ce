package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/preston-bernstein/scoreboard-service/internal/app/scoreboard"
	"github.com/preston-bernstein/scoreboard-service/internal/domain/matches"
	"github.com/preston-bernstein/scoreboard-service/internal/roster"
	"github.com/preston-bernstein/scoreboard-service/internal/store"
)

// demoFixture is one scripted match: start offset from kickoff and final score.
type demoFixture struct {
	offset        time.Duration
	home, visitor int
}

var demoFixtures = []demoFixture{
	{offset: 0, home: 4, visitor: 1},
	{offset: 0, home: 1, visitor: 3},
	{offset: time.Hour, home: 1, visitor: 1},
	{offset: 0, home: 1, visitor: 1},
}

var demoKickoff = time.Date(2024, 6, 14, 19, 0, 0, 0, time.UTC)

func newSummaryDemoCommand(version string) *cobra.Command {
	var asJSON bool
	c := &cobra.Command{
		Use:   "summary-demo",
		Short: "Play a scripted set of matches and print the ranked summary",
		Long: `Play four scripted matches: 4-1 and 1-3 at kickoff, 1-1 an hour later and
1-1 at kickoff. The summary ranks them by total score and puts the later
1-1 ahead of the earlier one.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, logger := loadRuntime(cmd, version)
			ts, err := roster.Default()
			if err != nil {
				return err
			}
			pool := store.NewTeamPool()
			if _, err := roster.Seed(pool, ts); err != nil {
				return err
			}
			svc := scoreboard.NewService(pool, store.NewOngoingMatches(), store.NewFinishedArchive(),
				scoreboard.WithLogger(logger),
			)

			summary, err := playDemo(cmd.Context(), svc, pool)
			if err != nil {
				return err
			}
			if asJSON {
				return writeSummaryJSON(cmd.OutOrStdout(), summary)
			}
			return writeSummary(cmd.OutOrStdout(), summary)
		},
	}
	c.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")
	return c
}

func playDemo(ctx context.Context, svc *scoreboard.Service, pool *store.TeamPool) ([]matches.Match, error) {
	available := pool.List()
	if len(available) < 2*len(demoFixtures) {
		return nil, fmt.Errorf("demo needs %d teams, roster has %d", 2*len(demoFixtures), len(available))
	}

	for i, f := range demoFixtures {
		home, visitor := available[2*i], available[2*i+1]
		m, err := svc.StartMatchAt(ctx, home.ID, visitor.ID, demoKickoff.Add(f.offset))
		if err != nil {
			return nil, err
		}
		if _, err := svc.UpdateMatch(ctx, m.ID, f.home, f.visitor); err != nil {
			return nil, err
		}
		if err := svc.FinishMatch(ctx, m.ID); err != nil {
			return nil, err
		}
	}
	return svc.FinishedSummary(ctx)
}
