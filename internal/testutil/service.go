package testutil

import (
	"github.com/jonboulle/clockwork"

	"github.com/preston-bernstein/scoreboard-service/internal/app/scoreboard"
	"github.com/preston-bernstein/scoreboard-service/internal/domain/teams"
	"github.com/preston-bernstein/scoreboard-service/internal/store"
)

// Registries bundles the three stores behind a scoreboard service so tests can
// inspect them directly.
type Registries struct {
	Pool     *store.TeamPool
	Ongoing  *store.OngoingMatches
	Finished *store.FinishedArchive
}

// NewServiceWithTeams builds a scoreboard service backed by in-memory stores,
// with the given teams released into the pool.
func NewServiceWithTeams(clock clockwork.Clock, available ...teams.Team) (*scoreboard.Service, Registries) {
	regs := Registries{
		Pool:     store.NewTeamPool(),
		Ongoing:  store.NewOngoingMatches(),
		Finished: store.NewFinishedArchive(),
	}
	for _, t := range available {
		if _, err := regs.Pool.Release(t); err != nil {
			panic(err)
		}
	}
	opts := []scoreboard.Option{}
	if clock != nil {
		opts = append(opts, scoreboard.WithClock(clock))
	}
	svc := scoreboard.NewService(regs.Pool, regs.Ongoing, regs.Finished, opts...)
	return svc, regs
}
