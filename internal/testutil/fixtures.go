package testutil

import (
	"time"

	"github.com/google/uuid"

	"github.com/preston-bernstein/scoreboard-service/internal/domain/matches"
	"github.com/preston-bernstein/scoreboard-service/internal/domain/teams"
)

// Kickoff is the canonical start time used across fixtures.
var Kickoff = time.Date(2024, 10, 7, 12, 0, 0, 0, time.UTC)

// SampleTeam returns a team with a fresh id and the provided name.
func SampleTeam(name string) teams.Team {
	t, err := teams.NewTeam(uuid.New(), name)
	if err != nil {
		panic(err)
	}
	return t
}

// SampleTeams returns one fresh team per name, in order.
func SampleTeams(names ...string) []teams.Team {
	out := make([]teams.Team, 0, len(names))
	for _, n := range names {
		out = append(out, SampleTeam(n))
	}
	return out
}

// SampleMatch builds a scored match between two fresh teams.
func SampleMatch(home, visitor int, start time.Time) matches.Match {
	m, err := matches.NewMatch(uuid.New(), SampleTeam("Home"), SampleTeam("Visitor"),
		matches.Score{Home: home, Visitor: visitor}, start)
	if err != nil {
		panic(err)
	}
	return m
}
