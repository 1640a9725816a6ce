package matches

import (
	"time"

	"github.com/google/uuid"

	"github.com/preston-bernstein/scoreboard-service/internal/domain"
	"github.com/preston-bernstein/scoreboard-service/internal/domain/teams"
)

const resourceMatch = "match"

// Score captures home and visitor goals.
type Score struct {
	Home    int `json:"home"`
	Visitor int `json:"visitor"`
}

// Total is the combined score used for summary ranking.
func (s Score) Total() int {
	return s.Home + s.Visitor
}

// Match is a value snapshot of a single game. Score updates produce a new
// value with the same ID, teams and start time.
type Match struct {
	ID          uuid.UUID  `json:"id"`
	HomeTeam    teams.Team `json:"homeTeam"`
	VisitorTeam teams.Team `json:"visitorTeam"`
	Score       Score      `json:"score"`
	StartTime   time.Time  `json:"startTime"`
}

// NewMatch validates every field and builds a Match.
func NewMatch(id uuid.UUID, home, visitor teams.Team, score Score, startTime time.Time) (Match, error) {
	if id == uuid.Nil {
		return Match{}, domain.InvalidArgument(resourceMatch, "id is required")
	}
	if home.IsZero() {
		return Match{}, domain.InvalidArgument(resourceMatch, "homeTeam is required")
	}
	if visitor.IsZero() {
		return Match{}, domain.InvalidArgument(resourceMatch, "visitorTeam is required")
	}
	if home.ID == visitor.ID {
		return Match{}, domain.InvalidArgument(resourceMatch, "homeTeam cannot equal the visitorTeam")
	}
	if startTime.IsZero() {
		return Match{}, domain.InvalidArgument(resourceMatch, "startTime is required")
	}
	if err := validateScore(score); err != nil {
		return Match{}, err
	}
	return Match{
		ID:          id,
		HomeTeam:    home,
		VisitorTeam: visitor,
		Score:       score,
		StartTime:   startTime,
	}, nil
}

// Start builds a fresh 0:0 match with the given id.
func Start(id uuid.UUID, home, visitor teams.Team, startTime time.Time) (Match, error) {
	return NewMatch(id, home, visitor, Score{}, startTime)
}

// WithScore returns a copy of m carrying the new score. m is left untouched.
func (m Match) WithScore(home, visitor int) (Match, error) {
	score := Score{Home: home, Visitor: visitor}
	if err := validateScore(score); err != nil {
		return m, err
	}
	next := m
	next.Score = score
	return next, nil
}

// TotalScore is the sum of both teams' goals.
func (m Match) TotalScore() int {
	return m.Score.Total()
}

func validateScore(score Score) error {
	if score.Home < 0 {
		return domain.InvalidArgument(resourceMatch, "homeScore must be 0 or a positive number")
	}
	if score.Visitor < 0 {
		return domain.InvalidArgument(resourceMatch, "visitorScore must be 0 or a positive number")
	}
	return nil
}
