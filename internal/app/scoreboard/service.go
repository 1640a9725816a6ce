package scoreboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/preston-bernstein/scoreboard-service/internal/domain"
	"github.com/preston-bernstein/scoreboard-service/internal/domain/matches"
	"github.com/preston-bernstein/scoreboard-service/internal/domain/teams"
	"github.com/preston-bernstein/scoreboard-service/internal/logging"
	"github.com/preston-bernstein/scoreboard-service/internal/metrics"
)

// ErrTeamRelease marks a finish whose match was archived but at least one
// team could not be returned to the pool.
var ErrTeamRelease = errors.New("team release failed")

// TeamPool is the set of teams free to play.
type TeamPool interface {
	Release(team teams.Team) (teams.Team, error)
	Reserve(id uuid.UUID) (teams.Team, bool)
	Count() int
	List() []teams.Team
}

// OngoingRegistry holds live matches.
type OngoingRegistry interface {
	Insert(m matches.Match) (matches.Match, error)
	UpdateScore(id uuid.UUID, home, visitor int) (matches.Match, error)
	Remove(id uuid.UUID) (matches.Match, error)
	Count() int
	List() []matches.Match
}

// FinishedArchive holds completed matches in completion order.
type FinishedArchive interface {
	Append(m matches.Match)
	List() []matches.Match
}

// Service runs the match lifecycle across the three registries.
type Service struct {
	pool     TeamPool
	ongoing  OngoingRegistry
	finished FinishedArchive

	clock   clockwork.Clock
	newID   func() uuid.UUID
	logger  *slog.Logger
	metrics *metrics.Recorder

	// finishMu serializes FinishMatch so remove, release and append are
	// observed as one step by other finishers.
	finishMu sync.Mutex
}

// NewService constructs a Service over the given registries.
func NewService(pool TeamPool, ongoing OngoingRegistry, finished FinishedArchive, opts ...Option) *Service {
	s := &Service{
		pool:     pool,
		ongoing:  ongoing,
		finished: finished,
		clock:    clockwork.NewRealClock(),
		newID:    uuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StartMatch starts a match stamped with the service clock.
func (s *Service) StartMatch(ctx context.Context, homeID, visitorID uuid.UUID) (matches.Match, error) {
	return s.StartMatchAt(ctx, homeID, visitorID, time.Time{})
}

// StartMatchAt reserves both teams and registers a new 0:0 match. A zero
// startTime means now.
//
// If the home team is reserved but the visitor is not available, the call
// fails with ErrNotFound and the home team stays reserved.
func (s *Service) StartMatchAt(ctx context.Context, homeID, visitorID uuid.UUID, startTime time.Time) (m matches.Match, err error) {
	if err := ctx.Err(); err != nil {
		return matches.Match{}, err
	}
	logger := s.loggerFor(ctx).With(
		slog.String(logging.FieldHomeTeamID, homeID.String()),
		slog.String(logging.FieldVisitorTeamID, visitorID.String()),
	)
	defer s.observe(metrics.OpStart, s.clock.Now(), &err)

	home, ok := s.pool.Reserve(homeID)
	if !ok {
		logging.Warn(logger, "home team not available")
		return matches.Match{}, domain.NotFound("home team", homeID.String())
	}
	visitor, ok := s.pool.Reserve(visitorID)
	if !ok {
		logging.Warn(logger, "visitor team not available; home team stays reserved")
		return matches.Match{}, domain.NotFound("visitor team", visitorID.String())
	}

	if startTime.IsZero() {
		startTime = s.clock.Now()
	}
	m, err = matches.Start(s.newID(), home, visitor, startTime)
	if err != nil {
		logging.Error(logger, "failed to build match", err)
		return matches.Match{}, err
	}
	if _, err = s.ongoing.Insert(m); err != nil {
		logging.Error(logger, "failed to register match", err, logging.FieldMatchID, m.ID.String())
		return matches.Match{}, err
	}

	s.metrics.RecordOngoingDelta(1)
	logging.Info(logger, "match started", logging.FieldMatchID, m.ID.String())
	return m, nil
}

// UpdateMatch replaces the score of an ongoing match.
func (s *Service) UpdateMatch(ctx context.Context, matchID uuid.UUID, homeScore, visitorScore int) (m matches.Match, err error) {
	if err := ctx.Err(); err != nil {
		return matches.Match{}, err
	}
	logger := s.loggerFor(ctx).With(slog.String(logging.FieldMatchID, matchID.String()))
	defer s.observe(metrics.OpUpdate, s.clock.Now(), &err)

	m, err = s.ongoing.UpdateScore(matchID, homeScore, visitorScore)
	if err != nil {
		logging.Warn(logger, "score update rejected", "error", err)
		return matches.Match{}, err
	}
	logging.Debug(logger, "score updated",
		logging.FieldHomeScore, m.Score.Home,
		logging.FieldVisitorScore, m.Score.Visitor,
	)
	return m, nil
}

// FinishMatch ends an ongoing match, returns both teams to the pool and
// archives the final result. Only one FinishMatch runs at a time.
//
// A second finish of the same match fails with ErrNotFound. If a team cannot
// be released the match is still archived and the returned error wraps
// ErrTeamRelease.
func (s *Service) FinishMatch(ctx context.Context, matchID uuid.UUID) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	logger := s.loggerFor(ctx).With(slog.String(logging.FieldMatchID, matchID.String()))

	s.finishMu.Lock()
	defer s.finishMu.Unlock()
	defer s.observe(metrics.OpFinish, s.clock.Now(), &err)

	m, err := s.ongoing.Remove(matchID)
	if err != nil {
		logging.Warn(logger, "finish rejected", "error", err)
		return err
	}
	s.metrics.RecordOngoingDelta(-1)

	var releaseErrs []error
	for _, t := range []teams.Team{m.HomeTeam, m.VisitorTeam} {
		if _, relErr := s.pool.Release(t); relErr != nil {
			s.metrics.RecordReleaseFailure()
			logging.Error(logger, "failed to release team", relErr, logging.FieldTeamID, t.ID.String())
			releaseErrs = append(releaseErrs, relErr)
		}
	}

	s.finished.Append(m)
	logging.Info(logger, "match finished",
		logging.FieldHomeScore, m.Score.Home,
		logging.FieldVisitorScore, m.Score.Visitor,
	)

	if len(releaseErrs) > 0 {
		return fmt.Errorf("%w: %w", ErrTeamRelease, errors.Join(releaseErrs...))
	}
	return nil
}

// FinishedSummary returns finished matches by total score, most recent start
// first on ties. The archive itself is not reordered.
func (s *Service) FinishedSummary(ctx context.Context) ([]matches.Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return matches.SortSummary(s.finished.List()), nil
}

// CountOngoing returns the number of matches currently in progress.
func (s *Service) CountOngoing(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return s.ongoing.Count(), nil
}

// OngoingMatches returns a snapshot of the live matches.
func (s *Service) OngoingMatches(ctx context.Context) ([]matches.Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.ongoing.List(), nil
}

// AvailableTeams returns a snapshot of the teams free to play.
func (s *Service) AvailableTeams(ctx context.Context) ([]teams.Team, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.pool.List(), nil
}

func (s *Service) observe(op string, start time.Time, err *error) {
	s.metrics.RecordOperation(op, s.clock.Since(start), *err)
}

func (s *Service) loggerFor(ctx context.Context) *slog.Logger {
	logger := logging.FromContext(ctx, s.logger)
	if logger == nil {
		return logging.Discard()
	}
	return logger
}
