package simulation

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/preston-bernstein/scoreboard-service/internal/domain/matches"
	"github.com/preston-bernstein/scoreboard-service/internal/domain/teams"
	"github.com/preston-bernstein/scoreboard-service/internal/logging"
	"github.com/preston-bernstein/scoreboard-service/internal/metrics"
)

const (
	defaultInterval    = 500 * time.Millisecond
	defaultFinishAfter = 6
	defaultWorkers     = 4
)

// Scoreboard is the set of lifecycle operations the simulator drives.
type Scoreboard interface {
	StartMatch(ctx context.Context, homeID, visitorID uuid.UUID) (matches.Match, error)
	UpdateMatch(ctx context.Context, matchID uuid.UUID, homeScore, visitorScore int) (matches.Match, error)
	FinishMatch(ctx context.Context, matchID uuid.UUID) error
	OngoingMatches(ctx context.Context) ([]matches.Match, error)
	AvailableTeams(ctx context.Context) ([]teams.Team, error)
}

// Config tunes the simulator loop.
type Config struct {
	Interval    time.Duration
	Ticks       int // zero runs until stopped
	MaxGoals    int
	FinishAfter int
	Workers     int
	Seed        uint64
}

// Simulator plays matches against a scoreboard on a fixed interval. Each tick
// finishes matches that have run long enough, adds goals to the rest and
// pairs up idle teams into new matches.
type Simulator struct {
	board   Scoreboard
	logger  *slog.Logger
	metrics *metrics.Recorder
	clock   clockwork.Clock
	cfg     Config

	rngMu sync.Mutex
	rng   *rand.Rand

	// startedAt maps a live match to the tick it was first seen on.
	ageMu     sync.Mutex
	startedAt map[uuid.UUID]int

	ticker   clockwork.Ticker
	done     chan struct{}
	finished chan struct{}
	stopOnce sync.Once
	startMu  sync.Mutex
	started  bool

	statusMu sync.RWMutex
	status   Status
}

// Status summarizes what the simulator has done so far.
type Status struct {
	Ticks     int
	Started   int
	Updated   int
	Finished  int
	Failures  int
	LastError string
	LastTick  time.Time
}

// New constructs a Simulator. A nil clock uses the real clock.
func New(board Scoreboard, logger *slog.Logger, recorder *metrics.Recorder, clock clockwork.Clock, cfg Config) *Simulator {
	if cfg.Interval <= 0 {
		cfg.Interval = defaultInterval
	}
	if cfg.FinishAfter <= 0 {
		cfg.FinishAfter = defaultFinishAfter
	}
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	if cfg.MaxGoals < 0 {
		cfg.MaxGoals = 0
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(clock.Now().UnixNano())
	}
	return &Simulator{
		board:     board,
		logger:    logger,
		metrics:   recorder,
		clock:     clock,
		cfg:       cfg,
		rng:       rand.New(rand.NewPCG(seed, seed>>1|1)),
		startedAt: make(map[uuid.UUID]int),
		done:      make(chan struct{}),
		finished:  make(chan struct{}),
	}
}

// Start runs the loop in the background until the context is cancelled, Stop
// is called or the configured number of ticks has run. Live matches are
// finished before Done is closed.
func (s *Simulator) Start(ctx context.Context) {
	s.startMu.Lock()
	if s.started {
		s.startMu.Unlock()
		return
	}
	s.started = true
	s.startMu.Unlock()

	s.ticker = s.clock.NewTicker(s.cfg.Interval)

	go func() {
		defer close(s.finished)
		logging.Info(s.logger, "simulator started", logging.FieldDurationMS, s.cfg.Interval.Milliseconds())

		s.Tick(ctx)
		for !s.exhausted() {
			select {
			case <-ctx.Done():
				s.ticker.Stop()
				logging.Info(s.logger, "simulator stopped")
				return
			case <-s.done:
				s.ticker.Stop()
				s.drain(context.WithoutCancel(ctx))
				logging.Info(s.logger, "simulator stopped")
				return
			case <-s.ticker.Chan():
				s.Tick(ctx)
			}
		}
		s.ticker.Stop()
		s.drain(ctx)
		logging.Info(s.logger, "simulator completed", logging.FieldTick, s.Status().Ticks)
	}()
}

// Stop halts the loop and waits for it to wind down or for ctx to expire.
func (s *Simulator) Stop(ctx context.Context) error {
	s.stopOnce.Do(func() {
		close(s.done)
	})
	s.startMu.Lock()
	started := s.started
	s.startMu.Unlock()
	if !started {
		return nil
	}
	select {
	case <-s.finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done is closed once a started simulator has exited.
func (s *Simulator) Done() <-chan struct{} {
	return s.finished
}

// Tick runs one simulation step.
func (s *Simulator) Tick(ctx context.Context) {
	begin := s.clock.Now()
	tick := s.nextTick(begin)
	logger := s.logger
	if logger != nil {
		logger = logger.With(slog.Int(logging.FieldTick, tick))
	}

	var counts tickCounts
	live, err := s.board.OngoingMatches(ctx)
	if err != nil {
		s.fail(logger, "list ongoing matches failed", err)
		return
	}

	g := s.group()
	for _, m := range live {
		if s.age(m.ID, tick) >= s.cfg.FinishAfter {
			g.Go(func() error {
				s.finish(ctx, logger, m, &counts)
				return nil
			})
			continue
		}
		home, visitor := s.goals(), s.goals()
		if home == 0 && visitor == 0 {
			continue
		}
		g.Go(func() error {
			s.update(ctx, logger, m, m.Score.Home+home, m.Score.Visitor+visitor, &counts)
			return nil
		})
	}
	_ = g.Wait()

	available, err := s.board.AvailableTeams(ctx)
	if err != nil {
		s.fail(logger, "list available teams failed", err)
		return
	}
	s.shuffle(available)
	g = s.group()
	for i := 0; i+1 < len(available); i += 2 {
		home, visitor := available[i], available[i+1]
		g.Go(func() error {
			s.start(ctx, logger, home, visitor, tick, &counts)
			return nil
		})
	}
	_ = g.Wait()

	elapsed := s.clock.Since(begin)
	s.metrics.RecordSimulationTick(elapsed)
	s.recordCounts(&counts)
	logging.Debug(logger, "simulation tick",
		"started", counts.started.Load(),
		"updated", counts.updated.Load(),
		"finished", counts.finished.Load(),
		logging.FieldDurationMS, elapsed.Milliseconds(),
	)
}

// Status returns a snapshot of the simulator's progress.
func (s *Simulator) Status() Status {
	s.statusMu.RLock()
	defer s.statusMu.RUnlock()
	return s.status
}

type tickCounts struct {
	started, updated, finished, failures atomic.Int64
	lastErr                              atomic.Value
}

func (s *Simulator) start(ctx context.Context, logger *slog.Logger, home, visitor teams.Team, tick int, counts *tickCounts) {
	m, err := s.board.StartMatch(ctx, home.ID, visitor.ID)
	if err != nil {
		counts.fail(err)
		logging.Warn(logger, "simulated start failed", "error", err)
		return
	}
	s.ageMu.Lock()
	s.startedAt[m.ID] = tick
	s.ageMu.Unlock()
	counts.started.Add(1)
}

func (s *Simulator) update(ctx context.Context, logger *slog.Logger, m matches.Match, home, visitor int, counts *tickCounts) {
	if _, err := s.board.UpdateMatch(ctx, m.ID, home, visitor); err != nil {
		counts.fail(err)
		logging.Warn(logger, "simulated update failed", logging.FieldMatchID, m.ID.String(), "error", err)
		return
	}
	counts.updated.Add(1)
}

func (s *Simulator) finish(ctx context.Context, logger *slog.Logger, m matches.Match, counts *tickCounts) {
	err := s.board.FinishMatch(ctx, m.ID)
	s.ageMu.Lock()
	delete(s.startedAt, m.ID)
	s.ageMu.Unlock()
	if err != nil {
		counts.fail(err)
		logging.Warn(logger, "simulated finish failed", logging.FieldMatchID, m.ID.String(), "error", err)
		return
	}
	counts.finished.Add(1)
}

// drain finishes every match still live.
func (s *Simulator) drain(ctx context.Context) {
	live, err := s.board.OngoingMatches(ctx)
	if err != nil {
		s.fail(s.logger, "list ongoing matches failed", err)
		return
	}
	var counts tickCounts
	g := s.group()
	for _, m := range live {
		g.Go(func() error {
			s.finish(ctx, s.logger, m, &counts)
			return nil
		})
	}
	_ = g.Wait()
	s.recordCounts(&counts)
	logging.Info(s.logger, "simulator drained", logging.FieldCount, counts.finished.Load())
}

func (s *Simulator) group() *errgroup.Group {
	g := &errgroup.Group{}
	g.SetLimit(s.cfg.Workers)
	return g
}

// age reports how many ticks a match has been live. Matches started outside
// the simulator count from the first tick they are seen on.
func (s *Simulator) age(id uuid.UUID, tick int) int {
	s.ageMu.Lock()
	defer s.ageMu.Unlock()
	first, ok := s.startedAt[id]
	if !ok {
		s.startedAt[id] = tick
		return 0
	}
	return tick - first
}

func (s *Simulator) goals() int {
	if s.cfg.MaxGoals == 0 {
		return 0
	}
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return s.rng.IntN(s.cfg.MaxGoals + 1)
}

func (s *Simulator) shuffle(ts []teams.Team) {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	s.rng.Shuffle(len(ts), func(i, j int) { ts[i], ts[j] = ts[j], ts[i] })
}

func (s *Simulator) nextTick(at time.Time) int {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	s.status.Ticks++
	s.status.LastTick = at
	return s.status.Ticks
}

func (s *Simulator) exhausted() bool {
	if s.cfg.Ticks <= 0 {
		return false
	}
	return s.Status().Ticks >= s.cfg.Ticks
}

func (s *Simulator) recordCounts(c *tickCounts) {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	s.status.Started += int(c.started.Load())
	s.status.Updated += int(c.updated.Load())
	s.status.Finished += int(c.finished.Load())
	s.status.Failures += int(c.failures.Load())
	if msg, ok := c.lastErr.Load().(string); ok {
		s.status.LastError = msg
	}
}

func (s *Simulator) fail(logger *slog.Logger, msg string, err error) {
	logging.Error(logger, msg, err)
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	s.status.Failures++
	s.status.LastError = err.Error()
}

func (c *tickCounts) fail(err error) {
	c.failures.Add(1)
	c.lastErr.Store(err.Error())
}
