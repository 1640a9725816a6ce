package metrics

import (
	"errors"
	"sync"
	"time"

	"github.com/preston-bernstein/scoreboard-service/internal/domain"
)

type operationStats struct {
	calls       int
	errors      int
	outcomes    map[string]int
	lastLatency time.Duration
}

// Recorder captures lightweight, in-memory metrics about scoreboard operations
// and mirrors them to OpenTelemetry instruments when configured.
type Recorder struct {
	mu              sync.Mutex
	stats           map[string]*operationStats
	ongoing         int
	releaseFailures int
	ticks           int
	otel            *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		stats: make(map[string]*operationStats),
		otel:  otel,
	}
}

// OutcomeOf maps an operation error to its outcome label.
func OutcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, domain.ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, domain.ErrInvalidArgument):
		return OutcomeInvalidArgument
	case errors.Is(err, domain.ErrAlreadyExists):
		return OutcomeAlreadyExists
	default:
		return OutcomeError
	}
}

// RecordOperation counts a scoreboard operation and stores its latency.
func (r *Recorder) RecordOperation(op string, duration time.Duration, err error) {
	if r == nil {
		return
	}
	outcome := OutcomeOf(err)

	r.mu.Lock()
	stats := r.ensureStatsLocked(op)
	stats.calls++
	stats.outcomes[outcome]++
	stats.lastLatency = duration
	if err != nil {
		stats.errors++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordOperation(op, outcome, duration)
	}
}

// RecordOngoingDelta moves the ongoing-matches gauge by delta.
func (r *Recorder) RecordOngoingDelta(delta int) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.ongoing += delta
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordOngoing(delta)
	}
}

// RecordReleaseFailure counts a team that could not be returned to the pool.
func (r *Recorder) RecordReleaseFailure() {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.releaseFailures++
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordReleaseFailure()
	}
}

// RecordSimulationTick tracks a simulator tick and its duration.
func (r *Recorder) RecordSimulationTick(duration time.Duration) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.ticks++
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordTick(duration)
	}
}

// Snapshot is a copy of the current stats for one operation.
type Snapshot struct {
	Calls       int
	Errors      int
	Outcomes    map[string]int
	LastLatency time.Duration
}

// Snapshot returns a copy of the current stats for the operation.
func (r *Recorder) Snapshot(op string) Snapshot {
	if r == nil {
		return Snapshot{Outcomes: map[string]int{}}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := Snapshot{Outcomes: map[string]int{}}
	stats, ok := r.stats[op]
	if !ok {
		return snap
	}
	snap.Calls = stats.calls
	snap.Errors = stats.errors
	snap.LastLatency = stats.lastLatency
	for k, v := range stats.outcomes {
		snap.Outcomes[k] = v
	}
	return snap
}

// OperationCalls returns the total attempts recorded for an operation.
func (r *Recorder) OperationCalls(op string) int {
	return r.Snapshot(op).Calls
}

// OperationErrors returns the failed attempts recorded for an operation.
func (r *Recorder) OperationErrors(op string) int {
	return r.Snapshot(op).Errors
}

// Ongoing returns the current value of the ongoing-matches gauge.
func (r *Recorder) Ongoing() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ongoing
}

// ReleaseFailures returns how many team releases failed.
func (r *Recorder) ReleaseFailures() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.releaseFailures
}

// SimulationTicks returns how many simulator ticks were recorded.
func (r *Recorder) SimulationTicks() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ticks
}

func (r *Recorder) ensureStatsLocked(op string) *operationStats {
	stats, ok := r.stats[op]
	if !ok {
		stats = &operationStats{outcomes: make(map[string]int)}
		r.stats[op] = stats
	}
	return stats
}
