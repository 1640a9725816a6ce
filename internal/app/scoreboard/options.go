package scoreboard

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/preston-bernstein/scoreboard-service/internal/metrics"
)

// Option customizes a Service.
type Option func(*Service)

// WithClock sets the clock used to stamp matches started without an explicit time.
func WithClock(clock clockwork.Clock) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithIDGenerator overrides how new match ids are produced.
func WithIDGenerator(gen func() uuid.UUID) Option {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// WithLogger sets the fallback logger used when the context carries none.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(rec *metrics.Recorder) Option {
	return func(s *Service) {
		s.metrics = rec
	}
}
