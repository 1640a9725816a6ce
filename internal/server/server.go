package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/scoreboard-service/internal/app/scoreboard"
	"github.com/preston-bernstein/scoreboard-service/internal/config"
	"github.com/preston-bernstein/scoreboard-service/internal/domain/teams"
	"github.com/preston-bernstein/scoreboard-service/internal/logging"
	"github.com/preston-bernstein/scoreboard-service/internal/metrics"
	"github.com/preston-bernstein/scoreboard-service/internal/roster"
	"github.com/preston-bernstein/scoreboard-service/internal/simulation"
	"github.com/preston-bernstein/scoreboard-service/internal/store"
)

var metricsSetup = metrics.Setup

// Server hosts a scoreboard, the simulator driving it and the optional
// metrics endpoint.
type Server struct {
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	service       *scoreboard.Service
	simulator     Simulator
	metricsServer httpServer
	metricsStop   func(context.Context) error
}

// New builds a server whose team pool is seeded with the given roster.
func New(cfg config.Config, logger *slog.Logger, ts []teams.Team) (*Server, error) {
	return newServerWithMetrics(cfg, logger, ts, nil)
}

func newServerWithMetrics(cfg config.Config, logger *slog.Logger, ts []teams.Team, recorder *metrics.Recorder) (*Server, error) {
	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger, recorder)

	svc, err := buildService(ts, logger, recorder)
	if err != nil {
		if metricsShutdown != nil {
			_ = metricsShutdown(context.Background())
		}
		return nil, err
	}
	sim := simulation.New(svc, logger, recorder, nil, simulationConfig(cfg.Simulation))

	return &Server{
		cfg:           cfg,
		logger:        logger,
		metrics:       recorder,
		service:       svc,
		simulator:     sim,
		metricsServer: metricsSrv,
		metricsStop:   metricsShutdown,
	}, nil
}

// newServerWithDeps is used for testing to inject custom components.
func newServerWithDeps(cfg config.Config, logger *slog.Logger, svc *scoreboard.Service, sim Simulator, metricsSrv httpServer) *Server {
	return &Server{
		cfg:           cfg,
		logger:        logger,
		service:       svc,
		simulator:     sim,
		metricsServer: metricsSrv,
	}
}

func buildService(ts []teams.Team, logger *slog.Logger, recorder *metrics.Recorder) (*scoreboard.Service, error) {
	pool := store.NewTeamPool()
	if _, err := roster.Seed(pool, ts); err != nil {
		return nil, err
	}
	logging.Info(logger, "team pool seeded", logging.FieldCount, pool.Count())

	return scoreboard.NewService(pool, store.NewOngoingMatches(), store.NewFinishedArchive(),
		scoreboard.WithLogger(logger),
		scoreboard.WithRecorder(recorder),
	), nil
}

func simulationConfig(cfg config.SimulationConfig) simulation.Config {
	return simulation.Config{
		Interval:    cfg.TickInterval,
		Ticks:       cfg.Ticks,
		MaxGoals:    cfg.MaxGoals,
		FinishAfter: cfg.FinishAfter,
		Workers:     cfg.Workers,
	}
}

// Run starts the simulator and metrics endpoint, then waits for the simulator
// to finish or for ctx to be cancelled before shutting down gracefully. Live
// matches are finished during shutdown either way.
func (s *Server) Run(ctx context.Context) {
	s.startMetrics()
	s.simulator.Start(context.WithoutCancel(ctx))

	select {
	case <-ctx.Done():
		logging.Info(s.logger, "shutdown signal received")
	case <-s.simulator.Done():
		logging.Info(s.logger, "simulation finished")
	}

	s.gracefulShutdown()
}

// Service exposes the scoreboard so callers can read results after Run.
func (s *Server) Service() *scoreboard.Service {
	return s.service
}

// Status reports the simulator's progress.
func (s *Server) Status() simulation.Status {
	return s.simulator.Status()
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	launchServer("metrics", s.metricsServer, s.logger)
}

func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.simulator.Stop(shutdownCtx); err != nil {
		logging.Error(s.logger, "failed to stop simulator", err)
	}

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics shutdown failed", "error", err)
		}
	}

	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics server shutdown failed", "error", err)
		}
	}

	logging.Info(s.logger, "shutdown complete")
}

func buildMetrics(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*metrics.Recorder, httpServer, func(context.Context) error) {
	if recorder != nil {
		return recorder, nil, nil
	}

	recCfg := metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		logging.Warn(logger, "metrics setup failed, continuing without telemetry", "err", err)
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && recCfg.Enabled {
		metricsSrv = newMetricsHTTPServer(recCfg.Port, handler)
	}

	return rec, metricsSrv, shutdown
}

func launchServer(name string, srv httpServer, logger *slog.Logger) {
	go func() {
		logging.Info(logger, "starting "+name+" server", slog.String("addr", srv.Addr()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Warn(logger, name+" server failed", "error", err)
		}
	}()
}
