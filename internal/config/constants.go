package config

import "time"

const (
	envLogLevel        = "LOG_LEVEL"
	envLogFormat       = "LOG_FORMAT"
	envRosterFile      = "ROSTER_FILE"
	envSimTickInterval = "SIM_TICK_INTERVAL"
	envSimTicks        = "SIM_TICKS"
	envSimMaxGoals     = "SIM_MAX_GOALS"
	envSimFinishAfter  = "SIM_FINISH_AFTER"
	envSimWorkers      = "SIM_WORKERS"
	envMetricsPort     = "METRICS_PORT"
	envMetricsOn       = "METRICS_ENABLED"
	envOtelEndpoint    = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService     = "OTEL_SERVICE_NAME"
	envOtelInsecure    = "OTEL_EXPORTER_OTLP_INSECURE"

	defaultLogLevel   = "info"
	defaultLogFormat  = "text"
	defaultRosterFile = "data/roster.yaml"

	defaultSimTickInterval = 500 * Duration(time.Millisecond)
	defaultSimTicks        = 20
	// Goals added per match per tick are drawn from [0, maxGoals].
	defaultSimMaxGoals    = 1
	defaultSimFinishAfter = 6
	defaultSimWorkers     = 4

	// Metrics stay off by default; the CLI is short-lived.
	defaultMetricsOn   = false
	defaultMetricsPort = "9090"
	defaultServiceName = "scoreboard-service"
)
