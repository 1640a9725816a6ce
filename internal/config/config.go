package config

import "github.com/joho/godotenv"

// Config holds runtime configuration for the scoreboard CLI.
type Config struct {
	LogLevel   string
	LogFormat  string
	RosterFile string
	Simulation SimulationConfig
	Metrics    MetricsConfig
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is applied first when present; real
// environment variables win over it.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		LogLevel:   envOrDefault(envLogLevel, defaultLogLevel),
		LogFormat:  envOrDefault(envLogFormat, defaultLogFormat),
		RosterFile: envOrDefault(envRosterFile, defaultRosterFile),
		Simulation: loadSimulation(),
		Metrics:    loadMetrics(),
	}
}
