package config

import "time"

// SimulationConfig controls the match simulator.
type SimulationConfig struct {
	TickInterval time.Duration
	Ticks        int // number of ticks before the simulator stops
	MaxGoals     int // upper bound of goals added per team per tick
	FinishAfter  int // ticks a match stays live before it is finished
	Workers      int // concurrent goroutines driving each tick
}

func loadSimulation() SimulationConfig {
	return SimulationConfig{
		TickInterval: durationEnvOrDefault(envSimTickInterval, defaultSimTickInterval),
		Ticks:        intEnvOrDefault(envSimTicks, defaultSimTicks),
		MaxGoals:     intEnvOrDefault(envSimMaxGoals, defaultSimMaxGoals),
		FinishAfter:  intEnvOrDefault(envSimFinishAfter, defaultSimFinishAfter),
		Workers:      intEnvOrDefault(envSimWorkers, defaultSimWorkers),
	}
}
