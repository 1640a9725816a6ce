package server

import (
	"context"

	"github.com/preston-bernstein/scoreboard-service/internal/simulation"
)

// Simulator defines the background driver hosted by the server.
type Simulator interface {
	Start(ctx context.Context)
	Stop(ctx context.Context) error
	Done() <-chan struct{}
	Status() simulation.Status
}
