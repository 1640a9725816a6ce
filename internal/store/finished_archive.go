package store

import (
	"sync"

	"github.com/preston-bernstein/scoreboard-service/internal/domain/matches"
)

// FinishedArchive is the append-only record of completed matches.
type FinishedArchive struct {
	mu      sync.RWMutex
	matches []matches.Match
}

// NewFinishedArchive constructs an empty archive.
func NewFinishedArchive() *FinishedArchive {
	return &FinishedArchive{}
}

// Append adds a match to the end of the archive.
func (a *FinishedArchive) Append(m matches.Match) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.matches = append(a.matches, m)
}

// List returns a snapshot copy in append order.
func (a *FinishedArchive) List() []matches.Match {
	a.mu.RLock()
	defer a.mu.RUnlock()

	result := make([]matches.Match, len(a.matches))
	copy(result, a.matches)
	return result
}

// Count returns the number of archived matches.
func (a *FinishedArchive) Count() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.matches)
}
