package store

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/preston-bernstein/scoreboard-service/internal/domain"
	"github.com/preston-bernstein/scoreboard-service/internal/domain/matches"
)

const resourceMatch = "match"

// OngoingMatches keeps the live state of every started, unfinished match.
// Each operation holds the lock for its whole read-modify-write, so a score
// update and a removal on the same id never interleave.
type OngoingMatches struct {
	mu      sync.RWMutex
	matches map[uuid.UUID]matches.Match
}

// NewOngoingMatches constructs an empty registry.
func NewOngoingMatches() *OngoingMatches {
	return &OngoingMatches{
		matches: make(map[uuid.UUID]matches.Match),
	}
}

// Insert adds a match keyed by its id, failing with ErrAlreadyExists on reuse.
func (o *OngoingMatches) Insert(m matches.Match) (matches.Match, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, ok := o.matches[m.ID]; ok {
		return matches.Match{}, domain.AlreadyExists(resourceMatch, m.ID.String())
	}
	o.matches[m.ID] = m
	return m, nil
}

// UpdateScore replaces the stored score. The stored value is unchanged when
// the match is missing or either score is negative.
func (o *OngoingMatches) UpdateScore(id uuid.UUID, home, visitor int) (matches.Match, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	current, ok := o.matches[id]
	if !ok {
		return matches.Match{}, domain.NotFound(resourceMatch, id.String())
	}
	next, err := current.WithScore(home, visitor)
	if err != nil {
		return matches.Match{}, err
	}
	o.matches[id] = next
	return next, nil
}

// Remove deletes and returns the match. Exactly one of several racing callers
// gets the match; the others get ErrNotFound.
func (o *OngoingMatches) Remove(id uuid.UUID) (matches.Match, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	m, ok := o.matches[id]
	if !ok {
		return matches.Match{}, domain.NotFound(resourceMatch, id.String())
	}
	delete(o.matches, id)
	return m, nil
}

// Get retrieves a live match by id.
func (o *OngoingMatches) Get(id uuid.UUID) (matches.Match, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	m, ok := o.matches[id]
	return m, ok
}

// Count returns the number of ongoing matches.
func (o *OngoingMatches) Count() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.matches)
}

// List returns a copy of the ongoing matches ordered by start time.
func (o *OngoingMatches) List() []matches.Match {
	o.mu.RLock()
	result := make([]matches.Match, 0, len(o.matches))
	for _, m := range o.matches {
		result = append(result, m)
	}
	o.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if !result[i].StartTime.Equal(result[j].StartTime) {
			return result[i].StartTime.Before(result[j].StartTime)
		}
		return result[i].ID.String() < result[j].ID.String()
	})
	return result
}
