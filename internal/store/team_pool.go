package store

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/preston-bernstein/scoreboard-service/internal/domain"
	"github.com/preston-bernstein/scoreboard-service/internal/domain/teams"
)

// TeamPool holds the teams that are free to start a match. Absence from the
// pool means the team is reserved by exactly one ongoing match.
type TeamPool struct {
	mu    sync.RWMutex
	teams map[uuid.UUID]teams.Team
}

// NewTeamPool constructs an empty TeamPool.
func NewTeamPool() *TeamPool {
	return &TeamPool{
		teams: make(map[uuid.UUID]teams.Team),
	}
}

// Release puts a team back into the pool. It fails with ErrAlreadyExists when
// a team with the same id is already available.
func (p *TeamPool) Release(team teams.Team) (teams.Team, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.teams[team.ID]; ok {
		return teams.Team{}, domain.AlreadyExists("team", team.ID.String())
	}
	p.teams[team.ID] = team
	return team, nil
}

// Reserve removes and returns the team for id. Only one concurrent caller can
// win a given id; the rest get false.
func (p *TeamPool) Reserve(id uuid.UUID) (teams.Team, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	team, ok := p.teams[id]
	if !ok {
		return teams.Team{}, false
	}
	delete(p.teams, id)
	return team, true
}

// Count returns the number of available teams.
func (p *TeamPool) Count() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.teams)
}

// List returns a copy of the available teams sorted by name, then id.
func (p *TeamPool) List() []teams.Team {
	p.mu.RLock()
	result := make([]teams.Team, 0, len(p.teams))
	for _, t := range p.teams {
		result = append(result, t)
	}
	p.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID.String() < result[j].ID.String()
	})
	return result
}
