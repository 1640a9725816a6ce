package teams

import (
	"strings"

	"github.com/google/uuid"

	"github.com/preston-bernstein/scoreboard-service/internal/domain"
)

const resourceTeam = "team"

// Team is an immutable roster entry. Identity is the ID; two teams with the
// same name are still different teams.
type Team struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// NewTeam validates and builds a Team.
func NewTeam(id uuid.UUID, name string) (Team, error) {
	if id == uuid.Nil {
		return Team{}, domain.InvalidArgument(resourceTeam, "id is required")
	}
	if strings.TrimSpace(name) == "" {
		return Team{}, domain.InvalidArgument(resourceTeam, "name is required")
	}
	return Team{ID: id, Name: name}, nil
}

// IsZero reports whether the team was never constructed.
func (t Team) IsZero() bool {
	return t.ID == uuid.Nil
}
