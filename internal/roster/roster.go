package roster

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/preston-bernstein/scoreboard-service/internal/domain"
	"github.com/preston-bernstein/scoreboard-service/internal/domain/teams"
)

//go:embed default.yaml
var defaultRoster []byte

// namespace derives stable team ids from names when a roster entry has no id.
var namespace = uuid.MustParse("6f1c2f5e-3b8a-4f57-9d2e-0c1b7a4e8d10")

// Releaser accepts teams into the pool of available teams.
type Releaser interface {
	Release(team teams.Team) (teams.Team, error)
}

type file struct {
	Teams []entry `yaml:"teams"`
}

type entry struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// Default returns the built-in roster.
func Default() ([]teams.Team, error) {
	return Parse(defaultRoster)
}

// LoadFile reads a YAML roster from disk.
func LoadFile(path string) ([]teams.Team, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster %s: %w", path, err)
	}
	ts, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse roster %s: %w", path, err)
	}
	return ts, nil
}

// Parse decodes a roster document. Entries without an id get one derived from
// the team name, so the same file always yields the same ids.
func Parse(data []byte) ([]teams.Team, error) {
	var doc file
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, domain.InvalidArgument("roster", err.Error())
	}

	out := make([]teams.Team, 0, len(doc.Teams))
	seen := make(map[uuid.UUID]struct{}, len(doc.Teams))
	for i, e := range doc.Teams {
		name := strings.TrimSpace(e.Name)
		id, err := entryID(e.ID, name)
		if err != nil {
			return nil, domain.InvalidArgument("roster", fmt.Sprintf("entry %d: invalid id %q", i, e.ID))
		}
		t, err := teams.NewTeam(id, name)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		if _, dup := seen[t.ID]; dup {
			return nil, domain.AlreadyExists("team", t.ID.String())
		}
		seen[t.ID] = struct{}{}
		out = append(out, t)
	}
	return out, nil
}

func entryID(raw, name string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.NewSHA1(namespace, []byte(strings.ToLower(name))), nil
	}
	return uuid.Parse(raw)
}

// Seed releases every team into the pool. It keeps going past failures and
// returns how many teams were added alongside the joined errors.
func Seed(pool Releaser, ts []teams.Team) (int, error) {
	var (
		added int
		errs  []error
	)
	for _, t := range ts {
		if _, err := pool.Release(t); err != nil {
			errs = append(errs, err)
			continue
		}
		added++
	}
	return added, errors.Join(errs...)
}
