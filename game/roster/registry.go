package roster

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wricardo/gridtactics/game/engine"
)

var ErrUnknownArchetype = errors.New("unknown archetype")

// File is the on-disk roster document
type File struct {
	Archetypes []Archetype `yaml:"archetypes"`
}

// Registry maps archetype names to templates. It is read-only after
// construction.
type Registry struct {
	archetypes map[string]Archetype
	order      []string
}

// NewRegistry validates archetypes and indexes them by name. Every ability
// spec is built once so bad parameters surface here rather than at spawn
// time.
func NewRegistry(archetypes ...Archetype) (*Registry, error) {
	r := &Registry{archetypes: make(map[string]Archetype, len(archetypes))}
	for _, a := range archetypes {
		if err := a.validate(); err != nil {
			return nil, err
		}
		if _, dup := r.archetypes[a.Name]; dup {
			return nil, fmt.Errorf("duplicate archetype %s", a.Name)
		}
		r.archetypes[a.Name] = a
		r.order = append(r.order, a.Name)
	}

	for _, name := range r.order {
		a := r.archetypes[name]
		for i, spec := range a.Abilities {
			if spec.Kind == engine.KindSummon {
				if _, ok := r.archetypes[spec.Summon]; !ok {
					return nil, fmt.Errorf("archetype %s ability %d: summon %q: %w", name, i, spec.Summon, ErrUnknownArchetype)
				}
			}
			if _, err := Build(spec, r); err != nil {
				return nil, fmt.Errorf("archetype %s ability %d: %w", name, i, err)
			}
		}
	}
	return r, nil
}

// LoadFile reads a YAML roster
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse roster %s: %w", path, err)
	}
	if len(f.Archetypes) == 0 {
		return nil, fmt.Errorf("roster %s defines no archetypes", path)
	}
	return NewRegistry(f.Archetypes...)
}

// Get returns the archetype called name
func (r *Registry) Get(name string) (Archetype, error) {
	a, ok := r.archetypes[name]
	if !ok {
		return Archetype{}, fmt.Errorf("%w: %s", ErrUnknownArchetype, name)
	}
	return a, nil
}

// Names returns every archetype name in declaration order
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Players returns the player archetypes in declaration order
func (r *Registry) Players() []Archetype {
	return r.byTeam(engine.TeamPlayer)
}

// Enemies returns the enemy archetypes in declaration order
func (r *Registry) Enemies() []Archetype {
	return r.byTeam(engine.TeamEnemy)
}

func (r *Registry) byTeam(team engine.Team) []Archetype {
	var out []Archetype
	for _, name := range r.order {
		a := r.archetypes[name]
		if t, _ := a.TeamValue(); t == team {
			out = append(out, a)
		}
	}
	return out
}

// Terrain returns the tile types units of the named archetype can stand on.
// Unknown archetypes report nil.
func (r *Registry) Terrain(name string) []engine.TileType {
	a, ok := r.archetypes[name]
	if !ok {
		return nil
	}
	return append([]engine.TileType(nil), a.Terrain...)
}

// Spawn creates a fresh off-board unit from the named archetype with its
// abilities bound and its move counter full.
func (r *Registry) Spawn(name string) (*engine.Unit, error) {
	a, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	team, err := a.TeamValue()
	if err != nil {
		return nil, err
	}

	u, err := engine.NewUnit(a.Name, team, a.MaxHealth, a.Terrain...)
	if err != nil {
		return nil, err
	}
	if err := u.SetMoveAllowance(a.Allowance()); err != nil {
		return nil, err
	}
	for i, spec := range a.Abilities {
		ab, err := Build(spec, r)
		if err != nil {
			return nil, fmt.Errorf("spawn %s ability %d: %w", name, i, err)
		}
		if err := u.AddAbility(ab); err != nil {
			return nil, fmt.Errorf("spawn %s: %w", name, err)
		}
	}
	u.ResetMoves()
	return u, nil
}
