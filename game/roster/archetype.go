package roster

import (
	"fmt"

	"github.com/wricardo/gridtactics/game/engine"
)

// AbilitySpec describes one ability of an archetype
type AbilitySpec struct {
	Kind     engine.AbilityKind `yaml:"kind" json:"kind"`
	Distance int                `yaml:"distance,omitempty" json:"distance,omitempty"`
	Radius   int                `yaml:"radius,omitempty" json:"radius,omitempty"`
	Damage   int                `yaml:"damage,omitempty" json:"damage,omitempty"`
	Amount   int                `yaml:"amount,omitempty" json:"amount,omitempty"`
	Summon   string             `yaml:"summon,omitempty" json:"summon,omitempty"`
	Terrain  []engine.TileType  `yaml:"terrain,omitempty" json:"terrain,omitempty"`
}

// Archetype is a unit template
type Archetype struct {
	Name          string            `yaml:"name" json:"name"`
	Team          string            `yaml:"team" json:"team"`
	MaxHealth     int               `yaml:"max_health" json:"max_health"`
	Difficulty    int               `yaml:"difficulty,omitempty" json:"difficulty,omitempty"`
	MoveAllowance int               `yaml:"move_allowance,omitempty" json:"move_allowance,omitempty"`
	Terrain       []engine.TileType `yaml:"terrain,omitempty" json:"terrain,omitempty"`
	Abilities     []AbilitySpec     `yaml:"abilities" json:"abilities"`
}

// TeamValue returns the parsed team
func (a Archetype) TeamValue() (engine.Team, error) {
	return engine.ParseTeam(a.Team)
}

// Allowance returns the per-turn move allowance; an unset allowance means one
// move per turn.
func (a Archetype) Allowance() int {
	if a.MoveAllowance <= 0 {
		return 1
	}
	return a.MoveAllowance
}

func (a Archetype) validate() error {
	if a.Name == "" {
		return fmt.Errorf("archetype name is required")
	}
	team, err := a.TeamValue()
	if err != nil {
		return fmt.Errorf("archetype %s: %w", a.Name, err)
	}
	if a.MaxHealth < 1 {
		return fmt.Errorf("archetype %s: max_health must be positive, got %d", a.Name, a.MaxHealth)
	}
	if team == engine.TeamEnemy && a.Difficulty < 1 {
		return fmt.Errorf("archetype %s: enemy difficulty must be positive, got %d", a.Name, a.Difficulty)
	}
	if a.MoveAllowance < 0 {
		return fmt.Errorf("archetype %s: move_allowance must not be negative", a.Name)
	}
	for _, t := range a.Terrain {
		if _, err := engine.ParseTileType(string(t)); err != nil {
			return fmt.Errorf("archetype %s: %w", a.Name, err)
		}
	}
	return nil
}

// Build creates a fresh, unbound ability from spec. spawner is only used by
// summon abilities.
func Build(spec AbilitySpec, spawner engine.Spawner) (engine.Ability, error) {
	switch spec.Kind {
	case engine.KindStep:
		return ability(engine.NewStepMove(spec.Distance, spec.Terrain...))
	case engine.KindTeleport:
		return ability(engine.NewTeleport(spec.Distance, spec.Terrain...))
	case engine.KindMelee:
		return ability(engine.NewMelee(spec.Damage))
	case engine.KindLob:
		return ability(engine.NewLob(spec.Radius, spec.Damage))
	case engine.KindSmash:
		return ability(engine.NewSmash(spec.Damage))
	case engine.KindSquareHeal:
		return ability(engine.NewSquareHeal(spec.Radius, spec.Amount))
	case engine.KindSelfHeal:
		return ability(engine.NewSelfHeal(spec.Amount))
	case engine.KindSummon:
		return ability(engine.NewSummon(spec.Radius, spec.Summon, spawner))
	}
	return nil, fmt.Errorf("%w: unknown ability kind %q", engine.ErrUnsupportedAbilityUse, spec.Kind)
}

func ability[T engine.Ability](a T, err error) (engine.Ability, error) {
	if err != nil {
		return nil, err
	}
	return a, nil
}
