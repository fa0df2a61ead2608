package engine

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
)

// GameObject is anything that can be placed on a tile.
type GameObject interface {
	ID() ObjectID
	Kind() ObjectKind
	Name() string
	Position() Position
	OnBoard() bool
	BoardID() uuid.UUID
	Health() *Health
	base() *placement
}

// placement records where an object lives. An object joins a board's arena the
// first time it is added to that board and keeps its ID after it is removed.
type placement struct {
	id         ObjectID
	board      uuid.UUID
	pos        Position
	registered bool
}

func newPlacement() placement {
	return placement{id: NoTarget, pos: OffBoard}
}

func (p *placement) base() *placement { return p }

// ID returns the arena index, or NoTarget before the object joins a board
func (p *placement) ID() ObjectID { return p.id }

// BoardID returns the identity of the board whose arena holds the object
func (p *placement) BoardID() uuid.UUID { return p.board }

// Position returns the current tile, or OffBoard when detached
func (p *placement) Position() Position { return p.pos }

// OnBoard reports whether the object currently sits on a tile
func (p *placement) OnBoard() bool { return p.pos != OffBoard }

// Unit is a placeable, acting GameObject.
type Unit struct {
	placement
	name           string
	team           Team
	health         *Health
	terrain        map[TileType]bool
	abilities      []Ability
	movesRemaining int
	moveAllowance  int
}

// NewUnit creates an off-board unit at full health. With no terrain given the
// unit can only stand on solid ground.
func NewUnit(name string, team Team, maxHealth int, terrain ...TileType) (*Unit, error) {
	h, err := NewHealth(maxHealth)
	if err != nil {
		return nil, fmt.Errorf("unit %s: %w", name, err)
	}
	if len(terrain) == 0 {
		terrain = []TileType{Solid}
	}
	u := &Unit{
		placement:     newPlacement(),
		name:          name,
		team:          team,
		health:        h,
		terrain:       make(map[TileType]bool, len(terrain)),
		moveAllowance: 1,
	}
	for _, t := range terrain {
		u.terrain[t] = true
	}
	return u, nil
}

func (u *Unit) Kind() ObjectKind { return KindUnit }
func (u *Unit) Name() string     { return u.name }
func (u *Unit) Team() Team       { return u.team }
func (u *Unit) Health() *Health  { return u.health }

// CanTraverse reports whether the unit may stand on tile type t
func (u *Unit) CanTraverse(t TileType) bool {
	return u.terrain[t]
}

// Terrain returns the traversable tile types in declaration order
func (u *Unit) Terrain() []TileType {
	var out []TileType
	for _, t := range TileTypes {
		if u.terrain[t] {
			out = append(out, t)
		}
	}
	return out
}

// Hostile reports whether other fights on the opposing team
func (u *Unit) Hostile(other *Unit) bool {
	return other != nil && other.team != u.team
}

// AddAbility binds a to the unit. An ability belongs to one unit for life.
func (u *Unit) AddAbility(a Ability) error {
	if a == nil {
		return fmt.Errorf("%w: nil ability", ErrInvalidParameter)
	}
	if slices.Contains(u.abilities, a) {
		return fmt.Errorf("%w: %s on %s", ErrDuplicateAbility, a.Name(), u.name)
	}
	if !a.Teams().Allows(u.team) {
		return fmt.Errorf("%w: %s cannot be held by %s unit %s", ErrUnsupportedAbilityUse, a.Name(), u.team, u.name)
	}
	if err := a.bind(u); err != nil {
		return err
	}
	u.abilities = append(u.abilities, a)
	return nil
}

// Abilities returns the unit's abilities in the order they were added
func (u *Unit) Abilities() []Ability {
	return slices.Clone(u.abilities)
}

// Ability returns the i-th ability
func (u *Unit) Ability(i int) (Ability, bool) {
	if i < 0 || i >= len(u.abilities) {
		return nil, false
	}
	return u.abilities[i], true
}

// MovesRemaining returns how many moves the unit has left this turn
func (u *Unit) MovesRemaining() int { return u.movesRemaining }

// SetMovesRemaining overrides the counter; negative values clamp to zero
func (u *Unit) SetMovesRemaining(n int) {
	if n < 0 {
		n = 0
	}
	u.movesRemaining = n
}

// MoveAllowance returns the per-turn move allowance
func (u *Unit) MoveAllowance() int { return u.moveAllowance }

// SetMoveAllowance changes the per-turn allowance
func (u *Unit) SetMoveAllowance(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: move allowance must not be negative, got %d", ErrInvalidParameter, n)
	}
	u.moveAllowance = n
	return nil
}

// ResetMoves refills the counter from the allowance
func (u *Unit) ResetMoves() { u.movesRemaining = u.moveAllowance }

// SpendMove consumes one move, reporting false when none were left
func (u *Unit) SpendMove() bool {
	if u.movesRemaining <= 0 {
		return false
	}
	u.movesRemaining--
	return true
}

// Obstacle is a static GameObject with its own health pool.
type Obstacle struct {
	placement
	size   SizeClass
	health *Health
}

// NewObstacle creates an off-board obstacle at full health
func NewObstacle(size SizeClass, maxHealth int) (*Obstacle, error) {
	h, err := NewHealth(maxHealth)
	if err != nil {
		return nil, fmt.Errorf("%s obstacle: %w", size, err)
	}
	return &Obstacle{placement: newPlacement(), size: size, health: h}, nil
}

func (o *Obstacle) Kind() ObjectKind { return KindObstacle }
func (o *Obstacle) Name() string     { return o.size.String() + " obstacle" }
func (o *Obstacle) Size() SizeClass  { return o.size }
func (o *Obstacle) Health() *Health  { return o.health }
