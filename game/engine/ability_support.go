package engine

import (
	"fmt"

	"github.com/zyedidia/generic/mapset"
)

// SquareHeal restores health to a friendly unit within a square radius,
// including the owner.
type SquareHeal struct {
	abilityBase
	radius int
	amount int
}

func NewSquareHeal(radius, amount int) (*SquareHeal, error) {
	if err := validateParameter("radius", radius); err != nil {
		return nil, err
	}
	if err := validateParameter("amount", amount); err != nil {
		return nil, err
	}
	return &SquareHeal{
		abilityBase: abilityBase{kind: KindSquareHeal, teams: AnyTeam},
		radius:      radius,
		amount:      amount,
	}, nil
}

func (a *SquareHeal) Radius() int { return a.radius }
func (a *SquareHeal) Amount() int { return a.amount }

func (a *SquareHeal) SetRadius(r int) error {
	if err := validateParameter("radius", r); err != nil {
		return err
	}
	a.radius = r
	return nil
}

func (a *SquareHeal) SetAmount(n int) error {
	if err := validateParameter("amount", n); err != nil {
		return err
	}
	a.amount = n
	return nil
}

func (a *SquareHeal) LegalTargets(b *Board) TargetSet {
	out := mapset.New[Position]()
	start, ok := a.origin(b)
	if !ok {
		return out
	}
	b.ForEachInSquare(start, a.radius, func(p Position, _ *Tile) {
		if u, ok := b.UnitAt(p); ok && !a.owner.Hostile(u) {
			out.Put(p)
		}
	})
	return out
}

func (a *SquareHeal) CreateMove(b *Board, dest Position, _ ObjectID) (*Move, error) {
	if err := checkTarget(a, b, dest); err != nil {
		return nil, err
	}
	u, _ := b.UnitAt(dest)
	return NewMove(a.kind, ChangeHealth{Target: u.ID(), Delta: a.amount}), nil
}

// SelfHeal restores the owner's health. Its only legal target is the owner's
// own cell.
type SelfHeal struct {
	abilityBase
	amount int
}

func NewSelfHeal(amount int) (*SelfHeal, error) {
	if err := validateParameter("amount", amount); err != nil {
		return nil, err
	}
	return &SelfHeal{
		abilityBase: abilityBase{kind: KindSelfHeal, teams: AnyTeam},
		amount:      amount,
	}, nil
}

func (a *SelfHeal) Amount() int { return a.amount }

func (a *SelfHeal) SetAmount(n int) error {
	if err := validateParameter("amount", n); err != nil {
		return err
	}
	a.amount = n
	return nil
}

func (a *SelfHeal) LegalTargets(b *Board) TargetSet {
	out := mapset.New[Position]()
	if start, ok := a.origin(b); ok {
		out.Put(start)
	}
	return out
}

// CreateMove ignores dest.
func (a *SelfHeal) CreateMove(b *Board, _ Position, _ ObjectID) (*Move, error) {
	if _, ok := a.origin(b); !ok {
		return nil, fmt.Errorf("%w: %s owner is not on the board", ErrUnsupportedAbilityUse, a.Name())
	}
	return NewMove(a.kind, ChangeHealth{Target: a.owner.ID(), Delta: a.amount}), nil
}

// Spawner builds fresh units by archetype name.
type Spawner interface {
	Spawn(archetype string) (*Unit, error)
	// Terrain lists the tile types a spawned unit can stand on. Empty means
	// solid ground only, as for NewUnit.
	Terrain(archetype string) []TileType
}

// Summon places a newly spawned unit on a free cell within a square radius
// whose terrain the spawned unit can stand on.
type Summon struct {
	abilityBase
	radius    int
	archetype string
	spawner   Spawner
}

func NewSummon(radius int, archetype string, spawner Spawner) (*Summon, error) {
	if err := validateParameter("radius", radius); err != nil {
		return nil, err
	}
	if archetype == "" || spawner == nil {
		return nil, fmt.Errorf("%w: summon needs an archetype and a spawner", ErrInvalidParameter)
	}
	return &Summon{
		abilityBase: abilityBase{kind: KindSummon, teams: EnemyOnly},
		radius:      radius,
		archetype:   archetype,
		spawner:     spawner,
	}, nil
}

func (a *Summon) Radius() int       { return a.radius }
func (a *Summon) Archetype() string { return a.archetype }

func (a *Summon) SetRadius(r int) error {
	if err := validateParameter("radius", r); err != nil {
		return err
	}
	a.radius = r
	return nil
}

func (a *Summon) LegalTargets(b *Board) TargetSet {
	out := mapset.New[Position]()
	start, ok := a.origin(b)
	if !ok {
		return out
	}
	terrain := newTerrainSet(a.spawner.Terrain(a.archetype))
	if terrain == nil {
		terrain = newTerrainSet([]TileType{Solid})
	}
	b.ForEachInSquare(start, a.radius, func(p Position, t *Tile) {
		if p != start && len(t.stack) == 0 && terrain.allows(t.typ) {
			out.Put(p)
		}
	})
	return out
}

func (a *Summon) CreateMove(b *Board, dest Position, _ ObjectID) (*Move, error) {
	if err := checkTarget(a, b, dest); err != nil {
		return nil, err
	}
	u, err := a.spawner.Spawn(a.archetype)
	if err != nil {
		return nil, fmt.Errorf("summon %s: %w", a.archetype, err)
	}
	return NewMove(a.kind, PlaceObject{Object: u, At: dest}), nil
}
