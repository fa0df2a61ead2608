package engine

import (
	"fmt"

	"github.com/zyedidia/generic/mapset"
)

// Strike is a square-range attack. Melee, Lob and Smash are its variants.
type Strike struct {
	abilityBase
	radius int
	damage int
	from   terrainSet
}

// NewMelee hits any damageable thing next to the owner. It cannot be used
// while standing in liquid.
func NewMelee(damage int) (*Strike, error) {
	if err := validateParameter("damage", damage); err != nil {
		return nil, err
	}
	return &Strike{
		abilityBase: abilityBase{kind: KindMelee, teams: AnyTeam},
		radius:      1,
		damage:      damage,
		from:        newTerrainSet([]TileType{Solid, Empty}),
	}, nil
}

// NewLob fires a projectile at any damageable thing within radius.
func NewLob(radius, damage int) (*Strike, error) {
	if err := validateParameter("radius", radius); err != nil {
		return nil, err
	}
	if err := validateParameter("damage", damage); err != nil {
		return nil, err
	}
	return &Strike{
		abilityBase: abilityBase{kind: KindLob, teams: AnyTeam},
		radius:      radius,
		damage:      damage,
	}, nil
}

// NewSmash damages everything on an adjacent tile. The owner must stand on
// solid ground.
func NewSmash(damage int) (*Strike, error) {
	if err := validateParameter("damage", damage); err != nil {
		return nil, err
	}
	return &Strike{
		abilityBase: abilityBase{kind: KindSmash, teams: AnyTeam},
		radius:      1,
		damage:      damage,
		from:        newTerrainSet([]TileType{Solid}),
	}, nil
}

func (a *Strike) Radius() int { return a.radius }
func (a *Strike) Damage() int { return a.damage }

func (a *Strike) SetRadius(r int) error {
	if err := validateParameter("radius", r); err != nil {
		return err
	}
	a.radius = r
	return nil
}

func (a *Strike) SetDamage(d int) error {
	if err := validateParameter("damage", d); err != nil {
		return err
	}
	a.damage = d
	return nil
}

func (a *Strike) LegalTargets(b *Board) TargetSet {
	out := mapset.New[Position]()
	start, ok := a.origin(b)
	if !ok {
		return out
	}
	if !a.from.allows(b.tile(start).typ) {
		return out
	}
	b.ForEachInSquare(start, a.radius, func(p Position, t *Tile) {
		if p != start && len(t.stack) > 0 {
			out.Put(p)
		}
	})
	return out
}

// CreateMove strikes dest. target picks between a unit and an obstacle sharing
// the tile; with NoTarget the unit is hit first.
func (a *Strike) CreateMove(b *Board, dest Position, target ObjectID) (*Move, error) {
	if err := checkTarget(a, b, dest); err != nil {
		return nil, err
	}

	if a.kind == KindSmash {
		var actions []Action
		if u, ok := b.UnitAt(dest); ok {
			actions = append(actions, ChangeHealth{Target: u.ID(), Delta: -a.damage})
		}
		if o, ok := b.ObstacleAt(dest); ok {
			actions = append(actions, ChangeHealth{Target: o.ID(), Delta: -a.damage})
		}
		return NewMove(a.kind, actions...), nil
	}

	victim, err := pickVictim(b, dest, target)
	if err != nil {
		return nil, err
	}
	if a.kind == KindLob {
		return NewMove(a.kind, FireProjectile{From: a.owner.Position(), To: dest, Target: victim, Damage: a.damage}), nil
	}
	return NewMove(a.kind, ChangeHealth{Target: victim, Delta: -a.damage}), nil
}

func pickVictim(b *Board, dest Position, target ObjectID) (ObjectID, error) {
	t := b.tile(dest)
	if target != NoTarget {
		for _, o := range t.stack {
			if o.id == target {
				return target, nil
			}
		}
		return NoTarget, fmt.Errorf("%w: object %d is not at %s", ErrIllegalTarget, target, dest)
	}
	if id, ok := t.find(KindUnit); ok {
		return id, nil
	}
	if id, ok := t.find(KindObstacle); ok {
		return id, nil
	}
	return NoTarget, fmt.Errorf("%w: nothing to hit at %s", ErrIllegalTarget, dest)
}
