package engine

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/zyedidia/generic/mapset"
)

// AbilityKind tags the concrete ability behind an Ability value.
type AbilityKind string

const (
	KindStep       AbilityKind = "step"
	KindTeleport   AbilityKind = "teleport"
	KindMelee      AbilityKind = "melee"
	KindLob        AbilityKind = "lob"
	KindSmash      AbilityKind = "smash"
	KindSquareHeal AbilityKind = "square_heal"
	KindSelfHeal   AbilityKind = "self_heal"
	KindSummon     AbilityKind = "summon"
)

// TargetSet is the set of cells where an ability may currently be used.
type TargetSet = mapset.Set[Position]

// Ability computes legal target cells for its owner and builds the Move for a
// chosen cell. CreateMove only accepts destinations present in the current
// LegalTargets result; anything else is a precondition violation reported as
// ErrIllegalTarget and must be treated as fatal by the caller.
type Ability interface {
	Kind() AbilityKind
	Name() string
	Owner() *Unit
	Teams() TeamMask
	LegalTargets(b *Board) TargetSet
	CreateMove(b *Board, dest Position, target ObjectID) (*Move, error)
	bind(u *Unit) error
}

// abilityBase carries the owner binding shared by every ability kind.
type abilityBase struct {
	kind  AbilityKind
	teams TeamMask
	owner *Unit
}

func (a *abilityBase) Kind() AbilityKind { return a.kind }
func (a *abilityBase) Name() string      { return string(a.kind) }
func (a *abilityBase) Owner() *Unit      { return a.owner }
func (a *abilityBase) Teams() TeamMask   { return a.teams }

func (a *abilityBase) bind(u *Unit) error {
	if a.owner != nil {
		return fmt.Errorf("%w: %s belongs to %s", ErrAbilityOwned, a.kind, a.owner.Name())
	}
	a.owner = u
	return nil
}

// origin returns the owner's cell, or false when the ability cannot be used
// from anywhere on b.
func (a *abilityBase) origin(b *Board) (Position, bool) {
	if a.owner == nil || !a.owner.OnBoard() || a.owner.BoardID() != b.ID() {
		return OffBoard, false
	}
	return a.owner.Position(), true
}

// checkTarget verifies the ability is usable and dest is currently legal.
func checkTarget(a Ability, b *Board, dest Position) error {
	if a.Owner() == nil {
		return fmt.Errorf("%w: %s has no owner", ErrUnsupportedAbilityUse, a.Name())
	}
	if !a.LegalTargets(b).Has(dest) {
		return fmt.Errorf("%w: %s cannot target %s", ErrIllegalTarget, a.Name(), dest)
	}
	return nil
}

// SortedTargets returns the members of set in row-major order.
func SortedTargets(set TargetSet) []Position {
	out := make([]Position, 0, set.Size())
	set.Each(func(p Position) {
		out = append(out, p)
	})
	slices.SortFunc(out, func(a, b Position) int {
		if c := cmp.Compare(a.Row, b.Row); c != 0 {
			return c
		}
		return cmp.Compare(a.Col, b.Col)
	})
	return out
}

// terrainSet is an optional tile-type restriction layered on top of a unit's
// own traversal set. The zero value restricts nothing.
type terrainSet map[TileType]bool

func newTerrainSet(types []TileType) terrainSet {
	if len(types) == 0 {
		return nil
	}
	s := make(terrainSet, len(types))
	for _, t := range types {
		s[t] = true
	}
	return s
}

func (s terrainSet) allows(t TileType) bool {
	return len(s) == 0 || s[t]
}
