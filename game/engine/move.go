package engine

import (
	"fmt"
	"strings"
)

// Action is a single atomic board mutation.
type Action interface {
	Apply(b *Board) error
	String() string
}

// Move is an ordered list of actions produced by an ability. It is executed
// once and discarded.
type Move struct {
	Source  AbilityKind
	Actions []Action
}

// NewMove builds a move from actions
func NewMove(source AbilityKind, actions ...Action) *Move {
	return &Move{Source: source, Actions: actions}
}

// Empty reports whether the move does nothing
func (m *Move) Empty() bool {
	return m == nil || len(m.Actions) == 0
}

// Execute applies every action in order. The first failure aborts the rest and
// earlier actions are not rolled back.
func (m *Move) Execute(b *Board) error {
	for i, a := range m.Actions {
		if err := a.Apply(b); err != nil {
			return fmt.Errorf("move action %d (%s): %w", i, a, err)
		}
	}
	return nil
}

func (m *Move) String() string {
	if m.Empty() {
		return "no-op"
	}
	parts := make([]string, len(m.Actions))
	for i, a := range m.Actions {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s: %s", m.Source, strings.Join(parts, ", "))
}

// Relocate moves the unit on From to To
type Relocate struct {
	From Position
	To   Position
}

func (a Relocate) Apply(b *Board) error {
	if !b.InBounds(a.From) || !b.InBounds(a.To) {
		return fmt.Errorf("%w: relocate %s -> %s", ErrOutOfBounds, a.From, a.To)
	}
	u, ok := b.UnitAt(a.From)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoUnitAtSource, a.From)
	}
	if b.IsOccupied(a.To) {
		return fmt.Errorf("%w: %s", ErrDestinationOccupied, a.To)
	}
	if err := b.RemoveGameObject(u, a.From); err != nil {
		return err
	}
	return b.AddUnit(u, a.To)
}

func (a Relocate) String() string {
	return fmt.Sprintf("relocate %s->%s", a.From, a.To)
}

// ChangeHealth adds Delta to the target's health, clamped to [0, max]. A target
// brought to zero is detached from its tile before its death listeners run.
type ChangeHealth struct {
	Target ObjectID
	Delta  int
}

func (a ChangeHealth) Apply(b *Board) error {
	obj, ok := b.Object(a.Target)
	if !ok {
		return fmt.Errorf("%w: id %d", ErrUnknownObject, a.Target)
	}
	h := obj.Health()
	if !h.Alive() {
		return nil
	}

	next := h.Current() + a.Delta
	switch {
	case next <= 0:
		if obj.OnBoard() {
			if err := b.RemoveGameObject(obj, obj.Position()); err != nil {
				return err
			}
		}
		return h.Set(0)
	case next > h.Max():
		return h.Set(h.Max())
	default:
		return h.Set(next)
	}
}

func (a ChangeHealth) String() string {
	return fmt.Sprintf("health #%d %+d", a.Target, a.Delta)
}

// PlaceObject puts a unit or obstacle on At
type PlaceObject struct {
	Object GameObject
	At     Position
}

func (a PlaceObject) Apply(b *Board) error {
	switch o := a.Object.(type) {
	case *Unit:
		return b.AddUnit(o, a.At)
	case *Obstacle:
		return b.AddObstacle(o, a.At)
	}
	return fmt.Errorf("%w: cannot place %T", ErrUnsupportedAbilityUse, a.Object)
}

func (a PlaceObject) String() string {
	return fmt.Sprintf("place %s at %s", a.Object.Name(), a.At)
}

// FireProjectile delivers Damage to whatever stands on To when it lands. The
// intended Target is preferred if it is still there; otherwise a unit is hit
// before an obstacle, and an empty tile is a miss.
type FireProjectile struct {
	From   Position
	To     Position
	Target ObjectID
	Damage int
}

func (a FireProjectile) Apply(b *Board) error {
	t, err := b.TileAt(a.To)
	if err != nil {
		return err
	}

	victim := NoTarget
	for _, o := range t.stack {
		if o.id == a.Target {
			victim = o.id
		}
	}
	if victim == NoTarget {
		if id, ok := t.find(KindUnit); ok {
			victim = id
		} else if id, ok := t.find(KindObstacle); ok {
			victim = id
		}
	}
	if victim == NoTarget {
		return nil
	}
	return ChangeHealth{Target: victim, Delta: -a.Damage}.Apply(b)
}

func (a FireProjectile) String() string {
	return fmt.Sprintf("projectile %s->%s (%d)", a.From, a.To, a.Damage)
}
