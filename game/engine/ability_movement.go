package engine

import (
	"codeberg.org/anaseto/gruid"
	"codeberg.org/anaseto/gruid/paths"
	"github.com/zyedidia/generic/mapset"
)

// StepMove walks up to distance orthogonal steps. Occupied or untraversable
// cells block the path.
type StepMove struct {
	abilityBase
	distance int
	terrain  terrainSet
}

// NewStepMove creates a step-range movement ability. When terrain is given the
// ability only enters those tile types, on top of the owner's own limits.
func NewStepMove(distance int, terrain ...TileType) (*StepMove, error) {
	if err := validateParameter("distance", distance); err != nil {
		return nil, err
	}
	return &StepMove{
		abilityBase: abilityBase{kind: KindStep, teams: AnyTeam},
		distance:    distance,
		terrain:     newTerrainSet(terrain),
	}, nil
}

func (a *StepMove) Distance() int { return a.distance }

func (a *StepMove) SetDistance(d int) error {
	if err := validateParameter("distance", d); err != nil {
		return err
	}
	a.distance = d
	return nil
}

func (a *StepMove) canEnter(b *Board, p Position) bool {
	t := b.tile(p)
	if t == nil || len(t.stack) > 0 {
		return false
	}
	return a.owner.CanTraverse(t.typ) && a.terrain.allows(t.typ)
}

// LegalTargets runs a breadth-first flood fill from the owner, one layer per
// unit of distance.
func (a *StepMove) LegalTargets(b *Board) TargetSet {
	out := mapset.New[Position]()
	start, ok := a.origin(b)
	if !ok {
		return out
	}

	passable := func(p gruid.Point) bool {
		return a.canEnter(b, fromPoint(p))
	}
	steps := map[Position]int{start: 0}
	queue := []Position{start}
	var nbs paths.Neighbors
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		d := steps[cur]
		if d >= a.distance {
			continue
		}
		for _, np := range nbs.Cardinal(cur.point(), passable) {
			p := fromPoint(np)
			if _, seen := steps[p]; seen {
				continue
			}
			steps[p] = d + 1
			out.Put(p)
			queue = append(queue, p)
		}
	}
	return out
}

func (a *StepMove) CreateMove(b *Board, dest Position, _ ObjectID) (*Move, error) {
	if err := checkTarget(a, b, dest); err != nil {
		return nil, err
	}
	return NewMove(a.kind, Relocate{From: a.owner.Position(), To: dest}), nil
}

// Teleport jumps to any free cell within a Manhattan radius, ignoring what lies
// in between.
type Teleport struct {
	abilityBase
	distance int
	terrain  terrainSet
}

// NewTeleport creates a diamond-range teleport. Without terrain it defers to
// the owner's traversal set.
func NewTeleport(distance int, terrain ...TileType) (*Teleport, error) {
	if err := validateParameter("distance", distance); err != nil {
		return nil, err
	}
	return &Teleport{
		abilityBase: abilityBase{kind: KindTeleport, teams: PlayerOnly},
		distance:    distance,
		terrain:     newTerrainSet(terrain),
	}, nil
}

func (a *Teleport) Distance() int { return a.distance }

func (a *Teleport) SetDistance(d int) error {
	if err := validateParameter("distance", d); err != nil {
		return err
	}
	a.distance = d
	return nil
}

func (a *Teleport) allows(t TileType) bool {
	if len(a.terrain) > 0 {
		return a.terrain[t]
	}
	return a.owner.CanTraverse(t)
}

func (a *Teleport) LegalTargets(b *Board) TargetSet {
	out := mapset.New[Position]()
	start, ok := a.origin(b)
	if !ok {
		return out
	}
	b.ForEachInDiamond(start, a.distance, func(p Position, t *Tile) {
		if p == start || len(t.stack) > 0 || !a.allows(t.typ) {
			return
		}
		out.Put(p)
	})
	return out
}

func (a *Teleport) CreateMove(b *Board, dest Position, _ ObjectID) (*Move, error) {
	if err := checkTarget(a, b, dest); err != nil {
		return nil, err
	}
	return NewMove(a.kind, Relocate{From: a.owner.Position(), To: dest}), nil
}
