package ai

import (
	"math/rand/v2"
	"slices"

	"github.com/wricardo/gridtactics/game/engine"
)

// DefaultMoveChance is the probability of moving when a move is available
const DefaultMoveChance = 0.5

// Policy chooses one move per call for a unit
type Policy struct {
	rng        *rand.Rand
	MoveChance float64
	// Aggressive lets the unit attack hostile units once nothing earlier in
	// the chain applies.
	Aggressive bool
}

// NewPolicy creates a policy drawing from rng
func NewPolicy(rng *rand.Rand) *Policy {
	return &Policy{rng: rng, MoveChance: DefaultMoveChance}
}

// Decide returns the move u should make on b. Units that are dead or off the
// board get an empty move.
func (p *Policy) Decide(b *engine.Board, u *engine.Unit) (*engine.Move, error) {
	if u == nil || !u.Health().Alive() || !u.OnBoard() || u.BoardID() != b.ID() {
		return &engine.Move{}, nil
	}

	h := u.Health()
	if 2*h.Current() < h.Max() {
		if a, targets := p.firstUsable(b, u, engine.KindSelfHeal); a != nil {
			return a.CreateMove(b, targets[0], engine.NoTarget)
		}
	}

	if p.rng.Float64() < p.MoveChance {
		if a, targets := p.randomUsable(b, u, engine.KindStep, engine.KindTeleport); a != nil {
			return a.CreateMove(b, p.pick(targets), engine.NoTarget)
		}
	}

	if a, targets := p.firstUsable(b, u, engine.KindSummon); a != nil {
		return a.CreateMove(b, p.pick(targets), engine.NoTarget)
	}

	if a, targets := p.firstUsable(b, u, engine.KindSquareHeal); a != nil {
		return a.CreateMove(b, p.pick(targets), engine.NoTarget)
	}

	if p.Aggressive {
		if m, err := p.attack(b, u); m != nil || err != nil {
			return m, err
		}
	}

	return &engine.Move{}, nil
}

func (p *Policy) attack(b *engine.Board, u *engine.Unit) (*engine.Move, error) {
	type option struct {
		ability engine.Ability
		target  engine.Position
	}
	var options []option
	for _, a := range u.Abilities() {
		switch a.Kind() {
		case engine.KindMelee, engine.KindLob, engine.KindSmash:
		default:
			continue
		}
		for _, t := range engine.SortedTargets(a.LegalTargets(b)) {
			if other, ok := b.UnitAt(t); ok && u.Hostile(other) {
				options = append(options, option{a, t})
			}
		}
	}
	if len(options) == 0 {
		return nil, nil
	}
	o := options[p.rng.IntN(len(options))]
	victim, _ := b.UnitAt(o.target)
	return o.ability.CreateMove(b, o.target, victim.ID())
}

// firstUsable returns the first ability of one of kinds with a legal target,
// along with its targets in row-major order.
func (p *Policy) firstUsable(b *engine.Board, u *engine.Unit, kinds ...engine.AbilityKind) (engine.Ability, []engine.Position) {
	for _, a := range u.Abilities() {
		if !hasKind(a, kinds) {
			continue
		}
		if targets := engine.SortedTargets(a.LegalTargets(b)); len(targets) > 0 {
			return a, targets
		}
	}
	return nil, nil
}

// randomUsable picks uniformly among the usable abilities of the given kinds
func (p *Policy) randomUsable(b *engine.Board, u *engine.Unit, kinds ...engine.AbilityKind) (engine.Ability, []engine.Position) {
	var usable []engine.Ability
	var targets [][]engine.Position
	for _, a := range u.Abilities() {
		if !hasKind(a, kinds) {
			continue
		}
		if t := engine.SortedTargets(a.LegalTargets(b)); len(t) > 0 {
			usable = append(usable, a)
			targets = append(targets, t)
		}
	}
	if len(usable) == 0 {
		return nil, nil
	}
	i := p.rng.IntN(len(usable))
	return usable[i], targets[i]
}

func (p *Policy) pick(targets []engine.Position) engine.Position {
	return targets[p.rng.IntN(len(targets))]
}

func hasKind(a engine.Ability, kinds []engine.AbilityKind) bool {
	return slices.Contains(kinds, a.Kind())
}
