// Package engine provides the core rules of the grid tactics game.
//
// The engine package implements the game mechanics including:
//   - Health tracking with one-shot death notifications
//   - A board of tiles holding layered occupants (units and obstacles)
//   - Abilities that compute legal target cells and build moves
//   - Moves made of primitive actions that mutate the board
//
// Core Types:
//
// Board owns a row-major grid of Tile values and an arena of every GameObject
// ever placed on it. Tiles reference occupants by ObjectID, and objects record
// the identity of the board that owns them, so there are no pointer cycles
// between tiles, boards and units. Unit and Obstacle are the two GameObject
// kinds; both carry a Health.
//
// Ability is a closed set of kinds (StepMove, Teleport, Strike, SquareHeal,
// SelfHeal, Summon). Each ability is bound to exactly one Unit when added to it.
//
// Usage:
//
//	b, err := engine.NewBoard(8, 8)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	knight, _ := engine.NewUnit("knight", engine.TeamPlayer, 10, engine.Solid)
//	step, _ := engine.NewStepMove(3)
//	_ = knight.AddAbility(step)
//	_ = b.AddUnit(knight, engine.Position{Row: 1, Col: 1})
//
//	targets := step.LegalTargets(b)
//	move, err := step.CreateMove(b, engine.Position{Row: 1, Col: 4}, engine.NoTarget)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := b.Execute(move); err != nil {
//		log.Fatal(err)
//	}
//
// Execution Model:
//
// Everything in this package is synchronous and unsynchronized. Exactly one
// caller may mutate a board at a time; the turn loop that owns the board is
// responsible for that. Moves are applied destructively and a failed move may
// leave the board partially mutated.
package engine
