// Package ai picks moves for units that are not driven by a player.
//
// A Policy is stateless between calls. For each unit it walks a fixed
// priority chain and returns the first move that applies:
//
//  1. Self heal when below half health.
//  2. With probability MoveChance, move to a random reachable cell.
//  3. Summon onto a random free cell.
//  4. Heal a random friendly unit in range.
//  5. With Aggressive set, strike a random hostile unit in range.
//
// When nothing applies the returned Move is empty. All randomness comes from
// the *rand.Rand given to NewPolicy, so a seeded source replays exactly.
package ai
