// Package roster defines the unit archetypes a game can field.
//
// An archetype is a named template: team, health, per-turn move allowance,
// traversable terrain and an ordered list of ability specs. A Registry holds
// the archetypes for one game and is passed explicitly to whatever needs to
// create units (the board generator, the Summon ability, the session layer).
//
// Roster File Format:
//
// Rosters are YAML documents with a single archetypes list:
//
//	archetypes:
//	  - name: slime
//	    team: enemy
//	    max_health: 3
//	    difficulty: 1
//	    terrain: [solid, liquid]
//	    abilities:
//	      - kind: step
//	        distance: 2
//	      - kind: melee
//	        damage: 1
//
// Ability kinds are step, teleport, melee, lob, smash, square_heal, self_heal
// and summon. Each kind reads only the fields it needs (distance, radius,
// damage, amount, summon, terrain).
//
// Usage:
//
//	reg, err := roster.LoadFile("configs/roster.yaml")
//	if err != nil {
//		reg = roster.Default()
//	}
//	knight, err := reg.Spawn("knight")
package roster
