package roster

import "github.com/wricardo/gridtactics/game/engine"

// DefaultArchetypes is the built-in roster used when no roster file is found.
var DefaultArchetypes = []Archetype{
	{
		Name: "knight", Team: "player", MaxHealth: 10, MoveAllowance: 2,
		Abilities: []AbilitySpec{
			{Kind: engine.KindStep, Distance: 3},
			{Kind: engine.KindMelee, Damage: 3},
			{Kind: engine.KindSmash, Damage: 2},
		},
	},
	{
		Name: "mage", Team: "player", MaxHealth: 6, MoveAllowance: 2,
		Abilities: []AbilitySpec{
			{Kind: engine.KindStep, Distance: 2},
			{Kind: engine.KindTeleport, Distance: 4},
			{Kind: engine.KindLob, Radius: 3, Damage: 2},
		},
	},
	{
		Name: "cleric", Team: "player", MaxHealth: 7, MoveAllowance: 2,
		Abilities: []AbilitySpec{
			{Kind: engine.KindStep, Distance: 2},
			{Kind: engine.KindSquareHeal, Radius: 2, Amount: 3},
			{Kind: engine.KindSelfHeal, Amount: 2},
			{Kind: engine.KindMelee, Damage: 1},
		},
	},
	{
		Name: "slime", Team: "enemy", MaxHealth: 3, Difficulty: 1,
		Terrain: []engine.TileType{engine.Solid, engine.Liquid},
		Abilities: []AbilitySpec{
			{Kind: engine.KindStep, Distance: 2},
			{Kind: engine.KindMelee, Damage: 1},
		},
	},
	{
		Name: "spitter", Team: "enemy", MaxHealth: 4, Difficulty: 2,
		Terrain: []engine.TileType{engine.Solid, engine.Liquid},
		Abilities: []AbilitySpec{
			{Kind: engine.KindStep, Distance: 2},
			{Kind: engine.KindLob, Radius: 3, Damage: 2},
		},
	},
	{
		Name: "shaman", Team: "enemy", MaxHealth: 5, Difficulty: 3,
		Abilities: []AbilitySpec{
			{Kind: engine.KindStep, Distance: 2},
			{Kind: engine.KindSummon, Radius: 1, Summon: "slime"},
			{Kind: engine.KindSquareHeal, Radius: 2, Amount: 2},
		},
	},
	{
		Name: "golem", Team: "enemy", MaxHealth: 12, Difficulty: 4,
		Abilities: []AbilitySpec{
			{Kind: engine.KindStep, Distance: 1},
			{Kind: engine.KindSmash, Damage: 4},
			{Kind: engine.KindSelfHeal, Amount: 3},
		},
	},
}

// Default returns a registry of the built-in archetypes
func Default() *Registry {
	r, err := NewRegistry(DefaultArchetypes...)
	if err != nil {
		panic("roster: invalid built-in archetypes: " + err.Error())
	}
	return r
}
