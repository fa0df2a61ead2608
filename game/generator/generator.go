package generator

import (
	"fmt"
	"math"
	"math/rand/v2"

	"codeberg.org/anaseto/gruid"
	"codeberg.org/anaseto/gruid/paths"
	"github.com/zyedidia/generic/mapset"

	"github.com/wricardo/gridtactics/game/engine"
	"github.com/wricardo/gridtactics/game/roster"
)

// Result is a generated board and what was placed on it
type Result struct {
	Board        *engine.Board
	Players      []*engine.Unit
	Enemies      []*engine.Unit
	Obstacles    []*engine.Obstacle
	LiquidCount  int
	LiquidBudget int
	Difficulty   int
}

type generation struct {
	cfg   Config
	reg   *roster.Registry
	rng   *rand.Rand
	board *engine.Board
	res   *Result
}

// Generate builds a board from cfg. Archetypes come from reg and every random
// choice from rng.
func Generate(cfg Config, reg *roster.Registry, rng *rand.Rand) (*Result, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	if reg == nil || rng == nil {
		return nil, fmt.Errorf("%w: generate needs a roster and a random source", engine.ErrInvalidParameter)
	}

	players, err := archetypes(reg, cfg.Players, engine.TeamPlayer)
	if err != nil {
		return nil, err
	}
	enemies := reg.Enemies()
	if len(cfg.Enemies) > 0 {
		if enemies, err = archetypes(reg, cfg.Enemies, engine.TeamEnemy); err != nil {
			return nil, err
		}
	}

	b, err := engine.NewBoard(cfg.Rows, cfg.Cols)
	if err != nil {
		return nil, err
	}
	g := &generation{cfg: cfg, reg: reg, rng: rng, board: b, res: &Result{Board: b}}

	g.fillLiquid(len(players))
	if err := g.placePlayers(players); err != nil {
		return nil, err
	}
	if err := g.placeEnemies(enemies); err != nil {
		return nil, err
	}
	if err := g.placeObstacles(); err != nil {
		return nil, err
	}
	return g.res, nil
}

func archetypes(reg *roster.Registry, names []string, team engine.Team) ([]roster.Archetype, error) {
	out := make([]roster.Archetype, 0, len(names))
	for _, name := range names {
		a, err := reg.Get(name)
		if err != nil {
			return nil, err
		}
		if t, _ := a.TeamValue(); t != team {
			return nil, fmt.Errorf("%w: archetype %s is not a %s", engine.ErrInvalidParameter, name, team)
		}
		out = append(out, a)
	}
	return out, nil
}

// LiquidBudget is the number of tiles the liquid phase converts for cfg: the
// configured share of the board, capped so players and enemies keep room.
func LiquidBudget(cfg Config, players int) int {
	total := cfg.Rows * cfg.Cols
	budget := int(math.Round(float64(total) * cfg.LiquidPercent))
	ceiling := max(total-players-cfg.TurnDifficulty, 0)
	return min(budget, ceiling)
}

func (g *generation) fillLiquid(players int) {
	budget := LiquidBudget(g.cfg, players)
	g.res.LiquidBudget = budget

	dry := func(p engine.Position) bool {
		t, _ := g.board.TileType(p)
		return t != engine.Liquid
	}
	keep := func(p gruid.Point) bool {
		pos := fromPoint(p)
		return g.board.InBounds(pos) && dry(pos)
	}

	var nbs paths.Neighbors
	placed := 0
	for placed < budget {
		cells := g.cells(dry)
		if len(cells) == 0 {
			break
		}
		seed := cells[g.rng.IntN(len(cells))]
		_ = g.board.SetTileType(seed, engine.Liquid)
		placed++

		queue := []engine.Position{seed}
		for len(queue) > 0 && placed < budget {
			cur := queue[0]
			queue = queue[1:]
			for _, np := range nbs.Cardinal(toPoint(cur), keep) {
				if placed >= budget {
					break
				}
				if g.rng.Float64() < g.cfg.PoolStrength {
					p := fromPoint(np)
					_ = g.board.SetTileType(p, engine.Liquid)
					placed++
					queue = append(queue, p)
				}
			}
		}
	}
	g.res.LiquidCount = placed
}

func (g *generation) placePlayers(players []roster.Archetype) error {
	for _, a := range players {
		cells := g.cells(g.freeDry)
		if len(cells) == 0 {
			return fmt.Errorf("%w: no dry cell left for player %s", engine.ErrInsufficientSpace, a.Name)
		}
		u, err := g.spawnAt(a.Name, cells[g.rng.IntN(len(cells))])
		if err != nil {
			return err
		}
		if err := u.SetMoveAllowance(g.cfg.PlayerMoves); err != nil {
			return err
		}
		u.ResetMoves()
		g.res.Players = append(g.res.Players, u)
	}
	return nil
}

// placeEnemies draws archetypes without replacement until the difficulty total
// reaches the target. The draw pool refills once every admissible archetype
// has been used.
func (g *generation) placeEnemies(pool []roster.Archetype) error {
	target := g.cfg.TurnDifficulty
	limit := target * DifficultyMultiplyThreshold
	used := mapset.New[string]()

	total := 0
	for total < target {
		var admissible []roster.Archetype
		for _, a := range pool {
			if !used.Has(a.Name) && total+a.Difficulty <= limit {
				admissible = append(admissible, a)
			}
		}
		if len(admissible) == 0 {
			if used.Size() == 0 {
				break
			}
			used = mapset.New[string]()
			continue
		}

		cells := g.cells(g.freeDry)
		if len(cells) == 0 {
			break
		}
		a := admissible[g.rng.IntN(len(admissible))]
		u, err := g.spawnAt(a.Name, cells[g.rng.IntN(len(cells))])
		if err != nil {
			return err
		}
		used.Put(a.Name)
		total += a.Difficulty
		g.res.Enemies = append(g.res.Enemies, u)
	}
	g.res.Difficulty = total
	return nil
}

func (g *generation) placeObstacles() error {
	count := int(math.Round(float64(g.cfg.Rows*g.cfg.Cols) * g.cfg.ObstaclePercent))
	for i := 0; i < count; i++ {
		cells := g.cells(g.freeDry)
		if len(cells) == 0 {
			break
		}
		p := cells[g.rng.IntN(len(cells))]

		size, health := engine.Small, g.cfg.SmallObstacleHealth
		if g.rng.Float64() < g.cfg.LargeObstaclePercent {
			size, health = engine.Large, g.cfg.LargeObstacleHealth
		}
		o, err := engine.NewObstacle(size, health)
		if err != nil {
			return err
		}
		if err := g.board.AddObstacle(o, p); err != nil {
			return err
		}
		g.res.Obstacles = append(g.res.Obstacles, o)
	}
	return nil
}

func (g *generation) spawnAt(name string, p engine.Position) (*engine.Unit, error) {
	u, err := g.reg.Spawn(name)
	if err != nil {
		return nil, err
	}
	if err := g.board.AddUnit(u, p); err != nil {
		return nil, err
	}
	return u, nil
}

func (g *generation) freeDry(p engine.Position) bool {
	t, _ := g.board.TileType(p)
	return t != engine.Liquid && !g.board.IsOccupied(p)
}

// cells lists matching positions in row-major order
func (g *generation) cells(match func(engine.Position) bool) []engine.Position {
	var out []engine.Position
	for r := 0; r < g.board.Rows(); r++ {
		for c := 0; c < g.board.Cols(); c++ {
			p := engine.Position{Row: r, Col: c}
			if match(p) {
				out = append(out, p)
			}
		}
	}
	return out
}

func toPoint(p engine.Position) gruid.Point {
	return gruid.Point{X: p.Col, Y: p.Row}
}

func fromPoint(p gruid.Point) engine.Position {
	return engine.Position{Row: p.Y, Col: p.X}
}
