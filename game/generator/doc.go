// Package generator builds randomized, difficulty-balanced boards.
//
// Generation runs in four phases on a fresh all-solid board, each drawing
// every random choice from the *rand.Rand passed in:
//
//  1. Liquid pools: flood-fill pools until the liquid budget is spent.
//  2. Players: one unit per configured player archetype on a random dry cell.
//  3. Enemies: random enemy archetypes until their summed difficulty reaches
//     the configured turn difficulty.
//  4. Obstacles: small or large obstacles on random free dry cells.
//
// The same Config, roster and seed always produce the same board.
//
// Usage:
//
//	cfg := generator.DefaultConfig()
//	res, err := generator.Generate(cfg, roster.Default(), generator.NewRand(42))
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, row := range res.Board.Render() {
//		fmt.Println(row)
//	}
package generator
