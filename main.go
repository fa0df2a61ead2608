// Command gridtactics generates, plays and serves grid tactics boards.
//
// Subcommands:
//  1. "generate" – builds one board from a config and seed and prints it
//  2. "simulate" – lets the AI play both sides of a generated board
//  3. "configs" – lists the board configurations in the config directory
//  4. "mcp" – runs an MCP stdio server for AI agents
//
// The config directory defaults to "configs" and can be set with
// --config-dir or the TACTICS_CONFIG_DIR environment variable. A .env file in
// the working directory is loaded first.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/gridtactics/game/ai"
	"github.com/wricardo/gridtactics/game/config"
	"github.com/wricardo/gridtactics/game/engine"
	"github.com/wricardo/gridtactics/game/generator"
	"github.com/wricardo/gridtactics/game/service"
	"github.com/wricardo/gridtactics/game/session"
	"github.com/wricardo/gridtactics/transport/mcp"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Grid Tactics"
)

// simulationActionLimit bounds how many actions one unit may take per turn in
// a simulation, whatever its allowance.
const simulationActionLimit = 8

func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	} else {
		log.Println("Loaded environment variables from .env file")
	}

	if err := newApp(os.Stdout).Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// newApp builds the command tree. Command output goes to out; logs go to the
// standard logger.
func newApp(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:    "gridtactics",
		Usage:   AppName + " board generator and game server",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "configs",
				Usage:   "directory containing board configurations and roster.yaml",
				Sources: cli.EnvVars("TACTICS_CONFIG_DIR", "CONFIG_DIR"),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("debug") {
				log.SetFlags(log.LstdFlags | log.Lshortfile)
			} else {
				log.SetFlags(log.LstdFlags)
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			{
				Name:  "generate",
				Usage: "generate a board and print it",
				Flags: []cli.Flag{configFlag(), seedFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					configs, err := config.NewManager(cmd.String("config-dir"))
					if err != nil {
						return err
					}
					cfg, err := loadConfig(configs, cmd.String("config"))
					if err != nil {
						return err
					}
					seed := seedValue(cmd.Int64("seed"))
					res, err := generator.Generate(*cfg, configs.Roster(), generator.NewRand(seed))
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "Config: %s | Seed: %d | Difficulty: %d | Liquid: %d/%d\n\n",
						cfg.Name, seed, res.Difficulty, res.LiquidCount, res.LiquidBudget)
					printBoard(out, res.Board)
					return nil
				},
			},
			{
				Name:  "simulate",
				Usage: "let the AI play both sides of a generated board",
				Flags: []cli.Flag{
					configFlag(),
					seedFlag(),
					&cli.IntFlag{
						Name:  "turns",
						Value: 20,
						Usage: "maximum number of turns",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					configs, err := config.NewManager(cmd.String("config-dir"))
					if err != nil {
						return err
					}
					cfg, err := loadConfig(configs, cmd.String("config"))
					if err != nil {
						return err
					}
					seed := seedValue(cmd.Int64("seed"))
					status, turns, err := simulate(ctx, out, *cfg, configs, seed, cmd.Int("turns"))
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "Result after %d turns: %s\n", turns, status)
					return nil
				},
			},
			{
				Name:  "configs",
				Usage: "list available board configurations",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					configs, err := config.NewManager(cmd.String("config-dir"))
					if err != nil {
						return err
					}
					list, err := configs.ListConfigs()
					if err != nil {
						return err
					}
					for _, c := range list {
						fmt.Fprintf(out, "%-10s %dx%d difficulty %-3d %s\n", c.ConfigID, c.Rows, c.Cols, c.TurnDifficulty, c.Description)
					}
					return nil
				},
			},
			{
				Name:  "mcp",
				Usage: "run an MCP stdio server",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					gameService, sessions, err := initializeServices(cmd.String("config-dir"))
					if err != nil {
						return fmt.Errorf("failed to initialize services: %w", err)
					}
					go sessionCleanupRoutine(ctx, sessions)

					log.Printf("Starting %s v%s MCP stdio server", AppName, Version)
					return mcp.NewServer(gameService).RunStdio()
				},
			},
		},
	}
}

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "config",
		Usage: "board configuration name (default config when empty)",
	}
}

func seedFlag() cli.Flag {
	return &cli.Int64Flag{
		Name:  "seed",
		Usage: "random seed (0 picks one from the clock)",
	}
}

func seedValue(seed int64) int64 {
	if seed == 0 {
		return time.Now().UnixNano()
	}
	return seed
}

func loadConfig(configs *config.Manager, name string) (*generator.Config, error) {
	if name == "" {
		return configs.GetDefault(), nil
	}
	return configs.LoadConfig(name)
}

// initializeServices wires the config manager, session manager and game
// service for the given config directory.
func initializeServices(configDir string) (service.GameService, *session.Manager, error) {
	configManager, err := config.NewManager(configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	sessionManager := session.NewManager()
	return service.NewGameService(sessionManager, configManager), sessionManager, nil
}

// sessionCleanupRoutine periodically removes sessions that have not been accessed
// within the retention window.
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			manager.CleanupExpiredSessions(24 * time.Hour)
		}
	}
}

// simulate plays up to maxTurns turns with an aggressive AI on both sides.
// Players act first each turn. It returns the final status and the number of
// turns played.
func simulate(ctx context.Context, out io.Writer, cfg generator.Config, configs *config.Manager, seed int64, maxTurns int) (string, int, error) {
	rng := generator.NewRand(seed)
	res, err := generator.Generate(cfg, configs.Roster(), rng)
	if err != nil {
		return "", 0, err
	}
	b := res.Board

	policy := ai.NewPolicy(rng)
	policy.Aggressive = true

	fmt.Fprintf(out, "Config: %s | Seed: %d\n\n", cfg.Name, seed)
	printBoard(out, b)

	turn := 0
	for turn < maxTurns && status(b) == service.StatusActive {
		if err := ctx.Err(); err != nil {
			return "", turn, err
		}
		turn++
		fmt.Fprintf(out, "\n-- Turn %d --\n", turn)
		for _, team := range []engine.Team{engine.TeamPlayer, engine.TeamEnemy} {
			if err := playSide(out, b, policy, team); err != nil {
				return "", turn, err
			}
		}
		for _, u := range b.Units() {
			u.ResetMoves()
		}
		printBoard(out, b)
	}
	return status(b), turn, nil
}

// playSide lets every unit of team that is on the board when the side starts
// act until it runs out of moves or passes.
func playSide(out io.Writer, b *engine.Board, policy *ai.Policy, team engine.Team) error {
	var units []*engine.Unit
	for _, u := range b.Units() {
		if u.Team() == team {
			units = append(units, u)
		}
	}

	for _, u := range units {
		for i := 0; i < simulationActionLimit && u.OnBoard() && u.MovesRemaining() > 0; i++ {
			move, err := policy.Decide(b, u)
			if err != nil {
				return fmt.Errorf("%s #%d: %w", u.Name(), u.ID(), err)
			}
			if move.Empty() {
				break
			}
			if err := b.Execute(move); err != nil {
				return fmt.Errorf("%s #%d: %w", u.Name(), u.ID(), err)
			}
			u.SpendMove()
			fmt.Fprintf(out, "%s #%d %s\n", u.Name(), u.ID(), move)
		}
	}
	return nil
}

func status(b *engine.Board) string {
	sess := &service.Session{Board: b}
	return sess.Status()
}

func printBoard(out io.Writer, b *engine.Board) {
	fmt.Fprintln(out, strings.Join(b.Render(), "\n"))
	for _, u := range b.Units() {
		fmt.Fprintf(out, "  %c #%d %-8s %-6s %s hp %d/%d\n",
			engine.UnitGlyph(u), u.ID(), u.Name(), u.Team(), u.Position(), u.Health().Current(), u.Health().Max())
	}
}
