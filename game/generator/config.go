package generator

import (
	"fmt"

	"github.com/wricardo/gridtactics/game/engine"
)

// DifficultyMultiplyThreshold bounds how far the enemy difficulty total may
// overshoot the configured turn difficulty.
const DifficultyMultiplyThreshold = 2

// Config holds the tunable generation parameters
type Config struct {
	Name                 string   `yaml:"name" json:"name"`
	Description          string   `yaml:"description" json:"description"`
	Rows                 int      `yaml:"rows" json:"rows"`
	Cols                 int      `yaml:"cols" json:"cols"`
	LiquidPercent        float64  `yaml:"liquid_percent" json:"liquid_percent"`
	PoolStrength         float64  `yaml:"pool_strength" json:"pool_strength"`
	ObstaclePercent      float64  `yaml:"obstacle_percent" json:"obstacle_percent"`
	LargeObstaclePercent float64  `yaml:"large_obstacle_percent" json:"large_obstacle_percent"`
	SmallObstacleHealth  int      `yaml:"small_obstacle_health" json:"small_obstacle_health"`
	LargeObstacleHealth  int      `yaml:"large_obstacle_health" json:"large_obstacle_health"`
	TurnDifficulty       int      `yaml:"turn_difficulty" json:"turn_difficulty"`
	PlayerMoves          int      `yaml:"player_moves" json:"player_moves"`
	Players              []string `yaml:"players" json:"players"`
	Enemies              []string `yaml:"enemies,omitempty" json:"enemies,omitempty"`
	// AggressiveEnemies lets enemies attack heroes during the enemy phase
	AggressiveEnemies    bool     `yaml:"aggressive_enemies,omitempty" json:"aggressive_enemies,omitempty"`
}

// DefaultConfig returns a balanced 8x8 configuration
func DefaultConfig() Config {
	return Config{
		Name:                 "default",
		Description:          "Balanced 8x8 skirmish",
		Rows:                 8,
		Cols:                 8,
		LiquidPercent:        0.2,
		PoolStrength:         0.4,
		ObstaclePercent:      0.1,
		LargeObstaclePercent: 0.3,
		SmallObstacleHealth:  2,
		LargeObstacleHealth:  5,
		TurnDifficulty:       4,
		PlayerMoves:          2,
		Players:              []string{"knight", "mage", "cleric"},
	}
}

// ValidateConfig checks that cfg describes a generatable board
func ValidateConfig(cfg Config) error {
	if cfg.Rows < engine.MinBoardSize || cfg.Rows > engine.MaxBoardSize {
		return invalid("rows must be between %d and %d, got %d", engine.MinBoardSize, engine.MaxBoardSize, cfg.Rows)
	}
	if cfg.Cols < engine.MinBoardSize || cfg.Cols > engine.MaxBoardSize {
		return invalid("cols must be between %d and %d, got %d", engine.MinBoardSize, engine.MaxBoardSize, cfg.Cols)
	}

	fractions := []struct {
		name string
		v    float64
	}{
		{"liquid_percent", cfg.LiquidPercent},
		{"pool_strength", cfg.PoolStrength},
		{"obstacle_percent", cfg.ObstaclePercent},
		{"large_obstacle_percent", cfg.LargeObstaclePercent},
	}
	for _, f := range fractions {
		if f.v < 0 || f.v > 1 {
			return invalid("%s must be between 0 and 1, got %g", f.name, f.v)
		}
	}

	if cfg.SmallObstacleHealth < 1 {
		return invalid("small_obstacle_health must be positive, got %d", cfg.SmallObstacleHealth)
	}
	if cfg.LargeObstacleHealth < 1 {
		return invalid("large_obstacle_health must be positive, got %d", cfg.LargeObstacleHealth)
	}
	if cfg.TurnDifficulty < 0 {
		return invalid("turn_difficulty must not be negative, got %d", cfg.TurnDifficulty)
	}
	if cfg.PlayerMoves < 1 {
		return invalid("player_moves must be positive, got %d", cfg.PlayerMoves)
	}
	if len(cfg.Players) == 0 {
		return invalid("at least one player is required")
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: config validation: %s", engine.ErrInvalidParameter, fmt.Sprintf(format, args...))
}
