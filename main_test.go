package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/gridtactics/game/config"
	"github.com/wricardo/gridtactics/game/engine"
	"github.com/wricardo/gridtactics/game/service"
)

func TestConstants(t *testing.T) {
	assert.NotEmpty(t, Version)
	assert.Equal(t, "Grid Tactics", AppName)
}

func runApp(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	err := newApp(&out).Run(context.Background(), append([]string{"gridtactics", "--config-dir", "configs"}, args...))
	require.NoError(t, err)
	return out.String()
}

func TestGenerateCommand(t *testing.T) {
	first := runApp(t, "generate", "--config", "easy", "--seed", "3")
	second := runApp(t, "generate", "--config", "easy", "--seed", "3")

	assert.Equal(t, first, second, "same config and seed must print the same board")
	assert.Contains(t, first, "Config: easy | Seed: 3")

	// Header, blank line, then one line per row of a 6x6 board
	lines := strings.Split(first, "\n")
	require.Greater(t, len(lines), 8)
	for _, row := range lines[2:8] {
		assert.Len(t, row, 6)
	}
}

func TestGenerateCommand_UnknownConfig(t *testing.T) {
	var out bytes.Buffer
	err := newApp(&out).Run(context.Background(), []string{"gridtactics", "--config-dir", "configs", "generate", "--config", "missing"})
	assert.ErrorIs(t, err, config.ErrConfigNotFound)
}

func TestConfigsCommand(t *testing.T) {
	out := runApp(t, "configs")
	for _, id := range []string{"default", "easy", "medium", "hard"} {
		assert.Contains(t, out, id)
	}
	// The roster file is not a board config; descriptions may still mention it
	for _, line := range strings.Split(out, "\n") {
		assert.False(t, strings.HasPrefix(line, "roster "), "roster listed as a config: %q", line)
	}
}

func TestSimulateCommand(t *testing.T) {
	out := runApp(t, "simulate", "--config", "easy", "--seed", "8", "--turns", "3")
	assert.Contains(t, out, "Result after")
	assert.Contains(t, out, "-- Turn 1 --")
}

func TestSimulate_StopsWhenDecided(t *testing.T) {
	configs, err := config.NewManager("configs")
	require.NoError(t, err)
	cfg, err := configs.LoadConfig("easy")
	require.NoError(t, err)

	var out bytes.Buffer
	result, turns, err := simulate(context.Background(), &out, *cfg, configs, 21, 200)
	require.NoError(t, err)
	assert.LessOrEqual(t, turns, 200)
	if result == service.StatusActive {
		assert.Equal(t, 200, turns, "an undecided game must use every turn")
	} else {
		assert.Contains(t, []string{service.StatusVictory, service.StatusDefeat}, result)
	}
}

func TestSimulate_Cancelled(t *testing.T) {
	configs, err := config.NewManager("configs")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	_, _, err = simulate(ctx, &out, *configs.GetDefault(), configs, 1, 5)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStatus(t *testing.T) {
	b, err := engine.NewBoard(3, 3)
	require.NoError(t, err)
	assert.Equal(t, service.StatusDefeat, status(b))

	hero, err := engine.NewUnit("hero", engine.TeamPlayer, 3)
	require.NoError(t, err)
	require.NoError(t, b.AddUnit(hero, engine.Position{Row: 0, Col: 0}))
	assert.Equal(t, service.StatusVictory, status(b))

	foe, err := engine.NewUnit("foe", engine.TeamEnemy, 3)
	require.NoError(t, err)
	require.NoError(t, b.AddUnit(foe, engine.Position{Row: 2, Col: 2}))
	assert.Equal(t, service.StatusActive, status(b))
}

func TestInitializeServices(t *testing.T) {
	gameService, sessions, err := initializeServices("configs")
	require.NoError(t, err)
	require.NotNil(t, gameService)

	_, err = gameService.CreateSession(context.Background(), "", 4)
	require.NoError(t, err)
	assert.Equal(t, 1, sessions.Count())
}

func TestInitializeServices_InvalidConfigDir(t *testing.T) {
	_, _, err := initializeServices("/non/existent/path")
	assert.Error(t, err)
}

func TestSeedValue(t *testing.T) {
	assert.Equal(t, int64(9), seedValue(9))
	assert.NotZero(t, seedValue(0))
}
