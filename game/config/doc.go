// Package config provides configuration management for grid tactics boards.
//
// The config package handles:
//   - Loading board generator configurations from YAML files
//   - Loading the unit roster that configurations refer to
//   - Configuration validation against the roster
//   - Default configuration management and discovery
//
// Configuration Format:
//
// Generator configurations are stored as YAML files in the configs directory.
// Each configuration defines:
//   - Board dimensions (rows, cols)
//   - Liquid share and pool strength for terrain generation
//   - Obstacle density, large obstacle share and obstacle health
//   - Enemy turn difficulty and an optional enemy whitelist
//   - The player archetypes to place and their moves per turn
//
// The Roster:
//
// roster.yaml in the same directory lists the unit archetypes. It is not a
// generator configuration and is never listed as one. When the file is
// missing the built-in roster is used.
//
// Available Configurations:
//   - default: balanced 8x8 skirmish
//   - easy: small dry board against weak enemies
//   - medium: marshy 10x10 board
//   - hard: two heroes on a large swamp
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Load specific configuration
//	cfg, err := manager.LoadConfig("easy")
//
//	// Get default configuration
//	defaultCfg := manager.GetDefault()
//
//	// List all available configurations
//	configs, err := manager.ListConfigs()
//
// Caching:
//
// Loaded configurations are cached. ReloadConfig drops one entry and
// RefreshCache drops all of them and rereads the roster.
//
// Thread Safety:
//
// The Manager is safe for concurrent use.
package config
