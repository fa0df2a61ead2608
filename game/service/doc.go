// Package service provides the business logic layer for grid tactics games.
//
// The service package implements:
//   - Multi-session game management
//   - Player ability use with move accounting
//   - The enemy phase driven by the AI policy
//   - Victory and defeat detection
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager loads generator configurations and the unit roster.
//
// Architecture:
//
// The service layer sits between the transport layer (MCP, CLI) and the game
// engine, providing session isolation, configuration management, and turn
// orchestration. Each session owns its own generated board and random source.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	// Create a new session
//	info, err := gameService.CreateSession(ctx, "easy", 42)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Step the first player unit one cell up
//	hero := info.State.Units[0]
//	result, err := gameService.UseAbility(ctx, info.ID, service.UseAbilityRequest{
//		UnitID:       hero.ID,
//		AbilityIndex: 0,
//		Target:       engine.Position{Row: hero.Position.Row - 1, Col: hero.Position.Col},
//		TargetID:     engine.NoTarget,
//	})
//
//	// Let the enemies act and start the next turn
//	turn, err := gameService.EndTurn(ctx, info.ID)
//
// Turns:
//
// Every player unit may act until its moves run out. EndTurn runs each enemy
// that was on the board when the phase began, then refills every unit's
// moves. Once either side has no units left the game is over and further
// actions fail with ErrGameOver.
package service
