// Package mcp provides the Model Context Protocol server for grid tactics.
//
// The mcp package implements:
//   - MCP server for AI agent integration
//   - Tool definitions for game operations
//   - Text rendering of boards and turn results
//
// MCP Tools:
//
// The package exposes the following tools for AI agents:
//   - list_configs: List available board configurations
//   - create_session: Generate a new board from a config and seed
//   - list_sessions: List all active sessions
//   - delete_session: Remove a session
//   - board_state: Map, units, obstacles and moves left
//   - legal_targets: Cells where an ability may be used
//   - use_ability: Use one ability of a player unit
//   - end_turn: Run the enemy phase and refill moves
//   - describe_tile: Terrain and occupants of one cell
//   - game_instructions: Full rules
//
// Errors:
//
// Tool failures are returned as tool error results, never as protocol
// errors. Failures caused by the server rather than the request are also
// logged.
//
// Usage:
//
//	server := mcp.NewServer(gameService)
//	if err := server.RunStdio(); err != nil {
//		log.Fatal(err)
//	}
package mcp
