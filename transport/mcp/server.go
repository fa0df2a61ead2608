package mcp

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/gridtactics/game/engine"
	"github.com/wricardo/gridtactics/game/service"
)

// Server exposes a GameService as MCP tools
type Server struct {
	svc       service.GameService
	mcpServer *server.MCPServer
}

// NewServer creates an MCP server backed by svc
func NewServer(svc service.GameService) *Server {
	s := &Server{svc: svc}
	s.initMCPServer()
	return s
}

// initMCPServer initializes the MCP server with all tools
func (s *Server) initMCPServer() {
	s.mcpServer = server.NewMCPServer(
		"Grid Tactics",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Grid Tactics - MCP Interface

Turn-based tactics on a generated grid. Your units are upper-case letters,
enemies lower-case. Wipe out every enemy to win.

AVAILABLE TOOLS:
- list_configs: List board configurations
- create_session: Generate a new board (optional config_name and seed)
- list_sessions: List all active sessions
- delete_session: Remove a session
- board_state: Map, units, abilities and moves left
- legal_targets: Cells where a unit's ability may be used
- use_ability: Use one ability of one of your units
- end_turn: Let the enemies act and start the next turn
- describe_tile: Terrain and occupants of one cell
- game_instructions: Full rules

Always call legal_targets before use_ability; targets outside that list are rejected.`),
	)

	s.registerTools()
}

func sessionIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

func intProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "number",
		"description": description,
	}
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available board configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleListConfigs)

	// Session management
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Generate a new board. The same config and seed always produce the same game.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_name": map[string]interface{}{
					"type":        "string",
					"description": "Name of the config to use (optional)",
				},
				"seed": intProperty("Random seed (optional, 0 picks one)"),
			},
		},
	}, s.handleCreateSession)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleListSessions)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "delete_session",
		Description: "Delete a game session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, s.handleDeleteSession)

	// Game operations
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "board_state",
		Description: "Get the current board: map, units with abilities, health and moves left",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, s.handleBoardState)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "legal_targets",
		Description: "List the cells where a unit's ability may be used right now",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id":    sessionIDProperty(),
				"unit_id":       intProperty("Unit ID from board_state"),
				"ability_index": intProperty("Ability index from board_state"),
			},
			Required: []string{"session_id", "unit_id", "ability_index"},
		},
	}, s.handleLegalTargets)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "use_ability",
		Description: "Use one ability of one of your units on a target cell. Spends one move.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id":    sessionIDProperty(),
				"unit_id":       intProperty("Unit ID from board_state"),
				"ability_index": intProperty("Ability index from board_state"),
				"row":           intProperty("Target row"),
				"col":           intProperty("Target column"),
				"target_id":     intProperty("Object to hit when a unit and an obstacle share the cell (optional)"),
			},
			Required: []string{"session_id", "unit_id", "ability_index", "row", "col"},
		},
	}, s.handleUseAbility)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "end_turn",
		Description: "End your turn: every enemy acts, then all moves are refilled",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, s.handleEndTurn)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_tile",
		Description: "Describe the terrain and occupants of one cell",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"row":        intProperty("Row"),
				"col":        intProperty("Column"),
			},
			Required: []string{"session_id", "row", "col"},
		},
	}, s.handleDescribeTile)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the full game rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server
func (s *Server) GetMCPServer() *server.MCPServer {
	return s.mcpServer
}

// RunStdio serves MCP over stdin/stdout until the client disconnects
func (s *Server) RunStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// toolError reports err to the caller. Errors the caller did not cause are
// also logged.
func toolError(tool string, err error) (*mcp.CallToolResult, error) {
	if !service.IsClientError(err) {
		log.Printf("mcp %s: %v", tool, err)
	}
	return mcp.NewToolResultError(err.Error()), nil
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

// intArg reads a numeric argument. JSON numbers arrive as float64.
func intArg(args map[string]interface{}, name string) (int, bool) {
	v, ok := args[name].(float64)
	if !ok {
		return 0, false
	}
	return int(v), true
}

func requireInt(args map[string]interface{}, name string) (int, error) {
	v, ok := intArg(args, name)
	if !ok {
		return 0, fmt.Errorf("%s is required and must be a number", name)
	}
	return v, nil
}

func (s *Server) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	configs, err := s.svc.ListConfigs(ctx)
	if err != nil {
		return toolError("list_configs", err)
	}

	var result strings.Builder
	result.WriteString(fmt.Sprintf("Available Configs (%d):\n\n", len(configs)))
	for _, c := range configs {
		result.WriteString(fmt.Sprintf("- %s: %s (%dx%d, difficulty %d, players: %s)\n",
			c.ConfigID, c.Description, c.Rows, c.Cols, c.TurnDifficulty, strings.Join(c.Players, ", ")))
	}
	return mcp.NewToolResultText(result.String()), nil
}

func (s *Server) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	configName, _ := args["config_name"].(string)
	seed, _ := intArg(args, "seed")

	session, err := s.svc.CreateSession(ctx, configName, int64(seed))
	if err != nil {
		return toolError("create_session", err)
	}

	return mcp.NewToolResultText(formatSessionInfo(session)), nil
}

func (s *Server) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessions, err := s.svc.ListSessions(ctx)
	if err != nil {
		return toolError("list_sessions", err)
	}

	var result strings.Builder
	result.WriteString(fmt.Sprintf("Active Sessions (%d):\n\n", len(sessions)))
	for _, sess := range sessions {
		result.WriteString(fmt.Sprintf("- %s (Config: %s, Seed: %d, Turn: %d, Status: %s, Created: %s)\n",
			sess.ID, sess.ConfigName, sess.Seed, sess.State.Turn, sess.State.Status, sess.CreatedAt.Format("15:04:05")))
	}
	return mcp.NewToolResultText(result.String()), nil
}

func (s *Server) handleDeleteSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)
	if err := s.svc.DeleteSession(ctx, sessionID); err != nil {
		return toolError("delete_session", err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Deleted session: %s", sessionID)), nil
}

func (s *Server) handleBoardState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	state, err := s.svc.GetState(ctx, sessionID)
	if err != nil {
		return toolError("board_state", err)
	}
	return mcp.NewToolResultText(formatBoardState(state)), nil
}

func (s *Server) handleLegalTargets(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	unitID, err := requireInt(args, "unit_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	index, err := requireInt(args, "ability_index")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	targets, err := s.svc.LegalTargets(ctx, sessionID, engine.ObjectID(unitID), index)
	if err != nil {
		return toolError("legal_targets", err)
	}
	if len(targets) == 0 {
		return mcp.NewToolResultText("No legal targets"), nil
	}

	cells := make([]string, len(targets))
	for i, p := range targets {
		cells[i] = p.String()
	}
	return mcp.NewToolResultText(fmt.Sprintf("Legal targets (%d): %s", len(targets), strings.Join(cells, " "))), nil
}

func (s *Server) handleUseAbility(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)

	unitID, err := requireInt(args, "unit_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	index, err := requireInt(args, "ability_index")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	row, err := requireInt(args, "row")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	col, err := requireInt(args, "col")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	req := service.UseAbilityRequest{
		UnitID:       engine.ObjectID(unitID),
		AbilityIndex: index,
		Target:       engine.Position{Row: row, Col: col},
		TargetID:     engine.NoTarget,
	}
	if id, ok := intArg(args, "target_id"); ok {
		req.TargetID = engine.ObjectID(id)
	}

	result, err := s.svc.UseAbility(ctx, sessionID, req)
	if err != nil {
		return toolError("use_ability", err)
	}

	response := fmt.Sprintf("%s\nMoves remaining: %d\n\n%s", result.Move, result.MovesRemaining, formatBoardState(result.State))
	return mcp.NewToolResultText(response), nil
}

func (s *Server) handleEndTurn(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	result, err := s.svc.EndTurn(ctx, sessionID)
	if err != nil {
		return toolError("end_turn", err)
	}
	return mcp.NewToolResultText(formatTurnResult(result)), nil
}

func (s *Server) handleDescribeTile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	row, err := requireInt(args, "row")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	col, err := requireInt(args, "col")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	state, err := s.svc.GetState(ctx, sessionID)
	if err != nil {
		return toolError("describe_tile", err)
	}
	if row < 0 || row >= state.Rows || col < 0 || col >= state.Cols {
		return mcp.NewToolResultError(fmt.Sprintf("Cell (%d,%d) is out of bounds. Board is %dx%d (rows 0-%d, cols 0-%d)",
			row, col, state.Rows, state.Cols, state.Rows-1, state.Cols-1)), nil
	}

	return mcp.NewToolResultText(describeTile(state, engine.Position{Row: row, Col: col})), nil
}

func (s *Server) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(instructions), nil
}

const instructions = `# Grid Tactics Rules

## Objective
Destroy every enemy unit. You lose when all of your units are gone.

## The Board
Each cell has a terrain and up to one unit plus one obstacle.

  .  solid ground     ~  liquid     _  empty (a pit)
  o  small obstacle   O  large obstacle
  Upper-case letters are your units, lower-case letters are enemies.

Positions are written (row,col) with (0,0) in the top-left corner.

## Turns
1. Each of your units has a number of moves per turn. Using any ability spends one move.
2. Call end_turn when you are done. Every enemy then acts, and all moves are refilled.

## Abilities
- step: walk up to N cells through free cells your unit can stand on (no diagonals)
- teleport: jump to any free cell within N steps, ignoring what lies between
- melee: hit an adjacent object (diagonals count); not usable from liquid
- lob: hit an object within a square radius
- smash: hit everything on an adjacent cell; only usable from solid ground
- square_heal: heal a friendly unit (or yourself) within a square radius
- self_heal: heal yourself
- summon: enemies only, create a new unit nearby

Units die at 0 health and are removed. Obstacles break the same way.

## Workflow
1. board_state to see units, their IDs and ability indexes
2. legal_targets for the ability you want
3. use_ability with one of those cells
4. end_turn`

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nSeed: %d\nCreated: %s\n\n%s",
		session.ID, session.ConfigName, session.Seed,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatBoardState(session.State))
}

func formatBoardState(state *service.BoardState) string {
	if state == nil {
		return "No board state available"
	}

	var result strings.Builder
	result.WriteString(fmt.Sprintf("Turn: %d | Status: %s | Board: %dx%d\n\n", state.Turn, state.Status, state.Rows, state.Cols))

	result.WriteString("    ")
	for c := 0; c < state.Cols; c++ {
		result.WriteString(fmt.Sprintf("%d", c%10))
	}
	result.WriteString("\n")
	for r, line := range state.Map {
		result.WriteString(fmt.Sprintf("%2d  %s\n", r, line))
	}

	result.WriteString("\nUnits:\n")
	for _, u := range state.Units {
		abilities := make([]string, len(u.Abilities))
		for i, a := range u.Abilities {
			abilities[i] = fmt.Sprintf("%d:%s", a.Index, a.Kind)
		}
		result.WriteString(fmt.Sprintf("  [%d] %s %s (%s) at %s hp %d/%d moves %d abilities [%s]\n",
			u.ID, u.Glyph, u.Name, u.Team, u.Position, u.Health, u.MaxHealth, u.MovesRemaining, strings.Join(abilities, " ")))
	}

	if len(state.Obstacles) > 0 {
		result.WriteString("\nObstacles:\n")
		for _, o := range state.Obstacles {
			result.WriteString(fmt.Sprintf("  [%d] %s at %s hp %d/%d\n", o.ID, o.Size, o.Position, o.Health, o.MaxHealth))
		}
	}

	switch state.Status {
	case service.StatusVictory:
		result.WriteString("\nVICTORY! Every enemy is gone.")
	case service.StatusDefeat:
		result.WriteString("\nDEFEAT. Your units have fallen.")
	}

	return result.String()
}

func formatTurnResult(result *service.TurnResult) string {
	var out strings.Builder
	out.WriteString(fmt.Sprintf("Turn %d begins\n", result.Turn))
	if len(result.EnemyMoves) == 0 {
		out.WriteString("Enemies did nothing\n")
	} else {
		out.WriteString("Enemy moves:\n")
		for _, m := range result.EnemyMoves {
			out.WriteString(fmt.Sprintf("  [%d] %s: %s\n", m.UnitID, m.Unit, m.Move))
		}
	}
	out.WriteString("\n")
	out.WriteString(formatBoardState(result.State))
	return out.String()
}

func describeTile(state *service.BoardState, p engine.Position) string {
	var out strings.Builder
	out.WriteString(fmt.Sprintf("Cell %s: %s\n", p, state.Terrain[p.Row][p.Col]))

	found := false
	for _, u := range state.Units {
		if u.Position == p {
			found = true
			out.WriteString(fmt.Sprintf("Unit [%d] %s (%s) hp %d/%d\n", u.ID, u.Name, u.Team, u.Health, u.MaxHealth))
		}
	}
	for _, o := range state.Obstacles {
		if o.Position == p {
			found = true
			out.WriteString(fmt.Sprintf("Obstacle [%d] %s hp %d/%d\n", o.ID, o.Size, o.Health, o.MaxHealth))
		}
	}
	if !found {
		out.WriteString("Nothing here\n")
	}
	return out.String()
}
