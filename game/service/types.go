package service

import (
	"time"

	"github.com/wricardo/gridtactics/game/engine"
)

// Game status values
const (
	StatusActive  = "active"
	StatusVictory = "victory"
	StatusDefeat  = "defeat"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string      `json:"id"`
	ConfigName     string      `json:"config_name"`
	Seed           int64       `json:"seed"`
	CreatedAt      time.Time   `json:"created_at"`
	LastAccessedAt time.Time   `json:"last_accessed_at"`
	State          *BoardState `json:"state"`
}

// BoardState is a snapshot of a session's board
type BoardState struct {
	SessionID string              `json:"session_id"`
	Turn      int                 `json:"turn"`
	Status    string              `json:"status"`
	Rows      int                 `json:"rows"`
	Cols      int                 `json:"cols"`
	Map       []string            `json:"map"`
	Terrain   [][]engine.TileType `json:"terrain"`
	Units     []UnitInfo          `json:"units"`
	Obstacles []ObstacleInfo      `json:"obstacles"`
}

// UnitInfo describes a unit on the board
type UnitInfo struct {
	ID             engine.ObjectID   `json:"id"`
	Name           string            `json:"name"`
	Team           string            `json:"team"`
	Glyph          string            `json:"glyph"`
	Position       engine.Position   `json:"position"`
	Health         int               `json:"health"`
	MaxHealth      int               `json:"max_health"`
	MovesRemaining int               `json:"moves_remaining"`
	Terrain        []engine.TileType `json:"terrain"`
	Abilities      []AbilityInfo     `json:"abilities"`
}

// AbilityInfo describes one ability of a unit
type AbilityInfo struct {
	Index int                `json:"index"`
	Kind  engine.AbilityKind `json:"kind"`
}

// ObstacleInfo describes an obstacle on the board
type ObstacleInfo struct {
	ID        engine.ObjectID `json:"id"`
	Size      string          `json:"size"`
	Position  engine.Position `json:"position"`
	Health    int             `json:"health"`
	MaxHealth int             `json:"max_health"`
}

// UseAbilityRequest asks a player unit to use one of its abilities
type UseAbilityRequest struct {
	UnitID       engine.ObjectID `json:"unit_id"`
	AbilityIndex int             `json:"ability_index"`
	Target       engine.Position `json:"target"`
	// TargetID picks between a unit and an obstacle sharing the target tile.
	// engine.NoTarget lets the ability choose.
	TargetID engine.ObjectID `json:"target_id"`
}

// ActionResult contains the outcome of a player action
type ActionResult struct {
	Move           string      `json:"move"`
	MovesRemaining int         `json:"moves_remaining"`
	State          *BoardState `json:"state"`
}

// MoveRecord is one move made during the enemy phase
type MoveRecord struct {
	UnitID engine.ObjectID `json:"unit_id"`
	Unit   string          `json:"unit"`
	Move   string          `json:"move"`
}

// TurnResult contains the outcome of ending a turn
type TurnResult struct {
	Turn       int          `json:"turn"`
	EnemyMoves []MoveRecord `json:"enemy_moves"`
	State      *BoardState  `json:"state"`
}

// ConfigInfo provides information about a generator configuration
type ConfigInfo struct {
	Filename       string   `json:"filename"`
	ConfigID       string   `json:"config_id"` // The identifier to use for session creation
	Name           string   `json:"name"`      // Display name
	Description    string   `json:"description"`
	Rows           int      `json:"rows"`
	Cols           int      `json:"cols"`
	TurnDifficulty int      `json:"turn_difficulty"`
	Players        []string `json:"players"`
}

// NewBoardState snapshots sess. The caller must hold the session lock.
func NewBoardState(sess *Session) *BoardState {
	b := sess.Board
	state := &BoardState{
		SessionID: sess.ID,
		Turn:      sess.Turn,
		Status:    sess.Status(),
		Rows:      b.Rows(),
		Cols:      b.Cols(),
		Map:       b.Render(),
		Terrain:   make([][]engine.TileType, b.Rows()),
		Units:     []UnitInfo{},
		Obstacles: []ObstacleInfo{},
	}

	for r := range state.Terrain {
		state.Terrain[r] = make([]engine.TileType, b.Cols())
		for c := range state.Terrain[r] {
			state.Terrain[r][c], _ = b.TileType(engine.Position{Row: r, Col: c})
		}
	}

	for _, u := range b.Units() {
		info := UnitInfo{
			ID:             u.ID(),
			Name:           u.Name(),
			Team:           u.Team().String(),
			Glyph:          string(engine.UnitGlyph(u)),
			Position:       u.Position(),
			Health:         u.Health().Current(),
			MaxHealth:      u.Health().Max(),
			MovesRemaining: u.MovesRemaining(),
			Terrain:        u.Terrain(),
		}
		for i, a := range u.Abilities() {
			info.Abilities = append(info.Abilities, AbilityInfo{Index: i, Kind: a.Kind()})
		}
		state.Units = append(state.Units, info)
	}

	for _, o := range b.Obstacles() {
		state.Obstacles = append(state.Obstacles, ObstacleInfo{
			ID:        o.ID(),
			Size:      o.Size().String(),
			Position:  o.Position(),
			Health:    o.Health().Current(),
			MaxHealth: o.Health().Max(),
		})
	}
	return state
}
