package service

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/wricardo/gridtactics/game/engine"
	"github.com/wricardo/gridtactics/game/generator"
	"github.com/wricardo/gridtactics/game/roster"
)

var (
	ErrNoMovesRemaining = errors.New("unit has no moves remaining")
	ErrNotPlayerUnit    = errors.New("not a player unit")
	ErrUnknownAbility   = errors.New("unknown ability")
	ErrUnknownUnit      = errors.New("unknown unit")
	ErrGameOver         = errors.New("game is over")
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string, seed int64) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game State
	GetState(ctx context.Context, sessionID string) (*BoardState, error)
	LegalTargets(ctx context.Context, sessionID string, unitID engine.ObjectID, abilityIndex int) ([]engine.Position, error)

	// Game Operations
	UseAbility(ctx context.Context, sessionID string, req UseAbilityRequest) (*ActionResult, error)
	EndTurn(ctx context.Context, sessionID string) (*TurnResult, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, spec SessionSpec) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// ConfigManager handles generator configuration and roster loading
type ConfigManager interface {
	LoadConfig(name string) (*generator.Config, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *generator.Config
	Roster() *roster.Registry
}

// SessionSpec is everything needed to generate a session's board
type SessionSpec struct {
	ConfigName string
	Config     *generator.Config
	Roster     *roster.Registry
	Seed       int64
}

// Session represents an active game session. The embedded mutex serializes
// turn mutations; only one caller may act on the board at a time.
type Session struct {
	sync.Mutex

	ID             string
	ConfigName     string
	Config         *generator.Config
	Roster         *roster.Registry
	Seed           int64
	Board          *engine.Board
	RNG            *rand.Rand
	Turn           int
	CreatedAt      time.Time
	LastAccessedAt time.Time
}

// Status reports whether either side has been wiped out
func (s *Session) Status() string {
	players, enemies := 0, 0
	for _, u := range s.Board.Units() {
		if u.Team() == engine.TeamPlayer {
			players++
		} else {
			enemies++
		}
	}
	switch {
	case players == 0:
		return StatusDefeat
	case enemies == 0:
		return StatusVictory
	}
	return StatusActive
}
