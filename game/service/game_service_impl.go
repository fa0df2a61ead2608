package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wricardo/gridtactics/game/ai"
	"github.com/wricardo/gridtactics/game/engine"
)

// maxEnemyActions bounds how many moves one enemy may make in a single enemy
// phase, whatever its allowance.
const maxEnemyActions = 8

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

// CreateSession generates a new board from the named config. An empty name
// uses the default config; seed 0 picks a time-based seed.
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string, seed int64) (*SessionInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg := s.configs.GetDefault()
	if configName != "" {
		var err error
		cfg, err = s.configs.LoadConfig(configName)
		if err != nil {
			return nil, s.configError(configName, err)
		}
	} else {
		configName = cfg.Name
	}

	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	sess, err := s.sessions.Create("", SessionSpec{
		ConfigName: configName,
		Config:     cfg,
		Roster:     s.configs.Roster(),
		Seed:       seed,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	sess.Lock()
	defer sess.Unlock()
	return sessionInfo(sess), nil
}

// configError lists the available configs when the requested one is missing
func (s *gameServiceImpl) configError(name string, err error) error {
	available, listErr := s.configs.ListConfigs()
	if listErr != nil || len(available) == 0 {
		return fmt.Errorf("failed to load config %s: %w", name, err)
	}
	ids := make([]string, 0, len(available))
	for _, c := range available {
		ids = append(ids, c.ConfigID)
	}
	return fmt.Errorf("failed to load config %s (available: %v): %w", name, ids, err)
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	sess.Lock()
	defer sess.Unlock()
	return sessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		sess.Lock()
		result = append(result, sessionInfo(sess))
		sess.Unlock()
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(sessionID)
}

// GetState returns a snapshot of the session's board
func (s *gameServiceImpl) GetState(ctx context.Context, sessionID string) (*BoardState, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	sess.Lock()
	defer sess.Unlock()
	return NewBoardState(sess), nil
}

// LegalTargets lists where a unit's ability may currently be used, in
// row-major order.
func (s *gameServiceImpl) LegalTargets(ctx context.Context, sessionID string, unitID engine.ObjectID, abilityIndex int) ([]engine.Position, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	sess.Lock()
	defer sess.Unlock()

	u, err := unitByID(sess.Board, unitID)
	if err != nil {
		return nil, err
	}
	a, ok := u.Ability(abilityIndex)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no ability %d", ErrUnknownAbility, u.Name(), abilityIndex)
	}
	return engine.SortedTargets(a.LegalTargets(sess.Board)), nil
}

// UseAbility executes one player action and spends one of the unit's moves
func (s *gameServiceImpl) UseAbility(ctx context.Context, sessionID string, req UseAbilityRequest) (*ActionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	sess.Lock()
	defer sess.Unlock()

	if sess.Status() != StatusActive {
		return nil, ErrGameOver
	}
	u, err := unitByID(sess.Board, req.UnitID)
	if err != nil {
		return nil, err
	}
	if u.Team() != engine.TeamPlayer {
		return nil, fmt.Errorf("%w: %s", ErrNotPlayerUnit, u.Name())
	}
	if u.MovesRemaining() <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoMovesRemaining, u.Name())
	}
	a, ok := u.Ability(req.AbilityIndex)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no ability %d", ErrUnknownAbility, u.Name(), req.AbilityIndex)
	}

	move, err := a.CreateMove(sess.Board, req.Target, req.TargetID)
	if err != nil {
		return nil, err
	}
	if err := sess.Board.Execute(move); err != nil {
		return nil, fmt.Errorf("failed to execute %s: %w", move, err)
	}
	u.SpendMove()

	return &ActionResult{
		Move:           move.String(),
		MovesRemaining: u.MovesRemaining(),
		State:          NewBoardState(sess),
	}, nil
}

// EndTurn lets every living enemy act through the AI policy, refills every
// unit's moves and advances the turn counter.
func (s *gameServiceImpl) EndTurn(ctx context.Context, sessionID string) (*TurnResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	sess.Lock()
	defer sess.Unlock()

	if sess.Status() != StatusActive {
		return nil, ErrGameOver
	}

	policy := ai.NewPolicy(sess.RNG)
	if sess.Config != nil {
		policy.Aggressive = sess.Config.AggressiveEnemies
	}
	result := &TurnResult{EnemyMoves: []MoveRecord{}}
	for _, u := range sess.Board.Units() {
		if u.Team() != engine.TeamEnemy {
			continue
		}
		if sess.Status() != StatusActive {
			break
		}
		for i := 0; i < maxEnemyActions && u.OnBoard() && u.MovesRemaining() > 0; i++ {
			move, err := policy.Decide(sess.Board, u)
			if err != nil {
				return nil, fmt.Errorf("enemy %s: %w", u.Name(), err)
			}
			if move.Empty() {
				break
			}
			if err := sess.Board.Execute(move); err != nil {
				return nil, fmt.Errorf("enemy %s: %w", u.Name(), err)
			}
			u.SpendMove()
			result.EnemyMoves = append(result.EnemyMoves, MoveRecord{UnitID: u.ID(), Unit: u.Name(), Move: move.String()})
		}
	}

	for _, u := range sess.Board.Units() {
		u.ResetMoves()
	}
	sess.Turn++

	result.Turn = sess.Turn
	result.State = NewBoardState(sess)
	return result, nil
}

// ListConfigs returns the available generator configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

func (s *gameServiceImpl) session(id string) (*Session, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", id, err)
	}
	_ = s.sessions.UpdateLastAccessed(id)
	return sess, nil
}

func unitByID(b *engine.Board, id engine.ObjectID) (*engine.Unit, error) {
	obj, ok := b.Object(id)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownUnit, id)
	}
	u, ok := obj.(*engine.Unit)
	if !ok || !u.OnBoard() {
		return nil, fmt.Errorf("%w: %d is not a unit on the board", ErrUnknownUnit, id)
	}
	return u, nil
}

func sessionInfo(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     sess.ConfigName,
		Seed:           sess.Seed,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		State:          NewBoardState(sess),
	}
}

// IsClientError reports whether err was caused by the request rather than the
// server, so transports can report it to the caller verbatim.
func IsClientError(err error) bool {
	for _, target := range []error{
		ErrNoMovesRemaining, ErrNotPlayerUnit, ErrUnknownAbility, ErrUnknownUnit, ErrGameOver,
		engine.ErrIllegalTarget, engine.ErrOutOfBounds,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
