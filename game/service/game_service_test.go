package service_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/wricardo/gridtactics/game/engine"
	"github.com/wricardo/gridtactics/game/generator"
	"github.com/wricardo/gridtactics/game/roster"
	"github.com/wricardo/gridtactics/game/service"
)

// MockSessionManager implements service.SessionManager for testing
type MockSessionManager struct {
	sessions map[string]*service.Session
}

func NewMockSessionManager() *MockSessionManager {
	return &MockSessionManager{
		sessions: make(map[string]*service.Session),
	}
}

func (m *MockSessionManager) Create(id string, spec service.SessionSpec) (*service.Session, error) {
	// Generate ID if empty (mimics real session manager behavior)
	if id == "" {
		id = fmt.Sprintf("test_%d", len(m.sessions)+1)
	}

	if _, exists := m.sessions[id]; exists {
		return nil, errors.New("session already exists")
	}

	rng := generator.NewRand(spec.Seed)
	res, err := generator.Generate(*spec.Config, spec.Roster, rng)
	if err != nil {
		return nil, err
	}

	session := &service.Session{
		ID:             id,
		ConfigName:     spec.ConfigName,
		Config:         spec.Config,
		Roster:         spec.Roster,
		Seed:           spec.Seed,
		Board:          res.Board,
		RNG:            rng,
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}

	m.sessions[id] = session
	return session, nil
}

func (m *MockSessionManager) Get(id string) (*service.Session, error) {
	session, exists := m.sessions[id]
	if !exists {
		return nil, errors.New("session not found")
	}
	return session, nil
}

func (m *MockSessionManager) List() []*service.Session {
	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}
	return result
}

func (m *MockSessionManager) Delete(id string) error {
	if _, exists := m.sessions[id]; !exists {
		return errors.New("session not found")
	}
	delete(m.sessions, id)
	return nil
}

func (m *MockSessionManager) UpdateLastAccessed(id string) error {
	if session, exists := m.sessions[id]; exists {
		session.LastAccessedAt = time.Now()
	}
	return nil
}

// MockConfigManager implements service.ConfigManager for testing
type MockConfigManager struct {
	configs map[string]*generator.Config
	roster  *roster.Registry
}

func NewMockConfigManager(reg *roster.Registry) *MockConfigManager {
	cfg := generator.DefaultConfig()
	return &MockConfigManager{
		configs: map[string]*generator.Config{"default": &cfg},
		roster:  reg,
	}
}

func (m *MockConfigManager) LoadConfig(name string) (*generator.Config, error) {
	cfg, exists := m.configs[name]
	if !exists {
		return nil, errors.New("config not found")
	}
	return cfg, nil
}

func (m *MockConfigManager) ListConfigs() ([]*service.ConfigInfo, error) {
	var result []*service.ConfigInfo
	for name, cfg := range m.configs {
		result = append(result, &service.ConfigInfo{
			Filename: name + ".yaml",
			ConfigID: name,
			Name:     cfg.Name,
			Rows:     cfg.Rows,
			Cols:     cfg.Cols,
			Players:  cfg.Players,
		})
	}
	return result, nil
}

func (m *MockConfigManager) GetDefault() *generator.Config {
	return m.configs["default"]
}

func (m *MockConfigManager) Roster() *roster.Registry {
	return m.roster
}

// testRoster has a player with a one-cell step and a melee attack, and an
// enemy with no abilities so enemy phases are deterministic.
func testRoster(t *testing.T) *roster.Registry {
	t.Helper()
	reg, err := roster.NewRegistry(
		roster.Archetype{
			Name: "hero", Team: "player", MaxHealth: 6, MoveAllowance: 2,
			Abilities: []roster.AbilitySpec{
				{Kind: engine.KindStep, Distance: 1},
				{Kind: engine.KindMelee, Damage: 2},
			},
		},
		roster.Archetype{Name: "dummy", Team: "enemy", MaxHealth: 3, Difficulty: 1},
	)
	if err != nil {
		t.Fatalf("Failed to build roster: %v", err)
	}
	return reg
}

type arena struct {
	svc     service.GameService
	id      string
	session *service.Session
	hero    *engine.Unit
	near    *engine.Unit
	far     *engine.Unit
}

// newArena creates a session and swaps its board for a 5x5 solid board with
// the hero on (2,2), one dummy next to it on (2,3) and one in the corner.
func newArena(t *testing.T) *arena {
	t.Helper()
	reg := testRoster(t)
	sessions := NewMockSessionManager()
	configs := NewMockConfigManager(reg)
	cfg := generator.DefaultConfig()
	cfg.Players = []string{"hero"}
	configs.configs["arena"] = &cfg

	svc := service.NewGameService(sessions, configs)
	info, err := svc.CreateSession(context.Background(), "arena", 1)
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	b, err := engine.NewBoard(5, 5)
	if err != nil {
		t.Fatalf("Failed to create board: %v", err)
	}
	place := func(name string, p engine.Position) *engine.Unit {
		u, err := reg.Spawn(name)
		if err != nil {
			t.Fatalf("Spawn %s: %v", name, err)
		}
		if err := b.AddUnit(u, p); err != nil {
			t.Fatalf("AddUnit %s: %v", name, err)
		}
		return u
	}

	a := &arena{svc: svc, id: info.ID, session: sessions.sessions[info.ID]}
	a.hero = place("hero", engine.Position{Row: 2, Col: 2})
	a.near = place("dummy", engine.Position{Row: 2, Col: 3})
	a.far = place("dummy", engine.Position{Row: 0, Col: 0})
	a.session.Board = b
	return a
}

func (a *arena) use(unit *engine.Unit, ability int, target engine.Position) (*service.ActionResult, error) {
	return a.svc.UseAbility(context.Background(), a.id, service.UseAbilityRequest{
		UnitID:       unit.ID(),
		AbilityIndex: ability,
		Target:       target,
		TargetID:     engine.NoTarget,
	})
}

func TestGameService_CreateSession(t *testing.T) {
	ctx := context.Background()
	svc := service.NewGameService(NewMockSessionManager(), NewMockConfigManager(roster.Default()))

	t.Run("default config", func(t *testing.T) {
		info, err := svc.CreateSession(ctx, "", 42)
		if err != nil {
			t.Fatalf("CreateSession: %v", err)
		}
		if info.ConfigName != "default" {
			t.Errorf("Expected config name 'default', got '%s'", info.ConfigName)
		}
		if info.Seed != 42 {
			t.Errorf("Expected seed 42, got %d", info.Seed)
		}
		if info.State.Rows != 8 || info.State.Cols != 8 || len(info.State.Map) != 8 {
			t.Errorf("Expected 8x8 board, got %dx%d", info.State.Rows, info.State.Cols)
		}
		if info.State.Status != service.StatusActive || info.State.Turn != 0 {
			t.Errorf("Expected active game on turn 0, got %s on %d", info.State.Status, info.State.Turn)
		}
	})

	t.Run("zero seed is replaced", func(t *testing.T) {
		info, err := svc.CreateSession(ctx, "default", 0)
		if err != nil {
			t.Fatalf("CreateSession: %v", err)
		}
		if info.Seed == 0 {
			t.Error("Expected a time-based seed")
		}
	})

	t.Run("same seed same board", func(t *testing.T) {
		a, _ := svc.CreateSession(ctx, "default", 7)
		b, _ := svc.CreateSession(ctx, "default", 7)
		if fmt.Sprint(a.State.Map) != fmt.Sprint(b.State.Map) {
			t.Errorf("Boards differ:\n%v\n%v", a.State.Map, b.State.Map)
		}
	})

	t.Run("unknown config lists available", func(t *testing.T) {
		_, err := svc.CreateSession(ctx, "missing", 1)
		if err == nil {
			t.Fatal("Expected error for unknown config")
		}
		if got := err.Error(); !strings.Contains(got, "available") || !strings.Contains(got, "default") {
			t.Errorf("Expected available configs in error, got %q", got)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		if _, err := svc.CreateSession(cctx, "", 1); !errors.Is(err, context.Canceled) {
			t.Errorf("Expected context.Canceled, got %v", err)
		}
	})
}

func TestGameService_SessionLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := service.NewGameService(NewMockSessionManager(), NewMockConfigManager(roster.Default()))

	created, err := svc.CreateSession(ctx, "", 3)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	got, err := svc.GetSession(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got.ID != created.ID || got.Seed != 3 {
		t.Errorf("Unexpected session info: %+v", got)
	}

	if _, err := svc.CreateSession(ctx, "", 4); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	list, err := svc.ListSessions(ctx)
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("Expected 2 sessions, got %d", len(list))
	}

	if err := svc.DeleteSession(ctx, created.ID); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	if _, err := svc.GetSession(ctx, created.ID); err == nil {
		t.Error("Expected error for deleted session")
	}
	if _, err := svc.GetState(ctx, created.ID); err == nil {
		t.Error("Expected error for state of deleted session")
	}
}

func TestGameService_GetState(t *testing.T) {
	a := newArena(t)

	state, err := a.svc.GetState(context.Background(), a.id)
	if err != nil {
		t.Fatalf("GetState: %v", err)
	}

	want := []string{"d....", ".....", "..Hd.", ".....", "....."}
	if fmt.Sprint(state.Map) != fmt.Sprint(want) {
		t.Errorf("Expected map %v, got %v", want, state.Map)
	}
	if len(state.Units) != 3 || len(state.Obstacles) != 0 {
		t.Fatalf("Expected 3 units and no obstacles, got %d and %d", len(state.Units), len(state.Obstacles))
	}

	hero := state.Units[0]
	if hero.Name != "hero" || hero.Team != "player" || hero.Glyph != "H" {
		t.Errorf("Unexpected hero info: %+v", hero)
	}
	if hero.MovesRemaining != 2 || hero.Health != 6 || hero.MaxHealth != 6 {
		t.Errorf("Unexpected hero counters: %+v", hero)
	}
	if len(hero.Abilities) != 2 || hero.Abilities[0].Kind != engine.KindStep || hero.Abilities[1].Kind != engine.KindMelee {
		t.Errorf("Unexpected hero abilities: %+v", hero.Abilities)
	}
}

func TestGameService_LegalTargets(t *testing.T) {
	a := newArena(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		unit    engine.ObjectID
		ability int
		want    []engine.Position
		wantErr error
	}{
		{
			name:    "step avoids occupied cell",
			unit:    a.hero.ID(),
			ability: 0,
			want:    []engine.Position{{Row: 1, Col: 2}, {Row: 2, Col: 1}, {Row: 3, Col: 2}},
		},
		{
			name:    "melee finds adjacent enemy",
			unit:    a.hero.ID(),
			ability: 1,
			want:    []engine.Position{{Row: 2, Col: 3}},
		},
		{name: "unknown ability", unit: a.hero.ID(), ability: 9, wantErr: service.ErrUnknownAbility},
		{name: "unknown unit", unit: 99, ability: 0, wantErr: service.ErrUnknownUnit},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := a.svc.LegalTargets(ctx, a.id, test.unit, test.ability)
			if test.wantErr != nil {
				if !errors.Is(err, test.wantErr) {
					t.Errorf("Expected %v, got %v", test.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("LegalTargets: %v", err)
			}
			if fmt.Sprint(got) != fmt.Sprint(test.want) {
				t.Errorf("Expected %v, got %v", test.want, got)
			}
		})
	}
}

func TestGameService_UseAbility(t *testing.T) {
	t.Run("step spends a move", func(t *testing.T) {
		a := newArena(t)
		res, err := a.use(a.hero, 0, engine.Position{Row: 1, Col: 2})
		if err != nil {
			t.Fatalf("UseAbility: %v", err)
		}
		if res.MovesRemaining != 1 {
			t.Errorf("Expected 1 move remaining, got %d", res.MovesRemaining)
		}
		if a.hero.Position() != (engine.Position{Row: 1, Col: 2}) {
			t.Errorf("Expected hero at (1,2), got %s", a.hero.Position())
		}
		if res.State.Map[1] != "..H.." {
			t.Errorf("Expected hero drawn on row 1, got %q", res.State.Map[1])
		}
	})

	t.Run("melee kills and removes", func(t *testing.T) {
		a := newArena(t)
		target := engine.Position{Row: 2, Col: 3}
		if _, err := a.use(a.hero, 1, target); err != nil {
			t.Fatalf("First strike: %v", err)
		}
		if a.near.Health().Current() != 1 {
			t.Errorf("Expected dummy at 1 health, got %d", a.near.Health().Current())
		}
		res, err := a.use(a.hero, 1, target)
		if err != nil {
			t.Fatalf("Second strike: %v", err)
		}
		if a.near.OnBoard() || a.near.Health().Alive() {
			t.Error("Expected dummy dead and off the board")
		}
		if len(res.State.Units) != 2 {
			t.Errorf("Expected 2 units left, got %d", len(res.State.Units))
		}
		if res.State.Status != service.StatusActive {
			t.Errorf("Expected game still active, got %s", res.State.Status)
		}

		if _, err := a.use(a.hero, 0, engine.Position{Row: 1, Col: 2}); !errors.Is(err, service.ErrNoMovesRemaining) {
			t.Errorf("Expected ErrNoMovesRemaining, got %v", err)
		}
	})

	t.Run("rejections", func(t *testing.T) {
		a := newArena(t)
		tests := []struct {
			name    string
			unit    engine.ObjectID
			ability int
			target  engine.Position
			wantErr error
		}{
			{"enemy unit", a.near.ID(), 0, engine.Position{Row: 1, Col: 3}, service.ErrNotPlayerUnit},
			{"unknown unit", 42, 0, engine.Position{Row: 1, Col: 2}, service.ErrUnknownUnit},
			{"unknown ability", a.hero.ID(), 5, engine.Position{Row: 1, Col: 2}, service.ErrUnknownAbility},
			{"illegal target", a.hero.ID(), 0, engine.Position{Row: 4, Col: 4}, engine.ErrIllegalTarget},
			{"melee on empty tile", a.hero.ID(), 1, engine.Position{Row: 1, Col: 1}, engine.ErrIllegalTarget},
		}
		for _, test := range tests {
			t.Run(test.name, func(t *testing.T) {
				_, err := a.svc.UseAbility(context.Background(), a.id, service.UseAbilityRequest{
					UnitID:       test.unit,
					AbilityIndex: test.ability,
					Target:       test.target,
					TargetID:     engine.NoTarget,
				})
				if !errors.Is(err, test.wantErr) {
					t.Errorf("Expected %v, got %v", test.wantErr, err)
				}
				if !service.IsClientError(err) {
					t.Errorf("Expected %v to be a client error", err)
				}
			})
		}
		if a.hero.MovesRemaining() != 2 {
			t.Errorf("Rejected actions must not spend moves, got %d", a.hero.MovesRemaining())
		}
	})
}

func TestGameService_EndTurn(t *testing.T) {
	a := newArena(t)
	ctx := context.Background()

	if _, err := a.use(a.hero, 0, engine.Position{Row: 1, Col: 2}); err != nil {
		t.Fatalf("UseAbility: %v", err)
	}

	res, err := a.svc.EndTurn(ctx, a.id)
	if err != nil {
		t.Fatalf("EndTurn: %v", err)
	}
	if res.Turn != 1 || res.State.Turn != 1 {
		t.Errorf("Expected turn 1, got %d/%d", res.Turn, res.State.Turn)
	}
	// Dummies have no abilities, so they pass
	if len(res.EnemyMoves) != 0 {
		t.Errorf("Expected no enemy moves, got %v", res.EnemyMoves)
	}
	if a.hero.MovesRemaining() != 2 {
		t.Errorf("Expected hero moves reset to 2, got %d", a.hero.MovesRemaining())
	}

	res, err = a.svc.EndTurn(ctx, a.id)
	if err != nil {
		t.Fatalf("EndTurn: %v", err)
	}
	if res.Turn != 2 {
		t.Errorf("Expected turn 2, got %d", res.Turn)
	}
}

func TestGameService_EndTurnGeneratedBoard(t *testing.T) {
	ctx := context.Background()
	svc := service.NewGameService(NewMockSessionManager(), NewMockConfigManager(roster.Default()))

	info, err := svc.CreateSession(ctx, "", 11)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	for turn := 1; turn <= 5; turn++ {
		res, err := svc.EndTurn(ctx, info.ID)
		if err != nil {
			t.Fatalf("EndTurn %d: %v", turn, err)
		}
		if res.Turn != turn {
			t.Fatalf("Expected turn %d, got %d", turn, res.Turn)
		}
		for _, u := range res.State.Units {
			if u.MovesRemaining < 1 {
				t.Errorf("Turn %d: %s has %d moves after reset", turn, u.Name, u.MovesRemaining)
			}
		}
	}
}

func TestGameService_GameOver(t *testing.T) {
	a := newArena(t)
	ctx := context.Background()

	// Remove the distant dummy so killing the near one wins
	if err := a.session.Board.RemoveGameObject(a.far, a.far.Position()); err != nil {
		t.Fatalf("RemoveGameObject: %v", err)
	}

	target := engine.Position{Row: 2, Col: 3}
	if _, err := a.use(a.hero, 1, target); err != nil {
		t.Fatalf("First strike: %v", err)
	}
	res, err := a.use(a.hero, 1, target)
	if err != nil {
		t.Fatalf("Second strike: %v", err)
	}
	if res.State.Status != service.StatusVictory {
		t.Errorf("Expected victory, got %s", res.State.Status)
	}

	if _, err := a.svc.EndTurn(ctx, a.id); !errors.Is(err, service.ErrGameOver) {
		t.Errorf("Expected ErrGameOver from EndTurn, got %v", err)
	}
	if _, err := a.use(a.hero, 0, engine.Position{Row: 1, Col: 2}); !errors.Is(err, service.ErrGameOver) {
		t.Errorf("Expected ErrGameOver from UseAbility, got %v", err)
	}
}

func TestGameService_Defeat(t *testing.T) {
	a := newArena(t)
	if err := a.session.Board.RemoveGameObject(a.hero, a.hero.Position()); err != nil {
		t.Fatalf("RemoveGameObject: %v", err)
	}

	state, err := a.svc.GetState(context.Background(), a.id)
	if err != nil {
		t.Fatalf("GetState: %v", err)
	}
	if state.Status != service.StatusDefeat {
		t.Errorf("Expected defeat, got %s", state.Status)
	}
}

func TestGameService_AggressiveEnemies(t *testing.T) {
	reg, err := roster.NewRegistry(
		roster.Archetype{Name: "hero", Team: "player", MaxHealth: 6, MoveAllowance: 2},
		roster.Archetype{
			Name: "brute", Team: "enemy", MaxHealth: 3, Difficulty: 1,
			Abilities: []roster.AbilitySpec{{Kind: engine.KindMelee, Damage: 6}},
		},
	)
	if err != nil {
		t.Fatalf("Failed to build roster: %v", err)
	}

	tests := []struct {
		name       string
		aggressive bool
		wantHealth int
		wantStatus string
	}{
		{"passive enemies hold", false, 6, service.StatusActive},
		{"aggressive enemies attack", true, 0, service.StatusDefeat},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ctx := context.Background()
			configs := NewMockConfigManager(reg)
			cfg := generator.DefaultConfig()
			cfg.Players = []string{"hero"}
			cfg.AggressiveEnemies = test.aggressive
			configs.configs["brawl"] = &cfg
			sessions := NewMockSessionManager()
			svc := service.NewGameService(sessions, configs)

			info, err := svc.CreateSession(ctx, "brawl", 1)
			if err != nil {
				t.Fatalf("CreateSession: %v", err)
			}

			b, err := engine.NewBoard(3, 3)
			if err != nil {
				t.Fatalf("NewBoard: %v", err)
			}
			hero, _ := reg.Spawn("hero")
			brute, _ := reg.Spawn("brute")
			if err := b.AddUnit(hero, engine.Position{Row: 1, Col: 1}); err != nil {
				t.Fatalf("AddUnit hero: %v", err)
			}
			if err := b.AddUnit(brute, engine.Position{Row: 1, Col: 2}); err != nil {
				t.Fatalf("AddUnit brute: %v", err)
			}
			sessions.sessions[info.ID].Board = b

			res, err := svc.EndTurn(ctx, info.ID)
			if err != nil {
				t.Fatalf("EndTurn: %v", err)
			}
			if got := hero.Health().Current(); got != test.wantHealth {
				t.Errorf("Expected hero health %d, got %d", test.wantHealth, got)
			}
			if res.State.Status != test.wantStatus {
				t.Errorf("Expected status %s, got %s", test.wantStatus, res.State.Status)
			}
			if test.aggressive {
				if _, err := svc.EndTurn(ctx, info.ID); !errors.Is(err, service.ErrGameOver) {
					t.Errorf("Expected ErrGameOver after defeat, got %v", err)
				}
			}
		})
	}
}

func TestIsClientError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"wrapped no moves", fmt.Errorf("x: %w", service.ErrNoMovesRemaining), true},
		{"game over", service.ErrGameOver, true},
		{"illegal target", engine.ErrIllegalTarget, true},
		{"out of bounds", engine.ErrOutOfBounds, true},
		{"generic", errors.New("disk on fire"), false},
		{"nil", nil, false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := service.IsClientError(test.err); got != test.want {
				t.Errorf("IsClientError(%v) = %v, want %v", test.err, got, test.want)
			}
		})
	}
}
