package engine

import (
	"errors"
	"testing"
)

func newTestBoard(t *testing.T, rows, cols int) *Board {
	t.Helper()
	b, err := NewBoard(rows, cols)
	if err != nil {
		t.Fatalf("NewBoard(%d, %d): %v", rows, cols, err)
	}
	return b
}

func newTestUnit(t *testing.T, name string, team Team, hp int, abilities ...Ability) *Unit {
	t.Helper()
	u, err := NewUnit(name, team, hp)
	if err != nil {
		t.Fatalf("NewUnit(%s): %v", name, err)
	}
	for _, a := range abilities {
		if err := u.AddAbility(a); err != nil {
			t.Fatalf("AddAbility(%s): %v", a.Name(), err)
		}
	}
	return u
}

func placeUnit(t *testing.T, b *Board, u *Unit, p Position) {
	t.Helper()
	if err := b.AddUnit(u, p); err != nil {
		t.Fatalf("AddUnit(%s, %s): %v", u.Name(), p, err)
	}
}

func TestNewBoard_Validation(t *testing.T) {
	tests := []struct {
		name       string
		rows, cols int
		wantErr    bool
	}{
		{"minimum", MinBoardSize, MinBoardSize, false},
		{"maximum", MaxBoardSize, MaxBoardSize, false},
		{"rectangular", 5, 12, false},
		{"too few rows", 2, 8, true},
		{"too many cols", 8, 21, true},
		{"zero", 0, 0, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			b, err := NewBoard(test.rows, test.cols)
			if test.wantErr {
				if !errors.Is(err, ErrInvalidParameter) {
					t.Fatalf("Expected ErrInvalidParameter, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if b.Rows() != test.rows || b.Cols() != test.cols {
				t.Errorf("Expected %dx%d, got %dx%d", test.rows, test.cols, b.Rows(), b.Cols())
			}
			if got := CountTileType(b, Solid); got != test.rows*test.cols {
				t.Errorf("Expected all %d tiles solid, got %d", test.rows*test.cols, got)
			}
		})
	}
}

func TestBoard_TileAt(t *testing.T) {
	b := newTestBoard(t, 4, 6)

	tile, err := b.TileAt(Position{Row: 3, Col: 5})
	if err != nil {
		t.Fatalf("TileAt: %v", err)
	}
	if tile.Position() != (Position{Row: 3, Col: 5}) {
		t.Errorf("Tile reports wrong position %s", tile.Position())
	}
	if tile.BoardID() != b.ID() {
		t.Error("Tile does not point back at its board")
	}

	for _, p := range []Position{{-1, 0}, {0, -1}, {4, 0}, {0, 6}} {
		if _, err := b.TileAt(p); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("TileAt(%s): expected ErrOutOfBounds, got %v", p, err)
		}
	}
	if err := b.SetTileType(Position{Row: 9, Col: 9}, Liquid); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("SetTileType out of bounds: expected ErrOutOfBounds, got %v", err)
	}
}

func TestBoard_AddUnit(t *testing.T) {
	b := newTestBoard(t, 5, 5)
	a := newTestUnit(t, "alpha", TeamPlayer, 5)
	p := Position{Row: 2, Col: 3}

	placeUnit(t, b, a, p)
	if a.Position() != p || !a.OnBoard() {
		t.Fatalf("Expected unit at %s, got %s", p, a.Position())
	}
	if a.BoardID() != b.ID() {
		t.Error("Unit does not record its board")
	}
	if got, ok := b.UnitAt(p); !ok || got != a {
		t.Error("UnitAt did not return the placed unit")
	}
	if obj, ok := b.Object(a.ID()); !ok || obj != a {
		t.Error("Arena lookup failed")
	}

	other := newTestUnit(t, "beta", TeamEnemy, 5)
	if err := b.AddUnit(other, p); !errors.Is(err, ErrTileOccupied) {
		t.Errorf("Expected ErrTileOccupied, got %v", err)
	}
	if err := b.AddUnit(other, Position{Row: 5, Col: 0}); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Expected ErrOutOfBounds, got %v", err)
	}
	if err := b.AddUnit(a, Position{Row: 0, Col: 0}); !errors.Is(err, ErrAlreadyPlaced) {
		t.Errorf("Expected ErrAlreadyPlaced, got %v", err)
	}
}

func TestBoard_UnitAndObstacleShareTile(t *testing.T) {
	b := newTestBoard(t, 5, 5)
	p := Position{Row: 1, Col: 1}

	rock, _ := NewObstacle(Small, 3)
	if err := b.AddObstacle(rock, p); err != nil {
		t.Fatalf("AddObstacle: %v", err)
	}
	u := newTestUnit(t, "alpha", TeamPlayer, 5)
	placeUnit(t, b, u, p)

	if !b.HasUnit(p) || !b.HasObstacle(p) || !b.IsOccupied(p) {
		t.Fatal("Expected both unit and obstacle on the tile")
	}
	tile, _ := b.TileAt(p)
	if ids := tile.Occupants(); len(ids) != 2 || ids[0] != rock.ID() || ids[1] != u.ID() {
		t.Errorf("Expected stack [obstacle unit], got %v", ids)
	}

	second, _ := NewObstacle(Large, 3)
	if err := b.AddObstacle(second, p); !errors.Is(err, ErrTileOccupied) {
		t.Errorf("Expected ErrTileOccupied for a second obstacle, got %v", err)
	}
}

func TestBoard_RemoveGameObject(t *testing.T) {
	b := newTestBoard(t, 5, 5)
	u := newTestUnit(t, "alpha", TeamPlayer, 5)
	p := Position{Row: 4, Col: 4}
	placeUnit(t, b, u, p)

	if err := b.RemoveGameObject(u, Position{Row: 0, Col: 0}); !errors.Is(err, ErrNotOnTile) {
		t.Errorf("Expected ErrNotOnTile for wrong tile, got %v", err)
	}

	if err := b.RemoveGameObject(u, p); err != nil {
		t.Fatalf("RemoveGameObject: %v", err)
	}
	if u.OnBoard() || u.Position() != OffBoard {
		t.Errorf("Expected detached unit at %s, got %s", OffBoard, u.Position())
	}
	if b.IsOccupied(p) {
		t.Error("Tile still occupied after removal")
	}
	if _, ok := b.Object(u.ID()); !ok {
		t.Error("Detached unit should stay in the arena")
	}
	if len(b.Units()) != 0 {
		t.Error("Units() should only list placed units")
	}

	// Re-adding keeps the arena ID
	id := u.ID()
	placeUnit(t, b, u, Position{Row: 0, Col: 0})
	if u.ID() != id {
		t.Errorf("Expected ID %d after re-add, got %d", id, u.ID())
	}

	stranger := newTestUnit(t, "gamma", TeamEnemy, 5)
	if err := b.RemoveGameObject(stranger, p); !errors.Is(err, ErrNotOnTile) {
		t.Errorf("Expected ErrNotOnTile for unplaced unit, got %v", err)
	}
}

func TestBoard_DeadObjectsCannotReturn(t *testing.T) {
	b := newTestBoard(t, 4, 4)
	u := newTestUnit(t, "slime", TeamEnemy, 2)
	placeUnit(t, b, u, Position{Row: 0, Col: 0})

	if err := (ChangeHealth{Target: u.ID(), Delta: -5}).Apply(b); err != nil {
		t.Fatalf("ChangeHealth: %v", err)
	}
	if u.OnBoard() || u.Health().Alive() {
		t.Fatalf("Expected dead and detached, got alive=%v onboard=%v", u.Health().Alive(), u.OnBoard())
	}

	if err := b.AddUnit(u, Position{Row: 1, Col: 1}); !errors.Is(err, ErrInvalidHealth) {
		t.Errorf("Expected ErrInvalidHealth re-adding a dead unit, got %v", err)
	}
	if err := (PlaceObject{Object: u, At: Position{Row: 2, Col: 2}}).Apply(b); !errors.Is(err, ErrInvalidHealth) {
		t.Errorf("Expected ErrInvalidHealth placing a dead unit, got %v", err)
	}
	if u.OnBoard() || b.IsOccupied(Position{Row: 1, Col: 1}) || b.IsOccupied(Position{Row: 2, Col: 2}) {
		t.Error("Dead unit must stay off the board")
	}

	rock, err := NewObstacle(Small, 1)
	if err != nil {
		t.Fatalf("NewObstacle: %v", err)
	}
	if err := b.AddObstacle(rock, Position{Row: 3, Col: 3}); err != nil {
		t.Fatalf("AddObstacle: %v", err)
	}
	if err := (ChangeHealth{Target: rock.ID(), Delta: -1}).Apply(b); err != nil {
		t.Fatalf("ChangeHealth: %v", err)
	}
	if err := b.AddObstacle(rock, Position{Row: 3, Col: 3}); !errors.Is(err, ErrInvalidHealth) {
		t.Errorf("Expected ErrInvalidHealth re-adding a broken obstacle, got %v", err)
	}

	// Revive makes the unit placeable again
	if err := u.Health().Revive(1); err != nil {
		t.Fatalf("Revive: %v", err)
	}
	placeUnit(t, b, u, Position{Row: 1, Col: 1})
}

func TestBoard_ForeignObject(t *testing.T) {
	first := newTestBoard(t, 4, 4)
	second := newTestBoard(t, 4, 4)
	u := newTestUnit(t, "alpha", TeamPlayer, 5)
	placeUnit(t, first, u, Position{Row: 0, Col: 0})
	if err := first.RemoveGameObject(u, u.Position()); err != nil {
		t.Fatalf("RemoveGameObject: %v", err)
	}

	if err := second.AddUnit(u, Position{Row: 1, Col: 1}); !errors.Is(err, ErrForeignObject) {
		t.Errorf("Expected ErrForeignObject, got %v", err)
	}
}

func TestBoard_RegionQueries(t *testing.T) {
	b := newTestBoard(t, 6, 6)

	tests := []struct {
		name    string
		center  Position
		radius  int
		diamond bool
		want    int
	}{
		{"square interior", Position{Row: 3, Col: 3}, 1, false, 9},
		{"square corner clipped", Position{Row: 0, Col: 0}, 1, false, 4},
		{"square radius zero", Position{Row: 2, Col: 2}, 0, false, 1},
		{"square covers board", Position{Row: 2, Col: 2}, 10, false, 36},
		{"diamond interior", Position{Row: 3, Col: 3}, 2, true, 13},
		{"diamond corner clipped", Position{Row: 0, Col: 0}, 2, true, 6},
		{"negative radius", Position{Row: 3, Col: 3}, -1, false, 0},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var visited []Position
			fn := func(p Position, tile *Tile) {
				if tile.Position() != p {
					t.Errorf("Tile %s passed for position %s", tile.Position(), p)
				}
				visited = append(visited, p)
			}
			if test.diamond {
				b.ForEachInDiamond(test.center, test.radius, fn)
			} else {
				b.ForEachInSquare(test.center, test.radius, fn)
			}

			if len(visited) != test.want {
				t.Fatalf("Expected %d tiles, got %d: %v", test.want, len(visited), visited)
			}
			for i := 1; i < len(visited); i++ {
				prev, cur := visited[i-1], visited[i]
				if cur.Row < prev.Row || (cur.Row == prev.Row && cur.Col <= prev.Col) {
					t.Errorf("Visit order not row-major at %d: %s then %s", i, prev, cur)
				}
			}
			for _, p := range visited {
				if !b.InBounds(p) {
					t.Errorf("Visited out-of-bounds %s", p)
				}
				dr, dc := abs(p.Row-test.center.Row), abs(p.Col-test.center.Col)
				if test.diamond && dr+dc > test.radius {
					t.Errorf("%s outside diamond", p)
				}
				if !test.diamond && max(dr, dc) > test.radius {
					t.Errorf("%s outside square", p)
				}
			}
		})
	}
}

func TestBoard_OccupancyQueriesOutOfBounds(t *testing.T) {
	b := newTestBoard(t, 3, 3)
	p := Position{Row: -1, Col: 7}
	if b.IsOccupied(p) || b.HasUnit(p) || b.HasObstacle(p) {
		t.Error("Out-of-bounds cells must report empty")
	}
	if _, ok := b.UnitAt(p); ok {
		t.Error("UnitAt out of bounds should report false")
	}
}

func TestBoard_Render(t *testing.T) {
	b := newTestBoard(t, 3, 4)
	_ = b.SetTileType(Position{Row: 0, Col: 1}, Liquid)
	_ = b.SetTileType(Position{Row: 0, Col: 2}, Empty)
	rock, _ := NewObstacle(Large, 4)
	_ = b.AddObstacle(rock, Position{Row: 1, Col: 0})
	pebble, _ := NewObstacle(Small, 2)
	_ = b.AddObstacle(pebble, Position{Row: 2, Col: 3})
	placeUnit(t, b, newTestUnit(t, "knight", TeamPlayer, 5), Position{Row: 1, Col: 2})
	placeUnit(t, b, newTestUnit(t, "Slime", TeamEnemy, 5), Position{Row: 2, Col: 3})

	want := []string{
		".~_.",
		"O.K.",
		"...s",
	}
	got := b.Render()
	if len(got) != len(want) {
		t.Fatalf("Expected %d rows, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Row %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}
