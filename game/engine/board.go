package engine

import (
	"fmt"
	"slices"

	"codeberg.org/anaseto/gruid"
	"codeberg.org/anaseto/gruid/paths"
	"github.com/google/uuid"
)

type occupant struct {
	id   ObjectID
	kind ObjectKind
}

// Tile is one grid cell: a terrain type and a bottom-to-top stack of occupants.
type Tile struct {
	board uuid.UUID
	pos   Position
	typ   TileType
	stack []occupant
}

// BoardID returns the identity of the board that owns the tile
func (t *Tile) BoardID() uuid.UUID { return t.board }

// Position returns the tile's coordinates
func (t *Tile) Position() Position { return t.pos }

// Type returns the terrain type
func (t *Tile) Type() TileType { return t.typ }

// Occupants returns the IDs on the tile, bottom first
func (t *Tile) Occupants() []ObjectID {
	out := make([]ObjectID, len(t.stack))
	for i, o := range t.stack {
		out[i] = o.id
	}
	return out
}

func (t *Tile) find(kind ObjectKind) (ObjectID, bool) {
	for _, o := range t.stack {
		if o.kind == kind {
			return o.id, true
		}
	}
	return NoTarget, false
}

// Board is a rows x cols grid of tiles plus the arena of objects placed on it.
type Board struct {
	id      uuid.UUID
	rows    int
	cols    int
	tiles   []Tile
	objects []GameObject
}

// NewBoard creates an all-solid board
func NewBoard(rows, cols int) (*Board, error) {
	if rows < MinBoardSize || rows > MaxBoardSize {
		return nil, fmt.Errorf("%w: rows must be between %d and %d, got %d", ErrInvalidParameter, MinBoardSize, MaxBoardSize, rows)
	}
	if cols < MinBoardSize || cols > MaxBoardSize {
		return nil, fmt.Errorf("%w: cols must be between %d and %d, got %d", ErrInvalidParameter, MinBoardSize, MaxBoardSize, cols)
	}

	b := &Board{
		id:    uuid.New(),
		rows:  rows,
		cols:  cols,
		tiles: make([]Tile, rows*cols),
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			b.tiles[r*cols+c] = Tile{board: b.id, pos: Position{Row: r, Col: c}, typ: Solid}
		}
	}
	return b, nil
}

func (b *Board) ID() uuid.UUID { return b.id }
func (b *Board) Rows() int     { return b.rows }
func (b *Board) Cols() int     { return b.cols }

// InBounds reports whether p lies on the grid
func (b *Board) InBounds(p Position) bool {
	return p.Row >= 0 && p.Row < b.rows && p.Col >= 0 && p.Col < b.cols
}

// TileAt returns the tile at p
func (b *Board) TileAt(p Position) (*Tile, error) {
	if !b.InBounds(p) {
		return nil, fmt.Errorf("%w: %s on %dx%d board", ErrOutOfBounds, p, b.rows, b.cols)
	}
	return &b.tiles[p.Row*b.cols+p.Col], nil
}

func (b *Board) tile(p Position) *Tile {
	if !b.InBounds(p) {
		return nil
	}
	return &b.tiles[p.Row*b.cols+p.Col]
}

// TileType returns the terrain at p
func (b *Board) TileType(p Position) (TileType, error) {
	t, err := b.TileAt(p)
	if err != nil {
		return "", err
	}
	return t.typ, nil
}

// SetTileType changes the terrain at p
func (b *Board) SetTileType(p Position, typ TileType) error {
	t, err := b.TileAt(p)
	if err != nil {
		return err
	}
	t.typ = typ
	return nil
}

// IsOccupied reports whether anything sits on p
func (b *Board) IsOccupied(p Position) bool {
	t := b.tile(p)
	return t != nil && len(t.stack) > 0
}

// HasUnit reports whether a unit sits on p
func (b *Board) HasUnit(p Position) bool {
	t := b.tile(p)
	if t == nil {
		return false
	}
	_, ok := t.find(KindUnit)
	return ok
}

// HasObstacle reports whether an obstacle sits on p
func (b *Board) HasObstacle(p Position) bool {
	t := b.tile(p)
	if t == nil {
		return false
	}
	_, ok := t.find(KindObstacle)
	return ok
}

// UnitAt returns the unit on p, if any
func (b *Board) UnitAt(p Position) (*Unit, bool) {
	t := b.tile(p)
	if t == nil {
		return nil, false
	}
	id, ok := t.find(KindUnit)
	if !ok {
		return nil, false
	}
	return b.objects[id].(*Unit), true
}

// ObstacleAt returns the obstacle on p, if any
func (b *Board) ObstacleAt(p Position) (*Obstacle, bool) {
	t := b.tile(p)
	if t == nil {
		return nil, false
	}
	id, ok := t.find(KindObstacle)
	if !ok {
		return nil, false
	}
	return b.objects[id].(*Obstacle), true
}

// Object looks up an arena entry, including detached objects
func (b *Board) Object(id ObjectID) (GameObject, bool) {
	if id < 0 || int(id) >= len(b.objects) {
		return nil, false
	}
	return b.objects[id], true
}

// Units returns every unit currently on the board, in arena order
func (b *Board) Units() []*Unit {
	var out []*Unit
	for _, o := range b.objects {
		if u, ok := o.(*Unit); ok && u.OnBoard() {
			out = append(out, u)
		}
	}
	return out
}

// Obstacles returns every obstacle currently on the board, in arena order
func (b *Board) Obstacles() []*Obstacle {
	var out []*Obstacle
	for _, o := range b.objects {
		if ob, ok := o.(*Obstacle); ok && ob.OnBoard() {
			out = append(out, ob)
		}
	}
	return out
}

// AddUnit places u on p. A tile holds at most one unit.
func (b *Board) AddUnit(u *Unit, p Position) error {
	t, err := b.TileAt(p)
	if err != nil {
		return err
	}
	if _, ok := t.find(KindUnit); ok {
		return fmt.Errorf("%w: unit already at %s", ErrTileOccupied, p)
	}
	return b.place(u, t)
}

// AddObstacle places o on p. A tile holds at most one obstacle, which may
// share the tile with a unit.
func (b *Board) AddObstacle(o *Obstacle, p Position) error {
	t, err := b.TileAt(p)
	if err != nil {
		return err
	}
	if _, ok := t.find(KindObstacle); ok {
		return fmt.Errorf("%w: obstacle already at %s", ErrTileOccupied, p)
	}
	return b.place(o, t)
}

func (b *Board) place(obj GameObject, t *Tile) error {
	pl := obj.base()
	if pl.OnBoard() {
		return fmt.Errorf("%w: %s is at %s", ErrAlreadyPlaced, obj.Name(), pl.pos)
	}
	if pl.registered && pl.board != b.id {
		return fmt.Errorf("%w: %s", ErrForeignObject, obj.Name())
	}
	if !obj.Health().Alive() {
		return fmt.Errorf("%w: %s is dead", ErrInvalidHealth, obj.Name())
	}
	if !pl.registered {
		pl.id = ObjectID(len(b.objects))
		pl.board = b.id
		pl.registered = true
		b.objects = append(b.objects, obj)
	}

	t.stack = append(t.stack, occupant{id: pl.id, kind: obj.Kind()})
	pl.pos = t.pos
	return nil
}

// RemoveGameObject detaches obj from the tile at p. The object stays in the
// arena so callers can still inspect it.
func (b *Board) RemoveGameObject(obj GameObject, p Position) error {
	t, err := b.TileAt(p)
	if err != nil {
		return err
	}
	pl := obj.base()
	if !pl.registered || pl.board != b.id {
		return fmt.Errorf("%w: %s at %s", ErrNotOnTile, obj.Name(), p)
	}
	i := slices.IndexFunc(t.stack, func(o occupant) bool { return o.id == pl.id })
	if i < 0 {
		return fmt.Errorf("%w: %s at %s", ErrNotOnTile, obj.Name(), p)
	}
	t.stack = slices.Delete(t.stack, i, i+1)
	pl.pos = OffBoard
	return nil
}

// ForEachInSquare visits every in-bounds tile within Chebyshev distance radius
// of center, in row-major order.
func (b *Board) ForEachInSquare(center Position, radius int, fn func(p Position, t *Tile)) {
	b.forEachWithin(center, radius, paths.DistanceChebyshev, fn)
}

// ForEachInDiamond visits every in-bounds tile within Manhattan distance radius
// of center, in row-major order.
func (b *Board) ForEachInDiamond(center Position, radius int, fn func(p Position, t *Tile)) {
	b.forEachWithin(center, radius, paths.DistanceManhattan, fn)
}

func (b *Board) forEachWithin(center Position, radius int, dist func(p, q gruid.Point) int, fn func(Position, *Tile)) {
	if radius < 0 {
		return
	}
	r0, r1 := max(center.Row-radius, 0), min(center.Row+radius, b.rows-1)
	c0, c1 := max(center.Col-radius, 0), min(center.Col+radius, b.cols-1)
	for r := r0; r <= r1; r++ {
		for c := c0; c <= c1; c++ {
			p := Position{Row: r, Col: c}
			if dist(center.point(), p.point()) <= radius {
				fn(p, &b.tiles[r*b.cols+c])
			}
		}
	}
}

// Execute applies m to the board
func (b *Board) Execute(m *Move) error {
	if m == nil {
		return nil
	}
	return m.Execute(b)
}
