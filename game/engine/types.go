package engine

import (
	"errors"
	"fmt"

	"codeberg.org/anaseto/gruid"
)

// TileType represents the terrain of a single tile
type TileType string

const (
	Solid  TileType = "solid"
	Liquid TileType = "liquid"
	Empty  TileType = "empty"

	// Validation constants
	MinBoardSize        = 3
	MaxBoardSize        = 20
	MaxAbilityParameter = 120
)

// TileTypes lists every terrain in declaration order.
var TileTypes = []TileType{Solid, Liquid, Empty}

// ParseTileType maps a terrain name to its TileType.
func ParseTileType(s string) (TileType, error) {
	switch TileType(s) {
	case Solid, Liquid, Empty:
		return TileType(s), nil
	}
	return "", fmt.Errorf("%w: unknown tile type %q", ErrInvalidParameter, s)
}

// Team is the side a unit fights for
type Team int

const (
	TeamPlayer Team = iota
	TeamEnemy
)

func (t Team) String() string {
	switch t {
	case TeamPlayer:
		return "player"
	case TeamEnemy:
		return "enemy"
	}
	return fmt.Sprintf("team(%d)", int(t))
}

// ParseTeam maps "player" or "enemy" to its Team.
func ParseTeam(s string) (Team, error) {
	switch s {
	case "player":
		return TeamPlayer, nil
	case "enemy":
		return TeamEnemy, nil
	}
	return 0, fmt.Errorf("%w: unknown team %q", ErrInvalidParameter, s)
}

// TeamMask is the set of teams allowed to hold an ability.
type TeamMask uint8

const (
	PlayerOnly TeamMask = 1 << iota
	EnemyOnly
	AnyTeam = PlayerOnly | EnemyOnly
)

// Allows reports whether units of team t may hold the ability.
func (m TeamMask) Allows(t Team) bool {
	switch t {
	case TeamPlayer:
		return m&PlayerOnly != 0
	case TeamEnemy:
		return m&EnemyOnly != 0
	}
	return false
}

// SizeClass separates small and large obstacles
type SizeClass int

const (
	Small SizeClass = iota
	Large
)

func (s SizeClass) String() string {
	if s == Large {
		return "large"
	}
	return "small"
}

// ObjectKind tags the concrete type behind a GameObject.
type ObjectKind int

const (
	KindUnit ObjectKind = iota
	KindObstacle
)

func (k ObjectKind) String() string {
	if k == KindObstacle {
		return "obstacle"
	}
	return "unit"
}

// ObjectID indexes a GameObject in its board's arena.
type ObjectID int

// NoTarget is passed to CreateMove when the caller has no explicit target.
const NoTarget ObjectID = -1

// Position represents row, col coordinates on a board
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// OffBoard is the position of an object that is not on any tile.
var OffBoard = Position{Row: -1, Col: -1}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

func (p Position) point() gruid.Point {
	return gruid.Point{X: p.Col, Y: p.Row}
}

func fromPoint(p gruid.Point) Position {
	return Position{Row: p.Y, Col: p.X}
}

var (
	ErrOutOfBounds           = errors.New("position out of bounds")
	ErrTileOccupied          = errors.New("tile occupied")
	ErrInvalidHealth         = errors.New("invalid health")
	ErrInvalidParameter      = errors.New("invalid parameter")
	ErrNoUnitAtSource        = errors.New("no unit at source")
	ErrDestinationOccupied   = errors.New("destination occupied")
	ErrInsufficientSpace     = errors.New("insufficient space")
	ErrUnsupportedAbilityUse = errors.New("unsupported ability use")
	ErrIllegalTarget         = errors.New("destination is not a legal target")
	ErrNotOnTile             = errors.New("object not on tile")
	ErrUnknownObject         = errors.New("unknown object")
	ErrAlreadyPlaced         = errors.New("object already placed")
	ErrForeignObject         = errors.New("object belongs to another board")
	ErrDuplicateAbility      = errors.New("ability already held by unit")
	ErrAbilityOwned          = errors.New("ability already bound to a unit")
)

func validateParameter(name string, v int) error {
	if v < 1 || v > MaxAbilityParameter {
		return fmt.Errorf("%w: %s must be between 1 and %d, got %d", ErrInvalidParameter, name, MaxAbilityParameter, v)
	}
	return nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
