package engine

import (
	"strings"
	"unicode"
)

// CountTileType counts the tiles of a specific terrain on the board
func CountTileType(b *Board, typ TileType) int {
	count := 0
	for i := range b.tiles {
		if b.tiles[i].typ == typ {
			count++
		}
	}
	return count
}

// ManhattanDistance calculates the Manhattan distance between two positions
func ManhattanDistance(from, to Position) int {
	return abs(from.Row-to.Row) + abs(from.Col-to.Col)
}

// UnitGlyph returns the map character for a unit: the first letter of its
// name, upper-case for players and lower-case for enemies.
func UnitGlyph(u *Unit) rune {
	r := 'u'
	for _, c := range u.Name() {
		r = c
		break
	}
	if u.Team() == TeamPlayer {
		return unicode.ToUpper(r)
	}
	return unicode.ToLower(r)
}

// Render draws the board as one string per row. Units are drawn over
// obstacles, obstacles over terrain.
//
//	.  solid      ~  liquid     _  empty
//	o  small obstacle           O  large obstacle
func (b *Board) Render() []string {
	rows := make([]string, b.rows)
	for r := 0; r < b.rows; r++ {
		var sb strings.Builder
		for c := 0; c < b.cols; c++ {
			p := Position{Row: r, Col: c}
			t := b.tile(p)
			if u, ok := b.UnitAt(p); ok {
				sb.WriteRune(UnitGlyph(u))
				continue
			}
			if o, ok := b.ObstacleAt(p); ok {
				if o.Size() == Large {
					sb.WriteByte('O')
				} else {
					sb.WriteByte('o')
				}
				continue
			}
			switch t.typ {
			case Liquid:
				sb.WriteByte('~')
			case Empty:
				sb.WriteByte('_')
			default:
				sb.WriteByte('.')
			}
		}
		rows[r] = sb.String()
	}
	return rows
}
