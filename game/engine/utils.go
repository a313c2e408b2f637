package engine

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/zyedidia/generic/mapset"
)

// ManhattanDistance calculates the Manhattan distance between two cells
func ManhattanDistance(from, to Cell) int {
	return abs(from.X-to.X) + abs(from.Y-to.Y)
}

// RenderBoard draws the board as text rows. Units show as the first letter
// of their name, reachable cells as '*' and the preview path as '#'.
func RenderBoard(grid *Grid, units []Unit, reachable, path []Cell) []string {
	marks := make(map[Cell]rune, len(units))
	for _, u := range units {
		marks[u.Cell] = unitGlyph(u)
	}

	reach := mapset.New[Cell]()
	for _, c := range reachable {
		reach.Put(c)
	}
	onPath := mapset.New[Cell]()
	for _, c := range path {
		onPath.Put(c)
	}

	rows := make([]string, grid.Height)
	var sb strings.Builder
	for y := 0; y < grid.Height; y++ {
		sb.Reset()
		for x := 0; x < grid.Width; x++ {
			cell := Cell{X: x, Y: y}
			switch {
			case marks[cell] != 0:
				sb.WriteRune(marks[cell])
			case onPath.Has(cell):
				sb.WriteByte('#')
			case reach.Has(cell):
				sb.WriteByte('*')
			default:
				sb.WriteByte('.')
			}
		}
		rows[y] = sb.String()
	}
	return rows
}

// unitGlyph is the first rune of the unit's name (or id), upper-cased while
// the unit is selected
func unitGlyph(u Unit) rune {
	label := u.Name
	if label == "" {
		label = string(u.ID)
	}
	g, _ := utf8.DecodeRuneInString(label)
	if g == utf8.RuneError {
		return 'U'
	}
	if u.Selected {
		return unicode.ToUpper(g)
	}
	return g
}

// abs returns the absolute value of x
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
