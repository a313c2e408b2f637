package engine

import "time"

// Cursor tracks the highlighted cell on a grid. Key-repeat moves are
// throttled by a cooldown window opened on every cell change.
type Cursor struct {
	grid     *Grid
	cell     Cell
	cooldown time.Duration
	readyAt  time.Time
	now      func() time.Time
}

// NewCursor places a cursor on start, clamped to the grid
func NewCursor(grid *Grid, start Cell, cooldown time.Duration) *Cursor {
	if cooldown < 0 {
		cooldown = 0
	}
	return &Cursor{
		grid:     grid,
		cell:     grid.Clamp(start),
		cooldown: cooldown,
		now:      time.Now,
	}
}

// Cell returns the highlighted cell
func (c *Cursor) Cell() Cell {
	return c.cell
}

// Cooldown returns the key-repeat window
func (c *Cursor) Cooldown() time.Duration {
	return c.cooldown
}

// SetCell moves the cursor, clamping to the grid. It returns false when the
// clamped cell equals the current one.
func (c *Cursor) SetCell(cell Cell) bool {
	next := c.grid.Clamp(cell)
	if next == c.cell {
		return false
	}
	c.cell = next
	c.readyAt = c.now().Add(c.cooldown)
	return true
}

// Step moves one cell in direction. Echo steps come from held keys and are
// dropped while the cooldown window is open.
func (c *Cursor) Step(direction Cell, echo bool) bool {
	if echo && c.now().Before(c.readyAt) {
		return false
	}
	return c.SetCell(c.cell.Add(direction))
}

// SetPixel moves the cursor to the cell under a pixel position
func (c *Cursor) SetPixel(p Point) bool {
	return c.SetCell(c.grid.GridCoordinates(p))
}
