package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestCursor(t *testing.T, start Cell) (*Cursor, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewCursor(newTestGrid(t, 5, 5), start, 100*time.Millisecond)
	c.now = clock.now
	return c, clock
}

func TestCursor_SetCellClampsAndDetectsNoop(t *testing.T) {
	c, _ := newTestCursor(t, Cell{X: 2, Y: 2})

	assert.True(t, c.SetCell(Cell{X: 9, Y: -4}))
	assert.Equal(t, Cell{X: 4, Y: 0}, c.Cell())

	assert.False(t, c.SetCell(Cell{X: 4, Y: 0}))
	assert.False(t, c.SetCell(Cell{X: 7, Y: -1}), "clamps onto the current cell")
}

func TestCursor_StepStopsAtEdge(t *testing.T) {
	c, _ := newTestCursor(t, Cell{X: 0, Y: 0})

	assert.False(t, c.Step(Left, false))
	assert.True(t, c.Step(Right, false))
	assert.Equal(t, Cell{X: 1, Y: 0}, c.Cell())
}

func TestCursor_EchoCooldown(t *testing.T) {
	c, clock := newTestCursor(t, Cell{X: 0, Y: 0})

	assert.True(t, c.Step(Right, false))
	assert.False(t, c.Step(Right, true), "echo inside the cooldown window")
	assert.Equal(t, Cell{X: 1, Y: 0}, c.Cell())

	assert.True(t, c.Step(Down, false), "fresh presses ignore the cooldown")

	clock.advance(150 * time.Millisecond)
	assert.True(t, c.Step(Right, true))
	assert.Equal(t, Cell{X: 2, Y: 1}, c.Cell())
}

func TestCursor_SetPixel(t *testing.T) {
	c, _ := newTestCursor(t, Cell{X: 0, Y: 0})

	assert.True(t, c.SetPixel(Point{X: 250, Y: 90}))
	assert.Equal(t, Cell{X: 3, Y: 1}, c.Cell())

	assert.True(t, c.SetPixel(Point{X: -30, Y: 1000}))
	assert.Equal(t, Cell{X: 0, Y: 4}, c.Cell())
}
