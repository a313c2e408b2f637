package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOccupancy_InsertRemove(t *testing.T) {
	o := NewOccupancy()
	a := Cell{X: 1, Y: 2}

	require.NoError(t, o.Insert(a, "knight"))
	assert.True(t, o.IsOccupied(a))
	assert.Equal(t, 1, o.Len())

	err := o.Insert(a, "archer")
	assert.ErrorIs(t, err, ErrCellOccupied)

	id, ok := o.At(a)
	assert.True(t, ok)
	assert.Equal(t, UnitID("knight"), id)

	removed, err := o.Remove(a)
	require.NoError(t, err)
	assert.Equal(t, UnitID("knight"), removed)
	assert.False(t, o.IsOccupied(a))

	_, err = o.Remove(a)
	assert.ErrorIs(t, err, ErrCellEmpty)
}

func TestOccupancy_Move(t *testing.T) {
	o := NewOccupancy()
	from, to, other := Cell{X: 0, Y: 0}, Cell{X: 2, Y: 0}, Cell{X: 3, Y: 3}
	require.NoError(t, o.Insert(from, "knight"))
	require.NoError(t, o.Insert(other, "archer"))

	assert.ErrorIs(t, o.Move(from, other), ErrCellOccupied)
	assert.True(t, o.IsOccupied(from), "failed move must leave the table untouched")

	require.NoError(t, o.Move(from, to))
	assert.False(t, o.IsOccupied(from))
	id, _ := o.At(to)
	assert.Equal(t, UnitID("knight"), id)

	assert.NoError(t, o.Move(to, to))
	assert.ErrorIs(t, o.Move(Cell{X: 4, Y: 4}, from), ErrCellEmpty)
}

func TestOccupancy_SnapshotIsDetached(t *testing.T) {
	o := NewOccupancy()
	require.NoError(t, o.Insert(Cell{X: 1, Y: 1}, "knight"))

	snap := o.Snapshot()
	require.NoError(t, o.Insert(Cell{X: 2, Y: 2}, "archer"))

	assert.True(t, snap.IsOccupied(Cell{X: 1, Y: 1}))
	assert.False(t, snap.IsOccupied(Cell{X: 2, Y: 2}))
	assert.Equal(t, 2, o.Len())
}

func TestOccupancy_CellsRowMajor(t *testing.T) {
	o := NewOccupancy()
	require.NoError(t, o.Insert(Cell{X: 3, Y: 1}, "a"))
	require.NoError(t, o.Insert(Cell{X: 0, Y: 2}, "b"))
	require.NoError(t, o.Insert(Cell{X: 1, Y: 1}, "c"))

	assert.Equal(t, []Cell{{X: 1, Y: 1}, {X: 3, Y: 1}, {X: 0, Y: 2}}, o.Cells())

	o.Clear()
	assert.Equal(t, 0, o.Len())
}
