package engine

import (
	"fmt"
	"sort"
	"sync"
)

// Blocker reports whether a cell is held by a unit
type Blocker interface {
	IsOccupied(cell Cell) bool
}

// Occupancy maps cells to the unit standing on them. At most one unit per cell.
// It is the single source of truth for which cells block traversal.
type Occupancy struct {
	mu     sync.RWMutex
	byCell map[Cell]UnitID
}

// NewOccupancy creates an empty occupancy table
func NewOccupancy() *Occupancy {
	return &Occupancy{byCell: make(map[Cell]UnitID)}
}

// Insert places a unit on an empty cell
func (o *Occupancy) Insert(cell Cell, id UnitID) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if holder, exists := o.byCell[cell]; exists {
		return fmt.Errorf("%w: %s holds %s", ErrCellOccupied, holder, cell)
	}
	o.byCell[cell] = id
	return nil
}

// Remove clears a cell and returns the unit that held it
func (o *Occupancy) Remove(cell Cell) (UnitID, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	id, exists := o.byCell[cell]
	if !exists {
		return "", fmt.Errorf("%w: %s", ErrCellEmpty, cell)
	}
	delete(o.byCell, cell)
	return id, nil
}

// Move relocates the occupant of from onto an empty cell to, atomically
func (o *Occupancy) Move(from, to Cell) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	id, exists := o.byCell[from]
	if !exists {
		return fmt.Errorf("%w: %s", ErrCellEmpty, from)
	}
	if from == to {
		return nil
	}
	if holder, taken := o.byCell[to]; taken {
		return fmt.Errorf("%w: %s holds %s", ErrCellOccupied, holder, to)
	}
	delete(o.byCell, from)
	o.byCell[to] = id
	return nil
}

// At returns the unit on a cell
func (o *Occupancy) At(cell Cell) (UnitID, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	id, ok := o.byCell[cell]
	return id, ok
}

// IsOccupied reports whether any unit stands on the cell
func (o *Occupancy) IsOccupied(cell Cell) bool {
	_, ok := o.At(cell)
	return ok
}

// Len returns the number of occupied cells
func (o *Occupancy) Len() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.byCell)
}

// Clear empties the table
func (o *Occupancy) Clear() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.byCell = make(map[Cell]UnitID)
}

// Cells returns the occupied cells in row-major order
func (o *Occupancy) Cells() []Cell {
	o.mu.RLock()
	cells := make([]Cell, 0, len(o.byCell))
	for c := range o.byCell {
		cells = append(cells, c)
	}
	o.mu.RUnlock()

	SortCells(cells)
	return cells
}

// Snapshot copies the table so readers observe one consistent state
func (o *Occupancy) Snapshot() OccupancySnapshot {
	o.mu.RLock()
	defer o.mu.RUnlock()

	snap := make(OccupancySnapshot, len(o.byCell))
	for c, id := range o.byCell {
		snap[c] = id
	}
	return snap
}

// OccupancySnapshot is a read-only copy of an Occupancy
type OccupancySnapshot map[Cell]UnitID

// IsOccupied reports whether the snapshot holds a unit on the cell
func (s OccupancySnapshot) IsOccupied(cell Cell) bool {
	_, ok := s[cell]
	return ok
}

// SortCells orders cells row-major (by Y, then X)
func SortCells(cells []Cell) {
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Y != cells[j].Y {
			return cells[i].Y < cells[j].Y
		}
		return cells[i].X < cells[j].X
	})
}
