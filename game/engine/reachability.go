package engine

import (
	"github.com/zyedidia/generic/mapset"
)

// ReachableSet is the set of cells one unit can reach at one instant.
// It goes stale as soon as the occupancy changes and is never patched.
type ReachableSet struct {
	origin Cell
	cells  mapset.Set[Cell]
}

func newReachableSet(origin Cell) *ReachableSet {
	return &ReachableSet{origin: origin, cells: mapset.New[Cell]()}
}

// Origin returns the cell the fill started from
func (r *ReachableSet) Origin() Cell {
	return r.origin
}

// Has reports membership
func (r *ReachableSet) Has(cell Cell) bool {
	return r.cells.Has(cell)
}

// Len returns the number of reachable cells
func (r *ReachableSet) Len() int {
	return r.cells.Size()
}

// Cells returns the members in row-major order
func (r *ReachableSet) Cells() []Cell {
	out := make([]Cell, 0, r.cells.Size())
	r.cells.Each(func(c Cell) {
		out = append(out, c)
	})
	SortCells(out)
	return out
}

// ReachableCells returns the cells a unit at origin with the given movement
// budget can reach. The budget bounds the Manhattan distance from origin;
// cells held by other units block traversal. origin itself is always
// included and is exempt from the occupancy check.
func ReachableCells(grid *Grid, origin Cell, moveRange int, occupied Blocker) *ReachableSet {
	result := newReachableSet(origin)
	if !grid.IsWithinBounds(origin) {
		return result
	}
	if moveRange < 0 {
		moveRange = 0
	}

	stack := []Cell{origin}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !grid.IsWithinBounds(current) {
			continue
		}
		if result.cells.Has(current) {
			continue
		}
		if ManhattanDistance(origin, current) > moveRange {
			continue
		}

		result.cells.Put(current)

		for _, next := range grid.Neighbors(current) {
			if next != origin && occupied.IsOccupied(next) {
				continue
			}
			if result.cells.Has(next) {
				continue
			}
			stack = append(stack, next)
		}
	}

	return result
}

// WalkableCells is the cumulative-cost variant of ReachableCells: a cell is
// reachable when some unblocked walk of at most moveRange steps leads to it.
func WalkableCells(grid *Grid, origin Cell, moveRange int, occupied Blocker) *ReachableSet {
	result := newReachableSet(origin)
	if !grid.IsWithinBounds(origin) {
		return result
	}
	if moveRange < 0 {
		moveRange = 0
	}

	steps := map[Cell]int{origin: 0}
	queue := []Cell{origin}
	result.cells.Put(origin)

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if steps[current] == moveRange {
			continue
		}
		for _, next := range grid.Neighbors(current) {
			if !grid.IsWithinBounds(next) || result.cells.Has(next) {
				continue
			}
			if occupied.IsOccupied(next) {
				continue
			}
			steps[next] = steps[current] + 1
			result.cells.Put(next)
			queue = append(queue, next)
		}
	}

	return result
}

// Reach dispatches to the fill selected by mode
func Reach(mode ReachMode, grid *Grid, origin Cell, moveRange int, occupied Blocker) *ReachableSet {
	if mode == ReachModeWalk {
		return WalkableCells(grid, origin, moveRange, occupied)
	}
	return ReachableCells(grid, origin, moveRange, occupied)
}
