package engine

import "sort"

// Roster indexes the units on a board by id
type Roster map[UnitID]*Unit

// Sorted returns the units ordered by id
func (r Roster) Sorted() []*Unit {
	units := make([]*Unit, 0, len(r))
	for _, u := range r {
		units = append(units, u)
	}
	sort.Slice(units, func(i, j int) bool { return units[i].ID < units[j].ID })
	return units
}

// selection is the state owned by one selection episode. It is created on
// Select and dropped on Accept or Cancel.
type selection struct {
	unit      *Unit
	reachable *ReachableSet
	graph     *PathGraph
	preview   []Cell
}

// Controller is the selection state machine. It is Idle until a unit is
// selected, then Selected until the move is accepted or cancelled.
type Controller struct {
	grid      *Grid
	occupancy *Occupancy
	roster    Roster
	listener  Listener
	mode      ReachMode
	active    *selection
}

// NewController wires a controller to its collaborators. A nil listener discards notifications.
func NewController(grid *Grid, occupancy *Occupancy, roster Roster, listener Listener, mode ReachMode) *Controller {
	if listener == nil {
		listener = ListenerFuncs{}
	}
	if mode == "" {
		mode = ReachModeManhattan
	}
	return &Controller{
		grid:      grid,
		occupancy: occupancy,
		roster:    roster,
		listener:  listener,
		mode:      mode,
	}
}

// State returns Idle or Selected
func (c *Controller) State() SelectionState {
	if c.active == nil {
		return StateIdle
	}
	return StateSelected
}

// SelectedUnit returns the unit of the current episode
func (c *Controller) SelectedUnit() (*Unit, bool) {
	if c.active == nil {
		return nil, false
	}
	return c.active.unit, true
}

// Reachable returns the current reachable cells, or nil when Idle
func (c *Controller) Reachable() []Cell {
	if c.active == nil {
		return nil
	}
	return c.active.reachable.Cells()
}

// PreviewPath returns the most recent hover path, or nil when Idle
func (c *Controller) PreviewPath() []Cell {
	if c.active == nil {
		return nil
	}
	return append([]Cell(nil), c.active.preview...)
}

// Select starts a selection episode for the unit on cell.
// It is a no-op while Selected or when the cell is empty.
func (c *Controller) Select(cell Cell) bool {
	if c.active != nil {
		return false
	}
	id, ok := c.occupancy.At(cell)
	if !ok {
		return false
	}
	unit, ok := c.roster[id]
	if !ok {
		return false
	}

	reachable := Reach(c.mode, c.grid, unit.Cell, unit.MoveRange, c.occupancy.Snapshot())
	c.active = &selection{
		unit:      unit,
		reachable: reachable,
		graph:     BuildPathGraph(reachable, c.grid),
		preview:   []Cell{},
	}
	unit.Selected = true

	c.listener.ShowReachable(reachable.Cells())
	return true
}

// Hover previews the path from the selected unit to cell. An empty path
// clears the drawn path. Idle controllers ignore hover.
func (c *Controller) Hover(cell Cell) []Cell {
	if c.active == nil {
		return nil
	}
	c.active.preview = c.active.graph.ShortestPath(c.active.unit.Cell, cell)
	c.listener.ShowPath(c.active.preview)
	return c.PreviewPath()
}

// Accept commits the selected unit's move to cell. It is ignored when cell
// is held by another unit or lies outside the reachable set.
func (c *Controller) Accept(cell Cell) bool {
	sel := c.active
	if sel == nil {
		return false
	}
	if holder, ok := c.occupancy.At(cell); ok && holder != sel.unit.ID {
		return false
	}
	if !sel.reachable.Has(cell) {
		return false
	}

	waypoints := sel.preview
	if len(waypoints) == 0 || waypoints[len(waypoints)-1] != cell {
		waypoints = sel.graph.ShortestPath(sel.unit.Cell, cell)
	}

	if err := c.occupancy.Move(sel.unit.Cell, cell); err != nil {
		return false
	}
	sel.unit.Cell = cell
	sel.unit.Selected = false
	c.active = nil

	c.listener.ClearOverlays()
	c.listener.Walk(sel.unit.ID, waypoints)
	return true
}

// Cancel ends the selection episode without moving
func (c *Controller) Cancel() bool {
	if c.active == nil {
		return false
	}
	c.active.unit.Selected = false
	c.active = nil
	c.listener.ClearOverlays()
	return true
}

// Press dispatches a cursor accept: select when Idle, accept when Selected
func (c *Controller) Press(cell Cell) bool {
	if c.active == nil {
		return c.Select(cell)
	}
	return c.Accept(cell)
}
