package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Engine provides the main interface for board operations
type Engine interface {
	// Board state management
	GetState() *BoardState
	SetState(state *BoardState) error
	Reset() *BoardState

	// Selection operations
	Select(cell Cell) bool
	Hover(cell Cell) []Cell
	Accept(cell Cell) bool
	Cancel() bool
	Press(cell Cell) bool

	// Cursor
	MoveCursor(direction string, echo bool) bool
	PointCursor(p Point) bool

	// Queries
	ReachableFor(id UnitID) ([]Cell, error)
	PathFor(id UnitID, target Cell) ([]Cell, error)
	Unit(id UnitID) (Unit, bool)
	Units() []Unit
	Grid() *Grid

	// Configuration
	GetConfig() *BoardConfig

	// History
	GetMoveHistory() []MoveRecord
	GetLastMove() *MoveRecord

	// Outbound events
	DrainEvents() []Event
	SetListener(l Listener)
	AddListener(l Listener)
}

// GameEngine implements the Engine interface. It is not goroutine-safe;
// callers serialise access.
type GameEngine struct {
	config     *BoardConfig
	grid       *Grid
	occupancy  *Occupancy
	roster     Roster
	controller *Controller
	cursor     *Cursor
	events     *eventLog

	message      string
	history      []MoveRecord
	totalMoves   int
	currentMoves []MoveRecord
	now          func() time.Time
}

// NewEngine creates a new engine with the provided board configuration
func NewEngine(config *BoardConfig) (*GameEngine, error) {
	if err := ValidateBoardConfig(config); err != nil {
		return nil, err
	}

	cw, ch := config.CellDimensions()
	grid, err := NewGrid(config.Width, config.Height, cw, ch)
	if err != nil {
		return nil, err
	}

	e := &GameEngine{
		config:       config,
		grid:         grid,
		events:       newEventLog(),
		history:      []MoveRecord{},
		currentMoves: []MoveRecord{},
		now:          time.Now,
	}
	if err := e.placeUnits(); err != nil {
		return nil, err
	}
	e.cursor = NewCursor(grid, e.startCell(), config.CursorCooldown())
	e.message = config.Messages.message(config.Messages.Welcome, "Select a unit to see where it can move.")

	return e, nil
}

// NewEngineWithDefaults creates an engine on DefaultBoardConfig
func NewEngineWithDefaults() *GameEngine {
	e, err := NewEngine(DefaultBoardConfig())
	if err != nil {
		panic(fmt.Sprintf("default board config is invalid: %v", err))
	}
	return e
}

// placeUnits builds a fresh roster and occupancy from the configured start
// positions and restarts the controller in Idle.
func (e *GameEngine) placeUnits() error {
	occupancy := NewOccupancy()
	roster := make(Roster, len(e.config.Units))

	for _, uc := range e.config.Units {
		speed := uc.MoveSpeed
		if speed == 0 {
			speed = DefaultMoveSpeed
		}
		name := uc.Name
		if name == "" {
			name = uc.ID
		}
		unit := &Unit{
			ID:        UnitID(uc.ID),
			Name:      name,
			Cell:      Cell{X: uc.X, Y: uc.Y},
			MoveRange: uc.MoveRange,
			MoveSpeed: speed,
		}
		if err := occupancy.Insert(unit.Cell, unit.ID); err != nil {
			return fmt.Errorf("placing unit %s: %w", unit.ID, err)
		}
		roster[unit.ID] = unit
	}

	e.occupancy = occupancy
	e.roster = roster
	e.controller = NewController(e.grid, occupancy, roster, e.events, e.config.Mode())
	return nil
}

func (e *GameEngine) startCell() Cell {
	if len(e.config.Units) == 0 {
		return Cell{}
	}
	first := e.config.Units[0]
	return Cell{X: first.X, Y: first.Y}
}

// GetState returns a snapshot of the board
func (e *GameEngine) GetState() *BoardState {
	units := e.Units()
	reachable := e.controller.Reachable()
	preview := e.controller.PreviewPath()

	state := &BoardState{
		ConfigName:    e.config.Name,
		Width:         e.grid.Width,
		Height:        e.grid.Height,
		CellWidth:     e.grid.CellWidth,
		CellHeight:    e.grid.CellHeight,
		ReachMode:     e.config.Mode(),
		Units:         units,
		State:         e.controller.State(),
		Reachable:     reachable,
		PreviewPath:   preview,
		Cursor:        e.cursor.Cell(),
		Message:       e.message,
		MoveHistory:   append([]MoveRecord{}, e.history...),
		TotalMoves:    e.totalMoves,
		CurrentMoves:  append([]MoveRecord{}, e.currentMoves...),
		CurrentCount:  len(e.currentMoves),
		RenderedBoard: RenderBoard(e.grid, units, reachable, preview),
	}
	if u, ok := e.controller.SelectedUnit(); ok {
		state.SelectedUnit = u.ID
	}
	return state
}

// SetState restores unit positions, cursor and history from a saved state.
// Any selection in progress is dropped; the controller restarts Idle.
func (e *GameEngine) SetState(state *BoardState) error {
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}

	occupancy := NewOccupancy()
	positions := make(map[UnitID]Cell, len(e.roster))
	for id, u := range e.roster {
		positions[id] = u.Cell
	}
	for _, saved := range state.Units {
		if _, ok := e.roster[saved.ID]; !ok {
			return fmt.Errorf("%w: %s", ErrUnitNotFound, saved.ID)
		}
		if !e.grid.IsWithinBounds(saved.Cell) {
			return fmt.Errorf("%w: unit %s at %s", ErrOutOfBounds, saved.ID, saved.Cell)
		}
		positions[saved.ID] = saved.Cell
	}
	for id, cell := range positions {
		if err := occupancy.Insert(cell, id); err != nil {
			return fmt.Errorf("restoring unit %s: %w", id, err)
		}
	}

	for id, cell := range positions {
		e.roster[id].Cell = cell
		e.roster[id].Selected = false
	}
	e.occupancy = occupancy
	e.controller = NewController(e.grid, occupancy, e.roster, e.events, e.config.Mode())
	e.cursor.SetCell(state.Cursor)

	e.history = append([]MoveRecord{}, state.MoveHistory...)
	e.currentMoves = append([]MoveRecord{}, state.CurrentMoves...)
	e.totalMoves = state.TotalMoves
	if e.totalMoves < len(e.history) {
		e.totalMoves = len(e.history)
	}
	if state.Message != "" {
		e.message = state.Message
	}
	return nil
}

// Reset puts every unit back on its starting cell. Cumulative history and
// totals are kept; only the current segment is cleared.
func (e *GameEngine) Reset() *BoardState {
	e.controller.Cancel()

	// placeUnits cannot fail here: the config was validated at construction
	_ = e.placeUnits()
	e.cursor.SetCell(e.startCell())
	e.currentMoves = []MoveRecord{}
	e.message = e.config.Messages.message(e.config.Messages.Welcome, "Board reset.")

	return e.GetState()
}

// Select starts a selection on the unit standing on cell
func (e *GameEngine) Select(cell Cell) bool {
	if !e.controller.Select(cell) {
		if e.controller.State() == StateIdle {
			e.message = fmt.Sprintf("No unit at %s", cell)
		}
		return false
	}
	u, _ := e.controller.SelectedUnit()
	e.message = e.config.Messages.message(e.config.Messages.Selected,
		fmt.Sprintf("%s selected: %d cells reachable", u.Name, len(e.controller.Reachable())))
	return true
}

// Hover previews the path to cell for the selected unit
func (e *GameEngine) Hover(cell Cell) []Cell {
	if e.controller.State() != StateSelected {
		return nil
	}
	return e.controller.Hover(cell)
}

// Accept commits the selected unit's move to cell and records it in history
func (e *GameEngine) Accept(cell Cell) bool {
	u, ok := e.controller.SelectedUnit()
	if !ok {
		return false
	}
	id, from := u.ID, u.Cell

	if !e.controller.Accept(cell) {
		e.message = e.config.Messages.message(e.config.Messages.CantMove, fmt.Sprintf("Can't move %s to %s", u.Name, cell))
		return false
	}

	waypoints := append([]Cell(nil), e.events.lastWalk...)
	steps := len(waypoints) - 1
	if steps < 0 {
		steps = 0
	}
	e.totalMoves++
	record := MoveRecord{
		ID:         uuid.NewString(),
		Unit:       id,
		From:       from,
		To:         cell,
		Path:       waypoints,
		Steps:      steps,
		Timestamp:  e.now().Unix(),
		MoveNumber: e.totalMoves,
	}
	e.history = append(e.history, record)
	e.currentMoves = append(e.currentMoves, record)
	e.cursor.SetCell(cell)

	e.message = e.config.Messages.message(e.config.Messages.Moved,
		fmt.Sprintf("%s moved %s -> %s in %d steps", u.Name, from, cell, steps))
	return true
}

// Cancel drops the current selection
func (e *GameEngine) Cancel() bool {
	if !e.controller.Cancel() {
		return false
	}
	e.message = e.config.Messages.message(e.config.Messages.Cancelled, "Selection cancelled")
	return true
}

// Press selects when Idle and accepts when Selected
func (e *GameEngine) Press(cell Cell) bool {
	if e.controller.State() == StateIdle {
		return e.Select(cell)
	}
	return e.Accept(cell)
}

// MoveCursor steps the cursor one cell. While a unit is selected the new
// cursor cell is hovered.
func (e *GameEngine) MoveCursor(direction string, echo bool) bool {
	d, ok := DirectionFromString(direction)
	if !ok {
		return false
	}
	if !e.cursor.Step(d, echo) {
		return false
	}
	e.hoverCursor()
	return true
}

// PointCursor moves the cursor to the cell under a pixel position
func (e *GameEngine) PointCursor(p Point) bool {
	if !e.cursor.SetPixel(p) {
		return false
	}
	e.hoverCursor()
	return true
}

func (e *GameEngine) hoverCursor() {
	if e.controller.State() == StateSelected {
		e.controller.Hover(e.cursor.Cell())
	}
}

// CursorCell returns the cell under the cursor
func (e *GameEngine) CursorCell() Cell {
	return e.cursor.Cell()
}

// ReachableFor previews the reachable cells of any unit without selecting it
func (e *GameEngine) ReachableFor(id UnitID) ([]Cell, error) {
	u, ok := e.roster[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnitNotFound, id)
	}
	return Reach(e.config.Mode(), e.grid, u.Cell, u.MoveRange, e.occupancy.Snapshot()).Cells(), nil
}

// PathFor returns the shortest path of a unit to target inside its reachable
// set, or an empty path when target is not reachable.
func (e *GameEngine) PathFor(id UnitID, target Cell) ([]Cell, error) {
	u, ok := e.roster[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnitNotFound, id)
	}
	set := Reach(e.config.Mode(), e.grid, u.Cell, u.MoveRange, e.occupancy.Snapshot())
	return BuildPathGraph(set, e.grid).ShortestPath(u.Cell, target), nil
}

// Unit returns a copy of one unit
func (e *GameEngine) Unit(id UnitID) (Unit, bool) {
	u, ok := e.roster[id]
	if !ok {
		return Unit{}, false
	}
	return *u, true
}

// Units returns copies of all units ordered by id
func (e *GameEngine) Units() []Unit {
	sorted := e.roster.Sorted()
	out := make([]Unit, 0, len(sorted))
	for _, u := range sorted {
		out = append(out, *u)
	}
	return out
}

// Grid returns the board lattice
func (e *GameEngine) Grid() *Grid {
	return e.grid
}

// Occupancy returns the board's occupancy table
func (e *GameEngine) Occupancy() *Occupancy {
	return e.occupancy
}

// GetConfig returns the board configuration
func (e *GameEngine) GetConfig() *BoardConfig {
	return e.config
}

// GetMoveHistory returns the complete move history
func (e *GameEngine) GetMoveHistory() []MoveRecord {
	return e.history
}

// GetLastMove returns the last move made, or nil if no moves
func (e *GameEngine) GetLastMove() *MoveRecord {
	if len(e.history) == 0 {
		return nil
	}
	return &e.history[len(e.history)-1]
}

// DrainEvents returns the notifications emitted since the last drain
func (e *GameEngine) DrainEvents() []Event {
	return e.events.drain()
}

// SetListener forwards future notifications to l only, in addition to
// recording them. A nil l stops forwarding.
func (e *GameEngine) SetListener(l Listener) {
	e.events.forward = nil
	if l != nil {
		e.events.forward = MultiListener{l}
	}
}

// AddListener forwards future notifications to l after the listeners already
// attached
func (e *GameEngine) AddListener(l Listener) {
	if l != nil {
		e.events.forward = append(e.events.forward, l)
	}
}
