package engine

import (
	"fmt"
	"time"
)

// ReachMode selects how the flood fill bounds a unit's movement budget
type ReachMode string

const (
	// ReachModeManhattan bounds cells by straight-line Manhattan distance from the origin
	ReachModeManhattan ReachMode = "manhattan"
	// ReachModeWalk bounds cells by the number of steps actually walked from the origin
	ReachModeWalk ReachMode = "walk"

	// Validation constants
	MinGridSize      = 1
	MaxGridSize      = 64
	MaxMoveRange     = 32
	DefaultMoveSpeed = 600.0
	DefaultCellSize  = 80
	DefaultCooldown  = 100 * time.Millisecond
	MaxHistoryPage   = 100
)

// Cell is an integer lattice coordinate
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns the component-wise sum of two cells
func (c Cell) Add(o Cell) Cell {
	return Cell{X: c.X + o.X, Y: c.Y + o.Y}
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Point is a pixel-space coordinate
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Axis-aligned unit offsets. Neighbor enumeration follows this order.
var (
	Left  = Cell{X: -1, Y: 0}
	Right = Cell{X: 1, Y: 0}
	Up    = Cell{X: 0, Y: -1}
	Down  = Cell{X: 0, Y: 1}

	Directions = [4]Cell{Left, Right, Up, Down}
)

// DirectionFromString maps "up", "down", "left" and "right" to an offset
func DirectionFromString(direction string) (Cell, bool) {
	switch direction {
	case "up":
		return Up, true
	case "down":
		return Down, true
	case "left":
		return Left, true
	case "right":
		return Right, true
	}
	return Cell{}, false
}

// UnitID identifies a unit on the board
type UnitID string

// Unit is a board piece with a position and a movement budget
type Unit struct {
	ID        UnitID  `json:"id"`
	Name      string  `json:"name"`
	Cell      Cell    `json:"cell"`
	MoveRange int     `json:"move_range"`
	MoveSpeed float64 `json:"move_speed"`
	Selected  bool    `json:"selected"`
}

// SelectionState is the controller's state
type SelectionState string

const (
	StateIdle     SelectionState = "idle"
	StateSelected SelectionState = "selected"
)

// EventType names an outbound notification for rendering and animation collaborators
type EventType string

const (
	EventShowReachable EventType = "show_reachable"
	EventShowPath      EventType = "show_path"
	EventClearOverlays EventType = "clear_overlays"
	EventWalk          EventType = "walk"
)

// Event is a recorded outbound notification
type Event struct {
	Type      EventType `json:"type"`
	Unit      UnitID    `json:"unit,omitempty"`
	Cells     []Cell    `json:"cells,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// MoveRecord is a committed unit move
type MoveRecord struct {
	ID         string `json:"id"`
	Unit       UnitID `json:"unit"`
	From       Cell   `json:"from"`
	To         Cell   `json:"to"`
	Path       []Cell `json:"path"`
	Steps      int    `json:"steps"`
	Timestamp  int64  `json:"timestamp"`
	MoveNumber int    `json:"move_number"`
}

// BoardState is a serializable snapshot of a board
type BoardState struct {
	ConfigName    string         `json:"config_name"`
	Width         int            `json:"width"`
	Height        int            `json:"height"`
	CellWidth     int            `json:"cell_width"`
	CellHeight    int            `json:"cell_height"`
	ReachMode     ReachMode      `json:"reach_mode"`
	Units         []Unit         `json:"units"`
	State         SelectionState `json:"state"`
	SelectedUnit  UnitID         `json:"selected_unit,omitempty"`
	Reachable     []Cell         `json:"reachable,omitempty"`
	PreviewPath   []Cell         `json:"preview_path,omitempty"`
	Cursor        Cell           `json:"cursor"`
	Message       string         `json:"message"`
	MoveHistory   []MoveRecord   `json:"move_history"`
	TotalMoves    int            `json:"total_moves"`
	CurrentMoves  []MoveRecord   `json:"current_moves"`
	CurrentCount  int            `json:"current_moves_count"`
	RenderedBoard []string       `json:"rendered_board,omitempty"`
}
