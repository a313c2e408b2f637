package service

import (
	"time"

	"github.com/wricardo/mcp-training/tacticsgame/game/engine"
)

// SessionInfo provides information about a board session
type SessionInfo struct {
	ID             string              `json:"id"`
	ConfigName     string              `json:"config_name"`
	CreatedAt      time.Time           `json:"created_at"`
	LastAccessedAt time.Time           `json:"last_accessed_at"`
	BoardState     *engine.BoardState  `json:"board_state"`
	BoardConfig    *engine.BoardConfig `json:"board_config"`
}

// ActionResult is the outcome of one selection or cursor operation.
// Accepted is false when the engine treated the input as a no-op.
type ActionResult struct {
	Action     string             `json:"action"`
	Accepted   bool               `json:"accepted"`
	Cell       *engine.Cell       `json:"cell,omitempty"`
	BoardState *engine.BoardState `json:"board_state"`
	Message    string             `json:"message"`
	Events     []engine.Event     `json:"events"`
	Move       *engine.MoveRecord `json:"move,omitempty"`
}

// ReachableResult previews where a unit can move without selecting it
type ReachableResult struct {
	Unit      engine.UnitID `json:"unit"`
	Origin    engine.Cell   `json:"origin"`
	MoveRange int           `json:"move_range"`
	ReachMode string        `json:"reach_mode"`
	Cells     []engine.Cell `json:"cells"`
	Count     int           `json:"count"`
}

// CellInfo describes one cell of a board
type CellInfo struct {
	Cell      engine.Cell   `json:"cell"`
	InBounds  bool          `json:"in_bounds"`
	Center    engine.Point  `json:"center"`
	Index     int64         `json:"index"`
	Occupant  *engine.Unit  `json:"occupant,omitempty"`
	Reachable bool          `json:"reachable"`
	Distance  int           `json:"distance_from_selected,omitempty"`
	Selected  engine.UnitID `json:"selected_unit,omitempty"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []engine.MoveRecord `json:"moves"`
	TotalMoves  int                 `json:"total_moves"`
	Page        int                 `json:"page"`
	PageSize    int                 `json:"page_size"`
	TotalPages  int                 `json:"total_pages"`
	HasNext     bool                `json:"has_next"`
	HasPrevious bool                `json:"has_previous"`
}

// ConfigInfo provides information about a board configuration
type ConfigInfo struct {
	Filename    string `json:"filename"`
	ConfigID    string `json:"config_id"` // The identifier to use for session creation
	Name        string `json:"name"`      // Display name
	Description string `json:"description"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Units       int    `json:"units"`
	ReachMode   string `json:"reach_mode"`
}
