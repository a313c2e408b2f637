package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/wricardo/mcp-training/tacticsgame/game/engine"
)

var (
	ErrInvalidDirection = errors.New("invalid direction")
	ErrNoUnitSelected   = errors.New("no unit selected")
)

// gameServiceImpl implements the GameService interface. Every engine call
// happens under mu, so a session's board has a single writer. Anything that
// calls UpdateLastAccessed holds the write lock, because readers of
// LastAccessedAt only hold the read lock.
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	mu       sync.RWMutex
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

func (s *gameServiceImpl) sessionInfo(sess *Session, configID string) *SessionInfo {
	if configID == "" {
		configID = s.getConfigID(sess.Config.Name)
	}
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     configID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		BoardState:     sess.Engine.GetState(),
		BoardConfig:    sess.Config,
	}
}

// CreateSession creates a new board session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.BoardConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			if strings.Contains(err.Error(), "configuration not found") {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("config '%s' not found. Available configs: %v: %w", configName, configIDs, err)
				}
				return nil, fmt.Errorf("config '%s' not found. Use /api/configs to list available configurations: %w", configName, err)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	session, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return s.sessionInfo(session, configName), nil
}

// GetSession retrieves session information. Touching the access time writes
// the session, so it takes the write lock like the board actions.
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return s.sessionInfo(session, ""), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess, ""))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sessionID)
}

// act runs one mutating engine operation and packages its outcome. The
// session is persisted after every operation, accepted or not, so the
// cursor and message survive a restart.
func (s *gameServiceImpl) act(sessionID, action string, cell *engine.Cell, op func(*engine.GameEngine) bool) (*ActionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	movesBefore := len(sess.Engine.GetMoveHistory())
	accepted := op(sess.Engine)
	state := sess.Engine.GetState()

	result := &ActionResult{
		Action:     action,
		Accepted:   accepted,
		Cell:       cell,
		BoardState: state,
		Message:    state.Message,
		Events:     sess.Engine.DrainEvents(),
	}
	if len(sess.Engine.GetMoveHistory()) > movesBefore {
		last := *sess.Engine.GetLastMove()
		result.Move = &last
	}

	if err := s.sessions.Save(sessionID); err != nil {
		log.Printf("Warning: Failed to persist session %s after %s: %v", sessionID, action, err)
	}
	return result, nil
}

// Select starts a selection on the unit at cell
func (s *gameServiceImpl) Select(ctx context.Context, sessionID string, cell engine.Cell) (*ActionResult, error) {
	return s.act(sessionID, "select", &cell, func(e *engine.GameEngine) bool {
		return e.Select(cell)
	})
}

// Hover previews the path to cell for the selected unit
func (s *gameServiceImpl) Hover(ctx context.Context, sessionID string, cell engine.Cell) (*ActionResult, error) {
	return s.act(sessionID, "hover", &cell, func(e *engine.GameEngine) bool {
		return len(e.Hover(cell)) > 0
	})
}

// Accept commits the selected unit's move to cell
func (s *gameServiceImpl) Accept(ctx context.Context, sessionID string, cell engine.Cell) (*ActionResult, error) {
	return s.act(sessionID, "accept", &cell, func(e *engine.GameEngine) bool {
		return e.Accept(cell)
	})
}

// Press selects when idle and accepts when a unit is selected
func (s *gameServiceImpl) Press(ctx context.Context, sessionID string, cell engine.Cell) (*ActionResult, error) {
	return s.act(sessionID, "press", &cell, func(e *engine.GameEngine) bool {
		return e.Press(cell)
	})
}

// Cancel drops the current selection
func (s *gameServiceImpl) Cancel(ctx context.Context, sessionID string) (*ActionResult, error) {
	return s.act(sessionID, "cancel", nil, func(e *engine.GameEngine) bool {
		return e.Cancel()
	})
}

// MoveCursor steps the cursor one cell in direction
func (s *gameServiceImpl) MoveCursor(ctx context.Context, sessionID, direction string, echo bool) (*ActionResult, error) {
	direction = strings.ToLower(strings.TrimSpace(direction))
	if _, ok := engine.DirectionFromString(direction); !ok {
		return nil, fmt.Errorf("%w: %q (use up, down, left or right)", ErrInvalidDirection, direction)
	}

	result, err := s.act(sessionID, "cursor", nil, func(e *engine.GameEngine) bool {
		return e.MoveCursor(direction, echo)
	})
	if err != nil {
		return nil, err
	}
	cursor := result.BoardState.Cursor
	result.Cell = &cursor
	return result, nil
}

// PointCursor moves the cursor to the cell under a pixel position
func (s *gameServiceImpl) PointCursor(ctx context.Context, sessionID string, p engine.Point) (*ActionResult, error) {
	result, err := s.act(sessionID, "cursor", nil, func(e *engine.GameEngine) bool {
		return e.PointCursor(p)
	})
	if err != nil {
		return nil, err
	}
	cursor := result.BoardState.Cursor
	result.Cell = &cursor
	return result, nil
}

// Reset puts every unit back on its starting cell
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*ActionResult, error) {
	return s.act(sessionID, "reset", nil, func(e *engine.GameEngine) bool {
		e.Reset()
		return true
	})
}

// GetBoardState returns the current board snapshot
func (s *gameServiceImpl) GetBoardState(ctx context.Context, sessionID string) (*engine.BoardState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return sess.Engine.GetState(), nil
}

// GetReachable previews a unit's reachable cells without selecting it. An
// empty unitID means the currently selected unit.
func (s *gameServiceImpl) GetReachable(ctx context.Context, sessionID string, unitID engine.UnitID) (*ReachableResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	if unitID == "" {
		state := sess.Engine.GetState()
		if state.SelectedUnit == "" {
			return nil, fmt.Errorf("%w: pass a unit id", ErrNoUnitSelected)
		}
		unitID = state.SelectedUnit
	}

	cells, err := sess.Engine.ReachableFor(unitID)
	if err != nil {
		return nil, err
	}
	unit, _ := sess.Engine.Unit(unitID)

	return &ReachableResult{
		Unit:      unit.ID,
		Origin:    unit.Cell,
		MoveRange: unit.MoveRange,
		ReachMode: string(sess.Config.Mode()),
		Cells:     cells,
		Count:     len(cells),
	}, nil
}

// DescribeCell reports what is on a cell and how it relates to the current selection
func (s *gameServiceImpl) DescribeCell(ctx context.Context, sessionID string, cell engine.Cell) (*CellInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	grid := sess.Engine.Grid()
	info := &CellInfo{
		Cell:     cell,
		InBounds: grid.IsWithinBounds(cell),
		Center:   grid.MapPosition(cell),
		Index:    -1,
	}
	if !info.InBounds {
		return info, nil
	}
	info.Index = grid.CellIndex(cell)

	if id, ok := sess.Engine.Occupancy().At(cell); ok {
		if unit, ok := sess.Engine.Unit(id); ok {
			info.Occupant = &unit
		}
	}

	state := sess.Engine.GetState()
	if state.SelectedUnit != "" {
		info.Selected = state.SelectedUnit
		for _, c := range state.Reachable {
			if c == cell {
				info.Reachable = true
				break
			}
		}
		if unit, ok := sess.Engine.Unit(state.SelectedUnit); ok {
			info.Distance = engine.ManhattanDistance(unit.Cell, cell)
		}
	}
	return info, nil
}

// GetMoveHistory returns a page of committed moves
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	history := sess.Engine.GetMoveHistory()
	total := len(history)

	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > engine.MaxHistoryPage {
		opts.Limit = engine.MaxHistoryPage
	}
	if opts.Order != "asc" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	moves := []engine.MoveRecord{}
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			moves = append(moves, history[i])
		}
	} else if start < total {
		moves = append(moves, history[start:end]...)
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListConfigs returns available board configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific board configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.BoardConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig validates and saves a board configuration
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.BoardConfig) error {
	if err := engine.ValidateBoardConfig(config); err != nil {
		return err
	}
	return s.configs.SaveConfig(configName, config)
}
