package service

import (
	"context"
	"time"

	"github.com/wricardo/mcp-training/tacticsgame/game/engine"
)

// GameService defines all board-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Selection
	Select(ctx context.Context, sessionID string, cell engine.Cell) (*ActionResult, error)
	Hover(ctx context.Context, sessionID string, cell engine.Cell) (*ActionResult, error)
	Accept(ctx context.Context, sessionID string, cell engine.Cell) (*ActionResult, error)
	Press(ctx context.Context, sessionID string, cell engine.Cell) (*ActionResult, error)
	Cancel(ctx context.Context, sessionID string) (*ActionResult, error)

	// Cursor
	MoveCursor(ctx context.Context, sessionID, direction string, echo bool) (*ActionResult, error)
	PointCursor(ctx context.Context, sessionID string, p engine.Point) (*ActionResult, error)

	// Board State
	Reset(ctx context.Context, sessionID string) (*ActionResult, error)
	GetBoardState(ctx context.Context, sessionID string) (*engine.BoardState, error)
	GetReachable(ctx context.Context, sessionID string, unitID engine.UnitID) (*ReachableResult, error)
	DescribeCell(ctx context.Context, sessionID string, cell engine.Cell) (*CellInfo, error)
	GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.BoardConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.BoardConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, config *engine.BoardConfig) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id string, config *engine.BoardConfig) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Save(id string) error
}

// ConfigManager handles board configuration loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.BoardConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.BoardConfig
	SaveConfig(name string, config *engine.BoardConfig) error
}

// Session represents an active board session
type Session struct {
	ID             string
	Engine         *engine.GameEngine
	Config         *engine.BoardConfig
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
