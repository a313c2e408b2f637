package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// UnitConfig places one unit on a board
type UnitConfig struct {
	ID        string  `json:"id" yaml:"id"`
	Name      string  `json:"name" yaml:"name"`
	X         int     `json:"x" yaml:"x"`
	Y         int     `json:"y" yaml:"y"`
	MoveRange int     `json:"move_range" yaml:"move_range"`
	MoveSpeed float64 `json:"move_speed,omitempty" yaml:"move_speed,omitempty"`
}

// BoardMessages are the status lines shown after each operation
type BoardMessages struct {
	Welcome   string `json:"welcome,omitempty" yaml:"welcome,omitempty"`
	Selected  string `json:"selected,omitempty" yaml:"selected,omitempty"`
	Moved     string `json:"moved,omitempty" yaml:"moved,omitempty"`
	Cancelled string `json:"cancelled,omitempty" yaml:"cancelled,omitempty"`
	CantMove  string `json:"cant_move,omitempty" yaml:"cant_move,omitempty"`
}

// BoardConfig describes a board: its lattice, pixel metrics and starting units
type BoardConfig struct {
	Name             string        `json:"name" yaml:"name"`
	Description      string        `json:"description" yaml:"description"`
	Width            int           `json:"width" yaml:"width"`
	Height           int           `json:"height" yaml:"height"`
	CellSize         int           `json:"cell_size,omitempty" yaml:"cell_size,omitempty"`
	CellWidth        int           `json:"cell_width,omitempty" yaml:"cell_width,omitempty"`
	CellHeight       int           `json:"cell_height,omitempty" yaml:"cell_height,omitempty"`
	ReachMode        ReachMode     `json:"reach_mode,omitempty" yaml:"reach_mode,omitempty"`
	CursorCooldownMS *int          `json:"cursor_cooldown_ms,omitempty" yaml:"cursor_cooldown_ms,omitempty"`
	Units            []UnitConfig  `json:"units" yaml:"units"`
	Messages         BoardMessages `json:"messages,omitempty" yaml:"messages,omitempty"`
}

// CellDimensions resolves the pixel size of a cell. cell_width and
// cell_height win over cell_size; unset values fall back to DefaultCellSize.
func (c *BoardConfig) CellDimensions() (int, int) {
	w, h := c.CellWidth, c.CellHeight
	if w == 0 {
		w = c.CellSize
	}
	if h == 0 {
		h = c.CellSize
	}
	if w == 0 {
		w = DefaultCellSize
	}
	if h == 0 {
		h = DefaultCellSize
	}
	return w, h
}

// Mode returns the configured reach mode, manhattan when unset
func (c *BoardConfig) Mode() ReachMode {
	if c.ReachMode == "" {
		return ReachModeManhattan
	}
	return c.ReachMode
}

// CursorCooldown returns the cursor key-repeat window
func (c *BoardConfig) CursorCooldown() time.Duration {
	if c.CursorCooldownMS == nil {
		return DefaultCooldown
	}
	return time.Duration(*c.CursorCooldownMS) * time.Millisecond
}

// message returns the configured text or the fallback when empty
func (m BoardMessages) message(configured, fallback string) string {
	if configured != "" {
		return configured
	}
	return fallback
}

// ValidateBoardConfig checks a board configuration for consistency
func ValidateBoardConfig(config *BoardConfig) error {
	if config == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if config.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidConfig)
	}

	if config.Width < MinGridSize || config.Width > MaxGridSize {
		return fmt.Errorf("%w: width must be between %d and %d, got %d", ErrInvalidConfig, MinGridSize, MaxGridSize, config.Width)
	}
	if config.Height < MinGridSize || config.Height > MaxGridSize {
		return fmt.Errorf("%w: height must be between %d and %d, got %d", ErrInvalidConfig, MinGridSize, MaxGridSize, config.Height)
	}
	if config.CellSize < 0 || config.CellWidth < 0 || config.CellHeight < 0 {
		return fmt.Errorf("%w: cell sizes must be positive", ErrInvalidConfig)
	}

	switch config.ReachMode {
	case "", ReachModeManhattan, ReachModeWalk:
	default:
		return fmt.Errorf("%w: unknown reach_mode %q", ErrInvalidConfig, config.ReachMode)
	}
	if config.CursorCooldownMS != nil && *config.CursorCooldownMS < 0 {
		return fmt.Errorf("%w: cursor_cooldown_ms must not be negative", ErrInvalidConfig)
	}

	ids := make(map[string]bool, len(config.Units))
	cells := make(map[Cell]string, len(config.Units))
	for i, u := range config.Units {
		if u.ID == "" {
			return fmt.Errorf("%w: unit %d has no id", ErrInvalidConfig, i+1)
		}
		if ids[u.ID] {
			return fmt.Errorf("%w: %w: %s", ErrInvalidConfig, ErrDuplicateUnit, u.ID)
		}
		ids[u.ID] = true

		if u.X < 0 || u.X >= config.Width || u.Y < 0 || u.Y >= config.Height {
			return fmt.Errorf("%w: %w: unit %s at (%d,%d)", ErrInvalidConfig, ErrOutOfBounds, u.ID, u.X, u.Y)
		}
		cell := Cell{X: u.X, Y: u.Y}
		if other, taken := cells[cell]; taken {
			return fmt.Errorf("%w: %w: %s and %s share %s", ErrInvalidConfig, ErrCellOccupied, other, u.ID, cell)
		}
		cells[cell] = u.ID

		if u.MoveRange < 0 || u.MoveRange > MaxMoveRange {
			return fmt.Errorf("%w: unit %s move_range must be between 0 and %d, got %d", ErrInvalidConfig, u.ID, MaxMoveRange, u.MoveRange)
		}
		if u.MoveSpeed < 0 {
			return fmt.Errorf("%w: unit %s move_speed must not be negative", ErrInvalidConfig, u.ID)
		}
	}

	return nil
}

// ParseBoardConfig decodes a board config. YAML is used for .yaml and .yml
// names, JSON otherwise.
func ParseBoardConfig(name string, data []byte) (*BoardConfig, error) {
	var config BoardConfig
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse yaml config '%s': %w", name, err)
		}
	default:
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse json config '%s': %w", name, err)
		}
	}
	return &config, nil
}

// LoadBoardConfig loads and validates a board configuration file
func LoadBoardConfig(filename string) (*BoardConfig, error) {
	// CONFIG_DIR replaces a leading "configs/" so tests and deployments can relocate boards
	configPath := filename
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		if strings.HasPrefix(filename, "configs/") {
			configPath = filepath.Join(configDir, strings.TrimPrefix(filename, "configs/"))
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	config, err := ParseBoardConfig(configPath, data)
	if err != nil {
		return nil, err
	}
	if err := ValidateBoardConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

// DefaultBoardConfig is the board used when no configuration is supplied
func DefaultBoardConfig() *BoardConfig {
	return &BoardConfig{
		Name:        "default",
		Description: "Open 20x20 field with two units",
		Width:       20,
		Height:      20,
		CellSize:    DefaultCellSize,
		ReachMode:   ReachModeManhattan,
		Units: []UnitConfig{
			{ID: "player", Name: "Player", X: 5, Y: 5, MoveRange: 4, MoveSpeed: DefaultMoveSpeed},
			{ID: "scout", Name: "Scout", X: 8, Y: 5, MoveRange: 6, MoveSpeed: DefaultMoveSpeed},
		},
		Messages: BoardMessages{
			Welcome: "Select a unit to see where it can move.",
		},
	}
}
