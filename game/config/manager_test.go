package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/wricardo/mcp-training/tacticsgame/game/engine"
)

func createTestConfigDir(t *testing.T) string {
	return t.TempDir()
}

func createValidConfig() *engine.BoardConfig {
	return &engine.BoardConfig{
		Name:        "Test Config",
		Description: "Test configuration",
		Width:       6,
		Height:      5,
		CellSize:    64,
		Units: []engine.UnitConfig{
			{ID: "knight", Name: "Knight", X: 1, Y: 1, MoveRange: 3},
			{ID: "archer", Name: "Archer", X: 4, Y: 3, MoveRange: 2},
		},
	}
}

func writeConfigFile(t *testing.T, dir, name string, config *engine.BoardConfig) {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal config: %v", err)
	}

	filename := name
	if filepath.Ext(filename) == "" {
		filename = name + ".json"
	}

	path := filepath.Join(dir, filename)
	err = os.WriteFile(path, data, 0644)
	if err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
}

const yamlConfig = `name: Ridge
description: Narrow ridge
width: 8
height: 4
cell_width: 48
cell_height: 32
reach_mode: walk
units:
  - {id: scout, name: Scout, x: 0, y: 0, move_range: 5}
`

func TestNewManager(t *testing.T) {
	t.Run("valid directory", func(t *testing.T) {
		dir := createTestConfigDir(t)

		defaultConfig := createValidConfig()
		defaultConfig.Name = "Default"
		writeConfigFile(t, dir, "default", defaultConfig)

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if manager == nil {
			t.Error("Expected manager to be non-nil")
		}
	})

	t.Run("non-existent directory", func(t *testing.T) {
		_, err := NewManager("/non/existent/path")
		if err == nil {
			t.Error("Expected error for non-existent directory")
		}
	})

	t.Run("missing default config", func(t *testing.T) {
		dir := createTestConfigDir(t)

		manager, err := NewManager(dir)
		if err != nil {
			t.Errorf("NewManager should succeed even without config files, got error: %v", err)
		}
		if manager == nil {
			t.Fatal("Expected manager to be created")
		}

		// Falls back to the built-in board
		defaultConfig := manager.GetDefault()
		if defaultConfig == nil {
			t.Fatal("Expected default config to be available")
		}
		if defaultConfig.Name != engine.DefaultBoardConfig().Name {
			t.Errorf("Expected built-in default board, got '%s'", defaultConfig.Name)
		}
	})
}

func TestManager_LoadConfig(t *testing.T) {
	dir := createTestConfigDir(t)

	defaultConfig := createValidConfig()
	defaultConfig.Name = "Default"
	writeConfigFile(t, dir, "default", defaultConfig)

	wideConfig := createValidConfig()
	wideConfig.Name = "Wide"
	wideConfig.Width = 20
	writeConfigFile(t, dir, "wide", wideConfig)

	if err := os.WriteFile(filepath.Join(dir, "ridge.yaml"), []byte(yamlConfig), 0644); err != nil {
		t.Fatalf("Failed to write yaml config: %v", err)
	}

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	t.Run("load existing config", func(t *testing.T) {
		config, err := manager.LoadConfig("wide")
		if err != nil {
			t.Fatalf("Failed to load config: %v", err)
		}
		if config.Name != "Wide" {
			t.Errorf("Expected config name 'Wide', got '%s'", config.Name)
		}
		if config.Width != 20 {
			t.Errorf("Expected width 20, got %d", config.Width)
		}
	})

	t.Run("load with .json extension", func(t *testing.T) {
		config, err := manager.LoadConfig("wide.json")
		if err != nil {
			t.Fatalf("Failed to load config with extension: %v", err)
		}
		if config.Name != "Wide" {
			t.Errorf("Expected config name 'Wide', got '%s'", config.Name)
		}
	})

	t.Run("load yaml config", func(t *testing.T) {
		config, err := manager.LoadConfig("ridge")
		if err != nil {
			t.Fatalf("Failed to load yaml config: %v", err)
		}
		if config.Mode() != engine.ReachModeWalk {
			t.Errorf("Expected walk reach mode, got %s", config.Mode())
		}
		w, h := config.CellDimensions()
		if w != 48 || h != 32 {
			t.Errorf("Expected 48x32 cells, got %dx%d", w, h)
		}
	})

	t.Run("load from cache", func(t *testing.T) {
		config1, _ := manager.LoadConfig("wide")

		config2, err := manager.LoadConfig("wide")
		if err != nil {
			t.Fatalf("Failed to load config from cache: %v", err)
		}

		// Should be the same pointer (cached)
		if config1 != config2 {
			t.Error("Expected config to be loaded from cache")
		}
	})

	t.Run("load non-existent config", func(t *testing.T) {
		_, err := manager.LoadConfig("non-existent")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("Expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("reject path traversal", func(t *testing.T) {
		_, err := manager.LoadConfig("../default")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("Expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("load invalid config", func(t *testing.T) {
		invalidData := []byte(`{"name": "", "width": 3, "height": 3}`)
		err := os.WriteFile(filepath.Join(dir, "invalid.json"), invalidData, 0644)
		if err != nil {
			t.Fatalf("Failed to write invalid config: %v", err)
		}

		_, err = manager.LoadConfig("invalid")
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("load malformed JSON", func(t *testing.T) {
		malformedData := []byte(`{"name": "Malformed", invalid json}`)
		err := os.WriteFile(filepath.Join(dir, "malformed.json"), malformedData, 0644)
		if err != nil {
			t.Fatalf("Failed to write malformed config: %v", err)
		}

		_, err = manager.LoadConfig("malformed")
		if err == nil {
			t.Error("Expected error for malformed JSON")
		}
	})
}

func TestManager_GetDefault(t *testing.T) {
	t.Run("first available config", func(t *testing.T) {
		dir := createTestConfigDir(t)

		defaultConfig := createValidConfig()
		defaultConfig.Name = "Default Config"
		writeConfigFile(t, dir, "default", defaultConfig)

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}

		config := manager.GetDefault()
		if config == nil {
			t.Fatal("Expected default config to be non-nil")
		}
		if config.Name != "Default Config" {
			t.Errorf("Expected default config name 'Default Config', got '%s'", config.Name)
		}
	})

	t.Run("skirmish preferred", func(t *testing.T) {
		dir := createTestConfigDir(t)

		first := createValidConfig()
		first.Name = "Alpha"
		writeConfigFile(t, dir, "alpha", first)

		skirmish := createValidConfig()
		skirmish.Name = "Skirmish"
		writeConfigFile(t, dir, DefaultConfigName, skirmish)

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if got := manager.GetDefault().Name; got != "Skirmish" {
			t.Errorf("Expected 'Skirmish' as default, got '%s'", got)
		}

		if err := manager.SetDefault("alpha"); err != nil {
			t.Fatalf("SetDefault failed: %v", err)
		}
		if got := manager.GetDefault().Name; got != "Alpha" {
			t.Errorf("Expected 'Alpha' after SetDefault, got '%s'", got)
		}
	})
}

func TestManager_ListConfigs(t *testing.T) {
	dir := createTestConfigDir(t)

	configs := []struct {
		filename string
		name     string
	}{
		{"default", "Default"},
		{"duel", "Duel"},
		{"field", "Field"},
		{"siege", "Siege"},
	}

	for _, cfg := range configs {
		config := createValidConfig()
		config.Name = cfg.name
		writeConfigFile(t, dir, cfg.filename, config)
	}
	if err := os.WriteFile(filepath.Join(dir, "ridge.yml"), []byte(yamlConfig), 0644); err != nil {
		t.Fatalf("Failed to write yaml config: %v", err)
	}

	// Non-config and invalid files are ignored
	os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("readme"), 0644)
	os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0644)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	configList, err := manager.ListConfigs()
	if err != nil {
		t.Fatalf("Failed to list configs: %v", err)
	}
	if len(configList) != 5 {
		t.Fatalf("Expected 5 configs, got %d", len(configList))
	}

	wantIDs := []string{"default", "duel", "field", "ridge", "siege"}
	for i, info := range configList {
		if info.ConfigID != wantIDs[i] {
			t.Errorf("Expected config %d to be '%s', got '%s'", i, wantIDs[i], info.ConfigID)
		}
	}

	ridge := configList[3]
	if ridge.Filename != "ridge.yml" || ridge.Width != 8 || ridge.Units != 1 || ridge.ReachMode != "walk" {
		t.Errorf("Unexpected ridge info: %+v", ridge)
	}
}

func TestManager_ReloadConfig(t *testing.T) {
	dir := createTestConfigDir(t)

	config := createValidConfig()
	config.Name = "Changeable"
	writeConfigFile(t, dir, "default", config)
	writeConfigFile(t, dir, "changeable", config)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	loaded, _ := manager.LoadConfig("changeable")
	if loaded.Width != 6 {
		t.Errorf("Expected initial width 6, got %d", loaded.Width)
	}

	config.Width = 12
	writeConfigFile(t, dir, "changeable", config)

	if err := manager.ReloadConfig("changeable"); err != nil {
		t.Fatalf("Failed to reload config: %v", err)
	}

	reloaded, _ := manager.LoadConfig("changeable")
	if reloaded.Width != 12 {
		t.Errorf("Expected reloaded width 12, got %d", reloaded.Width)
	}

	if err := manager.RefreshCache(); err != nil {
		t.Fatalf("RefreshCache failed: %v", err)
	}
	if manager.GetDefault() == nil {
		t.Error("Expected default config after refresh")
	}
}

func TestManager_SaveConfig(t *testing.T) {
	dir := createTestConfigDir(t)
	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	t.Run("json", func(t *testing.T) {
		config := createValidConfig()
		config.Name = "Saved"
		if err := manager.SaveConfig("saved", config); err != nil {
			t.Fatalf("SaveConfig failed: %v", err)
		}
		if _, err := os.Stat(filepath.Join(dir, "saved.json")); err != nil {
			t.Errorf("Expected saved.json on disk: %v", err)
		}
	})

	t.Run("yaml", func(t *testing.T) {
		config := createValidConfig()
		config.Name = "Saved Yaml"
		config.ReachMode = engine.ReachModeWalk
		if err := manager.SaveConfig("savedyaml.yaml", config); err != nil {
			t.Fatalf("SaveConfig failed: %v", err)
		}

		if err := manager.ReloadConfig("savedyaml"); err != nil {
			t.Fatalf("Reload of yaml config failed: %v", err)
		}
		loaded, err := manager.LoadConfig("savedyaml")
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if loaded.Name != "Saved Yaml" || loaded.Mode() != engine.ReachModeWalk || len(loaded.Units) != 2 {
			t.Errorf("Round trip through yaml lost data: %+v", loaded)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		config := createValidConfig()
		config.Units[1].X, config.Units[1].Y = 1, 1
		err := manager.SaveConfig("overlap", config)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestManager_ValidateConfig(t *testing.T) {
	dir := createTestConfigDir(t)
	writeConfigFile(t, dir, "default", createValidConfig())

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	t.Run("valid config", func(t *testing.T) {
		if err := manager.ValidateConfig(createValidConfig()); err != nil {
			t.Errorf("Expected valid config to pass validation: %v", err)
		}
	})

	t.Run("invalid config - missing name", func(t *testing.T) {
		config := createValidConfig()
		config.Name = ""
		if err := manager.ValidateConfig(config); err == nil {
			t.Error("Expected error for config missing name")
		}
	})

	t.Run("invalid config - invalid grid size", func(t *testing.T) {
		config := createValidConfig()
		config.Width = engine.MaxGridSize + 1
		if err := manager.ValidateConfig(config); err == nil {
			t.Error("Expected error for invalid grid size")
		}
	})

	t.Run("invalid config - unit off the board", func(t *testing.T) {
		config := createValidConfig()
		config.Units[0].Y = 9
		if err := manager.ValidateConfig(config); err == nil {
			t.Error("Expected error for unit out of bounds")
		}
	})
}

func TestManager_ConcurrentAccess(t *testing.T) {
	dir := createTestConfigDir(t)
	writeConfigFile(t, dir, "default", createValidConfig())

	for i := 1; i <= 5; i++ {
		config := createValidConfig()
		config.Name = fmt.Sprintf("Config%d", i)
		writeConfigFile(t, dir, fmt.Sprintf("config%d", i), config)
	}

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 50)

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			_, err := manager.LoadConfig(fmt.Sprintf("config%d", (id%5)+1))
			if err != nil {
				errs <- err
			}
		}(i)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Unexpected error during concurrent access: %v", err)
	}

	if manager.Count() < 5 {
		t.Errorf("Expected at least 5 configs in cache, got %d", manager.Count())
	}
}

func TestManager_CachingBehavior(t *testing.T) {
	dir := createTestConfigDir(t)
	writeConfigFile(t, dir, "default", createValidConfig())

	testConfig := createValidConfig()
	testConfig.Name = "Test"
	writeConfigFile(t, dir, "test", testConfig)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	for i := 0; i < 10; i++ {
		config, err := manager.LoadConfig("test")
		if err != nil {
			t.Fatalf("Failed to load config on iteration %d: %v", i, err)
		}
		if config.Name != "Test" {
			t.Errorf("Unexpected config name on iteration %d", i)
		}
	}

	// Both "default" and "test" are cached
	if manager.Count() != 2 {
		t.Errorf("Expected 2 configs in cache, got %d", manager.Count())
	}
}

// Test-only helpers

func (m *Manager) ReloadConfig(name string) error {
	m.mu.Lock()
	// Remove from cache to force reload
	delete(m.configs, configID(name))
	m.mu.Unlock()

	_, err := m.LoadConfig(name)
	return err
}

func (m *Manager) ValidateConfig(config *engine.BoardConfig) error {
	return engine.ValidateBoardConfig(config)
}

func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.configs)
}
