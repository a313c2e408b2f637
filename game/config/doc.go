// Package config provides board configuration management for the tactics game.
//
// The config package handles:
//   - Loading board configurations from JSON and YAML files
//   - Configuration validation through the engine rules
//   - Default configuration management
//   - Configuration discovery and listing
//
// Configuration Format:
//
// Boards are stored in the configs directory as name.json, name.yaml or
// name.yml. The file name without extension is the config id used to create
// sessions. Each configuration defines the lattice size, the pixel size of a
// cell, the reach mode and the starting units with their movement ranges.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	board, err := manager.LoadConfig("skirmish")
//	configs, err := manager.ListConfigs()
//
// The default board is "skirmish" when present, otherwise the first valid
// config in the directory, otherwise engine.DefaultBoardConfig.
package config
