// Package engine provides the movement rules of the tactics board.
//
// The engine package implements:
//   - Grid geometry: cell and pixel conversion, bounds, row-major indexing
//   - Occupancy: which unit stands on which cell
//   - Reachability: the flood fill bounded by a unit's movement budget
//   - Path graphs: shortest paths inside one reachable set
//   - Selection: the select, hover, accept and cancel state machine
//   - Board configuration loading and validation
//
// Core Types:
//
// The Engine interface defines the main contract for board operations,
// implemented by GameEngine. The Controller owns one selection episode at a
// time and reports what to draw through a Listener. BoardConfig describes the
// lattice and starting units and is loaded from JSON or YAML files.
//
// Usage:
//
//	config, err := engine.LoadBoardConfig("configs/skirmish.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	board, err := engine.NewEngine(config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	board.Select(engine.Cell{X: 1, Y: 1})
//	board.Hover(engine.Cell{X: 3, Y: 1})
//	board.Accept(engine.Cell{X: 3, Y: 1})
//	events := board.DrainEvents()
//
// Movement Rules:
//
// A unit may end its move on any cell within its movement range, measured as
// Manhattan distance from its origin, that the fill reaches without passing
// through another unit. Boards configured with reach_mode "walk" count the
// steps actually walked instead. Moves follow a shortest path through the
// reachable cells.
package engine
