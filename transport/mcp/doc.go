// Package mcp exposes the tactics board to MCP agents.
//
// Client is a thin proxy: every tool call becomes one REST request against
// the api package and the JSON answer is rendered as text for the agent.
// It holds no board state of its own.
//
// Tools:
//   - create_session, list_sessions, get_session: session management
//   - board_state: board snapshot with units, overlays and a text grid
//   - select_unit, hover_cell, accept_move, press_cell, cancel_selection:
//     the selection flow
//   - move_cursor: step the board cursor
//   - reachable_cells, describe_cell, move_history: read-only queries
//   - reset_board: restore starting positions
//   - list_configs, game_instructions: discovery
//
// REST errors are returned as tool errors (IsError set) rather than Go
// errors, so agents see the server's message.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
