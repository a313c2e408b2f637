// Package service is the business layer between the transports (HTTP,
// WebSocket, MCP) and the board engine.
//
// GameService exposes session management, the selection operations
// (select, hover, accept, press, cancel), cursor input, read-only queries
// (board state, reachable preview, cell description, move history) and
// board configuration access. SessionManager and ConfigManager are the
// storage seams; game/session and game/config provide the real ones.
//
// Every engine call runs under the service mutex, so each board has a
// single writer. Mutating operations return an ActionResult carrying the
// resulting BoardState and the outbound events the engine emitted
// (show_reachable, show_path, clear_overlays, walk), which the API
// forwards to WebSocket subscribers.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	info, err := gameService.CreateSession(ctx, "skirmish")
//	if err != nil {
//		log.Fatal(err)
//	}
//	_, _ = gameService.Select(ctx, info.ID, engine.Cell{X: 1, Y: 1})
//	result, _ := gameService.Accept(ctx, info.ID, engine.Cell{X: 3, Y: 2})
//	fmt.Println(result.Move.Path)
package service
