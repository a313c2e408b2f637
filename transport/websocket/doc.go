// Package websocket fans board activity out to browser and tool clients.
//
// A Hub keeps subscribers grouped by session id. Clients connect with
// GET /ws?session=<id> and only receive frames for that session. Each frame
// is a JSON Message:
//
//	{"session_id": "ab12", "event": "walk", "data": {...}}
//	{"session_id": "ab12", "event": "state_update", "board_state": {...}}
//
// Engine events (show_reachable, show_path, clear_overlays, walk) are sent in
// the order the engine emitted them, followed by a state_update carrying the
// resulting board. Clients do not send commands over the socket; the
// connection is read only to process pongs and close frames.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//	defer hub.Stop()
//
//	hub.BroadcastEvents(sessionID, result.Events, result.BoardState)
//
// Concurrency:
//
// All subscriber bookkeeping happens on the Run goroutine; the Broadcast
// methods and ClientCount only exchange messages with it. A client whose
// send buffer is full is disconnected rather than blocking the hub.
package websocket
