// Package api provides the HTTP REST API for tactics board sessions.
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create a session ({"config_id": "duel"})
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/unified - Several boards in one payload (?sessionIds=a,b or ?configName=duel)
//   - GET /api/sessions/{id} - Get a session
//   - DELETE /api/sessions/{id} - Delete a session
//
// Board Operations:
//   - GET /api/sessions/{id}/state - Current board snapshot
//   - POST /api/sessions/{id}/select - Select the unit on {"x","y"}
//   - POST /api/sessions/{id}/hover - Preview the path to {"x","y"}
//   - POST /api/sessions/{id}/accept - Move the selected unit to {"x","y"}
//   - POST /api/sessions/{id}/press - Select when idle, accept when selected
//   - POST /api/sessions/{id}/cancel - Drop the selection
//   - POST /api/sessions/{id}/cursor - {"direction": "left", "echo": false} or {"pixel": {"x":100,"y":40}}
//   - POST /api/sessions/{id}/reset - Put every unit back on its starting cell
//
// Queries:
//   - GET /api/sessions/{id}/reachable?unit=knight - Reachable cells of a unit
//   - GET /api/sessions/{id}/cells/{x}/{y} - Describe one cell
//   - GET /api/sessions/{id}/history - Move history (?page=1&limit=20&order=desc)
//
// Configuration:
//   - GET /api/configs - List board configurations
//   - GET /api/configs/{name} - Get one configuration
//   - POST /api/configs - Store a configuration (JSON, or YAML with a yaml Content-Type)
//
// Other:
//   - GET /ws?session={id} - WebSocket stream of board events
//   - GET /healthz - Liveness probe
//
// Every mutating board call answers with an ActionResult holding the
// resulting board, the engine events in emission order and, for accepted
// moves, the recorded move. The same events are forwarded to WebSocket
// subscribers of the session.
//
// Errors are returned as JSON:
//
//	{"error": "session not found: session not found"}
//
// Unknown sessions, configs and units map to 404; bad directions, missing
// selections, malformed ids and invalid configs map to 400.
package api
