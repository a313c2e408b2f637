// Package session keeps the live tactics boards a server is hosting.
//
// Each Session owns its own engine.GameEngine plus the BoardConfig it was
// built from. The Manager stores sessions in memory keyed by a
// case-insensitive id and, when constructed with a SessionPersistence,
// writes every change through to storage and reloads sessions lazily on Get.
//
// Session Identifiers:
//
// Generated ids are 4 hex characters. Caller-supplied ids may use letters,
// digits, '-' and '_' up to 64 characters; anything else is rejected with
// ErrInvalidSessionID so ids are always safe as file names and storage keys.
//
// Persistence:
//
// Two backends are provided. FilePersistence writes one JSON document per
// session into a directory. GdataPersistence stores the same document as a
// property of a gdata application store. Both persist unit positions, the
// cursor and move history; a reloaded board always starts with no unit
// selected.
//
// Usage:
//
//	persistence, err := session.NewFilePersistence("./sessions", configManager)
//	if err != nil {
//		log.Fatal(err)
//	}
//	manager := session.NewManagerWithPersistence(persistence)
//	_ = manager.LoadPersistedSessions()
//
//	sess, err := manager.Create("", boardConfig)
//	sess.Engine.Select(engine.Cell{X: 1, Y: 1})
//	_ = manager.Save(sess.ID)
package session
