// Package session provides in-memory session management for Klondike games.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Session expiry by last access time
//
// Core Types:
//
// Manager stores service.Session values keyed by lower-cased ID. Each session
// owns its own engine.GameEngine dealt from the seed given at creation, plus a
// uuid game ID for the current deal.
//
// Session Identifiers:
//
// Generated IDs are 4 hex characters read from crypto/rand. Lookups are
// case-insensitive, so "AB12" and "ab12" name the same session.
//
// Concurrency:
//
// A sync.RWMutex guards the session map. It does not guard the engines
// themselves; the service layer serializes every engine access.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create("", seed)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err = manager.Get(sess.ID)
//
//	removed := manager.CleanupExpiredSessions(4 * time.Hour)
//
// Sessions live only in memory and are lost on restart.
package session
