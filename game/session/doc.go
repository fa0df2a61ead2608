// Package session provides in-memory game session management.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Board generation from a config, roster and seed
//   - Session lifecycle management
//   - Session cleanup and expiration
//
// Core Types:
//
// Manager is the session store. Each service.Session owns its generated
// board, the random source that generated it (reused by the enemy AI so a
// seed replays the whole game), a turn counter and timestamps.
//
// Session Identifiers:
//
// Sessions get random UUIDs unless the caller picks an ID. Lookups are
// case-insensitive.
//
// Concurrency:
//
// The manager guards its map with a read/write mutex. Each session carries
// its own mutex, which the service layer holds for every board read or
// mutation, so at most one caller acts on a board at a time.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create("", service.SessionSpec{
//		ConfigName: "easy",
//		Config:     cfg,
//		Roster:     roster.Default(),
//		Seed:       42,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err = manager.Get(sess.ID)
//
// Cleanup:
//
// CleanupExpiredSessions drops sessions that have not been touched within a
// given age.
package session
