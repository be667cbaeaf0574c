// Package websocket pushes Klondike board updates to browser clients.
//
// A central Hub owns every connection. Clients subscribe to one session via
// the ?session= query parameter and receive a JSON Message each time that
// session's board changes:
//
//	{"session_id": "ab12", "event": "state_update", "board": {...}}
//
// Game events (reveal, recycle, victory, redeal) are sent the same way with
// the event name set and the event itself in data. Incoming frames are read
// only to keep the connection alive; moves are made through the REST API.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//
//	hub.ServeWS(w, r, sessionID, board)
//	hub.BroadcastToSession(sessionID, board)
//
// Concurrency:
//
// Only the Run goroutine touches the subscription table. Register,
// unregister and broadcast requests are handed to it over channels, and a
// client whose send buffer fills up is dropped.
package websocket
