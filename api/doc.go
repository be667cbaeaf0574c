// Package api provides the HTTP REST API for the Klondike server.
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create a session, body {"seed": 42} optional
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/{id} - Get a session
//   - DELETE /api/sessions/{id} - Delete a session
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Current board
//   - POST /api/sessions/{id}/moves - Submit a move request
//   - POST /api/sessions/{id}/draw - Draw from the stock (recycles an empty stock)
//   - POST /api/sessions/{id}/undo - Undo the last accepted move
//   - POST /api/sessions/{id}/redeal - Deal a new game, body {"seed": 42} optional
//   - GET /api/sessions/{id}/hints - Currently legal moves
//   - GET /api/sessions/{id}/history - Move log (?page=1&limit=20&order=desc)
//
// Other:
//   - GET /health - Liveness check
//   - GET /ws?session={id} - WebSocket board updates
//
// Move requests:
//
//	{"type": "tableau_to_tableau", "from": 6, "card_index": 4, "to": 2}
//	{"type": "waste_to_foundation", "suit": "hearts"}
//
// card_index defaults to the top card of the source pile. A move the rules
// refuse returns 200 with "accepted": false and a "reason" such as
// "illegal_rank" or "face_down"; the board is unchanged.
//
// Error Handling:
//
// Errors are returned as JSON with an HTTP status: 400 for malformed
// requests, 404 for unknown sessions, 500 otherwise.
//
//	{"error": "session not found"}
package api
