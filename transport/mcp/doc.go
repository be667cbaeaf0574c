// Package mcp exposes the Klondike REST API as Model Context Protocol tools.
//
// Client is a thin proxy: every tool call becomes one HTTP request against
// the API server, and the JSON response is rendered as plain text an AI
// assistant can read. The same Client serves both the /mcp endpoint mounted
// by the server and the stdio transport of the stdio-mcp command.
//
// Tools:
//   - create_session, list_sessions
//   - game_state, hints, move_history, game_instructions
//   - draw, move, undo, redeal
//
// Board rendering:
//
//	Seed: 42 | Moves: 3 | Undo available: yes
//
//	Stock: 21 card(s)
//	Waste: (2 more) [QH]
//
//	Foundations:
//	  hearts   AH  (1/13)
//	  diamonds --  (0/13)
//	  ...
//
//	Tableau:
//	  0: KS
//	  1: ?? 9D
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
