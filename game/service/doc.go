// Package service provides the business logic layer for the Klondike server.
//
// The service package implements:
//   - Multi-session game management
//   - Conversion of wire move requests into validated engine moves
//   - Client board views that conceal face-down cards
//   - Per-session move logs with paginated history
//   - Legal-move hints
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game engine. A single service-wide mutex serializes every engine call,
// so concurrent requests against one session are applied one at a time and
// never observe a half-applied move. Every operation runs inside an
// OpenTelemetry span; spans are dropped unless a tracer provider is installed.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	gameService := service.NewGameService(sessionMgr, nil)
//
//	info, err := gameService.CreateSession(ctx, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	from, to := 6, 2
//	result, err := gameService.Move(ctx, info.ID, service.MoveRequest{
//		Type: service.MoveTypeTableauToTableau,
//		From: &from,
//		To:   &to,
//	})
//	if err == nil && !result.Accepted {
//		log.Printf("rejected: %s", result.Reason)
//	}
//
// Rejections:
//
// A malformed request (unknown type, missing operand, pile out of range) is an
// error wrapping ErrInvalidRequest. A well-formed move the rules refuse is not
// an error: the result has Accepted false and Reason set to the engine's
// rejection code, and the board is unchanged.
package service
