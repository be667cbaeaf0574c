package service

import (
	"context"
	"errors"
	"time"

	"github.com/wricardo/klondike/game/engine"
)

var (
	// ErrSessionNotFound is shared with the session package so errors.Is
	// works on either side.
	ErrSessionNotFound = errors.New("session not found")

	// ErrInvalidRequest marks a malformed move request, as opposed to a
	// well-formed move the rules refuse.
	ErrInvalidRequest = errors.New("invalid move request")
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, seed *int64) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	Move(ctx context.Context, sessionID string, req MoveRequest) (*MoveResult, error)
	Undo(ctx context.Context, sessionID string) (*MoveResult, error)
	Redeal(ctx context.Context, sessionID string, seed *int64) (*MoveResult, error)

	// Game State
	GetBoard(ctx context.Context, sessionID string) (*BoardView, error)
	Hints(ctx context.Context, sessionID string) (*HintsResponse, error)
	GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, seed int64) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// SeedSource supplies seeds for games created without an explicit one.
type SeedSource func() (int64, error)

// FixedSeed returns a SeedSource that always deals the same game.
func FixedSeed(seed int64) SeedSource {
	return func() (int64, error) { return seed, nil }
}

// Session represents an active game session
type Session struct {
	ID             string
	Engine         *engine.GameEngine
	GameID         string
	CreatedAt      time.Time
	LastAccessedAt time.Time

	// SeedShared is set when the client chose the seed of the current deal.
	// A server-chosen seed would let a client rebuild the face-down cards.
	SeedShared bool

	// Log records every submitted move for the current deal.
	Log []MoveRecord
}
